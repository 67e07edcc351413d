package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet     = "Attendance"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, identity auth.Identity, req report.ExportRequest) (report.ExportFile, error) {
	if err := requireAdmin(identity); err != nil {
		return report.ExportFile{}, err
	}
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	records, err := s.ListForExport(ctx)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to list attendance for export: %w", err)
	}

	rows := make([]report.ExportRow, 0, len(records))
	for _, a := range records {
		rows = append(rows, report.NewExportRow(a, s.location))
	}

	format := report.ExportFormat(req.Format)
	file := report.ExportFile{
		Filename: fmt.Sprintf("attendance-export-%s.%s", s.clock().Format("2006-01-02"), format),
	}

	switch format {
	case report.ExportXLSX:
		file.ContentType = contentTypeXLSX
		file.Data, err = writeXLSX(rows)
	default:
		file.ContentType = contentTypeCSV
		file.Data, err = writeCSV(rows)
	}
	if err != nil {
		slog.Error("failed to render attendance export", "format", format, "error", err)
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return file, nil
}

func writeCSV(rows []report.ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(report.ExportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row.Record()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXLSX(rows []report.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, len(report.ExportHeader))
	for i, h := range report.ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, row := range rows {
		record := row.Record()
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := f.SetSheetRow(exportSheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "C", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "I", "I", 48); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
