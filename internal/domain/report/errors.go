package report

import "errors"

var (
	ErrInvalidExportFormat    = errors.New("format must be one of: csv, xlsx")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
