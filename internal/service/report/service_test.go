package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var wib = time.FixedZone("WIB", 7*60*60)

// Wednesday
var fixedNow = time.Date(2025, 3, 12, 10, 0, 0, 0, wib)

type memoryReportRepo struct {
	records     []attendance.Attendance
	rankings    []report.RankingInput
	workMinutes map[string][2]int64
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func (r *memoryReportRepo) CountCheckIns(ctx context.Context, from, to time.Time, late *bool) (int64, error) {
	var n int64
	for _, a := range r.records {
		if inRange(a.CheckIn, from, to) && (late == nil || a.IsLate == *late) {
			n++
		}
	}
	return n, nil
}

func (r *memoryReportRepo) ListRankingInputs(ctx context.Context) ([]report.RankingInput, error) {
	return r.rankings, nil
}

func (r *memoryReportRepo) RecentWorkMinutes(ctx context.Context, employeeID string, n int) (int64, int, error) {
	v := r.workMinutes[employeeID]
	return v[0], int(v[1]), nil
}

func (r *memoryReportRepo) OvertimeBetween(ctx context.Context, employeeID string, from, to time.Time) (int, int, error) {
	var regular, weekend int
	for _, a := range r.records {
		if a.EmployeeID != employeeID || a.CheckOut == nil || !inRange(a.CheckIn, from, to) {
			continue
		}
		if a.IsWeekendOvertime {
			weekend += a.OvertimeHours
		} else {
			regular += a.OvertimeHours
		}
	}
	return regular, weekend, nil
}

func (r *memoryReportRepo) ListCheckIns(ctx context.Context, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range r.records {
		if inRange(a.CheckIn, from, to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryReportRepo) ListForExport(ctx context.Context) ([]attendance.Attendance, error) {
	return r.records, nil
}

type memoryEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (r *memoryEmployeeRepo) List(ctx context.Context, role *employee.Role) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if role == nil || e.Role == *role {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryEmployeeRepo) CountByRole(ctx context.Context, role employee.Role) (int64, error) {
	list, _ := r.List(ctx, &role)
	return int64(len(list)), nil
}

var (
	admin = auth.Identity{EmployeeID: "adm-1", Role: employee.RoleAdmin}
	ana   = auth.Identity{EmployeeID: "emp-1", Role: employee.RoleEmployee}
)

func strPtr(s string) *string { return &s }

func record(empID string, checkIn time.Time, late bool) attendance.Attendance {
	return attendance.Attendance{
		ID:         empID + checkIn.Format("0102"),
		EmployeeID: empID,
		WorkDate:   attendance.StartOfDay(checkIn),
		CheckIn:    checkIn,
		IsLate:     late,
	}
}

func completed(a attendance.Attendance, checkOut time.Time, overtime int, weekend bool) attendance.Attendance {
	a.CheckOut = &checkOut
	a.OvertimeHours = overtime
	a.IsWeekendOvertime = weekend
	return a
}

func newTestService(repo *memoryReportRepo) *ReportServiceImpl {
	employees := &memoryEmployeeRepo{employees: []employee.Employee{
		{ID: "adm-1", Name: "Admin", Role: employee.RoleAdmin},
		{ID: "emp-1", Name: "Ana", Role: employee.RoleEmployee},
		{ID: "emp-2", Name: "Budi", Role: employee.RoleEmployee},
		{ID: "emp-3", Name: "Citra", Role: employee.RoleEmployee},
	}}
	svc := NewReportService(repo, employees, wib).(*ReportServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestAdminOnly(t *testing.T) {
	svc := newTestService(&memoryReportRepo{})
	ctx := context.Background()

	_, err := svc.DashboardStats(ctx, ana)
	assert.ErrorIs(t, err, auth.ErrForbidden)
	_, err = svc.AttendanceStats(ctx, ana)
	assert.ErrorIs(t, err, auth.ErrForbidden)
	_, err = svc.EmployeeRankings(ctx, ana)
	assert.ErrorIs(t, err, auth.ErrForbidden)
	_, err = svc.EmployeesOverview(ctx, ana)
	assert.ErrorIs(t, err, auth.ErrForbidden)
	_, err = svc.Export(ctx, auth.Identity{}, report.ExportRequest{})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestDashboardStats(t *testing.T) {
	svc := newTestService(&memoryReportRepo{records: []attendance.Attendance{
		record("emp-1", fixedNow.Add(-2*time.Hour), false),
		record("emp-2", fixedNow.Add(-time.Hour), true),
		record("emp-3", fixedNow.AddDate(0, 0, -1), false),
	}})

	stats, err := svc.DashboardStats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, report.DashboardStats{TotalEmployees: 3, PresentToday: 2, LateToday: 1, AbsentToday: 1}, stats)
}

func TestAttendanceStats(t *testing.T) {
	repo := &memoryReportRepo{
		records: []attendance.Attendance{
			record("emp-1", fixedNow.Add(-time.Hour), true),
			record("emp-2", fixedNow.Add(-2*time.Hour), false),
			record("emp-1", time.Date(2025, 3, 10, 9, 0, 0, 0, wib), true),
			record("emp-1", time.Date(2025, 1, 6, 9, 0, 0, 0, wib), true),
			completed(record("emp-2", time.Date(2025, 3, 3, 8, 0, 0, 0, wib), false), time.Date(2025, 3, 3, 19, 0, 0, 0, wib), 2, false),
			completed(record("emp-3", time.Date(2025, 3, 8, 9, 0, 0, 0, wib), false), time.Date(2025, 3, 8, 13, 0, 0, 0, wib), 4, true),
			completed(record("emp-3", time.Date(2025, 2, 3, 8, 0, 0, 0, wib), false), time.Date(2025, 2, 3, 20, 0, 0, 0, wib), 3, false),
		},
		workMinutes: map[string][2]int64{
			"emp-1": {960, 2},
			"emp-3": {270, 1},
		},
	}
	svc := newTestService(repo)

	stats, err := svc.AttendanceStats(context.Background(), admin)
	require.NoError(t, err)

	require.Len(t, stats.LatesByDay, 7)
	assert.Equal(t, "Thu", stats.LatesByDay[0].Label)
	assert.Equal(t, "Wed", stats.LatesByDay[6].Label)
	assert.Equal(t, int64(1), stats.LatesByDay[6].Count)
	assert.Equal(t, "Mon", stats.LatesByDay[4].Label)
	assert.Equal(t, int64(1), stats.LatesByDay[4].Count)

	require.Len(t, stats.LatesByWeek, 4)
	assert.Equal(t, "Week 4", stats.LatesByWeek[3].Label)
	assert.Equal(t, int64(2), stats.LatesByWeek[3].Count)

	require.Len(t, stats.LatesByMonth, 6)
	assert.Equal(t, "Oct", stats.LatesByMonth[0].Label)
	assert.Equal(t, "Mar", stats.LatesByMonth[5].Label)
	assert.Equal(t, int64(2), stats.LatesByMonth[5].Count)
	assert.Equal(t, int64(1), stats.LatesByMonth[3].Count)

	assert.Equal(t, []report.DistributionSlice{
		{Name: "On Time", Value: 1},
		{Name: "Late", Value: 1},
		{Name: "Absent", Value: 1},
	}, stats.AttendanceDistribution)

	assert.Equal(t, []report.EmployeeWorkHours{
		{EmployeeID: "emp-1", Name: "Ana", Hours: 8},
		{EmployeeID: "emp-3", Name: "Citra", Hours: 4.5},
	}, stats.AverageWorkHours)

	assert.Equal(t, []report.EmployeeOvertime{
		{EmployeeID: "emp-3", Name: "Citra", RegularHours: 0, WeekendHours: 4, TotalHours: 4},
		{EmployeeID: "emp-2", Name: "Budi", RegularHours: 2, WeekendHours: 0, TotalHours: 2},
		{EmployeeID: "emp-1", Name: "Ana", RegularHours: 0, WeekendHours: 0, TotalHours: 0},
	}, stats.OvertimeByEmployee)
}

func TestEmployeeRankings(t *testing.T) {
	svc := newTestService(&memoryReportRepo{rankings: []report.RankingInput{
		{EmployeeID: "emp-1", Name: "Ana", OnTimeDays: 10, LateDays: 5},
		{EmployeeID: "emp-2", Name: "Budi", OnTimeDays: 20, LateDays: 0, CompletedRecords: 20, TotalWorkMinutes: 20 * 480},
	}})

	rankings, err := svc.EmployeeRankings(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, rankings, 2)
	assert.Equal(t, "emp-2", rankings[0].EmployeeID)
	assert.InDelta(t, 24.0, rankings[0].Score, 1e-9)
	assert.Equal(t, 15, rankings[1].AbsentDays)
}

func TestEmployeesOverview(t *testing.T) {
	svc := newTestService(&memoryReportRepo{records: []attendance.Attendance{
		record("emp-2", fixedNow.Add(-time.Hour), false),
		record("emp-1", fixedNow.AddDate(0, 0, -1), false),
	}})

	overview, err := svc.EmployeesOverview(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, overview, 4)
	assert.Equal(t, "adm-1", overview[0].ID)
	assert.Nil(t, overview[0].TodayAttendance)
	assert.Nil(t, overview[1].TodayAttendance)
	require.NotNil(t, overview[2].TodayAttendance)
	assert.Equal(t, "emp-2", overview[2].TodayAttendance.EmployeeID)
}

func exportRecords() []attendance.Attendance {
	first := completed(record("emp-1", time.Date(2025, 3, 3, 1, 5, 0, 0, time.UTC), false), time.Date(2025, 3, 3, 10, 0, 30, 0, time.UTC), 0, false)
	first.EmployeeName = strPtr("Ana")
	first.EmployeeEmail = strPtr("ana@example.com")
	first.DailyReport = strPtr("Fixed \"login\", wrote tests\nand docs")

	second := record("emp-2", time.Date(2025, 3, 4, 2, 0, 0, 0, time.UTC), true)
	second.EmployeeName = strPtr("Budi")
	second.EmployeeEmail = strPtr("budi@example.com")
	makeup := attendance.MakeupEvening
	second.MakeupTime = &makeup

	return []attendance.Attendance{first, second}
}

func TestExport_CSV(t *testing.T) {
	svc := newTestService(&memoryReportRepo{records: exportRecords()})

	file, err := svc.Export(context.Background(), admin, report.ExportRequest{})
	require.NoError(t, err)
	assert.Equal(t, "attendance-export-2025-03-12.csv", file.Filename)
	assert.Equal(t, contentTypeCSV, file.ContentType)
	assert.Contains(t, string(file.Data), `"Fixed ""login"", wrote tests`)

	rows, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, report.ExportHeader, rows[0])
	assert.Equal(t, []string{
		"emp-1", "Ana", "ana@example.com", "2025-03-03", "08:05:00", "17:00:30", "false", "", "Fixed \"login\", wrote tests\nand docs",
	}, rows[1])
	assert.Equal(t, []string{
		"emp-2", "Budi", "budi@example.com", "2025-03-04", "09:00:00", "", "true", "evening", "",
	}, rows[2])
}

func TestExport_XLSX(t *testing.T) {
	svc := newTestService(&memoryReportRepo{records: exportRecords()})

	file, err := svc.Export(context.Background(), admin, report.ExportRequest{Format: "XLSX"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))
	assert.Equal(t, contentTypeXLSX, file.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, report.ExportHeader, rows[0])
	assert.Equal(t, "Ana", rows[1][1])
	assert.Equal(t, "evening", rows[2][7])
}

func TestExport_InvalidFormat(t *testing.T) {
	svc := newTestService(&memoryReportRepo{})

	_, err := svc.Export(context.Background(), admin, report.ExportRequest{Format: "pdf"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
