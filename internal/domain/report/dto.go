package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
)

// ========================================
// DASHBOARD
// ========================================

type DashboardStats struct {
	TotalEmployees int64 `json:"totalEmployees"`
	PresentToday   int64 `json:"presentToday"`
	LateToday      int64 `json:"lateToday"`
	AbsentToday    int64 `json:"absentToday"`
}

// ========================================
// ATTENDANCE STATS
// ========================================

type Bucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type DistributionSlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type EmployeeWorkHours struct {
	EmployeeID string  `json:"employeeId"`
	Name       string  `json:"name"`
	Hours      float64 `json:"hours"`
}

type EmployeeOvertime struct {
	EmployeeID   string `json:"employeeId"`
	Name         string `json:"name"`
	RegularHours int    `json:"regularHours"`
	WeekendHours int    `json:"weekendHours"`
	TotalHours   int    `json:"totalHours"`
}

type AttendanceStats struct {
	LatesByDay             []Bucket            `json:"latesByDay"`
	LatesByWeek            []Bucket            `json:"latesByWeek"`
	LatesByMonth           []Bucket            `json:"latesByMonth"`
	AttendanceDistribution []DistributionSlice `json:"attendanceDistribution"`
	AverageWorkHours       []EmployeeWorkHours `json:"averageWorkHours"`
	OvertimeByEmployee     []EmployeeOvertime  `json:"overtimeByEmployee"`
}

// ========================================
// RANKINGS
// ========================================

type EmployeeRanking struct {
	EmployeeID       string  `json:"employeeId"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	OnTimeDays       int     `json:"onTimeDays"`
	LateDays         int     `json:"lateDays"`
	AbsentDays       int     `json:"absentDays"`
	AverageWorkHours float64 `json:"averageWorkHours"`
	Score            float64 `json:"score"`
}

// ========================================
// EMPLOYEES OVERVIEW
// ========================================

type EmployeeOverview struct {
	employee.EmployeeResponse
	TodayAttendance *attendance.AttendanceResponse `json:"todayAttendance"`
}

// ========================================
// EXPORT
// ========================================

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

type ExportRequest struct {
	Format string `json:"format"`
}

func (r *ExportRequest) Validate() error {
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = string(ExportCSV)
	}

	switch ExportFormat(r.Format) {
	case ExportCSV, ExportXLSX:
		return nil
	}
	return validator.ValidationErrors{{Field: "format", Message: ErrInvalidExportFormat.Error()}}
}

// ExportHeader is the fixed column order consumers of the export rely on.
var ExportHeader = []string{
	"Employee ID",
	"Employee Name",
	"Employee Email",
	"Date",
	"Check-in Time",
	"Check-out Time",
	"Is Late",
	"Makeup Time",
	"Daily Report",
}

type ExportRow struct {
	EmployeeID    string
	EmployeeName  string
	EmployeeEmail string
	Date          string
	CheckInTime   string
	CheckOutTime  string
	IsLate        bool
	MakeupTime    string
	DailyReport   string
}

// NewExportRow flattens a record joined with its employee, rendering times in loc.
func NewExportRow(a attendance.Attendance, loc *time.Location) ExportRow {
	row := ExportRow{
		EmployeeID:  a.EmployeeID,
		Date:        a.CheckIn.In(loc).Format("2006-01-02"),
		CheckInTime: a.CheckIn.In(loc).Format("15:04:05"),
		IsLate:      a.IsLate,
	}
	if a.EmployeeName != nil {
		row.EmployeeName = *a.EmployeeName
	}
	if a.EmployeeEmail != nil {
		row.EmployeeEmail = *a.EmployeeEmail
	}
	if a.CheckOut != nil {
		row.CheckOutTime = a.CheckOut.In(loc).Format("15:04:05")
	}
	if a.MakeupTime != nil {
		row.MakeupTime = string(*a.MakeupTime)
	}
	if a.DailyReport != nil {
		row.DailyReport = *a.DailyReport
	}
	return row
}

// Record returns the row in ExportHeader order.
func (r ExportRow) Record() []string {
	return []string{
		r.EmployeeID,
		r.EmployeeName,
		r.EmployeeEmail,
		r.Date,
		r.CheckInTime,
		r.CheckOutTime,
		strconv.FormatBool(r.IsLate),
		r.MakeupTime,
		r.DailyReport,
	}
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
