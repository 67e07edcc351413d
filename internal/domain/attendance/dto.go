package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type MakeupRequest struct {
	MakeupTime string `json:"makeupTime"`
}

type CheckOutRequest struct {
	DailyReport string `json:"dailyReport"`
	// Attachments are coerced by CoerceAttachments, never rejected.
	Attachments []map[string]any `json:"attachments"`
}

type AttendanceResponse struct {
	ID                string       `json:"id"`
	EmployeeID        string       `json:"employeeId"`
	EmployeeName      *string      `json:"employeeName,omitempty"`
	EmployeeEmail     *string      `json:"employeeEmail,omitempty"`
	Date              string       `json:"date"`
	CheckIn           string       `json:"checkIn"`
	CheckOut          *string      `json:"checkOut"`
	IsLate            bool         `json:"isLate"`
	MakeupTime        *MakeupTime  `json:"makeupTime"`
	DailyReport       *string      `json:"dailyReport"`
	OvertimeHours     int          `json:"overtimeHours"`
	IsWeekendOvertime bool         `json:"isWeekendOvertime"`
	WorkHours         *float64     `json:"workHours,omitempty"`
	Attachments       []Attachment `json:"attachments"`
	CreatedAt         string       `json:"createdAt"`
	UpdatedAt         string       `json:"updatedAt"`
}

// NewAttendanceResponse renders timestamps in loc.
func NewAttendanceResponse(a Attendance, loc *time.Location) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		EmployeeName:      a.EmployeeName,
		EmployeeEmail:     a.EmployeeEmail,
		Date:              a.CheckIn.In(loc).Format("2006-01-02"),
		CheckIn:           a.CheckIn.In(loc).Format(time.RFC3339),
		IsLate:            a.IsLate,
		MakeupTime:        a.MakeupTime,
		DailyReport:       a.DailyReport,
		OvertimeHours:     a.OvertimeHours,
		IsWeekendOvertime: a.IsWeekendOvertime,
		Attachments:       a.Attachments,
		CreatedAt:         a.CreatedAt.In(loc).Format(time.RFC3339),
		UpdatedAt:         a.UpdatedAt.In(loc).Format(time.RFC3339),
	}
	if resp.Attachments == nil {
		resp.Attachments = []Attachment{}
	}
	if a.CheckOut != nil {
		checkOut := a.CheckOut.In(loc).Format(time.RFC3339)
		resp.CheckOut = &checkOut
		hours := a.WorkDuration().Hours()
		resp.WorkHours = &hours
	}
	return resp
}

func NewAttendanceResponses(records []Attendance, loc *time.Location) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewAttendanceResponse(r, loc))
	}
	return out
}

type RecentFilter struct {
	Limit int `json:"limit"`
}

func (f *RecentFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 || f.Limit > 100 {
		f.Limit = 100
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MonthlyFilter selects one calendar month. Zero values mean the current month/year.
type MonthlyFilter struct {
	Month int `json:"month"` // 1-12
	Year  int `json:"year"`
}

func (f *MonthlyFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month < 0 || f.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if f.Year != 0 && (f.Year < 1970 || f.Year > 9999) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a four-digit year",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
