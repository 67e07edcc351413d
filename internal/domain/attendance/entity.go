package attendance

import (
	"time"
)

type Attendance struct {
	ID                string
	EmployeeID        string
	WorkDate          time.Time
	CheckIn           time.Time
	CheckOut          *time.Time
	IsLate            bool
	MakeupTime        *MakeupTime
	DailyReport       *string
	OvertimeHours     int
	IsWeekendOvertime bool
	Attachments       []Attachment
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO
	EmployeeName  *string
	EmployeeEmail *string
}

// WorkDuration is zero until the record is checked out.
func (a Attendance) WorkDuration() time.Duration {
	if a.CheckOut == nil {
		return 0
	}
	return a.CheckOut.Sub(a.CheckIn)
}

type MakeupTime string

const (
	MakeupEvening  MakeupTime = "evening"
	MakeupSaturday MakeupTime = "saturday"
	MakeupSunday   MakeupTime = "sunday"
)

func (m MakeupTime) IsValid() bool {
	switch m {
	case MakeupEvening, MakeupSaturday, MakeupSunday:
		return true
	}
	return false
}

// Attachment is the stored shape of an uploaded end-of-day file.
type Attachment struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Type     string `json:"type"`
	PublicID string `json:"publicId"`
}
