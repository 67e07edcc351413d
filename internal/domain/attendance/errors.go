package attendance

import "errors"

var (
	// Check-in errors
	ErrAlreadyCheckedIn = errors.New("you have already checked in today")

	// Makeup errors
	ErrNoCheckInFound     = errors.New("no check-in found for today")
	ErrInvalidMakeupTime  = errors.New("makeup time must be one of: evening, saturday, sunday")
	ErrNotLate            = errors.New("makeup time is only needed for late check-ins")
	ErrMakeupTimeRequired = errors.New("please select a makeup time before checking out")

	// Check-out errors
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
	ErrReportRequired    = errors.New("daily report is required")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
