package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a record. A second record for the same employee and work
	// date fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByEmployeeAndRange returns the record whose check_in falls within [from, to].
	GetByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) (Attendance, error)

	UpdateMakeupTime(ctx context.Context, id string, makeupTime MakeupTime) (Attendance, error)

	// CheckOut writes the check-out fields only while check_out is still null,
	// otherwise it fails with ErrAlreadyCheckedOut.
	CheckOut(ctx context.Context, attendance Attendance) (Attendance, error)

	// ListByEmployee returns records newest first. Nil bounds are open; limit <= 0 means no limit.
	ListByEmployee(ctx context.Context, employeeID string, from, to *time.Time, limit int) ([]Attendance, error)

	// ListAttachmentPublicIDs returns every publicId referenced by any attachment.
	ListAttachmentPublicIDs(ctx context.Context) ([]string, error)
}
