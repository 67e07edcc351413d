package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
)

// AttendanceService defines the daily check-in/check-out ledger.
type AttendanceService interface {
	CheckIn(ctx context.Context, identity auth.Identity) (AttendanceResponse, error)

	// SetMakeupTime records how a late employee will make up the time. Resubmitting overwrites.
	SetMakeupTime(ctx context.Context, identity auth.Identity, req MakeupRequest) (AttendanceResponse, error)

	CheckOut(ctx context.Context, identity auth.Identity, req CheckOutRequest) (AttendanceResponse, error)

	// Today returns nil when the caller has not checked in today.
	Today(ctx context.Context, identity auth.Identity) (*AttendanceResponse, error)

	Recent(ctx context.Context, identity auth.Identity, filter RecentFilter) ([]AttendanceResponse, error)
	Monthly(ctx context.Context, identity auth.Identity, filter MonthlyFilter) ([]AttendanceResponse, error)

	// EmployeeAttendance returns the last 30 records of one employee (admin only).
	EmployeeAttendance(ctx context.Context, identity auth.Identity, employeeID string) ([]AttendanceResponse, error)
}
