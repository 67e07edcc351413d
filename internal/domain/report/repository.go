package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
)

// ReportRepository defines the read-only aggregate queries behind the admin views.
type ReportRepository interface {
	// CountCheckIns counts records with check_in in [from, to]. A nil late matches both.
	CountCheckIns(ctx context.Context, from, to time.Time, late *bool) (int64, error)

	// ListRankingInputs returns totals for every employee with role employee, in registration order.
	ListRankingInputs(ctx context.Context) ([]RankingInput, error)

	// RecentWorkMinutes sums whole worked minutes over the employee's last n completed records.
	RecentWorkMinutes(ctx context.Context, employeeID string, n int) (totalMinutes int64, records int, err error)

	// OvertimeBetween sums overtime of completed records with check_in in [from, to].
	OvertimeBetween(ctx context.Context, employeeID string, from, to time.Time) (regular int, weekend int, err error)

	// ListCheckIns returns records with check_in in [from, to].
	ListCheckIns(ctx context.Context, from, to time.Time) ([]attendance.Attendance, error)

	// ListForExport returns every record joined with its employee, oldest first.
	ListForExport(ctx context.Context) ([]attendance.Attendance, error)
}
