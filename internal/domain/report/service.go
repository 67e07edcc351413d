package report

import (
	"context"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
)

// ReportService backs the admin dashboard. Every method requires an admin identity.
type ReportService interface {
	DashboardStats(ctx context.Context, identity auth.Identity) (DashboardStats, error)

	// AttendanceStats computes the chart series concurrently.
	AttendanceStats(ctx context.Context, identity auth.Identity) (AttendanceStats, error)

	EmployeeRankings(ctx context.Context, identity auth.Identity) ([]EmployeeRanking, error)

	// EmployeesOverview lists every employee with today's record, if any.
	EmployeesOverview(ctx context.Context, identity auth.Identity) ([]EmployeeOverview, error)

	Export(ctx context.Context, identity auth.Identity, req ExportRequest) (ExportFile, error)
}
