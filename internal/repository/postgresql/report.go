package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// Whole minutes worked by one completed record.
const workMinutesExpr = `FLOOR(EXTRACT(EPOCH FROM (a.check_out - a.check_in)) / 60)::bigint`

// CountCheckIns implements report.ReportRepository.
func (r *reportRepositoryImpl) CountCheckIns(ctx context.Context, from, to time.Time, late *bool) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM attendances a WHERE a.check_in >= $1 AND a.check_in <= $2`
	args := []interface{}{from, to}
	if late != nil {
		query += ` AND a.is_late = $3`
		args = append(args, *late)
	}

	var count int64
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count check-ins: %w", err)
	}
	return count, nil
}

// ListRankingInputs implements report.ReportRepository.
func (r *reportRepositoryImpl) ListRankingInputs(ctx context.Context) ([]report.RankingInput, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id, e.name, e.email,
			COUNT(a.id) FILTER (WHERE NOT a.is_late),
			COUNT(a.id) FILTER (WHERE a.is_late),
			COUNT(a.id) FILTER (WHERE a.check_out IS NOT NULL),
			COALESCE(SUM(` + workMinutesExpr + `) FILTER (WHERE a.check_out IS NOT NULL), 0)::bigint
		FROM employees e
		LEFT JOIN attendances a ON a.employee_id = e.id
		WHERE e.role = 'employee'
		GROUP BY e.id, e.name, e.email, e.created_at
		ORDER BY e.created_at ASC, e.id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking inputs: %w", err)
	}
	defer rows.Close()

	inputs := []report.RankingInput{}
	for rows.Next() {
		var in report.RankingInput
		if err := rows.Scan(&in.EmployeeID, &in.Name, &in.Email, &in.OnTimeDays, &in.LateDays, &in.CompletedRecords, &in.TotalWorkMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan ranking input: %w", err)
		}
		inputs = append(inputs, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ranking inputs: %w", err)
	}
	return inputs, nil
}

// RecentWorkMinutes implements report.ReportRepository.
func (r *reportRepositoryImpl) RecentWorkMinutes(ctx context.Context, employeeID string, n int) (int64, int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(minutes), 0)::bigint, COUNT(*)
		FROM (
			SELECT ` + workMinutesExpr + ` AS minutes
			FROM attendances a
			WHERE a.employee_id = $1 AND a.check_out IS NOT NULL
			ORDER BY a.check_in DESC
			LIMIT $2
		) recent
	`

	var total int64
	var records int
	if err := q.QueryRow(ctx, query, employeeID, n).Scan(&total, &records); err != nil {
		return 0, 0, fmt.Errorf("failed to sum recent work minutes: %w", err)
	}
	return total, records, nil
}

// OvertimeBetween implements report.ReportRepository.
func (r *reportRepositoryImpl) OvertimeBetween(ctx context.Context, employeeID string, from, to time.Time) (int, int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(a.overtime_hours) FILTER (WHERE NOT a.is_weekend_overtime), 0)::int,
			COALESCE(SUM(a.overtime_hours) FILTER (WHERE a.is_weekend_overtime), 0)::int
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.check_out IS NOT NULL
		  AND a.check_in >= $2
		  AND a.check_in <= $3
	`

	var regular, weekend int
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&regular, &weekend); err != nil {
		return 0, 0, fmt.Errorf("failed to sum overtime: %w", err)
	}
	return regular, weekend, nil
}

// ListCheckIns implements report.ReportRepository.
func (r *reportRepositoryImpl) ListCheckIns(ctx context.Context, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.check_in >= $1 AND a.check_in <= $2
		ORDER BY a.check_in ASC
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return collectAttendances(rows, false)
}

// ListForExport implements report.ReportRepository.
func (r *reportRepositoryImpl) ListForExport(ctx context.Context) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, e.name, e.email
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		ORDER BY a.check_in ASC, a.id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list export rows: %w", err)
	}
	return collectAttendances(rows, true)
}
