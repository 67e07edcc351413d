package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceEmployeeDayKey = "attendances_employee_day_key"

const attendanceColumns = `
	a.id, a.employee_id, a.work_date, a.check_in, a.check_out, a.is_late,
	a.makeup_time, a.daily_report, a.overtime_hours, a.is_weekend_overtime,
	a.attachments, a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// scanAttendance reads attendanceColumns, followed by employee name and email when withEmployee is set.
func scanAttendance(row pgx.Row, withEmployee bool) (attendance.Attendance, error) {
	var (
		att         attendance.Attendance
		makeupTime  *string
		attachments []byte
	)
	dest := []interface{}{
		&att.ID, &att.EmployeeID, &att.WorkDate, &att.CheckIn, &att.CheckOut, &att.IsLate,
		&makeupTime, &att.DailyReport, &att.OvertimeHours, &att.IsWeekendOvertime,
		&attachments, &att.CreatedAt, &att.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &att.EmployeeName, &att.EmployeeEmail)
	}

	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}

	if makeupTime != nil {
		mt := attendance.MakeupTime(*makeupTime)
		att.MakeupTime = &mt
	}
	att.Attachments = []attendance.Attachment{}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &att.Attachments); err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to decode attachments: %w", err)
		}
	}
	return att, nil
}

func collectAttendances(rows pgx.Rows, withEmployee bool) ([]attendance.Attendance, error) {
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows, withEmployee)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return records, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances AS a (employee_id, work_date, check_in, is_late)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		newAttendance.WorkDate,
		newAttendance.CheckIn,
		newAttendance.IsLate,
	), false)
	if err != nil {
		if database.IsUniqueViolation(err, attendanceEmployeeDayKey) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// GetByEmployeeAndRange implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.check_in >= $2
		  AND a.check_in <= $3
		ORDER BY a.check_in DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, from, to), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by employee and range: %w", err)
	}
	return att, nil
}

// UpdateMakeupTime implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpdateMakeupTime(ctx context.Context, id string, makeupTime attendance.MakeupTime) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances AS a
		SET makeup_time = $2, updated_at = NOW()
		WHERE a.id = $1
		RETURNING ` + attendanceColumns

	att, err := scanAttendance(q.QueryRow(ctx, query, id, string(makeupTime)), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update makeup time: %w", err)
	}
	return att, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepository) CheckOut(ctx context.Context, checkedOut attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	attachments := checkedOut.Attachments
	if attachments == nil {
		attachments = []attendance.Attachment{}
	}
	payload, err := json.Marshal(attachments)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to encode attachments: %w", err)
	}

	query := `
		UPDATE attendances AS a
		SET check_out = $2,
			daily_report = $3,
			overtime_hours = $4,
			is_weekend_overtime = $5,
			attachments = $6,
			updated_at = NOW()
		WHERE a.id = $1
		  AND a.check_out IS NULL
		RETURNING ` + attendanceColumns

	att, err := scanAttendance(q.QueryRow(ctx, query,
		checkedOut.ID,
		checkedOut.CheckOut,
		checkedOut.DailyReport,
		checkedOut.OvertimeHours,
		checkedOut.IsWeekendOvertime,
		string(payload),
	), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to check out attendance: %w", err)
	}
	return att, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to *time.Time, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"a.employee_id = $1"}
	args := []interface{}{employeeID}
	argIdx := 2

	if from != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.check_in >= $%d", argIdx))
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.check_in <= $%d", argIdx))
		args = append(args, *to)
		argIdx++
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE ` + strings.Join(whereClauses, " AND ") + `
		ORDER BY a.check_in DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return collectAttendances(rows, false)
}

// ListAttachmentPublicIDs implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListAttachmentPublicIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT elem->>'publicId'
		FROM attendances a, jsonb_array_elements(a.attachments) AS elem
		WHERE COALESCE(elem->>'publicId', '') <> ''
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachment ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan attachment id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachment ids: %w", err)
	}
	return ids, nil
}
