package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/repository/postgresql"
)

// employeeHistoryLimit caps the admin per-employee history.
const employeeHistoryLimit = 30

type attendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	txManager      postgresql.TxManager
	location       *time.Location
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	txManager postgresql.TxManager,
	location *time.Location,
) attendance.AttendanceService {
	return &attendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		txManager:      txManager,
		location:       location,
		now:            time.Now,
	}
}

// clock returns now in the attendance time zone.
func (s *attendanceServiceImpl) clock() time.Time {
	return s.now().In(s.location)
}

func (s *attendanceServiceImpl) todayRecord(ctx context.Context, employeeID string, now time.Time) (attendance.Attendance, error) {
	return s.attendanceRepo.GetByEmployeeAndRange(ctx, employeeID, attendance.StartOfDay(now), attendance.EndOfDay(now))
}

func (s *attendanceServiceImpl) respond(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.NewAttendanceResponse(a, s.location)
}

// CheckIn implements attendance.AttendanceService.
func (s *attendanceServiceImpl) CheckIn(ctx context.Context, identity auth.Identity) (attendance.AttendanceResponse, error) {
	if identity.IsZero() {
		return attendance.AttendanceResponse{}, auth.ErrUnauthorized
	}
	now := s.clock()

	_, err := s.todayRecord(ctx, identity.EmployeeID, now)
	if err == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}

	// A concurrent check-in loses on the unique index and surfaces as ErrAlreadyCheckedIn.
	created, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
		EmployeeID: identity.EmployeeID,
		WorkDate:   attendance.StartOfDay(now),
		CheckIn:    now,
		IsLate:     attendance.IsLate(now),
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("employee checked in", "employee_id", identity.EmployeeID, "is_late", created.IsLate)
	return s.respond(created), nil
}

// SetMakeupTime implements attendance.AttendanceService.
func (s *attendanceServiceImpl) SetMakeupTime(ctx context.Context, identity auth.Identity, req attendance.MakeupRequest) (attendance.AttendanceResponse, error) {
	if identity.IsZero() {
		return attendance.AttendanceResponse{}, auth.ErrUnauthorized
	}
	now := s.clock()

	var updated attendance.Attendance
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		record, err := s.todayRecord(txCtx, identity.EmployeeID, now)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return attendance.ErrNoCheckInFound
			}
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}

		makeupTime := attendance.MakeupTime(strings.ToLower(strings.TrimSpace(req.MakeupTime)))
		if !makeupTime.IsValid() {
			return attendance.ErrInvalidMakeupTime
		}
		if !record.IsLate {
			return attendance.ErrNotLate
		}

		updated, err = s.attendanceRepo.UpdateMakeupTime(txCtx, record.ID, makeupTime)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return s.respond(updated), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *attendanceServiceImpl) CheckOut(ctx context.Context, identity auth.Identity, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if identity.IsZero() {
		return attendance.AttendanceResponse{}, auth.ErrUnauthorized
	}
	now := s.clock()

	var updated attendance.Attendance
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		record, err := s.todayRecord(txCtx, identity.EmployeeID, now)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return attendance.ErrNoCheckInFound
			}
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}

		if record.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}
		report := strings.TrimSpace(req.DailyReport)
		if report == "" {
			return attendance.ErrReportRequired
		}
		if record.IsLate && record.MakeupTime == nil {
			return attendance.ErrMakeupTimeRequired
		}

		hours, weekend := attendance.Overtime(record.CheckIn.In(s.location), now)
		record.CheckOut = &now
		record.DailyReport = &report
		record.OvertimeHours = hours
		record.IsWeekendOvertime = weekend
		record.Attachments = attendance.CoerceAttachments(req.Attachments)

		// The update only applies while check_out is null.
		updated, err = s.attendanceRepo.CheckOut(txCtx, record)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("employee checked out",
		"employee_id", identity.EmployeeID,
		"overtime_hours", updated.OvertimeHours,
		"weekend", updated.IsWeekendOvertime,
	)
	return s.respond(updated), nil
}

// Today implements attendance.AttendanceService.
func (s *attendanceServiceImpl) Today(ctx context.Context, identity auth.Identity) (*attendance.AttendanceResponse, error) {
	if identity.IsZero() {
		return nil, auth.ErrUnauthorized
	}

	record, err := s.todayRecord(ctx, identity.EmployeeID, s.clock())
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	resp := s.respond(record)
	return &resp, nil
}

// Recent implements attendance.AttendanceService.
func (s *attendanceServiceImpl) Recent(ctx context.Context, identity auth.Identity, filter attendance.RecentFilter) ([]attendance.AttendanceResponse, error) {
	if identity.IsZero() {
		return nil, auth.ErrUnauthorized
	}

	records, err := s.attendanceRepo.ListByEmployee(ctx, identity.EmployeeID, nil, nil, filter.Limit)
	if err != nil {
		return nil, err
	}
	return attendance.NewAttendanceResponses(records, s.location), nil
}

// Monthly implements attendance.AttendanceService.
func (s *attendanceServiceImpl) Monthly(ctx context.Context, identity auth.Identity, filter attendance.MonthlyFilter) ([]attendance.AttendanceResponse, error) {
	if identity.IsZero() {
		return nil, auth.ErrUnauthorized
	}

	now := s.clock()
	month, year := filter.Month, filter.Year
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.location)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	records, err := s.attendanceRepo.ListByEmployee(ctx, identity.EmployeeID, &from, &to, 0)
	if err != nil {
		return nil, err
	}
	return attendance.NewAttendanceResponses(records, s.location), nil
}

// EmployeeAttendance implements attendance.AttendanceService.
func (s *attendanceServiceImpl) EmployeeAttendance(ctx context.Context, identity auth.Identity, employeeID string) ([]attendance.AttendanceResponse, error) {
	if !identity.IsAdmin() {
		return nil, auth.ErrForbidden
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListByEmployee(ctx, employeeID, nil, nil, employeeHistoryLimit)
	if err != nil {
		return nil, err
	}
	return attendance.NewAttendanceResponses(records, s.location), nil
}
