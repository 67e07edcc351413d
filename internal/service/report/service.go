package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/report"
	"golang.org/x/sync/errgroup"
)

const (
	// chartEmployees caps the per-employee series on the attendance stats view.
	chartEmployees = 5
	// recentRecords is how many completed records feed an average work hours bar.
	recentRecords = 10
)

type ReportServiceImpl struct {
	report.ReportRepository
	employeeRepo employee.EmployeeRepository
	location     *time.Location
	now          func() time.Time
}

func NewReportService(reportRepo report.ReportRepository, employeeRepo employee.EmployeeRepository, location *time.Location) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository: reportRepo,
		employeeRepo:     employeeRepo,
		location:         location,
		now:              time.Now,
	}
}

func (s *ReportServiceImpl) clock() time.Time {
	return s.now().In(s.location)
}

func requireAdmin(identity auth.Identity) error {
	if identity.IsZero() {
		return auth.ErrUnauthorized
	}
	if !identity.IsAdmin() {
		return auth.ErrForbidden
	}
	return nil
}

// DashboardStats implements report.ReportService.
func (s *ReportServiceImpl) DashboardStats(ctx context.Context, identity auth.Identity) (report.DashboardStats, error) {
	if err := requireAdmin(identity); err != nil {
		return report.DashboardStats{}, err
	}

	now := s.clock()
	from, to := attendance.StartOfDay(now), attendance.EndOfDay(now)
	late := true

	var stats report.DashboardStats
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.employeeRepo.CountByRole(gCtx, employee.RoleEmployee)
		stats.TotalEmployees = total
		return err
	})
	g.Go(func() error {
		present, err := s.CountCheckIns(gCtx, from, to, nil)
		stats.PresentToday = present
		return err
	})
	g.Go(func() error {
		lateCount, err := s.CountCheckIns(gCtx, from, to, &late)
		stats.LateToday = lateCount
		return err
	})

	if err := g.Wait(); err != nil {
		return report.DashboardStats{}, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	stats.AbsentToday = max(0, stats.TotalEmployees-stats.PresentToday)
	return stats, nil
}

// AttendanceStats implements report.ReportService.
func (s *ReportServiceImpl) AttendanceStats(ctx context.Context, identity auth.Identity) (report.AttendanceStats, error) {
	if err := requireAdmin(identity); err != nil {
		return report.AttendanceStats{}, err
	}

	now := s.clock()
	var stats report.AttendanceStats

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Late check-ins per day, week and month
	g.Go(func() error {
		buckets, err := s.lateBuckets(gCtx, report.DayWindows(now))
		stats.LatesByDay = buckets
		return err
	})
	g.Go(func() error {
		buckets, err := s.lateBuckets(gCtx, report.WeekWindows(now))
		stats.LatesByWeek = buckets
		return err
	})
	g.Go(func() error {
		buckets, err := s.lateBuckets(gCtx, report.MonthWindows(now))
		stats.LatesByMonth = buckets
		return err
	})

	// 2. Today's distribution
	g.Go(func() error {
		distribution, err := s.distribution(gCtx, now)
		stats.AttendanceDistribution = distribution
		return err
	})

	// 3. Per-employee series over the first employees
	g.Go(func() error {
		role := employee.RoleEmployee
		employees, err := s.employeeRepo.List(gCtx, &role)
		if err != nil {
			return err
		}
		if len(employees) > chartEmployees {
			employees = employees[:chartEmployees]
		}

		if stats.AverageWorkHours, err = s.averageWorkHours(gCtx, employees); err != nil {
			return err
		}
		stats.OvertimeByEmployee, err = s.overtimeByEmployee(gCtx, employees, now)
		return err
	})

	if err := g.Wait(); err != nil {
		return report.AttendanceStats{}, fmt.Errorf("failed to get attendance stats: %w", err)
	}
	return stats, nil
}

func (s *ReportServiceImpl) lateBuckets(ctx context.Context, windows []report.Window) ([]report.Bucket, error) {
	late := true
	buckets := make([]report.Bucket, 0, len(windows))
	for _, w := range windows {
		count, err := s.CountCheckIns(ctx, w.From, w.To, &late)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, report.Bucket{Label: w.Label, Count: count})
	}
	return buckets, nil
}

func (s *ReportServiceImpl) distribution(ctx context.Context, now time.Time) ([]report.DistributionSlice, error) {
	from, to := attendance.StartOfDay(now), attendance.EndOfDay(now)
	onTime, late := false, true

	onTimeCount, err := s.CountCheckIns(ctx, from, to, &onTime)
	if err != nil {
		return nil, err
	}
	lateCount, err := s.CountCheckIns(ctx, from, to, &late)
	if err != nil {
		return nil, err
	}
	total, err := s.employeeRepo.CountByRole(ctx, employee.RoleEmployee)
	if err != nil {
		return nil, err
	}

	return []report.DistributionSlice{
		{Name: "On Time", Value: onTimeCount},
		{Name: "Late", Value: lateCount},
		{Name: "Absent", Value: max(0, total-onTimeCount-lateCount)},
	}, nil
}

// averageWorkHours skips employees without a completed record.
func (s *ReportServiceImpl) averageWorkHours(ctx context.Context, employees []employee.Employee) ([]report.EmployeeWorkHours, error) {
	out := make([]report.EmployeeWorkHours, 0, len(employees))
	for _, e := range employees {
		minutes, records, err := s.RecentWorkMinutes(ctx, e.ID, recentRecords)
		if err != nil {
			return nil, err
		}
		if records == 0 {
			continue
		}
		out = append(out, report.EmployeeWorkHours{
			EmployeeID: e.ID,
			Name:       e.Name,
			Hours:      float64(minutes) / float64(records) / 60,
		})
	}
	return out, nil
}

func (s *ReportServiceImpl) overtimeByEmployee(ctx context.Context, employees []employee.Employee, now time.Time) ([]report.EmployeeOvertime, error) {
	from := report.MonthStart(now, 0)
	to := report.MonthStart(now, 1).Add(-time.Nanosecond)

	out := make([]report.EmployeeOvertime, 0, len(employees))
	for _, e := range employees {
		regular, weekend, err := s.OvertimeBetween(ctx, e.ID, from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, report.EmployeeOvertime{
			EmployeeID:   e.ID,
			Name:         e.Name,
			RegularHours: regular,
			WeekendHours: weekend,
			TotalHours:   regular + weekend,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalHours > out[j].TotalHours
	})
	return out, nil
}

// EmployeeRankings implements report.ReportService.
func (s *ReportServiceImpl) EmployeeRankings(ctx context.Context, identity auth.Identity) ([]report.EmployeeRanking, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}

	inputs, err := s.ListRankingInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ranking inputs: %w", err)
	}
	return report.RankEmployees(inputs), nil
}

// EmployeesOverview implements report.ReportService.
func (s *ReportServiceImpl) EmployeesOverview(ctx context.Context, identity auth.Identity) ([]report.EmployeeOverview, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}

	now := s.clock()
	var (
		employees []employee.Employee
		today     []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.employeeRepo.List(gCtx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		today, err = s.ListCheckIns(gCtx, attendance.StartOfDay(now), attendance.EndOfDay(now))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to get employees overview: %w", err)
	}

	byEmployee := make(map[string]attendance.Attendance, len(today))
	for _, a := range today {
		byEmployee[a.EmployeeID] = a
	}

	out := make([]report.EmployeeOverview, 0, len(employees))
	for _, e := range employees {
		overview := report.EmployeeOverview{EmployeeResponse: employee.ToResponse(e)}
		if a, ok := byEmployee[e.ID]; ok {
			resp := attendance.NewAttendanceResponse(a, s.location)
			overview.TodayAttendance = &resp
		}
		out = append(out, overview)
	}
	return out, nil
}
