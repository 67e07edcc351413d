package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
)

// Window is an inclusive [From, To] time range with a chart label.
type Window struct {
	Label string
	From  time.Time
	To    time.Time
}

// DayWindows returns the last 7 calendar days ending today, oldest first.
func DayWindows(now time.Time) []Window {
	windows := make([]Window, 0, 7)
	for i := 6; i >= 0; i-- {
		day := attendance.StartOfDay(now).AddDate(0, 0, -i)
		windows = append(windows, Window{
			Label: day.Format("Mon"),
			From:  day,
			To:    attendance.EndOfDay(day),
		})
	}
	return windows
}

// WeekWindows returns the last 4 Sunday-start weeks ending with the current one, oldest first.
func WeekWindows(now time.Time) []Window {
	thisWeek := attendance.StartOfDay(now).AddDate(0, 0, -int(now.Weekday()))

	windows := make([]Window, 0, 4)
	for i := 3; i >= 0; i-- {
		start := thisWeek.AddDate(0, 0, -7*i)
		windows = append(windows, Window{
			Label: fmt.Sprintf("Week %d", 4-i),
			From:  start,
			To:    start.AddDate(0, 0, 7).Add(-time.Nanosecond),
		})
	}
	return windows
}

// MonthWindows returns the last 6 calendar months ending with the current one, oldest first.
func MonthWindows(now time.Time) []Window {
	windows := make([]Window, 0, 6)
	for i := 5; i >= 0; i-- {
		start := MonthStart(now, -i)
		windows = append(windows, Window{
			Label: start.Format("Jan"),
			From:  start,
			To:    start.AddDate(0, 1, 0).Add(-time.Nanosecond),
		})
	}
	return windows
}

// MonthStart returns the first instant of the month offset months away from t.
func MonthStart(t time.Time, offset int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, t.Location())
}
