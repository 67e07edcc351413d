package attendance

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	LateHour       = 8
	LateMinute     = 15
	WorkdayEndHour = 17
)

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func dayAt(t time.Time, hour, minute int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, t.Location())
}

// IsLate reports whether checkIn is strictly after 08:15:00 on its own day.
func IsLate(checkIn time.Time) bool {
	return checkIn.After(dayAt(checkIn, LateHour, LateMinute))
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Overtime returns whole hours worked past 17:00 on weekdays, or the whole
// session on weekends. Partial hours are dropped.
func Overtime(checkIn, checkOut time.Time) (hours int, weekend bool) {
	if IsWeekend(checkOut) {
		return wholeHours(checkOut.Sub(checkIn)), true
	}

	workdayEnd := dayAt(checkOut, WorkdayEndHour, 0)
	if !checkOut.After(workdayEnd) {
		return 0, false
	}
	return wholeHours(checkOut.Sub(workdayEnd)), false
}

func wholeHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Hour)
}

// CoerceAttachments turns loosely typed client objects into Attachments.
// Missing fields become empty strings; nothing is rejected.
func CoerceAttachments(raw []map[string]any) []Attachment {
	out := make([]Attachment, 0, len(raw))
	for _, item := range raw {
		out = append(out, Attachment{
			Name:     coerceText(item["name"]),
			URL:      coerceText(item["url"]),
			Type:     coerceText(item["type"]),
			PublicID: coerceText(item["publicId"]),
		})
	}
	return out
}

func coerceText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
