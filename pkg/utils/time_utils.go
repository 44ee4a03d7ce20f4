package utils

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD calendar date.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("date %q: %w", s, ErrInvalidInput)
	}
	return datatypes.Date(t), nil
}

func FormatDate(d datatypes.Date) string {
	t := time.Time(d)
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DateOf truncates d to midnight UTC so dates compare by calendar day.
func DateOf(d datatypes.Date) time.Time {
	t := time.Time(d)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaySpan counts the calendar days from start to end inclusive.
func DaySpan(start, end datatypes.Date) int {
	return int((DateOf(end).Unix()-DateOf(start).Unix())/86400) + 1
}

// DaysBetween lists every calendar day from start to end inclusive.
func DaysBetween(start, end datatypes.Date) []datatypes.Date {
	s, e := DateOf(start), DateOf(end)
	var out []datatypes.Date
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		out = append(out, datatypes.Date(d))
	}
	return out
}

// ParseClock validates an HH:MM wall-clock value.
func ParseClock(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", fmt.Errorf("time %q: %w", s, ErrInvalidInput)
	}
	return t.Format("15:04"), nil
}

func FormatRFC3339(unix int64) string {
	if unix <= 0 {
		return ""
	}
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}
