// Package dateutil provides date parsing and week arithmetic.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
)

// DateLayout is the only absolute date format bandcal accepts.
const DateLayout = "2006-01-02"

var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateRange represents a validated, inclusive date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses an inclusive range. An empty end means a single day.
func NewDateRange(startDate, endDate string, relativeTo time.Time) (*DateRange, error) {
	start, err := ParseDay(startDate, relativeTo)
	if err != nil {
		return nil, err
	}

	end := start
	if endDate != "" {
		end, err = ParseDay(endDate, relativeTo)
		if err != nil {
			return nil, err
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}
	return &DateRange{Start: start, End: end}, nil
}

// Days returns every date in the range.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ParseDay accepts "", "today", "tomorrow", "yesterday", a weekday name
// (the next occurrence, today included) or YYYY-MM-DD. Input is
// case-insensitive. Past dates are allowed.
func ParseDay(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if target, ok := weekdayMap[input]; ok {
		diff := (int(target) - int(today.Weekday()) + 7) % 7
		return today.AddDate(0, 0, diff), nil
	}

	t, err := time.ParseInLocation(DateLayout, input, relativeTo.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday becomes day 7 in ISO week
	}
	monday = t.AddDate(0, 0, -(weekday - 1))
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// WeekDays returns the seven dates of the ISO week containing t.
func WeekDays(t time.Time) []time.Time {
	monday, sunday := WeekRange(t)
	return DateRange{Start: monday, End: sunday}.Days()
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
