// Package calendar provides timezone-naive date arithmetic for schedule
// handling. All functions operate on calendar dates (YYYY-MM-DD strings or
// midnight-UTC time.Time values), never on instants; resolving an instant to
// a calendar date for a user's timezone is the caller's responsibility.
package calendar

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

// DateLayout is the wire format for calendar dates throughout the system.
const DateLayout = "2006-01-02"

// ErrInvalidDateFormat is returned when a date string is not YYYY-MM-DD.
var ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

// Weekday identifies a day of the week by its short English name.
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// weekdayOrder is the canonical Monday-first ordering. Index arithmetic on
// week grids must go through WeekdayIndex/WeekdayAt rather than touching
// this slice directly.
var weekdayOrder = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Weekdays returns the seven weekdays in Monday-first order.
func Weekdays() []Weekday {
	days := make([]Weekday, len(weekdayOrder))
	copy(days, weekdayOrder[:])
	return days
}

// WeekdayIndex maps a weekday to its Monday-first position 0..6.
// The second return is false for an unknown name.
func WeekdayIndex(d Weekday) (int, bool) {
	for i, w := range weekdayOrder {
		if w == d {
			return i, true
		}
	}
	return 0, false
}

// WeekdayAt returns the weekday at Monday-first position i (i modulo 7).
func WeekdayAt(i int) Weekday {
	i %= 7
	if i < 0 {
		i += 7
	}
	return weekdayOrder[i]
}

// ParseDate parses a YYYY-MM-DD string into a midnight-UTC time.Time.
func ParseDate(iso string) (time.Time, error) {
	t, err := time.Parse(DateLayout, iso)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, iso)
	}
	return t, nil
}

// FormatDate renders a time.Time as a YYYY-MM-DD string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsValidDate reports whether iso is a well-formed YYYY-MM-DD date.
func IsValidDate(iso string) bool {
	_, err := ParseDate(iso)
	return err == nil
}

// MondayOf returns the Monday on or before t. Weeks start on Monday;
// Sunday counts as day 7 of the preceding week, so a Sunday maps back
// six days, not zero.
func MondayOf(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	return t.AddDate(0, 0, -offset)
}

// SundayOnOrAfter returns the Sunday on or after t.
func SundayOnOrAfter(t time.Time) time.Time {
	return MondayOf(t).AddDate(0, 0, 6)
}

// WeekdayOf returns the Monday-first weekday name for t.
func WeekdayOf(t time.Time) Weekday {
	idx := int(t.Weekday()) - int(time.Monday)
	if t.Weekday() == time.Sunday {
		idx = 6
	}
	return weekdayOrder[idx]
}

// AddDays adds n calendar days to a YYYY-MM-DD string.
func AddDays(iso string, n int) (string, error) {
	t, err := ParseDate(iso)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// DateRange returns a restartable sequence of YYYY-MM-DD strings covering
// [startISO, endISO] inclusive. The sequence is empty when end precedes
// start. Ranging over the result multiple times yields the same dates.
func DateRange(startISO, endISO string) (iter.Seq[string], error) {
	start, err := ParseDate(startISO)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endISO)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !yield(FormatDate(d)) {
				return
			}
		}
	}, nil
}

// DaysBetween returns the number of calendar days from a to b (b-a).
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
