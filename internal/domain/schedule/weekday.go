package schedule

import (
	"errors"
	"strings"
	"time"
)

// Weekday is a recurring day as stored in the `scheduled_routes.recurring_days` column.
type Weekday string

const (
	Sunday    Weekday = "SUNDAY"
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
)

var ErrInvalidWeekday = errors.New("invalid weekday")

// weekdays is indexed by time.Weekday (Sunday = 0).
var weekdays = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf is the single conversion point from a calendar date to a Weekday.
func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

// ParseWeekday normalizes (uppercases+trims) and validates a weekday string.
func ParseWeekday(in string) (Weekday, error) {
	day := Weekday(strings.ToUpper(strings.TrimSpace(in)))
	if day.Valid() {
		return day, nil
	}
	return "", ErrInvalidWeekday
}

// Valid reports whether day is one of the allowed weekday constants.
func (day Weekday) Valid() bool {
	switch day {
	case Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Weekday.
func (day Weekday) String() string {
	return string(day)
}
