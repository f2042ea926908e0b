package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is a schedule status as stored in the `scheduled_routes` table.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

var ErrInvalidStatus = errors.New("invalid schedule status")

// ParseStatus normalizes (uppercases+trims) and validates a status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether status is one of the allowed status constants.
func (status Status) Valid() bool {
	return status == StatusActive || status == StatusSuspended
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}

// TimeOfDay is a wall-clock departure time, stored as "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

var ErrInvalidTimeOfDay = errors.New("scheduled time must be HH:MM")

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(in string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(in), ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// On combines the time-of-day with a calendar date into a concrete instant.
func (tod TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour, tod.Minute, 0, 0, date.Location())
}

// String renders the time back to "HH:MM".
func (tod TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", tod.Hour, tod.Minute)
}

// ScheduledRoute is the domain entity corresponding to the `scheduled_routes`
// table. The engine consumes schedules read-only.
type ScheduledRoute struct {
	ID       string
	RouteID  string
	DriverID string
	BusID    string

	ScheduledTime TimeOfDay
	RecurringDays []Weekday

	// Effective window; nil means unbounded on that side.
	EffectiveFrom  *time.Time
	EffectiveUntil *time.Time

	AutoAssignChildren bool
	Status             Status
}

var ErrInvalidWindow = errors.New("effective_from must not be after effective_until")

// Validate checks invariants mirroring DB constraints.
func (sched *ScheduledRoute) Validate() error {
	if !sched.Status.Valid() {
		return ErrInvalidStatus
	}
	for _, day := range sched.RecurringDays {
		if !day.Valid() {
			return ErrInvalidWeekday
		}
	}
	if sched.EffectiveFrom != nil && sched.EffectiveUntil != nil &&
		DateOnly(*sched.EffectiveFrom).After(DateOnly(*sched.EffectiveUntil)) {
		return ErrInvalidWindow
	}
	return nil
}

// RecursOn reports whether day is one of the schedule's recurring days.
func (sched *ScheduledRoute) RecursOn(day Weekday) bool {
	for _, d := range sched.RecurringDays {
		if d == day {
			return true
		}
	}
	return false
}

// ActiveOn reports whether the schedule should produce a trip on date: it
// must be ACTIVE, recur on date's weekday, and date must fall inside the
// inclusive effective window (either bound may be open).
func (sched *ScheduledRoute) ActiveOn(date time.Time) bool {
	if sched.Status != StatusActive {
		return false
	}
	if !sched.RecursOn(WeekdayOf(date)) {
		return false
	}
	day := DateOnly(date)
	if sched.EffectiveFrom != nil && day.Before(DateOnly(*sched.EffectiveFrom)) {
		return false
	}
	if sched.EffectiveUntil != nil && day.After(DateOnly(*sched.EffectiveUntil)) {
		return false
	}
	return true
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
