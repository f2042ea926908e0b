package trip

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Trip is the domain entity corresponding to the `trips` table.
// One trip exists per (schedule, date); it is mutated only through
// Transition and never deleted by the engine.
type Trip struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	BusID    string
	RouteID  string
	DriverID string

	// Link back to the schedule that materialized the trip; nil for trips
	// created outside the daily batch. Unique together with ServiceDate.
	ScheduledRouteID *string
	ServiceDate      time.Time

	Status    Status
	StartTime time.Time
	EndTime   *time.Time
}

var (
	ErrBusRequired       = errors.New("bus id is required")
	ErrRouteRequired     = errors.New("route id is required")
	ErrDriverRequired    = errors.New("driver id is required")
	ErrTripNotFound      = errors.New("trip not found")
	ErrInvalidTransition = errors.New("invalid trip status transition")
	ErrDuplicateForDate  = errors.New("trip already exists for this schedule and date")
)

// NewScheduled creates a trip in SCHEDULED state with the given planned
// start time.
func NewScheduled(busID, routeID, driverID string, startTime time.Time) (*Trip, error) {
	if busID = strings.TrimSpace(busID); busID == "" {
		return nil, ErrBusRequired
	}
	if routeID = strings.TrimSpace(routeID); routeID == "" {
		return nil, ErrRouteRequired
	}
	if driverID = strings.TrimSpace(driverID); driverID == "" {
		return nil, ErrDriverRequired
	}

	now := time.Now().UTC()
	return &Trip{
		CreatedAt: now,
		UpdatedAt: now,
		BusID:     busID,
		RouteID:   routeID,
		DriverID:  driverID,
		Status:    StatusScheduled,
		StartTime: startTime,
	}, nil
}

// Transition applies next if and only if it is the single legal successor
// of the current status, stamping the lifecycle timestamps: StartTime when
// entering IN_PROGRESS, EndTime when entering COMPLETED.
func (tripObj *Trip) Transition(next Status, at time.Time) error {
	if !next.Valid() || !tripObj.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, tripObj.Status, next)
	}

	switch next {
	case StatusInProgress:
		tripObj.StartTime = at
	case StatusCompleted:
		end := at
		tripObj.EndTime = &end
	}

	tripObj.Status = next
	tripObj.UpdatedAt = at
	return nil
}
