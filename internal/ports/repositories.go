package ports

import (
	"context"
	"time"

	"school-bus/internal/domain/attendance"
	"school-bus/internal/domain/bus"
	"school-bus/internal/domain/child"
	"school-bus/internal/domain/route"
	"school-bus/internal/domain/schedule"
	"school-bus/internal/domain/school"
	"school-bus/internal/domain/trip"
)

// UnitOfWork interface is used to manage transactions across multiple repository operations.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ChildRepository defines the read-only access to children this engine needs.
type ChildRepository interface {
	ListBySchool(ctx context.Context, schoolID string) ([]*child.Child, error)
	ListWithPickupLocation(ctx context.Context, schoolID string) ([]*child.Child, error)
}

// BusRepository defines the read-only access to the bus fleet.
type BusRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]*bus.Bus, error)
}

// SchoolRepository defines the read-only access to schools.
type SchoolRepository interface {
	GetByID(ctx context.Context, id string) (*school.School, error)
}

// RouteRepository defines the methods for persisting and loading Route+Stops aggregates.
type RouteRepository interface {
	// CreateWithStops persists the route and all of its stops as one atomic unit.
	CreateWithStops(ctx context.Context, r *route.Route) error
	GetWithStops(ctx context.Context, id string) (*route.Route, error)
}

// ScheduledRouteRepository defines the read-only access to recurring schedules.
type ScheduledRouteRepository interface {
	// ListActiveOn returns every ACTIVE schedule that recurs on day and whose
	// inclusive effective window covers date (either bound may be open).
	ListActiveOn(ctx context.Context, day schedule.Weekday, date time.Time) ([]*schedule.ScheduledRoute, error)
}

// TripRepository defines the methods for managing trip data.
type TripRepository interface {
	Create(ctx context.Context, t *trip.Trip) error
	GetByID(ctx context.Context, id string) (*trip.Trip, error)
	// GetByIDForUpdate locks the trip row for the remainder of the transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*trip.Trip, error)
	// UpdateStatus sets the status and stamps start_time / end_time when
	// entering IN_PROGRESS / COMPLETED.
	UpdateStatus(ctx context.Context, id string, next trip.Status, at time.Time) error
}

// TripHistoryRepository manages the append-only trip audit log.
type TripHistoryRepository interface {
	Append(ctx context.Context, entry *trip.HistoryEntry) error
	ListByTrip(ctx context.Context, tripID string) ([]*trip.HistoryEntry, error)
}

// AttendanceRepository defines the methods for managing attendance seeds.
type AttendanceRepository interface {
	// Create inserts the record unless one already exists for the same
	// (child, trip) pair; created is false when the pair was already present.
	Create(ctx context.Context, a *attendance.Attendance) (created bool, err error)
	Exists(ctx context.Context, childID, tripID string) (bool, error)
	ListByTrip(ctx context.Context, tripID string) ([]*attendance.Attendance, error)
}

// ExemptionRepository surfaces the children that must not be auto-assigned
// to a trip: those with a PENDING early-pickup request or an ACTIVE trip
// exception for that specific trip.
type ExemptionRepository interface {
	ExemptChildIDs(ctx context.Context, tripID string, childIDs []string) (map[string]struct{}, error)
}
