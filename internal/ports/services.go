package ports

import (
	"context"
	"time"

	"school-bus/internal/domain/trip"
)

// EngineService is the exposed surface of the route & trip automation engine.
type EngineService interface {
	// GenerateRoutes partitions the school's children into routes under
	// capacity constraints and persists one Route+Stops aggregate per cluster.
	GenerateRoutes(ctx context.Context, schoolID string) (*RouteGenerationSummary, error)

	// GenerateDailyTrips materializes one trip per schedule active on date,
	// seeding attendance where the schedule asks for it. Failures inside one
	// schedule never abort the rest of the batch.
	GenerateDailyTrips(ctx context.Context, date time.Time) (*TripGenerationReport, error)

	// TransitionTrip advances a trip one step along its lifecycle and appends
	// a history entry atomically with the update.
	TransitionTrip(ctx context.Context, tripID string, next trip.Status) (*trip.Trip, error)
}

// RouteGenerationSummary is returned by GenerateRoutes for caller-side
// reporting.
type RouteGenerationSummary struct {
	RoutesCreated       int              `json:"routes_created"`
	TotalChildren       int              `json:"total_children"`
	AvgChildrenPerRoute int              `json:"avg_children_per_route"`
	BusCapacityUsed     int              `json:"bus_capacity_used"`
	Routes              []GeneratedRoute `json:"routes"`
}

// GeneratedRoute describes one created route and how many children its
// cluster contained.
type GeneratedRoute struct {
	RouteID       string `json:"route_id"`
	Name          string `json:"name"`
	ChildrenCount int    `json:"children_count"`
}

// TripGenerationReport mirrors the per-schedule log of a daily batch run.
type TripGenerationReport struct {
	Date         time.Time         `json:"date"`
	Matched      int               `json:"matched_schedules"`
	TripsCreated int               `json:"trips_created"`
	Failures     int               `json:"failures"`
	Outcomes     []ScheduleOutcome `json:"outcomes"`
}

// ScheduleOutcome is the result of materializing one schedule.
type ScheduleOutcome struct {
	ScheduledRouteID   string `json:"scheduled_route_id"`
	TripID             string `json:"trip_id,omitempty"`
	AttendancesCreated int    `json:"attendances_created"`
	Error              string `json:"error,omitempty"`
}

// EventPublisher publishes engine events to the message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// GenerationLock guards the daily batch against concurrent runs for the
// same date. Acquire returns false when another run already holds the day.
// Release lets a failed batch free the day so a retry is not locked out
// until the TTL expires.
type GenerationLock interface {
	AcquireDay(ctx context.Context, date time.Time) (bool, error)
	ReleaseDay(ctx context.Context, date time.Time) error
}
