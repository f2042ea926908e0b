package contracts

import "time"

// TripGeneratedMessage is published after the daily batch materializes a trip.
// Routing key: "trip.generated.{route_id}" on ExchangeTripTopic.
type TripGeneratedMessage struct {
	TripID           string    `json:"trip_id"`
	RouteID          string    `json:"route_id"`
	ScheduledRouteID string    `json:"scheduled_route_id"`
	ServiceDate      string    `json:"service_date"` // YYYY-MM-DD
	Attendances      int       `json:"attendances"`
	Timestamp        time.Time `json:"timestamp"`
	Envelope
}
