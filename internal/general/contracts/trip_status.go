package contracts

import "time"

// TripStatusMessage is published after every trip status transition.
// Routing key: "trip.status.{status}" on ExchangeTripTopic.
type TripStatusMessage struct {
	TripID    string    `json:"trip_id"`
	OldStatus string    `json:"old_status"`
	Status    string    `json:"status"` // SCHEDULED|IN_PROGRESS|ARRIVED_SCHOOL|RETURN_IN_PROGRESS|COMPLETED
	Timestamp time.Time `json:"timestamp"`
	Envelope
}
