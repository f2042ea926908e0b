package contracts

// Exchanges
const (
	ExchangeTripTopic = "trip_topic"
)

// Queues
const (
	QueueTripStatus     = "trip_status"
	QueueTripGeneration = "trip_generation"
)

// Routing patterns
const (
	RouteTripStatusPrefix    = "trip.status."    // {status}
	RouteTripGeneratedPrefix = "trip.generated." // {route_id}
)
