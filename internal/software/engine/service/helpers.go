package service

import (
	"context"
	"encoding/json"
	"time"

	"school-bus/internal/domain/trip"
	"school-bus/internal/general/contracts"
)

const producerName = "engine-service"

// publishTripStatus notifies the broker of a completed transition. Publish
// failures are logged, never surfaced: the database is the source of truth.
func (service *engineService) publishTripStatus(ctx context.Context, t *trip.Trip, oldStatus trip.Status) {
	if service.pub == nil {
		return
	}

	msg := contracts.TripStatusMessage{
		TripID:    t.ID,
		OldStatus: oldStatus.String(),
		Status:    t.Status.String(),
		Timestamp: time.Now().UTC(),
		Envelope: contracts.Envelope{
			Producer: producerName,
			SentAt:   time.Now().UTC(),
		},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		service.logger.Error(ctx, "trip_status_encode_failed", "Failed to encode trip status message", err, nil)
		return
	}

	routingKey := contracts.RouteTripStatusPrefix + t.Status.String()
	if err := service.pub.Publish(contracts.ExchangeTripTopic, routingKey, body); err != nil {
		service.logger.Error(ctx, "trip_status_publish_failed", "Failed to publish trip status message", err, map[string]any{
			"trip_id":     t.ID,
			"routing_key": routingKey,
		})
	}
}

// publishTripGenerated announces a freshly materialized trip.
func (service *engineService) publishTripGenerated(ctx context.Context, t *trip.Trip, attendances int) {
	if service.pub == nil {
		return
	}

	scheduledRouteID := ""
	if t.ScheduledRouteID != nil {
		scheduledRouteID = *t.ScheduledRouteID
	}

	msg := contracts.TripGeneratedMessage{
		TripID:           t.ID,
		RouteID:          t.RouteID,
		ScheduledRouteID: scheduledRouteID,
		ServiceDate:      t.ServiceDate.Format("2006-01-02"),
		Attendances:      attendances,
		Timestamp:        time.Now().UTC(),
		Envelope: contracts.Envelope{
			Producer: producerName,
			SentAt:   time.Now().UTC(),
		},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		service.logger.Error(ctx, "trip_generated_encode_failed", "Failed to encode trip generated message", err, nil)
		return
	}

	routingKey := contracts.RouteTripGeneratedPrefix + t.RouteID
	if err := service.pub.Publish(contracts.ExchangeTripTopic, routingKey, body); err != nil {
		service.logger.Error(ctx, "trip_generated_publish_failed", "Failed to publish trip generated message", err, map[string]any{
			"trip_id":     t.ID,
			"routing_key": routingKey,
		})
	}
}
