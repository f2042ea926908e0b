package service

import (
	"context"
	"time"

	"school-bus/internal/domain/trip"
)

// TransitionTrip advances a trip one step along its lifecycle. The status
// update and the history entry commit together; the broker notification
// goes out after the commit and never fails the transition.
func (service *engineService) TransitionTrip(ctx context.Context, tripID string, next trip.Status) (*trip.Trip, error) {
	var (
		updated   *trip.Trip
		oldStatus trip.Status
	)

	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		t, err := service.tripRepo.GetByIDForUpdate(ctx, tripID)
		if err != nil {
			return err
		}
		oldStatus = t.Status

		now := time.Now().UTC()
		if err := t.Transition(next, now); err != nil {
			return err
		}

		if err := service.tripRepo.UpdateStatus(ctx, tripID, next, now); err != nil {
			return err
		}

		entry, err := trip.NewHistoryEntry(tripID, next, now)
		if err != nil {
			return err
		}
		if err := service.historyRepo.Append(ctx, entry); err != nil {
			return err
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = service.logger.WithTripID(ctx, tripID)
	service.logger.Info(ctx, "trip_transitioned", "Trip status advanced", map[string]any{
		"trip_id":    tripID,
		"old_status": oldStatus.String(),
		"new_status": next.String(),
	})

	service.publishTripStatus(ctx, updated, oldStatus)

	return updated, nil
}
