package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"school-bus/internal/domain/trip"
	"school-bus/internal/general/contracts"
)

func seedTrip(env *testEnv, status trip.Status) *trip.Trip {
	t := &trip.Trip{
		BusID:     "bus-1",
		RouteID:   "route-1",
		DriverID:  "driver-1",
		Status:    status,
		StartTime: time.Date(2024, 3, 4, 7, 30, 0, 0, time.UTC),
	}
	if err := env.trips.Create(context.Background(), t); err != nil {
		panic(err)
	}
	return t
}

func TestTransitionTripFullChain(t *testing.T) {
	env := newTestEnv()
	seeded := seedTrip(env, trip.StatusScheduled)

	steps := []trip.Status{
		trip.StatusInProgress,
		trip.StatusArrivedSchool,
		trip.StatusReturnInProgress,
		trip.StatusCompleted,
	}
	for _, next := range steps {
		updated, err := env.svc.TransitionTrip(context.Background(), seeded.ID, next)
		if err != nil {
			t.Fatalf("TransitionTrip(%s) = %v, want nil", next, err)
		}
		if updated.Status != next {
			t.Fatalf("Status = %s, want %s", updated.Status, next)
		}
	}

	stored, _ := env.trips.GetByID(context.Background(), seeded.ID)
	if stored.EndTime == nil {
		t.Fatal("EndTime not stamped on COMPLETED")
	}

	// one history row per transition, in order
	entries, _ := env.history.ListByTrip(context.Background(), seeded.ID)
	if len(entries) != len(steps) {
		t.Fatalf("history rows = %d, want %d", len(entries), len(steps))
	}
	for i, e := range entries {
		if e.Status != steps[i] {
			t.Fatalf("history[%d] = %s, want %s", i, e.Status, steps[i])
		}
	}

	// one broker message per transition
	if msgs := env.pub.byPrefix(contracts.RouteTripStatusPrefix); len(msgs) != len(steps) {
		t.Fatalf("trip.status messages = %d, want %d", len(msgs), len(steps))
	}
}

func TestTransitionTripRejectsSkip(t *testing.T) {
	env := newTestEnv()
	seeded := seedTrip(env, trip.StatusScheduled)

	_, err := env.svc.TransitionTrip(context.Background(), seeded.ID, trip.StatusCompleted)
	if !errors.Is(err, trip.ErrInvalidTransition) {
		t.Fatalf("TransitionTrip() = %v, want %v", err, trip.ErrInvalidTransition)
	}

	// nothing was persisted or published
	stored, _ := env.trips.GetByID(context.Background(), seeded.ID)
	if stored.Status != trip.StatusScheduled {
		t.Fatalf("Status = %s, want unchanged SCHEDULED", stored.Status)
	}
	entries, _ := env.history.ListByTrip(context.Background(), seeded.ID)
	if len(entries) != 0 {
		t.Fatalf("history rows = %d, want 0", len(entries))
	}
	if msgs := env.pub.byPrefix(contracts.RouteTripStatusPrefix); len(msgs) != 0 {
		t.Fatalf("trip.status messages = %d, want 0", len(msgs))
	}
}

func TestTransitionTripOutOfTerminal(t *testing.T) {
	env := newTestEnv()
	seeded := seedTrip(env, trip.StatusCompleted)

	_, err := env.svc.TransitionTrip(context.Background(), seeded.ID, trip.StatusInProgress)
	if !errors.Is(err, trip.ErrInvalidTransition) {
		t.Fatalf("TransitionTrip() = %v, want %v", err, trip.ErrInvalidTransition)
	}
}

func TestTransitionTripNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.TransitionTrip(context.Background(), "missing", trip.StatusInProgress)
	if !errors.Is(err, trip.ErrTripNotFound) {
		t.Fatalf("TransitionTrip() = %v, want %v", err, trip.ErrTripNotFound)
	}
}

func TestTransitionTripStampsStartTime(t *testing.T) {
	env := newTestEnv()
	seeded := seedTrip(env, trip.StatusScheduled)
	planned := seeded.StartTime

	updated, err := env.svc.TransitionTrip(context.Background(), seeded.ID, trip.StatusInProgress)
	if err != nil {
		t.Fatalf("TransitionTrip() = %v, want nil", err)
	}
	if !updated.StartTime.After(planned) {
		t.Fatalf("StartTime = %v, want restamped after %v", updated.StartTime, planned)
	}
	if updated.EndTime != nil {
		t.Fatalf("EndTime = %v, want nil before COMPLETED", updated.EndTime)
	}
}
