package trip

import (
	"errors"
	"testing"
	"time"
)

func newTestTrip(t *testing.T) *Trip {
	t.Helper()
	tr, err := NewScheduled("bus-1", "route-1", "driver-1", time.Date(2024, 3, 4, 7, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewScheduled() = %v, want nil", err)
	}
	return tr
}

func TestNewScheduledValidation(t *testing.T) {
	start := time.Date(2024, 3, 4, 7, 30, 0, 0, time.UTC)
	tests := []struct {
		name    string
		bus     string
		route   string
		driver  string
		wantErr error
	}{
		{"valid", "bus-1", "route-1", "driver-1", nil},
		{"missing bus", " ", "route-1", "driver-1", ErrBusRequired},
		{"missing route", "bus-1", "", "driver-1", ErrRouteRequired},
		{"missing driver", "bus-1", "route-1", "", ErrDriverRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScheduled(tt.bus, tt.route, tt.driver, start)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewScheduled() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransitionFullLifecycle(t *testing.T) {
	tr := newTestTrip(t)
	planned := tr.StartTime

	steps := []Status{StatusInProgress, StatusArrivedSchool, StatusReturnInProgress, StatusCompleted}
	at := time.Date(2024, 3, 4, 7, 35, 0, 0, time.UTC)
	for _, next := range steps {
		at = at.Add(10 * time.Minute)
		if err := tr.Transition(next, at); err != nil {
			t.Fatalf("Transition(%s) = %v, want nil", next, err)
		}
		if tr.Status != next {
			t.Fatalf("Status = %s, want %s", tr.Status, next)
		}
	}

	if tr.StartTime.Equal(planned) {
		t.Fatal("StartTime should be restamped on IN_PROGRESS")
	}
	if tr.EndTime == nil || !tr.EndTime.Equal(at) {
		t.Fatalf("EndTime = %v, want %v", tr.EndTime, at)
	}
}

func TestTransitionRejectsSkips(t *testing.T) {
	at := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		from Status
		to   Status
	}{
		{StatusScheduled, StatusArrivedSchool},
		{StatusScheduled, StatusCompleted},
		{StatusInProgress, StatusCompleted},
		{StatusArrivedSchool, StatusInProgress}, // backwards
		{StatusCompleted, StatusScheduled},      // out of terminal
		{StatusScheduled, StatusScheduled},      // self loop
	}
	for _, tt := range tests {
		tr := newTestTrip(t)
		tr.Status = tt.from
		if err := tr.Transition(tt.to, at); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("Transition(%s -> %s) = %v, want %v", tt.from, tt.to, err, ErrInvalidTransition)
		}
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	tr := newTestTrip(t)
	if err := tr.Transition(Status("CANCELLED"), time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Transition(CANCELLED) = %v, want %v", err, ErrInvalidTransition)
	}
}

func TestNewHistoryEntry(t *testing.T) {
	at := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	entry, err := NewHistoryEntry("trip-1", StatusInProgress, at)
	if err != nil {
		t.Fatalf("NewHistoryEntry() = %v, want nil", err)
	}
	if entry.TripID != "trip-1" || entry.Status != StatusInProgress || !entry.At.Equal(at) {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	if _, err := NewHistoryEntry("", StatusInProgress, at); !errors.Is(err, ErrTripIDRequired) {
		t.Fatalf("NewHistoryEntry(no trip) = %v, want %v", err, ErrTripIDRequired)
	}
	if _, err := NewHistoryEntry("trip-1", Status("BOGUS"), at); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("NewHistoryEntry(bad status) = %v, want %v", err, ErrInvalidStatus)
	}
}
