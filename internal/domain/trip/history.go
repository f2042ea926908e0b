package trip

import (
	"errors"
	"strings"
	"time"
)

// HistoryEntry is one row of the append-only `trip_histories` audit log.
// Exactly one entry is written per transition, atomically with the trip
// mutation.
type HistoryEntry struct {
	ID     string
	TripID string
	Status Status
	At     time.Time
}

var ErrTripIDRequired = errors.New("trip id is required")

// NewHistoryEntry constructs a history row for a transition into status.
func NewHistoryEntry(tripID string, status Status, at time.Time) (*HistoryEntry, error) {
	if tripID = strings.TrimSpace(tripID); tripID == "" {
		return nil, ErrTripIDRequired
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return &HistoryEntry{TripID: tripID, Status: status, At: at}, nil
}
