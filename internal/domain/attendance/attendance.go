package attendance

import (
	"errors"
	"strings"
	"time"
)

// Status is an attendance status as stored in the `child_attendances` table.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusPickedUp   Status = "PICKED_UP"
	StatusDroppedOff Status = "DROPPED_OFF"
	StatusMissed     Status = "MISSED"
)

// SystemRecorder identifies attendance rows created by the engine itself
// when no human actor is available.
const SystemRecorder = "system"

var ErrInvalidStatus = errors.New("invalid attendance status")

// Valid reports whether status is one of the allowed status constants.
func (status Status) Valid() bool {
	switch status {
	case StatusPending, StatusPickedUp, StatusDroppedOff, StatusMissed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}

// Attendance is the domain entity corresponding to the `child_attendances`
// table. At most one record exists per (child, trip).
type Attendance struct {
	ID         string
	ChildID    string
	TripID     string
	Status     Status
	RecordedBy string
	RecordedAt time.Time
}

var (
	ErrChildRequired = errors.New("child id is required")
	ErrTripRequired  = errors.New("trip id is required")
)

// NewSystemSeed constructs the attendance row the batch creates for an
// auto-assigned child, recorded by the system sentinel.
func NewSystemSeed(childID, tripID string, status Status) (*Attendance, error) {
	if childID = strings.TrimSpace(childID); childID == "" {
		return nil, ErrChildRequired
	}
	if tripID = strings.TrimSpace(tripID); tripID == "" {
		return nil, ErrTripRequired
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return &Attendance{
		ChildID:    childID,
		TripID:     tripID,
		Status:     status,
		RecordedBy: SystemRecorder,
		RecordedAt: time.Now().UTC(),
	}, nil
}
