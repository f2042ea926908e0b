package trip

import (
	"errors"
	"strings"
)

// Status is a trip status as stored in the `trips` table.
type Status string

const (
	StatusScheduled        Status = "SCHEDULED"
	StatusInProgress       Status = "IN_PROGRESS"
	StatusArrivedSchool    Status = "ARRIVED_SCHOOL"
	StatusReturnInProgress Status = "RETURN_IN_PROGRESS"
	StatusCompleted        Status = "COMPLETED"
)

var ErrInvalidStatus = errors.New("invalid trip status")

// ParseStatus normalizes (uppercases+trims) and validates a status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether status is one of the allowed trip status constants.
func (status Status) Valid() bool {
	switch status {
	case StatusScheduled, StatusInProgress, StatusArrivedSchool, StatusReturnInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}

// CanTransitionTo reports whether next is the single legal successor of
// status. The lifecycle is strictly linear: no skipping, no branching, no
// reverse transitions.
func (status Status) CanTransitionTo(next Status) bool {
	switch status {
	case StatusScheduled:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusArrivedSchool
	case StatusArrivedSchool:
		return next == StatusReturnInProgress
	case StatusReturnInProgress:
		return next == StatusCompleted
	case StatusCompleted:
		return false
	default:
		return false
	}
}

// Terminal indicates if the status has no outgoing transitions.
func (status Status) Terminal() bool {
	return status == StatusCompleted
}
