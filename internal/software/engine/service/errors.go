package service

import "errors"

var (
	// ErrNoEligibleChildren means the school has no children with pickup
	// coordinates, so there is nothing to cluster.
	ErrNoEligibleChildren = errors.New("no children with pickup locations")

	// ErrNoBusesAvailable means the school's company has no buses, so no
	// capacity target can be derived.
	ErrNoBusesAvailable = errors.New("no buses available for capacity planning")

	// ErrGenerationLocked means another daily batch already holds the lock
	// for the requested date.
	ErrGenerationLocked = errors.New("trip generation already running for this date")
)
