package router

import "errors"

// Sentinel kinds for routing errors.
var (
	// ErrNoAvailableModel means a tier has no active, non-suspended
	// candidates; the dispatcher decides how to escalate.
	ErrNoAvailableModel = errors.New("no available model in tier")

	ErrInvalidOutcome = errors.New("invalid outcome")
)
