package service

import "errors"

// Sentinel errors surfaced to the API layer.
var (
	// ErrInvalidKind is returned when a feedback type is not recognized.
	ErrInvalidKind = errors.New("invalid feedback type")

	// ErrInvalidOutcome is returned when an outcome report carries an
	// unrecognized outcome value.
	ErrInvalidOutcome = errors.New("invalid outcome")

	// ErrQueueFull is returned when the outcome report queue rejects an
	// enqueue under backpressure.
	ErrQueueFull = errors.New("report queue full")
)
