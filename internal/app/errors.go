package app

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrEmptyText marks input that is empty or whitespace-only. Scoring is
	// undefined for such input, so the service refuses it outright.
	ErrEmptyText = errors.New("empty text")

	// ErrNotStarted marks use of a service that has not been started.
	ErrNotStarted = errors.New("service not started")
)
