// Package model contains domain models passed between layers.
package model

import "time"

// Sample is a labeled text queued for asynchronous calibration scoring.
type Sample struct {
	SampleID   string    // unique id, also used for idempotency
	Text       string    // raw input text, non-empty after trimming
	Label      string    // "human", "ai" or "unlabeled"
	EnqueuedAt time.Time // submission time
}
