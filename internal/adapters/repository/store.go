// Package repository stores scored calibration samples in memory and
// exposes aggregate statistics over them.
package repository

import (
	"context"
	"time"

	"github.com/prosegauge/prosegauge/internal/domain/types"
)

// Record is one scored calibration sample.
type Record struct {
	SampleID string
	Label    string
	Signals  types.Signals
	Scores   types.Scores
	ScoredAt time.Time
}

// Store persists calibration records for the lifetime of the process.
type Store interface {
	// Add appends a record, evicting the oldest one when full.
	Add(ctx context.Context, rec Record) error

	// Stats returns per-label counts and mean ensemble scores.
	Stats(ctx context.Context) types.CalibrationStats

	// Count returns the current number of stored records.
	Count(ctx context.Context) int
}
