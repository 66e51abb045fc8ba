package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/prosegauge/prosegauge/internal/domain/types"
	"github.com/prosegauge/prosegauge/pkg/metrics"
)

const defaultMaxRecords = 10_000

// labelAggregate carries the running sums behind Stats so reads stay O(labels).
type labelAggregate struct {
	count       int
	ensembleSum float64
}

// MemStore implements Store with a bounded in-memory ring of records plus
// running per-label aggregates.
type MemStore struct {
	mu         sync.RWMutex
	records    []Record
	maxRecords int
	aggregates map[string]*labelAggregate
}

// NewMemStore creates an in-memory calibration store with configuration
// options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		maxRecords: defaultMaxRecords,
		aggregates: make(map[string]*labelAggregate),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a record. When the store is full the oldest record is dropped
// and its contribution removed from the aggregates.
func (s *MemStore) Add(_ context.Context, rec Record) error {
	if strings.TrimSpace(rec.SampleID) == "" {
		return fmt.Errorf("%w: missing sample id", ErrInvalidRecord)
	}
	rec.Label = types.NormalizeLabel(rec.Label)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) >= s.maxRecords {
		oldest := s.records[0]
		s.records = s.records[1:]
		if agg, ok := s.aggregates[oldest.Label]; ok {
			agg.count--
			agg.ensembleSum -= oldest.Scores.Ensemble
			if agg.count <= 0 {
				delete(s.aggregates, oldest.Label)
			}
		}
	}

	s.records = append(s.records, rec)
	agg, ok := s.aggregates[rec.Label]
	if !ok {
		agg = &labelAggregate{}
		s.aggregates[rec.Label] = agg
	}
	agg.count++
	agg.ensembleSum += rec.Scores.Ensemble

	metrics.RecordSampleStored(rec.Label)
	metrics.UpdateDatasetSize(len(s.records))
	return nil
}

// Stats returns per-label counts and mean ensemble scores.
func (s *MemStore) Stats(_ context.Context) types.CalibrationStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.CalibrationStats{
		Total:  len(s.records),
		Labels: make(map[string]types.LabelStats, len(s.aggregates)),
	}
	for label, agg := range s.aggregates {
		mean := 0.0
		if agg.count > 0 {
			mean = agg.ensembleSum / float64(agg.count)
		}
		stats.Labels[label] = types.LabelStats{
			Count:        agg.count,
			MeanEnsemble: mean,
		}
	}
	return stats
}

// Count returns the current number of stored records.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
