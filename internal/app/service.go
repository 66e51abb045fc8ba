// Package app provides the core service that runs the scoring pipeline and
// implements the dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	samplequeue "github.com/prosegauge/prosegauge/internal/adapters/mq/queue"
	workerpool "github.com/prosegauge/prosegauge/internal/adapters/mq/worker"
	"github.com/prosegauge/prosegauge/internal/adapters/repository"
	"github.com/prosegauge/prosegauge/internal/domain/compress"
	"github.com/prosegauge/prosegauge/internal/domain/dedupe"
	"github.com/prosegauge/prosegauge/internal/domain/model"
	"github.com/prosegauge/prosegauge/internal/domain/scoring"
	"github.com/prosegauge/prosegauge/internal/domain/signals"
	"github.com/prosegauge/prosegauge/internal/domain/types"
	"github.com/prosegauge/prosegauge/pkg/logger"
	"github.com/prosegauge/prosegauge/pkg/metrics"
)

// Service wires the scoring pipeline together with the asynchronous
// calibration dataset flow.
type Service struct {
	mu sync.Mutex

	deduper dedupe.Deduper
	queue   samplequeue.Queue
	store   *repository.MemStore
	pool    *workerpool.Pool

	workerCount int
	queueSize   int
	dedupeSize  int
	maxSamples  int

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of calibration scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the calibration sample queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the sample digest cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxSamples bounds the in-memory calibration dataset.
func WithMaxSamples(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxSamples = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10_000,
		dedupeSize:  50_000,
		maxSamples:  10_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the calibration pipeline components and launches the
// worker pool. Idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = samplequeue.NewInMemoryQueue(samplequeue.WithCapacity(s.queueSize))
	s.store = repository.NewMemStore(repository.WithMaxRecords(s.maxSamples))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "detector service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("max_samples", s.maxSamples),
	)
	return nil
}

// Stop shuts the calibration pipeline down gracefully. Idempotent.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping detector service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(ctx, "detector service stopped")
}

// Evaluate runs the full scoring pipeline on one text: signal extraction,
// heuristic score, gated compression score, perturbation stability and the
// final ensemble. It is deterministic for a given input and keeps no state
// between calls.
func (s *Service) Evaluate(ctx context.Context, input string) (types.Evaluation, error) {
	if strings.TrimSpace(input) == "" {
		metrics.RecordRejectedAnalysis()
		return types.Evaluation{}, ErrEmptyText
	}

	sigStart := time.Now()
	vec := signals.Compute(input)
	metrics.RecordStageLatency("signals", float64(time.Since(sigStart).Milliseconds()))

	heuristic := scoring.Heuristic(vec)

	zippy := 0.0
	degraded := false
	if vec.Length >= compress.MinTokens {
		zipStart := time.Now()
		ratio, err := compress.Ratio(ctx, input)
		metrics.RecordStageLatency("compression", float64(time.Since(zipStart).Milliseconds()))
		switch {
		case ctx.Err() != nil:
			// Caller gave up; abandon the pipeline without side effects.
			return types.Evaluation{}, fmt.Errorf("analysis aborted: %w", ctx.Err())
		case err != nil:
			// The ensemble tolerates a zero compression signal, so degrade
			// instead of failing the whole analysis.
			degraded = true
			metrics.RecordDegradedAnalysis()
			if s.logger != nil {
				s.logger.Warn(ctx, "compression scorer failed; continuing without it", logger.Error(err))
			}
		default:
			zippy = compress.Score(ratio)
			metrics.RecordCompressionRatio(ratio)
		}
	}

	stabStart := time.Now()
	stability := scoring.Stability(input, heuristic)
	metrics.RecordStageLatency("stability", float64(time.Since(stabStart).Milliseconds()))

	ensemble, confidence := scoring.Combine(heuristic, zippy, stability)

	ev := types.Evaluation{
		Signals: types.Signals{
			Length:          vec.Length,
			Burstiness:      vec.Burstiness,
			Repetition:      vec.Repetition,
			PunctuationRate: vec.PunctuationRate,
			AvgWordLen:      vec.AvgWordLen,
			UniqueWordRatio: vec.UniqueWordRatio,
		},
		Scores: types.Scores{
			Heuristic: heuristic,
			Zippy:     zippy,
			DetectGPT: stability,
			Ensemble:  ensemble,
		},
		Confidence: string(confidence),
		Degraded:   degraded,
	}

	metrics.RecordAnalysis(ev.Confidence, ensemble)
	return ev, nil
}

// EvaluateBatch scores several texts concurrently, preserving input order.
// Any invalid text fails the whole batch.
func (s *Service) EvaluateBatch(ctx context.Context, texts []string) ([]types.Evaluation, error) {
	out := make([]types.Evaluation, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, t := range texts {
		i, t := i, t
		g.Go(func() error {
			ev, err := s.Evaluate(gctx, t)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			out[i] = ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitSample queues a labeled text for asynchronous calibration scoring.
// Texts are deduplicated by content digest; a full queue reports
// backpressure and releases the digest so the sample can be retried.
func (s *Service) SubmitSample(ctx context.Context, input, label string) (types.SubmitStatus, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmptyText
	}
	if !s.isStarted() {
		return "", ErrNotStarted
	}

	digest := dedupe.Digest(input)
	if s.deduper.SeenAndRecord(ctx, digest) {
		metrics.RecordSampleDuplicate()
		return types.SubmitDuplicate, nil
	}

	sample := model.Sample{
		SampleID:   uuid.NewString(),
		Text:       input,
		Label:      types.NormalizeLabel(label),
		EnqueuedAt: time.Now().UTC(),
	}
	if !s.queue.Enqueue(ctx, sample) {
		s.deduper.Unrecord(ctx, digest)
		return types.SubmitBackpressure, nil
	}

	s.logger.Debug(ctx, "calibration sample enqueued",
		logger.String("sample_id", sample.SampleID),
		logger.String("label", sample.Label),
	)
	return types.SubmitAccepted, nil
}

// CalibrationStats returns per-label aggregates over the stored dataset.
func (s *Service) CalibrationStats(ctx context.Context) (types.CalibrationStats, error) {
	if !s.isStarted() {
		return types.CalibrationStats{}, ErrNotStarted
	}
	return s.store.Stats(ctx), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]any{
		"started":      s.started,
		"worker_count": s.workerCount,
		"queue_size":   s.queueSize,
	}
	if s.started {
		ctx := context.Background()
		stats["queue_length"] = s.queue.Len(ctx)
		stats["stored_samples"] = s.store.Count(ctx)
		stats["tracked_digests"] = s.deduper.Size()
	}
	return stats
}

func (s *Service) isStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}
