// Package worker runs the pool of goroutines that score queued calibration
// samples and record them into the dataset store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/prosegauge/prosegauge/internal/adapters/mq/queue"
	"github.com/prosegauge/prosegauge/internal/adapters/repository"
	"github.com/prosegauge/prosegauge/internal/domain/types"
	"github.com/prosegauge/prosegauge/pkg/logger"
	"github.com/prosegauge/prosegauge/pkg/metrics"
)

const workerShutdownTimeout = 5 * time.Second

// Evaluator scores one text through the full pipeline.
type Evaluator interface {
	Evaluate(ctx context.Context, text string) (types.Evaluation, error)
}

// Recorder persists a scored calibration sample.
type Recorder interface {
	Add(ctx context.Context, rec repository.Record) error
}

// Worker consumes samples from the queue until stopped.
type Worker struct {
	queue     queue.Queue
	evaluator Evaluator
	recorder  Recorder
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(q queue.Queue, ev Evaluator, rec Recorder, opts ...Option) *Worker {
	w := &Worker{
		queue:     q,
		evaluator: ev,
		recorder:  rec,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.Named(w.name)
	return w
}

// Run consumes samples until the queue closes, ctx is cancelled, or the
// worker is shut down.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	samples := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-samples:
			if !ok {
				return
			}
			if err := w.process(ctx, s); err != nil {
				w.logger.Error(ctx, "sample processing failed",
					logger.String("sample_id", s.SampleID),
					logger.Error(err),
				)
			}
		}
	}
}

func (w *Worker) process(ctx context.Context, s queue.Sample) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerLatency(float64(time.Since(start).Milliseconds()))
	}()

	ev, err := w.evaluator.Evaluate(ctx, s.Text)
	if err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("score sample %s: %w", s.SampleID, err)
	}

	rec := repository.Record{
		SampleID: s.SampleID,
		Label:    s.Label,
		Signals:  ev.Signals,
		Scores:   ev.Scores,
		ScoredAt: time.Now().UTC(),
	}
	if err := w.recorder.Add(ctx, rec); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("record sample %s: %w", s.SampleID, err)
	}

	w.logger.Debug(ctx, "sample scored",
		logger.String("sample_id", s.SampleID),
		logger.String("label", rec.Label),
		logger.Float64("ensemble", ev.Scores.Ensemble),
	)
	return nil
}

// Pool manages a fixed set of workers.
type Pool struct {
	workers []*Worker
}

// NewPool creates workerCount workers over the shared queue. A non-positive
// count defaults to the number of CPUs.
func NewPool(workerCount int, q queue.Queue, ev Evaluator, rec Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{workers: make([]*Worker, workerCount)}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, ev, rec, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits for each, bounded per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}
