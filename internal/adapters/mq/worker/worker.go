// Package worker drains the measurement queue and hands each measurement to
// a Processor.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/sportgrade/internal/domain/model"
	"github.com/okian/sportgrade/pkg/logger"
	"github.com/okian/sportgrade/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Processor evaluates and stores one measurement.
type Processor interface {
	Process(ctx context.Context, m model.Measurement) error
}

// Queue is the consuming side of the measurement queue.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Measurement
}

// InMemoryWorker processes measurements until its queue closes, its context
// ends or it is shut down.
type InMemoryWorker struct {
	queue     Queue
	processor Processor
	name      string
	logger    logger.Logger

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, p Processor, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		processor: p,
		name:      "worker",
		logger:    logger.NewNop(),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run is the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.queue.Dequeue(ctx)
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case m, ok := <-items:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			w.process(ctx, m)
		}
	}
}

// Shutdown stops the worker and waits for the current measurement.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("worker %s shutdown: %w", w.name, ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, m model.Measurement) { //nolint:gocritic // hugeParam: measurements travel by value
	start := time.Now()
	err := w.processor.Process(ctx, m)
	metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "evaluation failed",
			logger.String("measurement_id", m.ID),
			logger.String("kind", string(m.Kind)),
			logger.Error(err),
		)
	}
}

// Pool runs a fixed number of workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates workerCount workers. Options apply to every worker; each
// gets its own name.
func NewPool(workerCount int, q Queue, p Processor, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	base := &InMemoryWorker{logger: logger.NewNop()}
	for _, opt := range opts {
		opt(base)
	}
	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  base.logger.Named("worker-pool"),
	}
	for i := range workerCount {
		pool.workers[i] = NewInMemoryWorker(q, p, append(opts, WithName("worker-"+strconv.Itoa(i)))...)
	}
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start runs every worker in its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerCount(len(p.workers))
}

// Shutdown closes the queue, lets workers drain it and waits for them, up
// to ctx or an internal timeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut int
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut++
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerCount(0)
	if timedOut > 0 {
		return fmt.Errorf("%d workers did not stop: %w", timedOut, shutdownCtx.Err())
	}
	return nil
}
