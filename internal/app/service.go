// Package service wires the catalog, the grading core, the measurement queue
// and the result store into the operations served over HTTP.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/sportgrade/internal/adapters/catalog"
	measurementqueue "github.com/okian/sportgrade/internal/adapters/mq/queue"
	"github.com/okian/sportgrade/internal/adapters/mq/worker"
	"github.com/okian/sportgrade/internal/adapters/repository"
	"github.com/okian/sportgrade/internal/domain/dedupe"
	"github.com/okian/sportgrade/pkg/logger"
	"github.com/okian/sportgrade/pkg/metrics"
)

// Service evaluates measurements synchronously or through the queue and
// keeps the resulting records.
type Service struct {
	mu sync.RWMutex

	catalog *catalog.Store
	deduper dedupe.Deduper
	results *repository.MemoryStore
	queue   measurementqueue.Queue
	pool    *worker.Pool

	workerCount    int
	queueSize      int
	dedupeSize     int
	resultCapacity int
	batchLimit     int

	started bool
	logger  logger.Logger
	now     func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of queue workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the measurement queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many measurement ids are remembered for
// idempotent submission.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithResultCapacity bounds the result store.
func WithResultCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.resultCapacity = n
		}
	}
}

// WithBatchConcurrency bounds how many measurements of one batch are
// evaluated at once.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchLimit = n
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

// WithCatalog sets the catalog store. Without it the service starts with an
// empty catalog.
func WithCatalog(c *catalog.Store) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. The synchronous operations work right away; the
// queue needs Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU(),
		queueSize:      10_000,
		dedupeSize:     100_000,
		resultCapacity: 100_000,
		batchLimit:     runtime.NumCPU(),
		logger:         logger.NewNop(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog, _ = catalog.NewStore(&catalog.Catalog{})
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.results = repository.NewMemoryStore(repository.WithCapacity(s.resultCapacity))
	s.logger = s.logger.Named("service")
	s.reportCatalog()
	return s
}

// Start creates the queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.queue = measurementqueue.NewInMemoryQueue(measurementqueue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s, worker.WithLogger(s.logger))
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "grading service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("resultCapacity", s.resultCapacity),
	)
	return nil
}

// Stop closes the queue and waits for the workers to drain it.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping grading service...")

	err := s.pool.Shutdown(ctx)
	s.started = false
	s.pool = nil
	if err != nil {
		s.logger.Error(ctx, "worker pool did not drain", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "grading service stopped")
	return nil
}

// Catalog returns the catalog store the service reads from.
func (s *Service) Catalog() *catalog.Store { return s.catalog }

// ReloadCatalog loads path and swaps it in. On error the current catalog
// stays in place.
func (s *Service) ReloadCatalog(ctx context.Context, path string) error {
	c, err := catalog.Load(ctx, path)
	if err != nil {
		s.logger.Error(ctx, "catalog reload failed", logger.String("path", path), logger.Error(err))
		return err
	}
	if err := s.catalog.Replace(c); err != nil {
		s.logger.Error(ctx, "catalog reload rejected", logger.String("path", path), logger.Error(err))
		return err
	}
	s.reportCatalog()
	s.logger.Info(ctx, "catalog reloaded", logger.String("path", path))
	return nil
}

func (s *Service) reportCatalog() {
	for kind, n := range s.catalog.Catalog().Counts() {
		metrics.UpdateCatalogEntries(kind, n)
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stored := s.results.Count(ctx)
	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"dedupeSize":     s.dedupeSize,
		"resultCapacity": s.resultCapacity,
		"storedResults":  stored,
		"seenIds":        s.deduper.Size(),
		"catalog":        s.catalog.Catalog().Counts(),
	}
	metrics.UpdateStoredResults(stored)

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.pool.Size())
	}
	return stats
}
