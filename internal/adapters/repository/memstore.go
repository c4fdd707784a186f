package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/okian/sportgrade/internal/domain/model"
	"github.com/okian/sportgrade/pkg/metrics"
)

const defaultCapacity = 100_000

// MemoryStore keeps the most recent records in memory. Reads use Peek so
// eviction order is insertion order.
type MemoryStore struct {
	capacity int

	mu            sync.RWMutex
	records       *lru.Cache[uuid.UUID, model.Record]
	byMeasurement map[string]uuid.UUID
	bySubject     map[string][]uuid.UUID
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		capacity:      defaultCapacity,
		byMeasurement: make(map[string]uuid.UUID),
		bySubject:     make(map[string][]uuid.UUID),
	}
	for _, opt := range opts {
		opt(s)
	}
	// only fails for a non-positive size
	s.records, _ = lru.NewWithEvict(s.capacity, s.evicted)
	return s
}

// evicted runs inside records.Add, so s.mu is already held.
func (s *MemoryStore) evicted(id uuid.UUID, r model.Record) {
	if r.MeasurementID != "" && s.byMeasurement[r.MeasurementID] == id {
		delete(s.byMeasurement, r.MeasurementID)
	}
	if r.SubjectID != "" {
		ids := slices.DeleteFunc(s.bySubject[r.SubjectID], func(x uuid.UUID) bool { return x == id })
		if len(ids) == 0 {
			delete(s.bySubject, r.SubjectID)
		} else {
			s.bySubject[r.SubjectID] = ids
		}
	}
	metrics.RecordResultEvicted()
}

func (s *MemoryStore) Put(_ context.Context, r model.Record) error { //nolint:gocritic // records are values
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records.Contains(r.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicate, r.ID)
	}
	if r.MeasurementID != "" {
		if _, ok := s.byMeasurement[r.MeasurementID]; ok {
			return fmt.Errorf("%w: measurement %s", ErrDuplicate, r.MeasurementID)
		}
	}
	s.records.Add(r.ID, r)
	if r.MeasurementID != "" {
		s.byMeasurement[r.MeasurementID] = r.ID
	}
	if r.SubjectID != "" {
		s.bySubject[r.SubjectID] = append(s.bySubject[r.SubjectID], r.ID)
	}
	metrics.UpdateStoredResults(s.records.Len())
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records.Peek(id)
	if !ok {
		return model.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

func (s *MemoryStore) ByMeasurement(ctx context.Context, measurementID string) (model.Record, error) {
	s.mu.RLock()
	id, ok := s.byMeasurement[measurementID]
	s.mu.RUnlock()
	if !ok {
		return model.Record{}, fmt.Errorf("%w: measurement %s", ErrNotFound, measurementID)
	}
	return s.Get(ctx, id)
}

func (s *MemoryStore) BySubject(_ context.Context, subjectID string) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.bySubject[subjectID]
	out := make([]model.Record, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.records.Peek(id); ok {
			out = append(out, r)
		}
	}
	return out
}

func (s *MemoryStore) Count(_ context.Context) int {
	return s.records.Len()
}
