package catalog

import (
	"fmt"
	"sync/atomic"

	"github.com/okian/sportgrade/internal/domain/grading"
	"github.com/okian/sportgrade/internal/domain/performance"
	"github.com/okian/sportgrade/internal/domain/standards"
	"github.com/okian/sportgrade/internal/domain/tables"
)

// index is an immutable, id-keyed view of one catalog.
type index struct {
	catalog     *Catalog
	keys        map[string]grading.Key
	tables      map[string]tables.Definition
	shuttleRuns map[string]performance.ShuttleRunConfig
	sheets      map[string]Sheet
	standards   map[string][]standards.Standard
}

func newIndex(c *Catalog) *index {
	ix := &index{
		catalog:     c,
		keys:        make(map[string]grading.Key, len(c.GradingKeys)),
		tables:      make(map[string]tables.Definition, len(c.Tables)),
		shuttleRuns: make(map[string]performance.ShuttleRunConfig, len(c.ShuttleRunConfigs)),
		sheets:      make(map[string]Sheet, len(c.Sheets)),
		standards:   make(map[string][]standards.Standard),
	}
	for _, k := range c.GradingKeys {
		ix.keys[k.ID] = k
	}
	for _, t := range c.Tables {
		ix.tables[t.ID] = t
	}
	for _, s := range c.ShuttleRunConfigs {
		ix.shuttleRuns[s.ID] = s
	}
	for _, s := range c.Sheets {
		ix.sheets[s.ID] = s
	}
	for _, s := range c.Standards {
		ix.standards[s.DisciplineID] = append(ix.standards[s.DisciplineID], s)
	}
	return ix
}

// Store serves a validated catalog. Replace swaps the whole catalog
// atomically; readers always see one consistent version.
type Store struct {
	current atomic.Pointer[index]
}

// NewStore validates c and indexes it.
func NewStore(c *Catalog) (*Store, error) {
	s := &Store{}
	if err := s.Replace(c); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace validates c and makes it the served catalog. On error the previous
// catalog stays in place.
func (s *Store) Replace(c *Catalog) error {
	if c == nil {
		c = &Catalog{}
	}
	if err := c.Validate(); err != nil {
		return err
	}
	s.current.Store(newIndex(c))
	return nil
}

func (s *Store) ix() *index {
	if ix := s.current.Load(); ix != nil {
		return ix
	}
	return newIndex(&Catalog{})
}

// GradingKey returns a grading key by id.
func (s *Store) GradingKey(id string) (grading.Key, error) {
	k, ok := s.ix().keys[id]
	if !ok {
		return grading.Key{}, fmt.Errorf("%w: grading key %q", ErrNotFound, id)
	}
	return k, nil
}

// Table returns a table by id.
func (s *Store) Table(id string) (tables.Definition, error) {
	t, ok := s.ix().tables[id]
	if !ok {
		return tables.Definition{}, fmt.Errorf("%w: table %q", ErrNotFound, id)
	}
	return t, nil
}

// ShuttleRunConfig returns a shuttle-run config by id.
func (s *Store) ShuttleRunConfig(id string) (performance.ShuttleRunConfig, error) {
	c, ok := s.ix().shuttleRuns[id]
	if !ok {
		return performance.ShuttleRunConfig{}, fmt.Errorf("%w: shuttle-run config %q", ErrNotFound, id)
	}
	return c, nil
}

// Sheet returns a criteria sheet by id.
func (s *Store) Sheet(id string) (Sheet, error) {
	sh, ok := s.ix().sheets[id]
	if !ok {
		return Sheet{}, fmt.Errorf("%w: criteria sheet %q", ErrNotFound, id)
	}
	return sh, nil
}

// Standards returns the standards of one discipline. An unknown discipline
// is an error rather than an empty ladder.
func (s *Store) Standards(disciplineID string) ([]standards.Standard, error) {
	st, ok := s.ix().standards[disciplineID]
	if !ok {
		return nil, fmt.Errorf("%w: discipline %q", ErrNotFound, disciplineID)
	}
	return st, nil
}

// Catalog returns the catalog currently served. Callers must not modify it.
func (s *Store) Catalog() *Catalog {
	return s.ix().catalog
}
