// Package catalog loads the grading configuration (keys, tables, shuttle-run
// configs, criteria sheets and standards) and serves it by id.
package catalog

import (
	"errors"
	"fmt"

	"github.com/okian/sportgrade/internal/domain/criteria"
	"github.com/okian/sportgrade/internal/domain/grading"
	"github.com/okian/sportgrade/internal/domain/performance"
	"github.com/okian/sportgrade/internal/domain/standards"
	"github.com/okian/sportgrade/internal/domain/tables"
)

// Sheet is a named criteria sheet graded with a grading key.
type Sheet struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	GradingKeyID string               `json:"gradingKeyId"`
	Criteria     []criteria.Criterion `json:"criteria"`
}

// Catalog is everything the resolvers need, as authored.
type Catalog struct {
	GradingKeys       []grading.Key                  `json:"gradingKeys"`
	Tables            []tables.Definition            `json:"tables"`
	ShuttleRunConfigs []performance.ShuttleRunConfig `json:"shuttleRunConfigs"`
	Sheets            []Sheet                        `json:"criteriaSheets"`
	Standards         []standards.Standard           `json:"standards"`
}

// Validate runs every authoring-time check and reports all problems at once.
func (c *Catalog) Validate() error {
	var errs []error
	keys := make(map[string]bool, len(c.GradingKeys))
	for _, k := range c.GradingKeys {
		if keys[k.ID] {
			errs = append(errs, fmt.Errorf("duplicate grading key %q", k.ID))
		}
		keys[k.ID] = true
		if err := k.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if seen[t.ID] {
			errs = append(errs, fmt.Errorf("duplicate table %q", t.ID))
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	clear(seen)
	for _, s := range c.ShuttleRunConfigs {
		if seen[s.ID] {
			errs = append(errs, fmt.Errorf("duplicate shuttle-run config %q", s.ID))
		}
		seen[s.ID] = true
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	clear(seen)
	for _, s := range c.Sheets {
		switch {
		case s.ID == "":
			errs = append(errs, errors.New("criteria sheet without id"))
		case seen[s.ID]:
			errs = append(errs, fmt.Errorf("duplicate criteria sheet %q", s.ID))
		case !keys[s.GradingKeyID]:
			errs = append(errs, fmt.Errorf("criteria sheet %q: unknown grading key %q", s.ID, s.GradingKeyID))
		case len(s.Criteria) == 0:
			errs = append(errs, fmt.Errorf("criteria sheet %q: no criteria", s.ID))
		}
		seen[s.ID] = true
	}
	for _, s := range c.Standards {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return nil
}

// Counts reports the number of entries per section.
func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		"grading_keys":        len(c.GradingKeys),
		"tables":              len(c.Tables),
		"shuttle_run_configs": len(c.ShuttleRunConfigs),
		"criteria_sheets":     len(c.Sheets),
		"standards":           len(c.Standards),
	}
}
