package tables

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks a definition before it is stored.
func (d Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrMalformedTable)
	}
	shape, err := ShapeFor(d.Type)
	if err != nil {
		return fmt.Errorf("table %q: %w", d.ID, err)
	}
	if len(d.Entries) == 0 {
		return fmt.Errorf("%w: table %q has no entries", ErrMalformedTable, d.ID)
	}
	if !hasPrimary(shape, d.Entries) {
		return fmt.Errorf("%w: table %q has no %s entry", ErrMalformedTable, d.ID, shape.Kind)
	}

	var errs []error
	for i, e := range d.Entries {
		if e.Value.IsZero() {
			errs = append(errs, fmt.Errorf("entry %d: empty value", i))
		}
		for _, ax := range shape.Axes {
			var lo, hi float64
			var hasLo, hasHi bool
			for _, k := range ax.keys() {
				n, ok, err := numberAt(e.Key, k)
				if err != nil {
					errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
					continue
				}
				if ok && n < 0 {
					errs = append(errs, fmt.Errorf("entry %d: key %s is negative", i, k))
				}
				switch {
				case ok && k == ax.Min:
					lo, hasLo = n, true
				case ok && k == ax.Max:
					hi, hasHi = n, true
				}
			}
			if hasLo && hasHi && lo > hi {
				errs = append(errs, fmt.Errorf("entry %d: %s > %s", i, ax.Min, ax.Max))
			}
		}
		if len(d.Dimensions) == 0 {
			continue
		}
		for k, raw := range e.Key {
			if raw != nil && !shape.IsNumeric(k) && !slices.Contains(d.Dimensions, k) {
				errs = append(errs, fmt.Errorf("entry %d: undeclared dimension %q", i, k))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: table %q: %w", ErrMalformedTable, d.ID, errors.Join(errs...))
	}
	return nil
}
