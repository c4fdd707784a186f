package grading

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Validate checks a key at authoring time. Resolution never calls it: a key
// without a floor boundary resolves low scores to ErrNoMatchingBoundary.
func (k Key) Validate() error {
	var errs []error
	if strings.TrimSpace(k.ID) == "" {
		errs = append(errs, errors.New("empty id"))
	}
	switch k.Type {
	case TypePoints, TypePercentage:
	default:
		errs = append(errs, fmt.Errorf("unknown type %q", k.Type))
	}
	if k.TotalPoints < 0 || math.IsNaN(k.TotalPoints) || math.IsInf(k.TotalPoints, 0) {
		errs = append(errs, fmt.Errorf("total points %v out of range", k.TotalPoints))
	}
	if err := k.Rounding.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(k.Boundaries) == 0 {
		errs = append(errs, errors.New("no grade boundaries"))
	}

	floor := false
	seen := make(map[float64]bool, len(k.Boundaries))
	for i, b := range k.Boundaries {
		if b.Grade.IsZero() {
			errs = append(errs, fmt.Errorf("boundary %d: empty grade", i))
		}
		m := b.Min()
		if math.IsNaN(m) || m < 0 || m > 100 {
			errs = append(errs, fmt.Errorf("boundary %d: min percentage %v outside [0,100]", i, m))
			continue
		}
		if seen[m] {
			errs = append(errs, fmt.Errorf("boundary %d: duplicate min percentage %v", i, m))
		}
		seen[m] = true
		if m == 0 {
			floor = true
		}
	}
	if len(k.Boundaries) > 0 && !floor {
		errs = append(errs, errors.New("no floor boundary at 0%"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidKey, k.ID, errors.Join(errs...))
	}
	return nil
}
