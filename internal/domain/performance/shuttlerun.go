package performance

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

// Stage is one level/lane step of a shuttle-run protocol.
type Stage struct {
	Level    int     `json:"level"`
	Lane     int     `json:"lane"`
	Speed    float64 `json:"speed"`
	Duration float64 `json:"duration"`
}

func compareStage(a, b Stage) int {
	if c := cmp.Compare(a.Level, b.Level); c != 0 {
		return c
	}
	return cmp.Compare(a.Lane, b.Lane)
}

// ShuttleRunConfig lists the valid stages of a shuttle-run protocol.
type ShuttleRunConfig struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Levels              []Stage `json:"levels"`
	AudioSignalsEnabled bool    `json:"audioSignalsEnabled"`
	Source              string  `json:"source,omitempty"`
}

// Stage looks up a level/lane pair.
func (c ShuttleRunConfig) Stage(level, lane int) (Stage, bool) {
	for _, s := range c.Levels {
		if s.Level == level && s.Lane == lane {
			return s, true
		}
	}
	return Stage{}, false
}

// Progress returns how many stages up to and including st have been run and
// their summed duration in seconds.
func (c ShuttleRunConfig) Progress(st Stage) (int, float64) {
	var n int
	var elapsed float64
	for _, s := range c.Levels {
		if compareStage(s, st) <= 0 {
			n++
			elapsed += s.Duration
		}
	}
	return n, elapsed
}

// Ordered returns the stages sorted by level, then lane.
func (c ShuttleRunConfig) Ordered() []Stage {
	out := slices.Clone(c.Levels)
	slices.SortStableFunc(out, compareStage)
	return out
}

// Validate checks a config before it is stored.
func (c ShuttleRunConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidConfig)
	}
	if len(c.Levels) == 0 {
		return fmt.Errorf("%w %q: no levels", ErrInvalidConfig, c.ID)
	}
	var errs []error
	seen := make(map[[2]int]bool, len(c.Levels))
	for _, s := range c.Levels {
		k := [2]int{s.Level, s.Lane}
		if seen[k] {
			errs = append(errs, fmt.Errorf("duplicate stage %d/%d", s.Level, s.Lane))
		}
		seen[k] = true
		if s.Level < 0 || s.Lane < 0 {
			errs = append(errs, fmt.Errorf("stage %d/%d: negative level or lane", s.Level, s.Lane))
		}
		if bad(s.Speed) || bad(s.Duration) {
			errs = append(errs, fmt.Errorf("stage %d/%d: speed and duration must be finite and >= 0", s.Level, s.Lane))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidConfig, c.ID, errors.Join(errs...))
	}
	return nil
}

func bad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v < 0
}
