// Package rounding applies a rounding rule at a fixed decimal precision.
package rounding

import (
	"fmt"
	"math"
)

// Kind selects the rounding strategy.
type Kind string

// Supported rounding strategies.
const (
	None    Kind = "none"
	Up      Kind = "up"
	Down    Kind = "down"
	Nearest Kind = "nearest"
)

// String returns the string representation of the kind.
func (k Kind) String() string { return string(k) }

// Rule is a rounding strategy plus the number of decimal places it works at.
type Rule struct {
	Kind          Kind `json:"type"`
	DecimalPlaces int  `json:"decimalPlaces"`
}

// Validate reports whether the rule can be applied.
// An empty kind is accepted and behaves like None.
func (r Rule) Validate() error {
	switch r.Kind {
	case "", None, Up, Down, Nearest:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
	if r.DecimalPlaces < 0 {
		return fmt.Errorf("%w: %d", ErrNegativePrecision, r.DecimalPlaces)
	}
	return nil
}

// Apply rounds value according to rule. Unknown kinds leave the value
// unchanged; use Validate to reject them at authoring time.
func Apply(value float64, rule Rule) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	places := rule.DecimalPlaces
	if places < 0 {
		places = 0
	}
	factor := math.Pow(10, float64(places))

	switch rule.Kind {
	case Up:
		return math.Ceil(value*factor) / factor
	case Down:
		return math.Floor(value*factor) / factor
	case Nearest:
		// half-up: 2.5 -> 3, -2.5 -> -2
		return math.Floor(value*factor+0.5) / factor
	default:
		return value
	}
}
