// Package standards evaluates age- and gender-scoped achievement standards
// (badge programs) per discipline and combines disciplines with a
// weakest-link rule.
package standards

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/sportgrade/internal/domain/rank"
	"github.com/okian/sportgrade/internal/domain/types"
)

// Comparison tells in which direction a performance beats a threshold.
type Comparison string

const (
	// Min means lower is better (race times): met when value <= threshold.
	Min Comparison = "min"
	// Max means higher is better (distances): met when value >= threshold.
	Max Comparison = "max"
)

// Standard is one achievable level of one discipline for a gender and an
// inclusive age band.
type Standard struct {
	DisciplineID string       `json:"disciplineId"`
	Gender       types.Gender `json:"gender"`
	AgeMin       int          `json:"ageMin"`
	AgeMax       int          `json:"ageMax"`
	Level        Level        `json:"level"`
	Comparison   Comparison   `json:"comparison"`
	Threshold    float64      `json:"threshold"`
	Unit         string       `json:"unit,omitempty"`
}

// Met reports whether value reaches the threshold.
func (s Standard) Met(value float64) bool {
	if s.Comparison == Min {
		return value <= s.Threshold
	}
	return value >= s.Threshold
}

// Applies reports whether s is scoped to the discipline, gender and age.
func (s Standard) Applies(disciplineID string, g types.Gender, age int) bool {
	return s.DisciplineID == disciplineID &&
		(s.Gender == types.Any || s.Gender == g) &&
		s.AgeMin <= age && age <= s.AgeMax
}

// Validate checks a standard before it is stored.
func (s Standard) Validate() error {
	var errs []error
	if s.DisciplineID == "" {
		errs = append(errs, errors.New("missing discipline id"))
	}
	switch s.Gender {
	case types.Male, types.Female, types.Any:
	default:
		errs = append(errs, fmt.Errorf("gender %q", s.Gender))
	}
	if s.AgeMin < 0 || s.AgeMax < s.AgeMin {
		errs = append(errs, fmt.Errorf("age band %d..%d", s.AgeMin, s.AgeMax))
	}
	if s.Level.Rank() <= 0 {
		errs = append(errs, fmt.Errorf("level %q", s.Level))
	}
	if s.Comparison != Min && s.Comparison != Max {
		errs = append(errs, fmt.Errorf("comparison %q", s.Comparison))
	}
	if math.IsNaN(s.Threshold) || math.IsInf(s.Threshold, 0) {
		errs = append(errs, fmt.Errorf("threshold %v", s.Threshold))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %s/%s: %w", ErrInvalidStandard, s.DisciplineID, s.Level, errors.Join(errs...))
	}
	return nil
}

// Input is one performance to evaluate.
type Input struct {
	DisciplineID string       `json:"disciplineId"`
	Gender       types.Gender `json:"gender"`
	Age          int          `json:"age"`
	Performance  float64      `json:"performance"`
}

// Result is an evaluated performance.
type Result struct {
	DisciplineID string       `json:"disciplineId"`
	Gender       types.Gender `json:"gender"`
	Age          int          `json:"age"`
	Performance  float64      `json:"performance"`
	Unit         string       `json:"unit,omitempty"`
	Level        Level        `json:"achievedLevel"`
	TakenAt      time.Time    `json:"takenAt"`
}

// Evaluate returns the highest level whose standard in is met, or None.
func Evaluate(all []Standard, in Input) (Level, error) {
	best, err := evaluate(all, in)
	if err != nil {
		return "", err
	}
	return best.Level, nil
}

// EvaluateResult is Evaluate returning a full record.
func EvaluateResult(all []Standard, in Input, takenAt time.Time) (Result, error) {
	best, err := evaluate(all, in)
	if err != nil {
		return Result{}, err
	}
	return Result{
		DisciplineID: in.DisciplineID,
		Gender:       in.Gender,
		Age:          in.Age,
		Performance:  in.Performance,
		Unit:         best.Unit,
		Level:        best.Level,
		TakenAt:      takenAt,
	}, nil
}

func evaluate(all []Standard, in Input) (Standard, error) {
	if in.DisciplineID == "" {
		return Standard{}, fmt.Errorf("%w: missing discipline id", ErrInvalidInput)
	}
	if in.Age < 0 {
		return Standard{}, fmt.Errorf("%w: age %d", ErrInvalidInput, in.Age)
	}
	if math.IsNaN(in.Performance) || math.IsInf(in.Performance, 0) || in.Performance < 0 {
		return Standard{}, fmt.Errorf("%w: performance %v", ErrInvalidInput, in.Performance)
	}
	met := rank.Filter(all, func(s Standard) bool {
		return s.Applies(in.DisciplineID, in.Gender, in.Age) && s.Met(in.Performance)
	})
	best, ok := rank.MaxBy(met, func(s Standard) int { return s.Level.Rank() })
	if !ok {
		unit := ""
		if scoped := rank.Filter(all, func(s Standard) bool { return s.DisciplineID == in.DisciplineID }); len(scoped) > 0 {
			unit = scoped[0].Unit
		}
		return Standard{Level: None, Unit: unit}, nil
	}
	return best, nil
}

// OverallLevel is the weakest level across results; None when empty.
func OverallLevel(results []Result) (Level, error) {
	levels := make([]Level, len(results))
	for i, r := range results {
		levels[i] = r.Level
	}
	return WeakestLevel(levels)
}

// WeakestLevel is the minimum of levels; None when empty. A level outside
// none..gold fails with ErrUnknownLevel.
func WeakestLevel(levels []Level) (Level, error) {
	for _, l := range levels {
		if l.Rank() < 0 {
			return "", fmt.Errorf("%w: %q", ErrUnknownLevel, string(l))
		}
	}
	l, ok := rank.MinBy(levels, Level.Rank)
	if !ok || l == "" {
		return None, nil
	}
	return l, nil
}

// AgeFromBirthYear is the whole-year difference between the test year and the
// birth year, never negative. Month and day are ignored.
func AgeFromBirthYear(birthYear int, testDate time.Time) int {
	return max(0, testDate.Year()-birthYear)
}
