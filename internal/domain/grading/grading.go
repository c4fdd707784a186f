// Package grading resolves a raw score into a grade using a grading key made
// of minimum-percentage boundaries.
//
// Boundaries define a step function over percentage space. The resolver picks
// the highest boundary whose minimum is at or below the percentage, so a score
// exactly on a threshold earns that (better) grade.
package grading

import (
	"fmt"
	"math"

	"github.com/okian/sportgrade/internal/domain/rank"
	"github.com/okian/sportgrade/internal/domain/rounding"
	"github.com/okian/sportgrade/internal/domain/types"
)

// KeyType tells how a raw score is read.
type KeyType string

// Key types.
const (
	// TypePoints scores are raw points out of Key.TotalPoints.
	TypePoints KeyType = "points"
	// TypePercentage scores already are percentages.
	TypePercentage KeyType = "percentage"
)

// Boundary is one step of the grading function. A nil MinPercentage is the
// floor and behaves like 0.
type Boundary struct {
	Grade         types.Grade `json:"grade"`
	MinPercentage *float64    `json:"minPercentage,omitempty"`
	DisplayValue  string      `json:"displayValue,omitempty"`
}

// Min returns the boundary threshold, treating a missing one as 0.
func (b Boundary) Min() float64 {
	if b.MinPercentage == nil {
		return 0
	}
	return *b.MinPercentage
}

// Key describes how raw scores map to grades.
type Key struct {
	ID                      string        `json:"id"`
	Name                    string        `json:"name"`
	Type                    KeyType       `json:"type"`
	TotalPoints             float64       `json:"totalPoints"`
	Boundaries              []Boundary    `json:"gradeBoundaries"`
	Rounding                rounding.Rule `json:"roundingRule"`
	ErrorPointsToGrade      float64       `json:"errorPointsToGrade,omitempty"`
	Customizable            bool          `json:"customizable,omitempty"`
	ModifiedAfterCorrection bool          `json:"modifiedAfterCorrection,omitempty"`
}

// Result is a resolved grade. Percentage is rounded with the key's rule.
type Result struct {
	Grade        types.Grade `json:"grade"`
	DisplayValue string      `json:"displayValue,omitempty"`
	Percentage   float64     `json:"percentage"`
}

// Percentage converts a score to percentage space. A points key with zero
// total points yields 0 rather than dividing by zero.
func Percentage(score float64, key Key) float64 {
	if key.Type == TypePercentage {
		return score
	}
	if key.TotalPoints == 0 {
		return 0
	}
	return score * 100 / key.TotalPoints
}

// Resolve maps a raw score to a grade.
func Resolve(score float64, key Key) (Result, error) {
	if err := checkScore(score); err != nil {
		return Result{}, err
	}
	return ResolvePercentage(Percentage(score, key), key)
}

// ResolvePercentage maps an already computed percentage to a grade.
func ResolvePercentage(pct float64, key Key) (Result, error) {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return Result{}, fmt.Errorf("%w: percentage %v", ErrInvalidInput, pct)
	}
	qualifying := rank.Filter(key.Boundaries, func(b Boundary) bool { return b.Min() <= pct })
	best, ok := rank.MaxBy(qualifying, Boundary.Min)
	if !ok {
		return Result{}, fmt.Errorf("%w: key %q at %.2f%%", ErrNoMatchingBoundary, key.ID, pct)
	}
	return Result{
		Grade:        best.Grade,
		DisplayValue: best.DisplayValue,
		Percentage:   rounding.Apply(pct, key.Rounding),
	}, nil
}

// Next returns the boundary of the next better grade, i.e. the lowest
// threshold strictly above the score's percentage.
func Next(score float64, key Key) (Boundary, bool) {
	pct := Percentage(score, key)
	better := rank.Filter(key.Boundaries, func(b Boundary) bool { return b.Min() > pct })
	return rank.MinBy(better, Boundary.Min)
}

// PointsToNextGrade returns how many points are missing for the next better
// grade, rounded up and never negative. It is 0 at or above the top boundary.
// For percentage keys the gap is measured in percentage points.
func PointsToNextGrade(points float64, key Key) (int, error) {
	if err := checkScore(points); err != nil {
		return 0, err
	}
	next, ok := Next(points, key)
	if !ok {
		return 0, nil
	}
	total := key.TotalPoints
	if key.Type == TypePercentage {
		total = 100
	}
	// multiply before dividing: 92*100/100 is exact, 0.92*100 is not
	gap := math.Ceil(next.Min()*total/100 - points)
	if gap < 0 {
		return 0, nil
	}
	return int(gap), nil
}

func checkScore(score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return fmt.Errorf("%w: score %v is not finite", ErrInvalidInput, score)
	}
	if score < 0 {
		return fmt.Errorf("%w: score %v is negative", ErrInvalidInput, score)
	}
	return nil
}
