// Package criteria sums per-criterion scores into a total and a percentage
// that feed the grading resolver.
package criteria

import (
	"fmt"
	"math"

	"github.com/okian/sportgrade/internal/domain/grading"
)

// Criterion is one scored aspect of a performance, e.g. "technique" out of 10.
// A zero Weight counts as 1.
type Criterion struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	MaxPoints float64 `json:"maxPoints"`
	Weight    float64 `json:"weight,omitempty"`
}

func (c Criterion) weight() float64 {
	if c.Weight == 0 {
		return 1
	}
	return c.Weight
}

// Summary is the aggregate of a criteria sheet.
type Summary struct {
	Total      float64 `json:"total"`
	Max        float64 `json:"max"`
	Percentage float64 `json:"percentage"`
}

// Aggregate sums scores over ids. Missing scores count as 0 (not yet graded).
func Aggregate(scores map[string]float64, ids []string) float64 {
	var total float64
	for _, id := range ids {
		total += scores[id]
	}
	return total
}

// Percentage returns total/maxPoints*100, or 0 when maxPoints is 0.
func Percentage(total, maxPoints float64) float64 {
	if maxPoints == 0 {
		return 0
	}
	return total * 100 / maxPoints
}

// Summarize applies weights and sums both the awarded and the maximum points.
func Summarize(scores map[string]float64, sheet []Criterion) (Summary, error) {
	var s Summary
	for _, c := range sheet {
		v := scores[c.ID]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return Summary{}, fmt.Errorf("%w: criterion %q scored %v", ErrInvalidInput, c.ID, v)
		}
		w := c.weight()
		s.Total += v * w
		s.Max += c.MaxPoints * w
	}
	s.Percentage = Percentage(s.Total, s.Max)
	return s, nil
}

// Grade summarizes a sheet and resolves its percentage against key.
func Grade(scores map[string]float64, sheet []Criterion, key grading.Key) (Summary, grading.Result, error) {
	s, err := Summarize(scores, sheet)
	if err != nil {
		return Summary{}, grading.Result{}, err
	}
	res, err := grading.ResolvePercentage(s.Percentage, key)
	if err != nil {
		return s, grading.Result{}, fmt.Errorf("grade criteria: %w", err)
	}
	return s, res, nil
}

// IDs lists the criterion ids of a sheet in order.
func IDs(sheet []Criterion) []string {
	ids := make([]string, len(sheet))
	for i, c := range sheet {
		ids[i] = c.ID
	}
	return ids
}
