package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/okian/sportgrade/internal/domain/grading"
	"github.com/okian/sportgrade/internal/domain/model"
	"github.com/okian/sportgrade/internal/domain/standards"
)

// NextGrade is the current grade of a score and the gap to the next one.
type NextGrade struct {
	Current      grading.Result    `json:"current"`
	Next         *grading.Boundary `json:"next,omitempty"`
	PointsNeeded int               `json:"pointsNeeded"`
}

// Overall is a weakest-link level and the results it was taken over.
type Overall struct {
	Level   standards.Level    `json:"level"`
	Results []standards.Result `json:"results,omitempty"`
}

// Result returns a stored record by id.
func (s *Service) Result(ctx context.Context, id uuid.UUID) (model.Record, error) {
	rec, err := s.results.Get(ctx, id)
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: %w", ErrResultNotFound, err)
	}
	return rec, nil
}

// ResultByMeasurement returns the record produced for a measurement id.
func (s *Service) ResultByMeasurement(ctx context.Context, measurementID string) (model.Record, error) {
	rec, err := s.results.ByMeasurement(ctx, measurementID)
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: %w", ErrResultNotFound, err)
	}
	return rec, nil
}

// ResultsBySubject returns the stored records of a subject, oldest first.
func (s *Service) ResultsBySubject(ctx context.Context, subjectID string) []model.Record {
	return s.results.BySubject(ctx, subjectID)
}

// NextGrade grades points against a key and reports how many points are
// missing for the next better grade.
func (s *Service) NextGrade(_ context.Context, keyID string, points float64) (NextGrade, error) {
	key, err := s.catalog.GradingKey(keyID)
	if err != nil {
		return NextGrade{}, err
	}
	cur, err := grading.Resolve(points, key)
	if err != nil {
		return NextGrade{}, err
	}
	need, err := grading.PointsToNextGrade(points, key)
	if err != nil {
		return NextGrade{}, err
	}
	out := NextGrade{Current: cur, PointsNeeded: need}
	if b, ok := grading.Next(points, key); ok {
		out.Next = &b
	}
	return out, nil
}

// OverallLevel is the weakest level over stored sportabzeichen records.
func (s *Service) OverallLevel(ctx context.Context, recordIDs []uuid.UUID) (Overall, error) {
	if len(recordIDs) == 0 {
		return Overall{}, fmt.Errorf("%w: no record ids", ErrInvalidRequest)
	}
	results := make([]standards.Result, 0, len(recordIDs))
	for _, id := range recordIDs {
		rec, err := s.Result(ctx, id)
		if err != nil {
			return Overall{}, err
		}
		if rec.Outcome.Sportabzeichen == nil {
			return Overall{}, fmt.Errorf("%w: record %s is a %s result", ErrInvalidRequest, id, rec.Kind)
		}
		results = append(results, *rec.Outcome.Sportabzeichen)
	}
	level, err := standards.OverallLevel(results)
	if err != nil {
		return Overall{}, err
	}
	return Overall{Level: level, Results: results}, nil
}

// WeakestLevel parses level names and returns their minimum.
func (s *Service) WeakestLevel(_ context.Context, names []string) (Overall, error) {
	if len(names) == 0 {
		return Overall{}, fmt.Errorf("%w: no levels", ErrInvalidRequest)
	}
	levels := make([]standards.Level, len(names))
	for i, n := range names {
		l, err := standards.ParseLevel(n)
		if err != nil {
			return Overall{}, err
		}
		levels[i] = l
	}
	level, err := standards.WeakestLevel(levels)
	if err != nil {
		return Overall{}, err
	}
	return Overall{Level: level}, nil
}

// SubjectLevel takes the latest sportabzeichen result per discipline of a
// subject and returns the weakest of them.
func (s *Service) SubjectLevel(ctx context.Context, subjectID string) (Overall, error) {
	latest := make(map[string]standards.Result)
	for _, rec := range s.results.BySubject(ctx, subjectID) {
		r := rec.Outcome.Sportabzeichen
		if r == nil {
			continue
		}
		if prev, ok := latest[r.DisciplineID]; !ok || !r.TakenAt.Before(prev.TakenAt) {
			latest[r.DisciplineID] = *r
		}
	}
	if len(latest) == 0 {
		return Overall{}, fmt.Errorf("%w: no sportabzeichen results for subject %q", ErrResultNotFound, subjectID)
	}
	results := make([]standards.Result, 0, len(latest))
	for _, r := range latest {
		results = append(results, r)
	}
	slices.SortFunc(results, func(a, b standards.Result) int {
		switch {
		case a.DisciplineID < b.DisciplineID:
			return -1
		case a.DisciplineID > b.DisciplineID:
			return 1
		}
		return 0
	})
	level, err := standards.OverallLevel(results)
	if err != nil {
		return Overall{}, err
	}
	return Overall{Level: level, Results: results}, nil
}
