package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/okian/sportgrade/internal/adapters/repository"
	"github.com/okian/sportgrade/internal/domain/criteria"
	"github.com/okian/sportgrade/internal/domain/grading"
	"github.com/okian/sportgrade/internal/domain/model"
	"github.com/okian/sportgrade/internal/domain/performance"
	"github.com/okian/sportgrade/internal/domain/standards"
	"github.com/okian/sportgrade/internal/domain/types"
	"github.com/okian/sportgrade/pkg/logger"
	"github.com/okian/sportgrade/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Ack answers an asynchronous submission.
type Ack struct {
	MeasurementID string `json:"measurementId"`
	Duplicate     bool   `json:"duplicate"`
}

// Evaluate grades one measurement against the catalog and stores the record.
// A measurement id that already has a record returns that record unchanged.
func (s *Service) Evaluate(ctx context.Context, m model.Measurement) (model.Record, error) { //nolint:gocritic // hugeParam: measurements are values
	start := time.Now()
	rec, err := s.evaluate(ctx, &m)
	metrics.RecordEvaluation(kindLabel(m.Kind), outcome(err), float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		if IsConfigError(err) {
			s.logger.Warn(ctx, "catalog cannot grade measurement",
				logger.String("measurement_id", m.ID),
				logger.String("kind", string(m.Kind)),
				logger.Error(err),
			)
		}
		return model.Record{}, err
	}
	s.logger.Debug(ctx, "measurement evaluated",
		logger.String("measurement_id", m.ID),
		logger.String("kind", string(m.Kind)),
		logger.String("result", rec.Outcome.Label()),
	)
	return rec, nil
}

// kindLabel keeps metric labels to the known kinds.
func kindLabel(k model.Kind) string {
	if slices.Contains(model.Kinds, k) {
		return string(k)
	}
	return "unknown"
}

func (s *Service) evaluate(ctx context.Context, m *model.Measurement) (model.Record, error) {
	if !slices.Contains(model.Kinds, m.Kind) {
		return model.Record{}, fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
	}
	if err := m.Validate(); err != nil {
		return model.Record{}, err
	}
	if m.ID != "" {
		if prev, err := s.results.ByMeasurement(ctx, m.ID); err == nil {
			metrics.RecordMeasurementDuplicate()
			return prev, nil
		}
	}

	takenAt := m.TakenAt
	if takenAt.IsZero() {
		takenAt = s.now()
	}
	out, err := s.resolve(m, takenAt)
	if err != nil {
		return model.Record{}, err
	}

	rec := model.NewRecord(m, out, s.now())
	if err := s.results.Put(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) && m.ID != "" {
			if prev, perr := s.results.ByMeasurement(ctx, m.ID); perr == nil {
				return prev, nil
			}
		}
		return model.Record{}, fmt.Errorf("store result: %w", err)
	}
	metrics.UpdateStoredResults(s.results.Count(ctx))
	return rec, nil
}

func (s *Service) resolve(m *model.Measurement, takenAt time.Time) (model.Outcome, error) {
	gender, err := types.ParseGender(m.Gender)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("%w: %w", model.ErrInvalidMeasurement, err)
	}

	switch m.Kind {
	case model.KindGrade:
		key, err := s.catalog.GradingKey(m.GradingKeyID)
		if err != nil {
			return model.Outcome{}, err
		}
		res, err := grading.Resolve(m.Score, key)
		if err != nil {
			return model.Outcome{}, err
		}
		return model.Outcome{Grade: &res}, nil

	case model.KindCriteria:
		sheet, err := s.catalog.Sheet(m.SheetID)
		if err != nil {
			return model.Outcome{}, err
		}
		keyID := sheet.GradingKeyID
		if m.GradingKeyID != "" {
			keyID = m.GradingKeyID
		}
		key, err := s.catalog.GradingKey(keyID)
		if err != nil {
			return model.Outcome{}, err
		}
		sum, res, err := criteria.Grade(m.Scores, sheet.Criteria, key)
		if err != nil {
			return model.Outcome{}, err
		}
		return model.Outcome{Criteria: &sum, Grade: &res}, nil

	case model.KindCooper:
		table, err := s.catalog.Table(m.TableID)
		if err != nil {
			return model.Outcome{}, err
		}
		res, err := performance.Cooper(m.Meters, gender, table, takenAt)
		if err != nil {
			return model.Outcome{}, err
		}
		return model.Outcome{Cooper: &res}, nil

	case model.KindShuttleRun:
		cfg, err := s.catalog.ShuttleRunConfig(m.ConfigID)
		if err != nil {
			return model.Outcome{}, err
		}
		table, err := s.catalog.Table(m.TableID)
		if err != nil {
			return model.Outcome{}, err
		}
		res, err := performance.ShuttleRun(m.Level, m.Lane, gender, cfg, table, takenAt)
		if err != nil {
			return model.Outcome{}, err
		}
		return model.Outcome{ShuttleRun: &res}, nil

	case model.KindMiddleDistance:
		table, err := s.catalog.Table(m.TableID)
		if err != nil {
			return model.Outcome{}, err
		}
		res, err := performance.MiddleDistance(m.Seconds, m.Meters, gender, table, takenAt)
		if err != nil {
			return model.Outcome{}, err
		}
		return model.Outcome{MiddleDistance: &res}, nil

	case model.KindSportabzeichen:
		all, err := s.catalog.Standards(m.DisciplineID)
		if err != nil {
			return model.Outcome{}, err
		}
		var age int
		if m.Age != nil {
			age = *m.Age
		} else {
			age = standards.AgeFromBirthYear(m.BirthYear, takenAt)
		}
		res, err := standards.EvaluateResult(all, standards.Input{
			DisciplineID: m.DisciplineID,
			Gender:       gender,
			Age:          age,
			Performance:  m.Performance,
		}, takenAt)
		if err != nil {
			return model.Outcome{}, err
		}
		return model.Outcome{Sportabzeichen: &res}, nil
	}
	return model.Outcome{}, fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
}

// EvaluateBatch evaluates every measurement and returns records and errors
// index-aligned with the input. One failure does not stop the others.
func (s *Service) EvaluateBatch(ctx context.Context, ms []model.Measurement) ([]model.Record, []error) {
	recs := make([]model.Record, len(ms))
	errs := make([]error, len(ms))

	var g errgroup.Group
	g.SetLimit(s.batchLimit)
	for i := range ms {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			recs[i], errs[i] = s.Evaluate(ctx, ms[i])
			return nil
		})
	}
	_ = g.Wait()
	return recs, errs
}

// Process evaluates a dequeued measurement. It is the worker pool's
// processor.
func (s *Service) Process(ctx context.Context, m model.Measurement) error { //nolint:gocritic // hugeParam: measurements are values
	_, err := s.Evaluate(ctx, m)
	return err
}

// Submit validates m and queues it for evaluation. A missing id is
// generated. A measurement id seen before is acknowledged as a duplicate
// and not queued again.
func (s *Service) Submit(ctx context.Context, m model.Measurement) (Ack, error) { //nolint:gocritic // hugeParam: measurements are values
	if !slices.Contains(model.Kinds, m.Kind) {
		return Ack{}, fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
	}
	if err := m.Validate(); err != nil {
		return Ack{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return Ack{}, ErrNotStarted
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if s.deduper.SeenAndRecord(ctx, m.ID) {
		metrics.RecordMeasurementDuplicate()
		return Ack{MeasurementID: m.ID, Duplicate: true}, nil
	}
	if err := s.queue.Enqueue(ctx, m); err != nil {
		s.deduper.Unrecord(ctx, m.ID)
		metrics.RecordMeasurementDropped()
		return Ack{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
	}
	return Ack{MeasurementID: m.ID}, nil
}
