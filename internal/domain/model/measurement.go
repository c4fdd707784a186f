// Package model contains the records passed between the transport, queue,
// service and storage layers.
package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Kind selects the resolver for a measurement.
type Kind string

// Measurement kinds.
const (
	KindGrade          Kind = "grade"
	KindCriteria       Kind = "criteria"
	KindCooper         Kind = "cooper"
	KindShuttleRun     Kind = "shuttle_run"
	KindMiddleDistance Kind = "middle_distance"
	KindSportabzeichen Kind = "sportabzeichen"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindGrade, KindCriteria, KindCooper, KindShuttleRun, KindMiddleDistance, KindSportabzeichen}

// ErrInvalidMeasurement marks a measurement missing what its kind needs.
var ErrInvalidMeasurement = errors.New("invalid measurement")

// Measurement is one raw result submitted for grading. Which fields are used
// depends on Kind.
type Measurement struct {
	// ID is the idempotency key for asynchronous submission.
	ID        string `json:"id,omitempty"`
	SubjectID string `json:"subjectId,omitempty"`
	Kind      Kind   `json:"kind"`

	// Catalog references.
	GradingKeyID string `json:"gradingKeyId,omitempty"`
	SheetID      string `json:"sheetId,omitempty"`
	TableID      string `json:"tableId,omitempty"`
	ConfigID     string `json:"configId,omitempty"`
	DisciplineID string `json:"disciplineId,omitempty"`

	// Values.
	Score       float64            `json:"score,omitempty"`
	Scores      map[string]float64 `json:"scores,omitempty"`
	Meters      float64            `json:"meters,omitempty"`
	Seconds     float64            `json:"seconds,omitempty"`
	Level       int                `json:"level,omitempty"`
	Lane        int                `json:"lane,omitempty"`
	Performance float64            `json:"performance,omitempty"`

	// Subject context.
	Gender    string `json:"gender,omitempty"`
	Age       *int   `json:"age,omitempty"`
	BirthYear int    `json:"birthYear,omitempty"`

	TakenAt time.Time `json:"takenAt,omitzero"`
}

// Validate checks the fields required by the measurement kind. Value ranges
// are left to the resolvers.
func (m *Measurement) Validate() error {
	var missing []string
	need := func(name, v string) {
		if v == "" {
			missing = append(missing, name)
		}
	}
	switch m.Kind {
	case KindGrade:
		need("gradingKeyId", m.GradingKeyID)
	case KindCriteria:
		need("sheetId", m.SheetID)
	case KindCooper, KindMiddleDistance:
		need("tableId", m.TableID)
	case KindShuttleRun:
		need("tableId", m.TableID)
		need("configId", m.ConfigID)
	case KindSportabzeichen:
		need("disciplineId", m.DisciplineID)
		if m.Age == nil && m.BirthYear == 0 {
			missing = append(missing, "age or birthYear")
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidMeasurement, m.Kind)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s requires %v", ErrInvalidMeasurement, m.Kind, missing)
	}
	for _, v := range []float64{m.Score, m.Meters, m.Seconds, m.Performance} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidMeasurement)
		}
	}
	return nil
}
