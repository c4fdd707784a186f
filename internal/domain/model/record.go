package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/okian/sportgrade/internal/domain/criteria"
	"github.com/okian/sportgrade/internal/domain/grading"
	"github.com/okian/sportgrade/internal/domain/performance"
	"github.com/okian/sportgrade/internal/domain/standards"
)

// Outcome holds the resolver result of one measurement. Criteria
// measurements fill both Criteria and Grade; every other kind fills one field.
type Outcome struct {
	Grade          *grading.Result                   `json:"grade,omitempty"`
	Criteria       *criteria.Summary                 `json:"criteria,omitempty"`
	Cooper         *performance.CooperResult         `json:"cooper,omitempty"`
	ShuttleRun     *performance.ShuttleRunResult     `json:"shuttleRun,omitempty"`
	MiddleDistance *performance.MiddleDistanceResult `json:"middleDistance,omitempty"`
	Sportabzeichen *standards.Result                 `json:"sportabzeichen,omitempty"`
}

// Label is the headline of the outcome: a grade or an achievement level.
func (o Outcome) Label() string {
	switch {
	case o.Grade != nil:
		return o.Grade.Grade.String()
	case o.Cooper != nil:
		return o.Cooper.Grade.String()
	case o.ShuttleRun != nil:
		return o.ShuttleRun.Grade.String()
	case o.MiddleDistance != nil:
		return o.MiddleDistance.Grade.String()
	case o.Sportabzeichen != nil:
		return o.Sportabzeichen.Level.String()
	}
	return ""
}

// Record is a stored evaluation. It is never modified after creation.
type Record struct {
	ID            uuid.UUID `json:"id"`
	MeasurementID string    `json:"measurementId,omitempty"`
	SubjectID     string    `json:"subjectId,omitempty"`
	Kind          Kind      `json:"kind"`
	CreatedAt     time.Time `json:"createdAt"`
	Outcome       Outcome   `json:"outcome"`
}

// NewRecord stamps an outcome with a fresh id.
func NewRecord(m *Measurement, o Outcome, now time.Time) Record {
	return Record{
		ID:            uuid.New(),
		MeasurementID: m.ID,
		SubjectID:     m.SubjectID,
		Kind:          m.Kind,
		CreatedAt:     now,
		Outcome:       o,
	}
}
