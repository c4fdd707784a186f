// Package performance turns raw discipline measurements (Cooper distance,
// shuttle-run stage, middle-distance time) into immutable result records by
// looking them up in a grade table.
//
// The caller passes the measurement time; nothing here reads a clock.
package performance

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/sportgrade/internal/domain/tables"
	"github.com/okian/sportgrade/internal/domain/types"
)

// Context dimension names used when probing tables.
const (
	DimGender = "gender"
	DimMeters = "meters"
)

// CooperResult is a graded 12-minute run.
type CooperResult struct {
	Meters  float64      `json:"meters"`
	Gender  types.Gender `json:"gender,omitempty"`
	Grade   types.Grade  `json:"grade"`
	TakenAt time.Time    `json:"takenAt"`
}

// ShuttleRunResult is a graded shuttle-run stage.
type ShuttleRunResult struct {
	Level           int          `json:"level"`
	Lane            int          `json:"lane"`
	Speed           float64      `json:"speed"`
	Stage           Stage        `json:"stage"`
	CompletedStages int          `json:"completedStages"`
	Elapsed         float64      `json:"elapsedSeconds"`
	Gender          types.Gender `json:"gender,omitempty"`
	Grade           types.Grade  `json:"grade"`
	TakenAt         time.Time    `json:"takenAt"`
}

// MiddleDistanceResult is a graded timed run over a fixed distance.
type MiddleDistanceResult struct {
	Seconds float64      `json:"seconds"`
	Meters  float64      `json:"meters,omitempty"`
	Gender  types.Gender `json:"gender,omitempty"`
	Grade   types.Grade  `json:"grade"`
	TakenAt time.Time    `json:"takenAt"`
}

// Cooper grades the distance covered in a Cooper test.
func Cooper(meters float64, gender types.Gender, table tables.Definition, takenAt time.Time) (CooperResult, error) {
	if err := checkValue("distance", meters); err != nil {
		return CooperResult{}, err
	}
	probe := withGender(tables.NewProbe("distance", meters), gender)
	g, err := tables.Lookup(probe, table)
	if err != nil {
		return CooperResult{}, fmt.Errorf("cooper: %w", err)
	}
	return CooperResult{Meters: meters, Gender: gender, Grade: g, TakenAt: takenAt}, nil
}

// ShuttleRun grades a reached level/lane. The pair must exist in cfg.
func ShuttleRun(level, lane int, gender types.Gender, cfg ShuttleRunConfig, table tables.Definition, takenAt time.Time) (ShuttleRunResult, error) {
	st, ok := cfg.Stage(level, lane)
	if !ok {
		return ShuttleRunResult{}, fmt.Errorf("%w: level %d lane %d not in %q", ErrInvalidStage, level, lane, cfg.ID)
	}
	probe := tables.Probe{Values: map[string]float64{
		"level": float64(level),
		"lane":  float64(lane),
	}}
	g, err := tables.Lookup(withGender(probe, gender), table)
	if err != nil {
		return ShuttleRunResult{}, fmt.Errorf("shuttle run: %w", err)
	}
	n, elapsed := cfg.Progress(st)
	return ShuttleRunResult{
		Level:           level,
		Lane:            lane,
		Speed:           st.Speed,
		Stage:           st,
		CompletedStages: n,
		Elapsed:         elapsed,
		Gender:          gender,
		Grade:           g,
		TakenAt:         takenAt,
	}, nil
}

// MiddleDistance grades a run time in seconds. A positive meters value is
// passed to the table as the "meters" dimension so one table can hold several
// race distances.
func MiddleDistance(seconds, meters float64, gender types.Gender, table tables.Definition, takenAt time.Time) (MiddleDistanceResult, error) {
	if err := checkValue("time", seconds); err != nil {
		return MiddleDistanceResult{}, err
	}
	if err := checkValue("meters", meters); err != nil {
		return MiddleDistanceResult{}, err
	}
	probe := withGender(tables.NewProbe("time", seconds), gender)
	if meters > 0 {
		probe = probe.With(DimMeters, types.FormatNumber(meters))
	}
	g, err := tables.Lookup(probe, table)
	if err != nil {
		return MiddleDistanceResult{}, fmt.Errorf("middle distance: %w", err)
	}
	return MiddleDistanceResult{Seconds: seconds, Meters: meters, Gender: gender, Grade: g, TakenAt: takenAt}, nil
}

// withGender adds the gender dimension unless it is unset or "any".
func withGender(p tables.Probe, g types.Gender) tables.Probe {
	if g == "" || g == types.Any {
		return p
	}
	return p.With(DimGender, string(g))
}

func checkValue(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s %v", ErrInvalidInput, name, v)
	}
	return nil
}
