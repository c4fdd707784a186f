package performance_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/sportgrade/internal/domain/performance"
	"github.com/okian/sportgrade/internal/domain/tables"
	"github.com/okian/sportgrade/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var takenAt = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func cooperTable() tables.Definition {
	return tables.Definition{
		ID:   "cooper-16",
		Type: tables.KindDistance,
		Entries: []tables.Entry{
			{Key: map[string]any{"gender": "male", "minDistance": 2800}, Value: "1"},
			{Key: map[string]any{"gender": "male", "minDistance": 2400, "maxDistance": 2800}, Value: "2"},
			{Key: map[string]any{"gender": "female", "minDistance": 2400}, Value: "1"},
			{Key: map[string]any{"minDistance": 0}, Value: "4"},
		},
	}
}

func shuttleConfig() performance.ShuttleRunConfig {
	return performance.ShuttleRunConfig{
		ID:   "leger",
		Name: "Leger 20m",
		Levels: []performance.Stage{
			{Level: 2, Lane: 1, Speed: 9.0, Duration: 60},
			{Level: 1, Lane: 2, Speed: 8.5, Duration: 30},
			{Level: 1, Lane: 1, Speed: 8.5, Duration: 30},
			{Level: 2, Lane: 2, Speed: 9.0, Duration: 60},
		},
	}
}

func shuttleTable() tables.Definition {
	return tables.Definition{
		ID:   "leger-grades",
		Type: tables.KindLevelLane,
		Entries: []tables.Entry{
			{Key: map[string]any{"level": 2, "lane": 2}, Value: "1"},
			{Key: map[string]any{"level": 2, "lane": 1}, Value: "2"},
			{Key: map[string]any{"level": 1, "lane": 2}, Value: "3"},
		},
	}
}

func TestCooper(t *testing.T) {
	Convey("Given a Cooper table split by gender", t, func() {
		table := cooperTable()

		Convey("When a male student runs 2800m", func() {
			res, err := performance.Cooper(2800, types.Male, table, takenAt)

			Convey("Then the shared bound goes to the first listed bucket", func() {
				So(err, ShouldBeNil)
				So(res.Grade, ShouldEqual, types.Grade("1"))
				So(res.Meters, ShouldEqual, 2800)
				So(res.TakenAt, ShouldEqual, takenAt)
			})
		})

		Convey("When a female student runs 2500m", func() {
			res, err := performance.Cooper(2500, types.Female, table, takenAt)
			So(err, ShouldBeNil)
			So(res.Grade, ShouldEqual, types.Grade("1"))
		})

		Convey("When gender is any", func() {
			res, err := performance.Cooper(3000, types.Any, table, takenAt)

			Convey("Then only generic entries are eligible", func() {
				So(err, ShouldBeNil)
				So(res.Grade, ShouldEqual, types.Grade("4"))
			})
		})

		Convey("When the distance is invalid", func() {
			_, err := performance.Cooper(-5, types.Male, table, takenAt)
			So(errors.Is(err, performance.ErrInvalidInput), ShouldBeTrue)

			_, err = performance.Cooper(math.Inf(1), types.Male, table, takenAt)
			So(errors.Is(err, performance.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the table is empty", func() {
			_, err := performance.Cooper(2000, types.Male, tables.Definition{ID: "x", Type: tables.KindDistance}, takenAt)
			So(errors.Is(err, tables.ErrMalformedTable), ShouldBeTrue)
		})
	})
}

func TestShuttleRun(t *testing.T) {
	Convey("Given a shuttle-run config and table", t, func() {
		cfg, table := shuttleConfig(), shuttleTable()

		Convey("When a valid stage is reached", func() {
			res, err := performance.ShuttleRun(2, 1, "", cfg, table, takenAt)

			Convey("Then speed and progress come from the config", func() {
				So(err, ShouldBeNil)
				So(res.Grade, ShouldEqual, types.Grade("2"))
				So(res.Speed, ShouldEqual, 9.0)
				So(res.CompletedStages, ShouldEqual, 3)
				So(res.Elapsed, ShouldEqual, 120)
			})
		})

		Convey("When the stage is not configured", func() {
			_, err := performance.ShuttleRun(5, 1, "", cfg, table, takenAt)

			Convey("Then it fails before any lookup", func() {
				So(errors.Is(err, performance.ErrInvalidStage), ShouldBeTrue)
			})
		})

		Convey("When the stage is configured but not graded", func() {
			_, err := performance.ShuttleRun(1, 1, "", cfg, table, takenAt)
			So(errors.Is(err, tables.ErrNoMatchingEntry), ShouldBeTrue)
		})
	})
}

func TestShuttleRunConfig(t *testing.T) {
	Convey("Given a shuttle-run config", t, func() {
		cfg := shuttleConfig()

		Convey("Then stages sort by level and lane", func() {
			ordered := cfg.Ordered()
			So(ordered[0].Level, ShouldEqual, 1)
			So(ordered[0].Lane, ShouldEqual, 1)
			So(ordered[3].Level, ShouldEqual, 2)
			So(ordered[3].Lane, ShouldEqual, 2)
			So(cfg.Levels[0].Level, ShouldEqual, 2)
		})

		Convey("Then it validates", func() {
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("When a stage is duplicated", func() {
			cfg.Levels = append(cfg.Levels, performance.Stage{Level: 1, Lane: 1})
			So(errors.Is(cfg.Validate(), performance.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When there are no levels", func() {
			cfg.Levels = nil
			So(errors.Is(cfg.Validate(), performance.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestMiddleDistance(t *testing.T) {
	Convey("Given a time table covering two race distances", t, func() {
		table := tables.Definition{
			ID:   "md",
			Type: tables.KindTime,
			Entries: []tables.Entry{
				{Key: map[string]any{"meters": 800, "minTime": 0, "maxTime": 180}, Value: "1"},
				{Key: map[string]any{"meters": 1000, "minTime": 0, "maxTime": 240}, Value: "1"},
				{Key: map[string]any{"minTime": 0, "maxTime": 600}, Value: "5"},
			},
		}

		Convey("When the distance is given", func() {
			res, err := performance.MiddleDistance(230, 1000, types.Female, table, takenAt)
			So(err, ShouldBeNil)
			So(res.Grade, ShouldEqual, types.Grade("1"))

			res, err = performance.MiddleDistance(230, 800, types.Female, table, takenAt)
			So(err, ShouldBeNil)
			So(res.Grade, ShouldEqual, types.Grade("5"))
		})

		Convey("When the distance is omitted", func() {
			res, err := performance.MiddleDistance(100, 0, "", table, takenAt)
			So(err, ShouldBeNil)
			So(res.Grade, ShouldEqual, types.Grade("5"))
		})

		Convey("When the time is not finite", func() {
			_, err := performance.MiddleDistance(math.NaN(), 800, "", table, takenAt)
			So(errors.Is(err, performance.ErrInvalidInput), ShouldBeTrue)
		})
	})
}
