package criteria_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/sportgrade/internal/domain/criteria"
	"github.com/okian/sportgrade/internal/domain/grading"
	"github.com/okian/sportgrade/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func pct(v float64) *float64 { return &v }

func TestAggregate(t *testing.T) {
	Convey("Given partially graded criteria", t, func() {
		scores := map[string]float64{"technique": 7, "endurance": 5.5, "extra": 100}

		Convey("When aggregating selected ids", func() {
			total := criteria.Aggregate(scores, []string{"technique", "endurance", "teamwork"})

			Convey("Then missing scores count as zero and others are ignored", func() {
				So(total, ShouldEqual, 12.5)
			})
		})

		Convey("When aggregating no ids", func() {
			So(criteria.Aggregate(scores, nil), ShouldEqual, 0)
		})
	})
}

func TestPercentage(t *testing.T) {
	Convey("Given totals", t, func() {
		So(criteria.Percentage(15, 20), ShouldEqual, 75)
		So(criteria.Percentage(15, 0), ShouldEqual, 0)
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given a weighted sheet", t, func() {
		sheet := []criteria.Criterion{
			{ID: "technique", MaxPoints: 10, Weight: 2},
			{ID: "endurance", MaxPoints: 10},
		}

		Convey("When summarizing", func() {
			s, err := criteria.Summarize(map[string]float64{"technique": 8, "endurance": 5}, sheet)

			Convey("Then weights apply to awarded and maximum points", func() {
				So(err, ShouldBeNil)
				So(s.Total, ShouldEqual, 21)
				So(s.Max, ShouldEqual, 30)
				So(s.Percentage, ShouldAlmostEqual, 70, 1e-9)
			})
		})

		Convey("When a score is not finite", func() {
			_, err := criteria.Summarize(map[string]float64{"technique": math.NaN()}, sheet)
			So(errors.Is(err, criteria.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the sheet is empty", func() {
			s, err := criteria.Summarize(nil, nil)
			So(err, ShouldBeNil)
			So(s.Percentage, ShouldEqual, 0)
		})
	})
}

func TestGrade(t *testing.T) {
	Convey("Given a sheet and a percentage key", t, func() {
		key := grading.Key{
			ID:   "pe",
			Type: grading.TypePercentage,
			Boundaries: []grading.Boundary{
				{Grade: "1", MinPercentage: pct(85)},
				{Grade: "2", MinPercentage: pct(70)},
				{Grade: "3"},
			},
		}
		sheet := []criteria.Criterion{{ID: "a", MaxPoints: 10}, {ID: "b", MaxPoints: 10}}

		Convey("When grading", func() {
			s, res, err := criteria.Grade(map[string]float64{"a": 9, "b": 9}, sheet, key)

			Convey("Then the summary feeds the boundary resolver", func() {
				So(err, ShouldBeNil)
				So(s.Total, ShouldEqual, 18)
				So(res.Grade, ShouldEqual, types.Grade("1"))
			})
		})

		Convey("When the key has no floor", func() {
			key.Boundaries = key.Boundaries[:2]
			_, _, err := criteria.Grade(map[string]float64{"a": 1}, sheet, key)
			So(errors.Is(err, grading.ErrNoMatchingBoundary), ShouldBeTrue)
		})
	})
}

func TestIDs(t *testing.T) {
	Convey("Given a sheet", t, func() {
		So(criteria.IDs([]criteria.Criterion{{ID: "x"}, {ID: "y"}}), ShouldResemble, []string{"x", "y"})
	})
}
