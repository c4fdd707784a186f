package model_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/sportgrade/internal/domain/grading"
	"github.com/okian/sportgrade/internal/domain/model"
	"github.com/okian/sportgrade/internal/domain/standards"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMeasurementValidate(t *testing.T) {
	Convey("Given measurements of each kind", t, func() {
		age := 14
		valid := []model.Measurement{
			{Kind: model.KindGrade, GradingKeyID: "k"},
			{Kind: model.KindCriteria, SheetID: "s"},
			{Kind: model.KindCooper, TableID: "t"},
			{Kind: model.KindMiddleDistance, TableID: "t"},
			{Kind: model.KindShuttleRun, TableID: "t", ConfigID: "c"},
			{Kind: model.KindSportabzeichen, DisciplineID: "d", Age: &age},
			{Kind: model.KindSportabzeichen, DisciplineID: "d", BirthYear: 2012},
		}

		Convey("Then complete ones pass", func() {
			for _, m := range valid {
				So(m.Validate(), ShouldBeNil)
			}
		})

		Convey("When a reference is missing", func() {
			m := model.Measurement{Kind: model.KindShuttleRun, TableID: "t"}
			err := m.Validate()
			So(errors.Is(err, model.ErrInvalidMeasurement), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "configId")
		})

		Convey("When the kind is unknown", func() {
			m := model.Measurement{Kind: "javelin"}
			So(errors.Is(m.Validate(), model.ErrInvalidMeasurement), ShouldBeTrue)
		})

		Convey("When the age is missing", func() {
			m := model.Measurement{Kind: model.KindSportabzeichen, DisciplineID: "d"}
			So(errors.Is(m.Validate(), model.ErrInvalidMeasurement), ShouldBeTrue)
		})

		Convey("When a value is not finite", func() {
			m := model.Measurement{Kind: model.KindGrade, GradingKeyID: "k", Score: math.Inf(1)}
			So(errors.Is(m.Validate(), model.ErrInvalidMeasurement), ShouldBeTrue)
		})
	})
}

func TestNewRecord(t *testing.T) {
	Convey("Given an outcome", t, func() {
		now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
		m := &model.Measurement{ID: "m-1", SubjectID: "s-9", Kind: model.KindGrade}
		o := model.Outcome{Grade: &grading.Result{Grade: "2", Percentage: 85}}

		a := model.NewRecord(m, o, now)
		b := model.NewRecord(m, o, now)

		So(a.ID, ShouldNotEqual, b.ID)
		So(a.MeasurementID, ShouldEqual, "m-1")
		So(a.SubjectID, ShouldEqual, "s-9")
		So(a.CreatedAt, ShouldEqual, now)
		So(a.Outcome.Label(), ShouldEqual, "2")
	})

	Convey("Given a level outcome", t, func() {
		o := model.Outcome{Sportabzeichen: &standards.Result{Level: standards.Silver}}
		So(o.Label(), ShouldEqual, "silver")
		So(model.Outcome{}.Label(), ShouldEqual, "")
	})
}
