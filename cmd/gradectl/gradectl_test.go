package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

const testCatalog = "../../internal/adapters/catalog/testdata/catalog.yaml"

func execute(stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--catalog", testCatalog}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGradectl(t *testing.T) {
	convey.Convey("Given the test catalog", t, func() {
		convey.Convey("validate summarizes it", func() {
			out, err := execute("", "validate")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "valid")
			convey.So(out, convey.ShouldContainSubstring, "grading keys")
		})

		convey.Convey("list shows a section", func() {
			out, err := execute("", "list", "tables")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "run-1000m")
			convey.So(out, convey.ShouldContainSubstring, "cooper-16")
		})

		convey.Convey("list rejects unknown sections", func() {
			_, err := execute("", "list", "teams")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("grade resolves a score", func() {
			out, err := execute("", "--json", "grade", "school-100", "92")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"grade": "1"`)
		})

		convey.Convey("grade rejects non-numeric points", func() {
			_, err := execute("", "grade", "school-100", "many")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("next-grade reports the gap", func() {
			out, err := execute("", "--json", "next-grade", "school-100", "85")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"pointsNeeded": 7`)
		})

		convey.Convey("evaluate grades stdin and reports failures", func() {
			in := `[{"kind":"grade","gradingKeyId":"school-100","score":85},{"kind":"javelin"}]`
			out, err := execute(in, "evaluate")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "1 of 2")
			convey.So(out, convey.ShouldContainSubstring, "grade")
		})

		convey.Convey("evaluate accepts a single object", func() {
			out, err := execute(`{"kind":"cooper","tableId":"cooper-16","meters":2500,"gender":"w"}`, "--json", "evaluate")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"kind": "cooper"`)
		})

		convey.Convey("overall takes the weakest level", func() {
			out, err := execute("", "overall", "gold", "bronze", "silver")
			convey.So(err, convey.ShouldBeNil)
			convey.So(strings.ToLower(out), convey.ShouldContainSubstring, "bronze")
		})

		convey.Convey("a missing catalog fails", func() {
			cmd := newRootCmd()
			cmd.SetArgs([]string{"--catalog", "missing.yaml", "validate"})
			cmd.SetOut(&bytes.Buffer{})
			convey.So(cmd.ExecuteContext(context.Background()), convey.ShouldNotBeNil)
		})
	})
}
