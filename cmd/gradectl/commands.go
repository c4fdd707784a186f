package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/okian/sportgrade/internal/adapters/catalog"
	"github.com/okian/sportgrade/internal/domain/model"
	"github.com/okian/sportgrade/internal/domain/types"
)

func validateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog and summarize its contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fi, err := os.Stat(opts.catalogPath)
			if err != nil {
				return fmt.Errorf("%w: %w", catalog.ErrLoadCatalog, err)
			}
			c, err := catalog.Load(cmd.Context(), opts.catalogPath)
			if err != nil {
				return err
			}
			counts := c.Counts()
			out := map[string]any{"path": opts.catalogPath, "size": fi.Size(), "counts": counts}
			if !opts.jsonOut {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%s)\n", opts.catalogPath, humanize.Bytes(uint64(fi.Size())))
			}
			rows := []table.Row{
				{"grading keys", counts["grading_keys"]},
				{"tables", counts["tables"]},
				{"shuttle-run configs", counts["shuttle_run_configs"]},
				{"criteria sheets", counts["criteria_sheets"]},
				{"standards", counts["standards"]},
			}
			return opts.print(cmd.OutOrStdout(), out, table.Row{"Section", "Entries"}, rows)
		},
	}
}

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "list {grading-keys|tables|shuttle-run-configs|criteria-sheets|standards}",
		Short:     "List one section of the catalog",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"grading-keys", "tables", "shuttle-run-configs", "criteria-sheets", "standards"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(cmd.Context(), opts.catalogPath)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			var rows []table.Row
			switch args[0] {
			case "grading-keys":
				for _, k := range c.GradingKeys {
					rows = append(rows, table.Row{k.ID, k.Name, k.Type, len(k.Boundaries)})
				}
				return opts.print(w, c.GradingKeys, table.Row{"ID", "Name", "Type", "Grades"}, rows)
			case "tables":
				for _, t := range c.Tables {
					rows = append(rows, table.Row{t.ID, t.Name, t.Type, humanize.Comma(int64(len(t.Entries)))})
				}
				return opts.print(w, c.Tables, table.Row{"ID", "Name", "Type", "Entries"}, rows)
			case "shuttle-run-configs":
				for _, s := range c.ShuttleRunConfigs {
					rows = append(rows, table.Row{s.ID, s.Name, len(s.Levels)})
				}
				return opts.print(w, c.ShuttleRunConfigs, table.Row{"ID", "Name", "Stages"}, rows)
			case "criteria-sheets":
				for _, s := range c.Sheets {
					rows = append(rows, table.Row{s.ID, s.Name, s.GradingKeyID, len(s.Criteria)})
				}
				return opts.print(w, c.Sheets, table.Row{"ID", "Name", "Grading key", "Criteria"}, rows)
			case "standards":
				for _, s := range c.Standards {
					ages := fmt.Sprintf("%d-%d", s.AgeMin, s.AgeMax)
					rows = append(rows, table.Row{s.DisciplineID, s.Gender, ages, s.Level, s.Comparison, types.FormatNumber(s.Threshold), s.Unit})
				}
				return opts.print(w, c.Standards, table.Row{"Discipline", "Gender", "Ages", "Level", "Comparison", "Threshold", "Unit"}, rows)
			default:
				return fmt.Errorf("unknown section %q", args[0])
			}
		},
	}
}

func gradeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "grade <grading-key> <points>",
		Short: "Resolve the grade for a score",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := parsePoints(args[1])
			if err != nil {
				return err
			}
			svc, err := opts.newService(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			rec, err := svc.Evaluate(cmd.Context(), model.Measurement{Kind: model.KindGrade, GradingKeyID: args[0], Score: points})
			if err != nil {
				return err
			}
			g := rec.Outcome.Grade
			return opts.print(cmd.OutOrStdout(), g,
				table.Row{"Grade", "Display", "Percentage"},
				[]table.Row{{g.Grade, g.DisplayValue, percent(g.Percentage)}})
		},
	}
}

func nextGradeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "next-grade <grading-key> <points>",
		Short: "Show the points missing for the next better grade",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := parsePoints(args[1])
			if err != nil {
				return err
			}
			svc, err := opts.newService(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			ng, err := svc.NextGrade(cmd.Context(), args[0], points)
			if err != nil {
				return err
			}
			next := "-"
			if ng.Next != nil {
				next = ng.Next.Grade.String()
			}
			return opts.print(cmd.OutOrStdout(), ng,
				table.Row{"Current", "Percentage", "Next", "Points needed"},
				[]table.Row{{ng.Current.Grade, percent(ng.Current.Percentage), next, ng.PointsNeeded}})
		},
	}
}

func evaluateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate [file]",
		Short: "Grade measurements read as JSON from a file or stdin",
		Long: `Reads one measurement object or an array of them. Every measurement kind is
accepted; items of an array are graded independently.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := readMeasurements(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			svc, err := opts.newService(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			recs, errs := svc.EvaluateBatch(cmd.Context(), ms)

			type item struct {
				Record *model.Record `json:"record,omitempty"`
				Error  string        `json:"error,omitempty"`
			}
			items := make([]item, len(ms))
			rows := make([]table.Row, len(ms))
			failed := 0
			for i := range ms {
				if errs[i] != nil {
					failed++
					items[i].Error = errs[i].Error()
					rows[i] = table.Row{i + 1, ms[i].Kind, ms[i].SubjectID, "", errs[i].Error()}
					continue
				}
				items[i].Record = &recs[i]
				rows[i] = table.Row{i + 1, recs[i].Kind, recs[i].SubjectID, recs[i].Outcome.Label(), ""}
			}
			if err := opts.print(cmd.OutOrStdout(), items, table.Row{"#", "Kind", "Subject", "Result", "Error"}, rows); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d measurements failed", failed, len(ms))
			}
			return nil
		},
	}
}

func overallCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "overall <level>...",
		Short: "Combine discipline levels into the overall sportabzeichen level",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			out, err := svc.WeakestLevel(cmd.Context(), args)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), out, table.Row{"Overall"}, []table.Row{{out.Level}})
		},
	}
}

func parsePoints(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("points %q: %w", s, err)
	}
	return v, nil
}

// readMeasurements decodes a single measurement or an array from the named
// file, or from in when no file (or "-") is given.
func readMeasurements(in io.Reader, args []string) ([]model.Measurement, error) {
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("no measurements given")
	}
	if strings.HasPrefix(string(data), "[") {
		var ms []model.Measurement
		if err := json.Unmarshal(data, &ms); err != nil {
			return nil, fmt.Errorf("decode measurements: %w", err)
		}
		if len(ms) == 0 {
			return nil, fmt.Errorf("no measurements given")
		}
		return ms, nil
	}
	var m model.Measurement
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode measurement: %w", err)
	}
	return []model.Measurement{m}, nil
}
