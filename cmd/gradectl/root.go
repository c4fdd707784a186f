package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/okian/sportgrade/internal/adapters/catalog"
	app "github.com/okian/sportgrade/internal/app"
	"github.com/okian/sportgrade/internal/config"
	"github.com/okian/sportgrade/pkg/logger"
)

// options carries the persistent flags shared by every subcommand.
type options struct {
	catalogPath string
	jsonOut     bool
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "gradectl",
		Short: "Grade PE measurements against a catalog",
		Long: `gradectl loads a catalog of grading keys, lookup tables, shuttle-run
configurations, criteria sheets and sportabzeichen standards, and grades
measurements against it without a running server.

The catalog path defaults to the server setting (SPORTGRADE_CATALOG_PATH).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.catalogPath != "" {
				return nil
			}
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			opts.catalogPath = cfg.CatalogPath
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.catalogPath, "catalog", "c", "", "catalog file (yaml or json)")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "output JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log evaluations to stderr")

	root.AddCommand(
		validateCmd(opts),
		listCmd(opts),
		gradeCmd(opts),
		nextGradeCmd(opts),
		evaluateCmd(opts),
		overallCmd(opts),
	)
	return root
}

// newService loads the catalog and returns a synchronous grading service.
func (o *options) newService(ctx context.Context, cmd *cobra.Command) (*app.Service, error) {
	c, err := catalog.Load(ctx, o.catalogPath)
	if err != nil {
		return nil, err
	}
	store, err := catalog.NewStore(c)
	if err != nil {
		return nil, err
	}
	log := logger.NewNop()
	if o.verbose {
		log = logger.New(cmd.ErrOrStderr(), logger.FormatText)
	}
	return app.New(app.WithCatalog(store), app.WithLogger(log)), nil
}

// print writes v as indented JSON when --json is set, else renders the rows.
func (o *options) print(w io.Writer, v any, header table.Row, rows []table.Row) error {
	if o.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	tw.Render()
	return nil
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
