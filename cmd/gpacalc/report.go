package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/dshills/gpacalc/internal/engine"
	"github.com/dshills/gpacalc/internal/render"
	"github.com/dshills/gpacalc/internal/report"
	"github.com/dshills/gpacalc/internal/schema"
	"github.com/dshills/gpacalc/internal/term"
)

type reportFlags struct {
	cohort        string
	semester      string
	from          string
	to            string
	major         string
	source        string
	studentID     string
	sortBy        string
	format        string
	out           string
	exportDir     string
	xlsx          bool
	fileName      string
	failOnMissing bool
}

func newReportCmd(g *globalFlags) *cobra.Command {
	f := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute a ranked report for a cohort over one or more semesters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(g, f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.cohort, "cohort", "", "Cohort label, e.g. 2015级 (required)")
	flags.StringVar(&f.semester, "semester", "", "Single semester, e.g. 2015-2016-1")
	flags.StringVar(&f.from, "from", "", "First semester of a range")
	flags.StringVar(&f.to, "to", "", "Last semester of a range")
	flags.StringVar(&f.major, "major", "", "Keep only groups whose major matches")
	flags.StringVar(&f.source, "source", "", "Keep only groups whose admission source matches")
	flags.StringVar(&f.studentID, "student-id", "", "Report a single student")
	flags.StringVar(&f.sortBy, "sort", "gpa", "Row order: none, id, gpa or caa")
	flags.StringVar(&f.format, "format", "md", "Output format: md, json or yaml")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.exportDir, "export", "", "Also write an .xlsx workbook into this directory")
	flags.BoolVar(&f.xlsx, "xlsx", false, "Also write an .xlsx workbook into the configured output_dir")
	flags.StringVar(&f.fileName, "file-name", "", "Workbook file name (default: cohort and semesters)")
	flags.BoolVar(&f.failOnMissing, "fail-on-missing", false, "Exit non-zero when the report has diagnostics")

	return cmd
}

// semesterSpan resolves --semester or --from/--to. An inconsistent
// semester is returned with its *term.FormatError so the engine can record it.
func (f *reportFlags) semesterSpan() (first, last term.Semester, err error) {
	switch {
	case f.semester != "" && (f.from != "" || f.to != ""):
		return first, last, errors.New("use either --semester or --from/--to")
	case f.semester != "":
		first, err = term.Parse(f.semester)
		return first, first, err
	case f.from != "" && f.to != "":
		return term.ParseSpan(f.from, f.to)
	}
	return first, last, errors.New("--semester or both --from and --to are required")
}

func runReport(g *globalFlags, f *reportFlags, stdout, stderr io.Writer) error {
	cfg, logger, err := g.setup(stderr)
	if err != nil {
		return err
	}

	// 1. Validate flags
	if f.cohort == "" {
		return exitError(3, "--cohort is required")
	}
	first, last, err := f.semesterSpan()
	var fe *term.FormatError
	if err != nil && !errors.As(err, &fe) {
		return exitError(3, "invalid semester: %v", err)
	}
	sortBy, ok := report.ParseSortBy(f.sortBy)
	if !ok {
		return exitError(3, "unknown sort: %s", f.sortBy)
	}
	format := render.Format(f.format)
	if !format.Valid() {
		return exitError(3, "unknown format: %s", f.format)
	}

	// 2. Load inputs
	level.Debug(logger).Log("msg", "loading inputs", "roster_dir", cfg.RosterDir, "data_dir", cfg.DataDir)
	snap, err := engine.Load(sources(cfg), logger)
	if err != nil {
		return exitError(3, "failed to load inputs: %v", err)
	}
	for _, d := range snap.Diagnostics() {
		level.Debug(logger).Log("msg", "load diagnostic", "detail", d)
	}

	// 3. Query
	q := engine.Query{
		Cohort: f.cohort,
		Filters: engine.Filters{
			Major:     f.major,
			Source:    f.source,
			StudentID: f.studentID,
		},
		Sort: sortBy,
	}
	var rep report.Report
	if f.semester != "" {
		rep = snap.Search(q, first)
	} else {
		rep = snap.SearchRange(q, first, last)
	}

	// 4. Validate
	if errs := schema.Validate(&rep); len(errs) > 0 {
		fmt.Fprintln(stderr, "Report consistency errors:")
		for _, e := range errs {
			fmt.Fprintf(stderr, "  %s\n", e)
		}
		return exitError(5, "report failed consistency validation")
	}

	// 5. Output
	output, err := render.Report(&rep, format)
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	if f.out != "" {
		level.Debug(logger).Log("msg", "writing output", "path", f.out)
		if err := os.WriteFile(f.out, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Fprint(stdout, output)
	}

	// 6. Workbook export; --export wins over the configured directory
	exportDir := f.exportDir
	if exportDir == "" && f.xlsx {
		exportDir = cfg.OutputDir
	}
	if exportDir != "" && rep.Complete {
		name := f.fileName
		if name == "" {
			name = engine.ReportFileName(f.cohort, first, last)
		}
		path, err := engine.Export(&rep, exportDir, name)
		if err != nil {
			return exitError(4, "failed to export workbook: %v", err)
		}
		level.Info(logger).Log("msg", "workbook exported", "path", path, "tables", len(rep.Tables))
	} else if exportDir != "" {
		level.Warn(logger).Log("msg", "export skipped", "reason", "report incomplete")
	}

	// 7. Exit code based on --fail-on-missing
	if len(rep.Diagnostics) > 0 {
		level.Warn(logger).Log("msg", "report has diagnostics", "count", len(rep.Diagnostics))
		if f.failOnMissing {
			return exitError(2, "report has %d diagnostic(s)", len(rep.Diagnostics))
		}
	}
	return nil
}
