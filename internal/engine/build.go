package engine

import (
	"github.com/dshills/gpacalc/internal/report"
	"github.com/dshills/gpacalc/internal/student"
	"github.com/dshills/gpacalc/internal/term"
)

// BuildReport computes each student's averages over sems and arranges the
// rows into grouped, sorted and ranked tables. Diagnostics of every student
// touched are collected in student order. Students are not modified.
func BuildReport(students []*student.Student, sems []term.Semester, opts report.Options) report.Report {
	if opts.SortBy == "" {
		opts.SortBy = report.SortNone
	}
	if opts.GroupBy == "" {
		opts.GroupBy = report.GroupNone
	}

	rows := make([]report.Row, 0, len(students))
	var diags []string
	for _, st := range students {
		sink := st.Diagnostics()
		row := report.Row{
			Name:    st.Name,
			ID:      st.ID,
			ClassID: st.ClassID,
			Major:   st.Major,
			Source:  st.Source,
		}
		if opts.ComputeGPA {
			row.GPA = report.NewMetric(st.GPA(sems, sink))
		}
		if opts.ComputeCAA {
			row.CAA = report.NewMetric(st.CAA(sems, sink))
		}
		diags = append(diags, sink.Items()...)
		rows = append(rows, row)
	}

	return report.Report{
		Semesters:   term.Strings(sems),
		Options:     opts,
		Complete:    true,
		Tables:      report.Assemble(rows, opts),
		Diagnostics: diags,
	}
}
