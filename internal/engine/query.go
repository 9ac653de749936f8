package engine

import (
	"fmt"
	"strings"

	"github.com/dshills/gpacalc/internal/report"
	"github.com/dshills/gpacalc/internal/term"
)

// Filters narrows a query. Major and Source select groups; StudentID
// selects a single student.
type Filters struct {
	Major     string `json:"major,omitempty" yaml:"major,omitempty"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	StudentID string `json:"student_id,omitempty" yaml:"student_id,omitempty"`
}

// Query is a report request for one cohort.
type Query struct {
	Cohort  string        `json:"cohort" yaml:"cohort"`
	Filters Filters       `json:"filters" yaml:"filters"`
	Sort    report.SortBy `json:"sort" yaml:"sort"`
}

// Options derives the report options for q. A student id query is neither
// grouped nor sorted by metric; major and source filters group by the
// filtered attributes.
func (q Query) Options() report.Options {
	opts := report.Options{
		ComputeGPA: true,
		ComputeCAA: true,
		SortBy:     q.Sort,
		GroupBy:    report.GroupNone,
	}
	if opts.SortBy == "" {
		opts.SortBy = report.SortNone
	}
	if q.Filters.StudentID != "" {
		opts.SortBy = report.SortNone
		return opts
	}
	switch {
	case q.Filters.Major != "" && q.Filters.Source != "":
		opts.GroupBy = report.GroupMajorSource
	case q.Filters.Major != "":
		opts.GroupBy = report.GroupMajor
	case q.Filters.Source != "":
		opts.GroupBy = report.GroupSource
	}
	return opts
}

// Search reports on a single semester.
func (s *Snapshot) Search(q Query, sem term.Semester) report.Report {
	var pre []string
	if !sem.Valid() {
		pre = append(pre, (&term.FormatError{Semester: sem}).Error())
	}
	return s.run(q, []term.Semester{sem}, pre)
}

// SearchRange reports on every semester from first to last inclusive.
func (s *Snapshot) SearchRange(q Query, first, last term.Semester) report.Report {
	sems, err := term.Range(first, last)
	if err != nil {
		return report.Report{
			Cohort:      q.Cohort,
			Options:     q.Options(),
			Diagnostics: append(s.Diagnostics(), err.Error()),
		}
	}
	return s.run(q, sems, nil)
}

// run answers q over sems. Load diagnostics lead every result, followed by
// pre and then whatever the query itself found.
func (s *Snapshot) run(q Query, sems []term.Semester, pre []string) report.Report {
	opts := q.Options()
	pre = append(s.Diagnostics(), pre...)

	ok, gaps := s.CheckCoverage(q.Cohort, sems)
	if !ok {
		return report.Report{
			Cohort:      q.Cohort,
			Semesters:   term.Strings(sems),
			Options:     opts,
			Diagnostics: append(pre, gaps...),
		}
	}

	students := s.SelectStudents(q.Cohort, "", q.Filters.StudentID)
	rep := BuildReport(students, sems, opts)
	rep.Cohort = q.Cohort
	rep.Diagnostics = append(pre, rep.Diagnostics...)

	if q.Filters.StudentID != "" && len(students) == 0 {
		rep.Diagnostics = append(rep.Diagnostics, fmt.Sprintf("no student %s in cohort %s", q.Filters.StudentID, q.Cohort))
	}
	if opts.GroupBy != report.GroupNone {
		rep.Tables = filterTables(rep.Tables, q.Filters)
		if len(rep.Tables) == 0 {
			rep.Diagnostics = append(rep.Diagnostics, fmt.Sprintf("no students match major %q source %q", q.Filters.Major, q.Filters.Source))
		}
	}
	return rep
}

func filterTables(tables []report.Table, f Filters) []report.Table {
	var out []report.Table
	for _, t := range tables {
		if f.Major != "" && !looseMatch(t.Major, f.Major) {
			continue
		}
		if f.Source != "" && !looseMatch(t.Source, f.Source) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// looseMatch reports whether either label contains the other, ignoring case,
// so a filter of "IE" matches a roster major of "IE信息工程".
func looseMatch(value, filter string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	f := strings.ToLower(strings.TrimSpace(filter))
	if v == "" || f == "" {
		return v == f
	}
	return strings.Contains(v, f) || strings.Contains(f, v)
}
