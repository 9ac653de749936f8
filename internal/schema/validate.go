// Package schema checks a report for structural consistency before it is
// rendered or exported.
package schema

import (
	"fmt"
	"math"

	"github.com/dshills/gpacalc/internal/report"
)

// ValidationError describes a single consistency violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks that options are known, every student appears once, table
// names are unique, metrics agree with the requested options, and ranks
// match a fresh min-method ranking of each table.
func Validate(r *report.Report) []ValidationError {
	var errs []ValidationError

	if !r.Options.SortBy.Valid() {
		errs = append(errs, ValidationError{"options.sort_by", fmt.Sprintf("invalid: %q", r.Options.SortBy)})
	}
	if !r.Options.GroupBy.Valid() {
		errs = append(errs, ValidationError{"options.group_by", fmt.Sprintf("invalid: %q", r.Options.GroupBy)})
	}
	if !r.Grouped() && len(r.Tables) > 1 {
		errs = append(errs, ValidationError{"tables", fmt.Sprintf("ungrouped report has %d tables", len(r.Tables))})
	}

	tableNames := make(map[string]bool)
	rowIDs := make(map[string]bool)
	for i, t := range r.Tables {
		prefix := fmt.Sprintf("tables[%d]", i)
		if t.Name == "" {
			errs = append(errs, ValidationError{prefix + ".name", "required"})
		} else if tableNames[t.Name] {
			errs = append(errs, ValidationError{prefix + ".name", fmt.Sprintf("duplicate table: %q", t.Name)})
		} else {
			tableNames[t.Name] = true
		}

		for j, row := range t.Rows {
			rp := fmt.Sprintf("%s.rows[%d]", prefix, j)
			if row.ID == "" && row.Name == "" {
				errs = append(errs, ValidationError{rp, "row has neither id nor name"})
			}
			key := row.ID + "\x00" + row.Name
			if rowIDs[key] {
				errs = append(errs, ValidationError{rp + ".id", fmt.Sprintf("duplicate student: %q", row.ID)})
			}
			rowIDs[key] = true
			errs = append(errs, validateMetric(rp+".gpa", row.GPA, r.Options.ComputeGPA)...)
			errs = append(errs, validateMetric(rp+".caa", row.CAA, r.Options.ComputeCAA)...)
		}

		errs = append(errs, validateRanks(prefix, t)...)
	}

	return errs
}

func validateMetric(prefix string, m *report.Metric, wanted bool) []ValidationError {
	var errs []ValidationError
	switch {
	case !wanted && m != nil:
		return append(errs, ValidationError{prefix, "present but not requested"})
	case wanted && m == nil:
		return append(errs, ValidationError{prefix, "requested but missing"})
	case m == nil:
		return nil
	}
	if m.Credit < 0 || math.IsNaN(m.Credit) {
		errs = append(errs, ValidationError{prefix + ".credit", fmt.Sprintf("must be >= 0, got %v", m.Credit)})
	}
	if !m.Defined() {
		if m.Credit != 0 {
			errs = append(errs, ValidationError{prefix + ".credit", "undefined value must have zero credit"})
		}
		if m.Rank != report.Unranked {
			errs = append(errs, ValidationError{prefix + ".rank", fmt.Sprintf("undefined value must be unranked, got %d", m.Rank)})
		}
	} else if m.Rank < 1 {
		errs = append(errs, ValidationError{prefix + ".rank", fmt.Sprintf("must be >= 1, got %d", m.Rank)})
	}
	return errs
}

func validateRanks(prefix string, t report.Table) []ValidationError {
	fresh := make([]report.Row, len(t.Rows))
	for i, row := range t.Rows {
		fresh[i] = row
		if row.GPA != nil {
			m := *row.GPA
			fresh[i].GPA = &m
		}
		if row.CAA != nil {
			m := *row.CAA
			fresh[i].CAA = &m
		}
	}
	report.RankRows(fresh)

	var errs []ValidationError
	for i := range t.Rows {
		if got, want := t.Rows[i].GPA, fresh[i].GPA; got != nil && got.Rank != want.Rank {
			errs = append(errs, ValidationError{fmt.Sprintf("%s.rows[%d].gpa.rank", prefix, i), fmt.Sprintf("expected %d, got %d", want.Rank, got.Rank)})
		}
		if got, want := t.Rows[i].CAA, fresh[i].CAA; got != nil && got.Rank != want.Rank {
			errs = append(errs, ValidationError{fmt.Sprintf("%s.rows[%d].caa.rank", prefix, i), fmt.Sprintf("expected %d, got %d", want.Rank, got.Rank)})
		}
	}
	return errs
}
