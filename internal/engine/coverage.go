package engine

import (
	"sort"

	"github.com/dshills/gpacalc/internal/term"
)

// Coverage records which cohort/semester grade sheets were found. It is keyed
// by filenames only, so a listed sheet whose body failed to parse still
// counts as covered.
type Coverage struct {
	bySemester map[string]map[term.Semester]struct{}
}

// NewCoverage returns an empty coverage map.
func NewCoverage() *Coverage {
	return &Coverage{bySemester: make(map[string]map[term.Semester]struct{})}
}

// Add marks sem as covered for cohort.
func (c *Coverage) Add(cohort string, sem term.Semester) {
	set, ok := c.bySemester[cohort]
	if !ok {
		set = make(map[term.Semester]struct{})
		c.bySemester[cohort] = set
	}
	set[sem] = struct{}{}
}

// HasCohort reports whether any sheet was found for cohort.
func (c *Coverage) HasCohort(cohort string) bool {
	_, ok := c.bySemester[cohort]
	return ok
}

// Has reports whether sem is covered for cohort.
func (c *Coverage) Has(cohort string, sem term.Semester) bool {
	_, ok := c.bySemester[cohort][sem]
	return ok
}

// Cohorts returns the covered cohorts in ascending order.
func (c *Coverage) Cohorts() []string {
	out := make([]string, 0, len(c.bySemester))
	for k := range c.bySemester {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Semesters returns the covered semesters of cohort in chronological order.
func (c *Coverage) Semesters(cohort string) []term.Semester {
	set := c.bySemester[cohort]
	out := make([]term.Semester, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
