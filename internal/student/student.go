// Package student models a student and the records attached during ingest.
package student

import (
	"fmt"
	"math"

	"github.com/dshills/gpacalc/internal/diag"
	"github.com/dshills/gpacalc/internal/grade"
	"github.com/dshills/gpacalc/internal/policy"
	"github.com/dshills/gpacalc/internal/term"
)

// Student holds roster identity and the semester records ingested for it.
// It is only mutated during ingest; queries treat it as read-only.
type Student struct {
	ID      string
	Name    string
	Cohort  string
	ClassID string
	Major   string
	Source  string

	records []*grade.Record
	byTerm  map[term.Semester]*grade.Record
	diags   diag.Set
}

// New creates a Student with no records.
func New(name, id, cohort, classID, major, source string) *Student {
	return &Student{
		ID:      id,
		Name:    name,
		Cohort:  cohort,
		ClassID: classID,
		Major:   major,
		Source:  source,
		byTerm:  make(map[term.Semester]*grade.Record),
	}
}

// AddRecord attaches a semester record. A student holds at most one record
// per semester; a second one is rejected with an error.
func (s *Student) AddRecord(r *grade.Record) error {
	if s.byTerm == nil {
		s.byTerm = make(map[term.Semester]*grade.Record)
	}
	if _, ok := s.byTerm[r.Semester]; ok {
		return fmt.Errorf("duplicate %s grades for %s%s", r.Semester, s.ClassID, s.Name)
	}
	s.byTerm[r.Semester] = r
	s.records = append(s.records, r)
	return nil
}

// FindRecord returns the record for sem, or nil.
func (s *Student) FindRecord(sem term.Semester) *grade.Record {
	return s.byTerm[sem]
}

// Records returns the records in ingest order.
func (s *Student) Records() []*grade.Record {
	out := make([]*grade.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Note records an ingest-time diagnostic about this student.
func (s *Student) Note(msg string) {
	s.diags.Add(msg)
}

// Diagnostics returns a copy of the ingest-time diagnostics.
func (s *Student) Diagnostics() *diag.Set {
	return s.diags.Clone()
}

// MissingMessage is the diagnostic emitted when a requested semester has no
// record.
func (s *Student) MissingMessage(sem term.Semester) string {
	return fmt.Sprintf("missing %s %s %s grades", s.ClassID, s.Name, sem)
}

// AverageOver combines per-semester weighted averages across semesters,
// weighting each by its credit total. Missing semesters are reported to sink
// and excluded. A found semester without scored credit (only pass grades, say)
// adds nothing. With no scored credit at all the value is NaN and the credit
// is 0.
func (s *Student) AverageOver(sems []term.Semester, fn policy.ScoreFunc, sink *diag.Set) (float64, float64) {
	var sum, credit float64
	for _, sem := range sems {
		r := s.FindRecord(sem)
		if r == nil {
			if sink != nil {
				sink.Add(s.MissingMessage(sem))
			}
			continue
		}
		v, c := r.WeightedAverage(fn)
		if c == 0 {
			continue
		}
		sum += v * c
		credit += c
	}
	if credit == 0 {
		return math.NaN(), 0
	}
	return sum / credit, credit
}

// GPA is AverageOver with the grade point policy.
func (s *Student) GPA(sems []term.Semester, sink *diag.Set) (float64, float64) {
	return s.AverageOver(sems, policy.CreditPoint, sink)
}

// CAA is AverageOver with raw scores.
func (s *Student) CAA(sems []term.Semester, sink *diag.Set) (float64, float64) {
	return s.AverageOver(sems, policy.Identity, sink)
}
