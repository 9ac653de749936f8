// Package grade holds course results and per-semester records.
package grade

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/gpacalc/internal/policy"
	"github.com/dshills/gpacalc/internal/term"
)

// Kind classifies a grade cell.
type Kind int

const (
	// Absent means no grade was recorded for the course.
	Absent Kind = iota
	// Score is a numeric result.
	Score
	// Pass is a pass/fail result excluded from numeric averages.
	Pass
)

func (k Kind) String() string {
	switch k {
	case Score:
		return "score"
	case Pass:
		return "pass"
	default:
		return "absent"
	}
}

// passMarkers are the cell texts that denote a passed pass/fail course.
var passMarkers = map[string]bool{
	"P":  true,
	"通过": true,
}

// Mark is the parsed content of a grade cell.
type Mark struct {
	Kind  Kind
	Value float64
}

// ParseMark classifies a raw cell. Blank cells are Absent.
func ParseMark(cell string) (Mark, error) {
	text := strings.TrimSpace(cell)
	if text == "" {
		return Mark{Kind: Absent}, nil
	}
	if passMarkers[strings.ToUpper(text)] {
		return Mark{Kind: Pass}, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Mark{}, fmt.Errorf("grade.ParseMark: not a score: %q", cell)
	}
	return Mark{Kind: Score, Value: v}, nil
}

// Grade is one course result.
type Grade struct {
	Course string
	Credit float64
	Mark   Mark
}

// Record is the set of grades a student earned in one semester.
type Record struct {
	Semester term.Semester
	Grades   []Grade
}

// WeightedAverage returns Σ fn(score)·credit / Σ credit over non-pass grades,
// together with the credit sum. With no creditable grade the value is NaN
// and the credit is 0.
func (r *Record) WeightedAverage(fn policy.ScoreFunc) (float64, float64) {
	var sum, credit float64
	for _, g := range r.Grades {
		if g.Mark.Kind != Score {
			continue
		}
		sum += fn(g.Mark.Value) * g.Credit
		credit += g.Credit
	}
	if credit == 0 {
		return math.NaN(), 0
	}
	return sum / credit, credit
}

// GPA is the credit-weighted grade point average of the record.
func (r *Record) GPA() (float64, float64) {
	return r.WeightedAverage(policy.CreditPoint)
}

// CAA is the credit-weighted average of raw scores.
func (r *Record) CAA() (float64, float64) {
	return r.WeightedAverage(policy.Identity)
}
