// Package term models academic semesters and semester ranges.
package term

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Semester identifies one academic term, e.g. 2015-2016-1.
type Semester struct {
	Start  int `json:"start" yaml:"start"`
	End    int `json:"end" yaml:"end"`
	Number int `json:"number" yaml:"number"`
}

// FormatError reports a semester whose fields are inconsistent. It is
// non-fatal: the Semester is still returned and simply matches nothing valid.
type FormatError struct {
	Semester Semester
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed semester %s", e.Semester)
}

// ErrEmptyRange is returned by Range when the last semester precedes the first.
var ErrEmptyRange = errors.New("semester range is empty")

// New builds a Semester. A non-nil *FormatError is returned alongside the
// value when End is not Start+1 or Number is not 1 or 2.
func New(start, end, number int) (Semester, error) {
	s := Semester{Start: start, End: end, Number: number}
	if !s.Valid() {
		return s, &FormatError{Semester: s}
	}
	return s, nil
}

// Valid reports whether the years are adjacent and the number is 1 or 2.
func (s Semester) Valid() bool {
	return s.End == s.Start+1 && (s.Number == 1 || s.Number == 2)
}

// String returns the canonical "start-end-number" form.
func (s Semester) String() string {
	return fmt.Sprintf("%d-%d-%d", s.Start, s.End, s.Number)
}

// Before reports whether s is chronologically earlier than o.
func (s Semester) Before(o Semester) bool {
	if s.Start != o.Start {
		return s.Start < o.Start
	}
	return s.Number < o.Number
}

// Next returns the following semester.
func (s Semester) Next() Semester {
	if s.Number == 1 {
		return Semester{Start: s.Start, End: s.End, Number: 2}
	}
	return Semester{Start: s.Start + 1, End: s.End + 1, Number: 1}
}

// Parse reads the canonical "start-end-number" form. Syntax errors are
// returned as plain errors; well-formed but inconsistent values come back
// with a *FormatError.
func Parse(text string) (Semester, error) {
	parts := strings.Split(strings.TrimSpace(text), "-")
	if len(parts) != 3 {
		return Semester{}, fmt.Errorf("term.Parse: %q: want start-end-number", text)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Semester{}, fmt.Errorf("term.Parse: %q: %w", text, err)
		}
		nums[i] = n
	}
	return New(nums[0], nums[1], nums[2])
}

// ParseSpan parses both ends of a range. A malformed end is reported in
// preference to an inconsistent one, so the returned error is a
// *FormatError only when both texts parsed.
func ParseSpan(from, to string) (first, last Semester, err error) {
	first, errFirst := Parse(from)
	last, errLast := Parse(to)
	var fe *FormatError
	for _, e := range []error{errFirst, errLast} {
		if e != nil && !errors.As(e, &fe) {
			return first, last, e
		}
	}
	if errFirst != nil {
		return first, last, errFirst
	}
	return first, last, errLast
}

// Range expands first..last inclusive into chronological order.
func Range(first, last Semester) ([]Semester, error) {
	if !first.Valid() {
		return nil, &FormatError{Semester: first}
	}
	if !last.Valid() {
		return nil, &FormatError{Semester: last}
	}
	if last.Before(first) {
		return nil, fmt.Errorf("term.Range: %s..%s: %w", first, last, ErrEmptyRange)
	}
	var out []Semester
	for s := first; ; s = s.Next() {
		out = append(out, s)
		if s == last {
			break
		}
	}
	return out, nil
}

// Strings returns the canonical form of each semester.
func Strings(sems []Semester) []string {
	out := make([]string, len(sems))
	for i, s := range sems {
		out[i] = s.String()
	}
	return out
}
