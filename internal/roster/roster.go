// Package roster builds the name-keyed index of admitted students.
package roster

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/gpacalc/internal/sheet"
	"github.com/dshills/gpacalc/internal/student"
)

// tagLength is the number of leading runes of a roster filename that name
// its cohort, e.g. "2015级" or "2015F".
const tagLength = 5

// Columns names the roster header cells to read.
type Columns struct {
	Name   string `yaml:"name"`
	ID     string `yaml:"id"`
	Class  string `yaml:"class"`
	Major  string `yaml:"major"`
	Source string `yaml:"source"`
}

// DefaultColumns matches the admissions office export.
var DefaultColumns = Columns{
	Name:   "姓名",
	ID:     "学号",
	Class:  "班级",
	Major:  "录取专业",
	Source: "招生来源",
}

// Source is one roster table tagged with its cohort.
type Source struct {
	Tag   string
	Table sheet.Table
}

// TagFromFilename derives the cohort tag from a roster filename.
func TagFromFilename(path string) string {
	base := filepath.Base(path)
	r := []rune(base)
	if len(r) > tagLength {
		r = r[:tagLength]
	}
	return strings.TrimSuffix(string(r), ".")
}

// Index maps student names to students, in the order they were first seen.
type Index struct {
	byName map[string]*student.Student
	order  []string
}

// Lookup returns the student with the given name.
func (x *Index) Lookup(name string) (*student.Student, bool) {
	s, ok := x.byName[name]
	return s, ok
}

// Len returns the number of distinct names.
func (x *Index) Len() int {
	return len(x.byName)
}

// Students returns every student in first-seen order.
func (x *Index) Students() []*student.Student {
	out := make([]*student.Student, 0, len(x.order))
	for _, n := range x.order {
		out = append(out, x.byName[n])
	}
	return out
}

// put stores s under its name. A later entry for the same name replaces the
// earlier one and keeps its position.
func (x *Index) put(s *student.Student) (*student.Student, bool) {
	old, ok := x.byName[s.Name]
	if !ok {
		x.order = append(x.order, s.Name)
	}
	x.byName[s.Name] = s
	return old, ok
}

// Build reads every source into one index. Problems with individual tables
// or rows are returned as diagnostics; Build itself never fails.
func Build(sources []Source, cols Columns) (*Index, []string) {
	x := &Index{byName: make(map[string]*student.Student)}
	var diags []string

	for _, src := range sources {
		pos, err := locate(src.Table.Header(), cols)
		if err != nil {
			diags = append(diags, fmt.Sprintf("roster %s: %v", src.Tag, err))
			continue
		}
		for _, row := range src.Table.Body() {
			name := sheet.Cell(row, pos.name)
			if name == "" {
				continue
			}
			s := student.New(
				name,
				sheet.Cell(row, pos.id),
				src.Tag,
				sheet.Cell(row, pos.class),
				sheet.Cell(row, pos.major),
				sheet.Cell(row, pos.source),
			)
			if old, replaced := x.put(s); replaced {
				diags = append(diags, fmt.Sprintf("duplicate roster entry for %s: %s %s replaced by %s %s",
					name, old.Cohort, old.ID, s.Cohort, s.ID))
			}
		}
	}
	return x, diags
}

type positions struct {
	name, id, class, major, source int
}

func locate(header []string, cols Columns) (positions, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	var missing []string
	find := func(name string) int {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	p := positions{
		name:   find(cols.Name),
		id:     find(cols.ID),
		class:  find(cols.Class),
		major:  find(cols.Major),
		source: find(cols.Source),
	}
	if len(missing) > 0 {
		return p, fmt.Errorf("missing columns %s", strings.Join(missing, ", "))
	}
	return p, nil
}
