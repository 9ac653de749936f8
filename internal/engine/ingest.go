package engine

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/gpacalc/internal/grade"
	"github.com/dshills/gpacalc/internal/roster"
	"github.com/dshills/gpacalc/internal/sheet"
	"github.com/dshills/gpacalc/internal/term"
)

// Grade sheet column layout: id, name, class id, then (score, credit) pairs.
const (
	colID        = 0
	colName      = 1
	colClass     = 2
	firstCourse  = 3
	courseStride = 2
)

// SheetKey is the identity encoded in a grade sheet filename such as
// F1526002-2015-2016-1.xlsx.
type SheetKey struct {
	ClassID  string
	Cohort   string
	Semester term.Semester
}

// ParseSheetKey decodes a grade sheet filename. A key whose semester fields
// are inconsistent is returned together with a *term.FormatError; any other
// error means the key is unusable.
func ParseSheetKey(filename string) (SheetKey, error) {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(stem, "-")
	if len(parts) != 4 {
		return SheetKey{}, fmt.Errorf("engine.ParseSheetKey: %q: want class-start-end-term", base)
	}

	classID := strings.TrimSpace(parts[0])
	cohort, err := CohortFromClass(classID)
	if err != nil {
		return SheetKey{}, fmt.Errorf("engine.ParseSheetKey: %q: %w", base, err)
	}

	var nums [3]int
	for i, p := range parts[1:] {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return SheetKey{}, fmt.Errorf("engine.ParseSheetKey: %q: %w", base, err)
		}
		nums[i] = n
	}
	sem, err := term.New(nums[0], nums[1], nums[2])
	return SheetKey{ClassID: classID, Cohort: cohort, Semester: sem}, err
}

// CohortFromClass derives the cohort year from a class id: "20" followed by
// the two digits after the leading letter, e.g. F1526002 → 2015.
func CohortFromClass(classID string) (string, error) {
	r := []rune(classID)
	if len(r) < 3 {
		return "", fmt.Errorf("class id %q too short", classID)
	}
	yy := string(r[1:3])
	if _, err := strconv.Atoi(yy); err != nil {
		return "", fmt.Errorf("class id %q has no cohort digits", classID)
	}
	return "20" + yy, nil
}

// ingestSheet attaches one grade sheet's rows to the students of idx.
func (b *builder) ingestSheet(key SheetKey, tbl sheet.Table, idx *roster.Index) {
	header := tbl.Header()
	for _, row := range tbl.Body() {
		name := sheet.Cell(row, colName)
		if name == "" {
			continue
		}
		classID := sheet.Cell(row, colClass)
		st, ok := idx.Lookup(name)
		if !ok {
			b.diags.Addf("missing %s%s basic info", classID, name)
			continue
		}

		rec := &grade.Record{Semester: key.Semester}
		for j := firstCourse; j < len(row); j += courseStride {
			course := sheet.Cell(header, j)
			if course == "" {
				course = fmt.Sprintf("column %d", j+1)
			}
			g, err := parseGrade(course, sheet.Cell(row, j), sheet.Cell(row, j+1))
			if errors.Is(err, errAbsent) {
				continue
			}
			if err != nil {
				msg := fmt.Sprintf("malformed grade %s%s %s: %v", classID, name, course, err)
				b.diags.Add(msg)
				st.Note(msg)
				continue
			}
			rec.Grades = append(rec.Grades, g)
		}

		if err := st.AddRecord(rec); err != nil {
			b.diags.Add(err.Error())
			st.Note(err.Error())
		}
	}
}

var errAbsent = errors.New("no grade")

func parseGrade(course, scoreCell, creditCell string) (grade.Grade, error) {
	mark, err := grade.ParseMark(scoreCell)
	if err != nil {
		return grade.Grade{}, fmt.Errorf("score %q", scoreCell)
	}
	if mark.Kind == grade.Absent {
		return grade.Grade{}, errAbsent
	}
	credit, err := strconv.ParseFloat(creditCell, 64)
	if err != nil || !(credit >= 0) || math.IsInf(credit, 0) {
		return grade.Grade{}, fmt.Errorf("credit %q", creditCell)
	}
	return grade.Grade{Course: course, Credit: credit, Mark: mark}, nil
}
