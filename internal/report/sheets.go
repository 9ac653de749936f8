package report

import (
	"math"

	"github.com/dshills/gpacalc/internal/sheet"
)

// Columns returns the header of an exported table.
func Columns(opts Options) []string {
	cols := []string{"Name", "ID", "Class", "Major", "Source"}
	if opts.ComputeGPA {
		cols = append(cols, "GPA", "GPA Credits", "GPA Rank")
	}
	if opts.ComputeCAA {
		cols = append(cols, "CAA", "CAA Credits", "CAA Rank")
	}
	return cols
}

// Sheets converts the report tables into workbook sheets. Undefined averages
// are written as blank cells and keep the Unranked sentinel.
func Sheets(r *Report) []sheet.Sheet {
	header := Columns(r.Options)
	out := make([]sheet.Sheet, 0, len(r.Tables))
	for _, t := range r.Tables {
		rows := make([][]any, 0, len(t.Rows)+1)
		head := make([]any, len(header))
		for i, h := range header {
			head[i] = h
		}
		rows = append(rows, head)
		for _, row := range t.Rows {
			line := []any{row.Name, row.ID, row.ClassID, row.Major, row.Source}
			if r.Options.ComputeGPA {
				line = append(line, metricCells(row.GPA)...)
			}
			if r.Options.ComputeCAA {
				line = append(line, metricCells(row.CAA)...)
			}
			rows = append(rows, line)
		}
		out = append(out, sheet.Sheet{Name: t.Name, Rows: rows})
	}
	return out
}

func metricCells(m *Metric) []any {
	if m == nil {
		return []any{"", "", Unranked}
	}
	var v any = ""
	if m.Defined() {
		v = math.Round(m.Value*1e4) / 1e4
	}
	return []any{v, m.Credit, m.Rank}
}
