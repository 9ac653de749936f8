// Package render produces Markdown, JSON and YAML output from a report.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/dshills/gpacalc/internal/report"
)

// Markdown renders a report as Markdown tables.
func Markdown(r *report.Report) string {
	var b strings.Builder

	// Summary
	cohort := r.Cohort
	if cohort == "" {
		cohort = "(none)"
	}
	fmt.Fprintf(&b, "# Grade Report: %s\n\n", cohort)
	fmt.Fprintf(&b, "**Semesters:** %s\n", strings.Join(r.Semesters, ", "))
	fmt.Fprintf(&b, "**Students:** %d in %d table(s)\n", r.RowCount(), len(r.Tables))
	if r.Options.SortBy != "" && r.Options.SortBy != report.SortNone {
		fmt.Fprintf(&b, "**Sorted by:** %s\n", r.Options.SortBy)
	}
	if r.Grouped() {
		fmt.Fprintf(&b, "**Grouped by:** %s\n", r.Options.GroupBy)
	}
	b.WriteString("\n")

	if !r.Complete {
		b.WriteString("Report incomplete: grade sheets are missing.\n\n")
	}

	cols := report.Columns(r.Options)
	for _, t := range r.Tables {
		if r.Grouped() {
			fmt.Fprintf(&b, "## %s\n\n", t.Name)
		}
		if len(t.Rows) == 0 {
			b.WriteString("No students.\n\n")
			continue
		}
		writeHeader(&b, cols)
		for _, row := range t.Rows {
			cells := []string{row.Name, row.ID, row.ClassID, row.Major, row.Source}
			if r.Options.ComputeGPA {
				cells = append(cells, metricCells(row.GPA)...)
			}
			if r.Options.ComputeCAA {
				cells = append(cells, metricCells(row.CAA)...)
			}
			writeRow(&b, cells)
		}
		b.WriteString("\n")
	}

	if len(r.Diagnostics) > 0 {
		b.WriteString("## Diagnostics\n\n")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "- %s\n", d)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeHeader(b *strings.Builder, cols []string) {
	writeRow(b, cols)
	sep := make([]string, len(cols))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep)
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		fmt.Fprintf(b, " %s |", strings.ReplaceAll(c, "|", `\|`))
	}
	b.WriteString("\n")
}

func metricCells(m *report.Metric) []string {
	if !m.Defined() {
		return []string{"-", "0", "-"}
	}
	return []string{
		formatValue(m.Value),
		formatValue(m.Credit),
		fmt.Sprintf("%d", m.Rank),
	}
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4g", v)
}
