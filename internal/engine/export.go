package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/gpacalc/internal/report"
	"github.com/dshills/gpacalc/internal/sheet"
	"github.com/dshills/gpacalc/internal/term"
)

// ErrEmptyReport is returned when exporting a report without tables.
var ErrEmptyReport = errors.New("report has no tables")

// Export writes rep as a workbook named filename under dir, adding the
// report extension when missing. It returns the written path.
func Export(rep *report.Report, dir, filename string) (string, error) {
	if len(rep.Tables) == 0 {
		return "", fmt.Errorf("engine.Export: %w", ErrEmptyReport)
	}
	if strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("engine.Export: empty file name")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("engine.Export: %w", err)
	}
	path := filepath.Join(dir, sheet.EnsureExtension(filename))
	if err := sheet.WriteWorkbook(path, report.Sheets(rep)); err != nil {
		return "", fmt.Errorf("engine.Export: %w", err)
	}
	return path, nil
}

// ReportFileName is the default export name for a cohort and semester span,
// e.g. "2015级2015-2016-1" or "2015级2015_2016_1-2016_2017_2".
func ReportFileName(cohort string, first, last term.Semester) string {
	if first == last {
		return cohort + first.String()
	}
	underscore := func(s term.Semester) string {
		return strings.ReplaceAll(s.String(), "-", "_")
	}
	return cohort + underscore(first) + "-" + underscore(last)
}
