package sheet

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Extension is the extension of every exported workbook.
const Extension = ".xlsx"

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// Sheet is a named block of typed cells to be written.
type Sheet struct {
	Name string
	Rows [][]any
}

// EnsureExtension appends Extension to name when it is missing.
func EnsureExtension(name string) string {
	if strings.EqualFold(filepath.Ext(name), Extension) {
		return name
	}
	return name + Extension
}

// SheetName turns an arbitrary key into a valid, unique sheet name.
func SheetName(key string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(key))
	if name == "" {
		name = "sheet"
	}
	name = truncateRunes(name, maxSheetName)
	base := name
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := "_" + strconv.Itoa(i)
		name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// WriteWorkbook writes sheets to path as an .xlsx workbook.
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("sheet.WriteWorkbook: no sheets")
	}
	wb := excelize.NewFile()
	defer wb.Close()

	used := make(map[string]bool)
	for i, s := range sheets {
		name := SheetName(s.Name, used)
		if i == 0 {
			if err := wb.SetSheetName(wb.GetSheetName(0), name); err != nil {
				return fmt.Errorf("sheet.WriteWorkbook: %w", err)
			}
		} else if _, err := wb.NewSheet(name); err != nil {
			return fmt.Errorf("sheet.WriteWorkbook: %w", err)
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return fmt.Errorf("sheet.WriteWorkbook: %w", err)
			}
			values := row
			if err := wb.SetSheetRow(name, cell, &values); err != nil {
				return fmt.Errorf("sheet.WriteWorkbook: %s: %w", name, err)
			}
		}
	}
	wb.SetActiveSheet(0)
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("sheet.WriteWorkbook: %w", err)
	}
	return nil
}
