// Package sheet reads and writes the tabular files gpacalc exchanges with
// users: .xlsx workbooks and .csv files.
package sheet

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupported is returned for files whose extension cannot be read.
var ErrUnsupported = errors.New("unsupported file format")

// Table is one sheet of string cells. Rows may be ragged.
type Table struct {
	Name string
	Rows [][]string
}

// Header returns the first row, or nil for an empty table.
func (t Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Body returns every row after the header.
func (t Table) Body() [][]string {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// Cell returns the trimmed cell at row, col or "" when out of range.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// File is a loaded tabular source.
type File struct {
	Path   string
	Tables []Table
	Hash   string
}

// Table returns the table with the given name, falling back to the first
// table when name is empty or absent.
func (f *File) Table(name string) (Table, bool) {
	if len(f.Tables) == 0 {
		return Table{}, false
	}
	if name != "" {
		for _, t := range f.Tables {
			if t.Name == name {
				return t, true
			}
		}
	}
	return f.Tables[0], true
}

// Supported reports whether path has a readable extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".csv":
		return true
	}
	return false
}

// Load reads a tabular file and computes its SHA-256 hash.
func Load(path string) (*File, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("sheet.Load: %s: %w", filepath.Base(path), ErrUnsupported)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sheet.Load: %w", err)
	}
	h := sha256.Sum256(data)
	f := &File{Path: path, Hash: fmt.Sprintf("sha256:%x", h)}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		t, err := readCSV(data)
		if err != nil {
			return nil, fmt.Errorf("sheet.Load: %s: %w", filepath.Base(path), err)
		}
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		f.Tables = []Table{t}
	default:
		tables, err := readXLSX(data)
		if err != nil {
			return nil, fmt.Errorf("sheet.Load: %s: %w", filepath.Base(path), err)
		}
		f.Tables = tables
	}
	return f, nil
}

func readCSV(data []byte) (Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return Table{}, err
	}
	return Table{Rows: rows}, nil
}

func readXLSX(data []byte) ([]Table, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	var tables []Table
	for _, name := range wb.GetSheetList() {
		rows, err := wb.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		tables = append(tables, Table{Name: name, Rows: rows})
	}
	return tables, nil
}

// List returns the regular files in dir sorted by name. Hidden files and
// office lock files are skipped.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("sheet.List: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasPrefix(n, ".") || strings.HasPrefix(n, "~$") {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
