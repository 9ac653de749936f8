// Package report defines the ranked, grouped tables produced for a query.
package report

import (
	"encoding/json"
	"math"
)

// Unranked is the rank of a row whose metric is undefined.
const Unranked = -1

// DefaultTableName names the single table of an ungrouped report.
const DefaultTableName = "sheet1"

// Report is the result of one query.
type Report struct {
	Cohort      string   `json:"cohort" yaml:"cohort"`
	Semesters   []string `json:"semesters" yaml:"semesters"`
	Options     Options  `json:"options" yaml:"options"`
	Complete    bool     `json:"complete" yaml:"complete"`
	Tables      []Table  `json:"tables" yaml:"tables"`
	Diagnostics []string `json:"diagnostics" yaml:"diagnostics"`
}

// Grouped reports whether the report holds one table per group.
func (r *Report) Grouped() bool {
	return r.Options.GroupBy != GroupNone && r.Options.GroupBy != ""
}

// RowCount returns the number of rows across all tables.
func (r *Report) RowCount() int {
	n := 0
	for _, t := range r.Tables {
		n += len(t.Rows)
	}
	return n
}

// Options selects which metrics to compute and how to arrange rows.
type Options struct {
	ComputeGPA bool    `json:"compute_gpa" yaml:"compute_gpa"`
	ComputeCAA bool    `json:"compute_caa" yaml:"compute_caa"`
	SortBy     SortBy  `json:"sort_by" yaml:"sort_by"`
	GroupBy    GroupBy `json:"group_by" yaml:"group_by"`
}

// Table is one group of rows.
type Table struct {
	Name   string `json:"name" yaml:"name"`
	Major  string `json:"major,omitempty" yaml:"major,omitempty"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Rows   []Row  `json:"rows" yaml:"rows"`
}

// Row is one student's line in a table.
type Row struct {
	Name    string  `json:"name" yaml:"name"`
	ID      string  `json:"id" yaml:"id"`
	ClassID string  `json:"class_id" yaml:"class_id"`
	Major   string  `json:"major" yaml:"major"`
	Source  string  `json:"source" yaml:"source"`
	GPA     *Metric `json:"gpa,omitempty" yaml:"gpa,omitempty"`
	CAA     *Metric `json:"caa,omitempty" yaml:"caa,omitempty"`
}

// Metric is a credit-weighted average, its credit total and its rank.
// An undefined average is NaN with zero credit.
type Metric struct {
	Value  float64 `json:"value" yaml:"value"`
	Credit float64 `json:"credit" yaml:"credit"`
	Rank   int     `json:"rank" yaml:"rank"`
}

// NewMetric returns an unranked metric.
func NewMetric(value, credit float64) *Metric {
	return &Metric{Value: value, Credit: credit, Rank: Unranked}
}

// Defined reports whether the value is a number.
func (m *Metric) Defined() bool {
	return m != nil && !math.IsNaN(m.Value)
}

// MarshalJSON encodes an undefined value as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	var v *float64
	if !math.IsNaN(m.Value) && !math.IsInf(m.Value, 0) {
		v = &m.Value
	}
	return json.Marshal(struct {
		Value  *float64 `json:"value"`
		Credit float64  `json:"credit"`
		Rank   int      `json:"rank"`
	}{v, m.Credit, m.Rank})
}

// UnmarshalJSON accepts null for an undefined value.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value  *float64 `json:"value"`
		Credit float64  `json:"credit"`
		Rank   int      `json:"rank"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Value = math.NaN()
	if raw.Value != nil {
		m.Value = *raw.Value
	}
	m.Credit = raw.Credit
	m.Rank = raw.Rank
	return nil
}
