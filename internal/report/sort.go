package report

import "sort"

// SortRows orders rows in place. GPA and CAA sort descending with undefined
// values last; every other key sorts by student id ascending.
func SortRows(rows []Row, by SortBy) {
	switch by {
	case SortGPA:
		sortByMetric(rows, func(r Row) *Metric { return r.GPA })
	case SortCAA:
		sortByMetric(rows, func(r Row) *Metric { return r.CAA })
	default:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].ID < rows[j].ID
		})
	}
}

func sortByMetric(rows []Row, get func(Row) *Metric) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := get(rows[i]), get(rows[j])
		if !a.Defined() {
			return false
		}
		if !b.Defined() {
			return true
		}
		return a.Value > b.Value
	})
}
