package report

import "sort"

// RankRows assigns min-method ranks to the GPA and CAA metrics independently:
// higher values rank better, ties share the best rank and the next distinct
// value skips ahead by the tie count. Undefined metrics stay Unranked.
func RankRows(rows []Row) {
	rankMetric(rows, func(r *Row) *Metric { return r.GPA })
	rankMetric(rows, func(r *Row) *Metric { return r.CAA })
}

func rankMetric(rows []Row, get func(*Row) *Metric) {
	var values []float64
	for i := range rows {
		m := get(&rows[i])
		if m.Defined() {
			values = append(values, m.Value)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	for i := range rows {
		m := get(&rows[i])
		if m == nil {
			continue
		}
		if !m.Defined() {
			m.Rank = Unranked
			continue
		}
		// First index holding a value not greater than m.Value.
		pos := sort.Search(len(values), func(k int) bool { return values[k] <= m.Value })
		m.Rank = pos + 1
	}
}
