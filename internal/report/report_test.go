package report

import (
	"encoding/json"
	"math"
	"testing"
)

// --- Enum validation tests ---

func TestSortByValid(t *testing.T) {
	for _, s := range []SortBy{SortNone, SortGPA, SortCAA, SortID} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if SortBy("name").Valid() {
		t.Error("expected name sort to be invalid")
	}
}

func TestParseSortBy(t *testing.T) {
	tests := []struct {
		input  string
		want   SortBy
		wantOK bool
	}{
		{"", SortNone, true},
		{"GPA", SortGPA, true},
		{" caa ", SortCAA, true},
		{"id", SortID, true},
		{"rank", SortBy("rank"), false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSortBy(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseSortBy(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGroupByValid(t *testing.T) {
	for _, g := range []GroupBy{GroupNone, GroupMajor, GroupSource, GroupMajorSource} {
		if !g.Valid() {
			t.Errorf("expected %q to be valid", g)
		}
	}
	if _, ok := ParseGroupBy("class"); ok {
		t.Error("expected class grouping to be invalid")
	}
}

// --- Sort tests ---

func row(id string, gpa, caa float64) Row {
	return Row{ID: id, GPA: NewMetric(gpa, 1), CAA: NewMetric(caa, 1)}
}

func ids(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func equalIDs(t *testing.T, got []Row, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("ids = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Errorf("position %d: got ID %s, want %s", i, g[i], want[i])
		}
	}
}

func TestSortRows(t *testing.T) {
	nan := math.NaN()
	base := []Row{
		row("3", 3.0, 80),
		row("1", nan, nan),
		row("2", 4.0, 70),
		row("10", 3.5, 90),
	}

	rows := append([]Row(nil), base...)
	SortRows(rows, SortGPA)
	equalIDs(t, rows, "2", "10", "3", "1")

	rows = append([]Row(nil), base...)
	SortRows(rows, SortCAA)
	equalIDs(t, rows, "10", "3", "2", "1")

	rows = append([]Row(nil), base...)
	SortRows(rows, SortNone)
	equalIDs(t, rows, "1", "10", "2", "3")
}

// --- Rank tests ---

func TestRankRowsMinMethod(t *testing.T) {
	rows := []Row{
		row("a", 4.0, 90),
		row("b", 4.3, 90),
		row("c", 4.3, 85),
		row("d", 3.7, math.NaN()),
		row("e", 4.0, 70),
	}
	RankRows(rows)

	wantGPA := map[string]int{"a": 3, "b": 1, "c": 1, "d": 5, "e": 3}
	wantCAA := map[string]int{"a": 1, "b": 1, "c": 3, "d": Unranked, "e": 4}
	for _, r := range rows {
		if r.GPA.Rank != wantGPA[r.ID] {
			t.Errorf("%s GPA rank = %d, want %d", r.ID, r.GPA.Rank, wantGPA[r.ID])
		}
		if r.CAA.Rank != wantCAA[r.ID] {
			t.Errorf("%s CAA rank = %d, want %d", r.ID, r.CAA.Rank, wantCAA[r.ID])
		}
	}
}

func TestRankRowsSkipsMissingMetric(t *testing.T) {
	rows := []Row{{ID: "a", GPA: NewMetric(3, 2)}, {ID: "b", GPA: NewMetric(4, 2)}}
	RankRows(rows)
	if rows[0].GPA.Rank != 2 || rows[1].GPA.Rank != 1 {
		t.Errorf("ranks = %d, %d", rows[0].GPA.Rank, rows[1].GPA.Rank)
	}
	if rows[0].CAA != nil {
		t.Error("CAA should stay nil when not computed")
	}
}

// --- Group tests ---

func TestGroupFirstAppearance(t *testing.T) {
	rows := []Row{
		{ID: "1", Major: "ME", Source: "法语"},
		{ID: "2", Major: "IE", Source: "工科"},
		{ID: "3", Major: "ME", Source: "工科"},
		{ID: "4", Major: "IE", Source: "工科"},
	}

	tests := []struct {
		by    GroupBy
		names []string
	}{
		{GroupNone, []string{DefaultTableName}},
		{GroupMajor, []string{"ME", "IE"}},
		{GroupSource, []string{"法语", "工科"}},
		{GroupMajorSource, []string{"ME-法语", "IE-工科", "ME-工科"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			tables := Group(rows, tt.by)
			if len(tables) != len(tt.names) {
				t.Fatalf("got %d tables, want %d", len(tables), len(tt.names))
			}
			seen := make(map[string]int)
			for i, tbl := range tables {
				if tbl.Name != tt.names[i] {
					t.Errorf("table %d = %q, want %q", i, tbl.Name, tt.names[i])
				}
				for _, r := range tbl.Rows {
					seen[r.ID]++
				}
			}
			for _, r := range rows {
				if seen[r.ID] != 1 {
					t.Errorf("row %s appears %d times", r.ID, seen[r.ID])
				}
			}
		})
	}
}

func TestGroupEmpty(t *testing.T) {
	if got := Group(nil, GroupNone); len(got) != 1 || got[0].Name != DefaultTableName {
		t.Errorf("ungrouped empty report should have one empty table, got %+v", got)
	}
	if got := Group(nil, GroupMajor); len(got) != 0 {
		t.Errorf("grouped empty report should have no tables, got %+v", got)
	}
}

func TestAssemble(t *testing.T) {
	rows := []Row{
		{ID: "2", Major: "IE", GPA: NewMetric(3.0, 5)},
		{ID: "1", Major: "IE", GPA: NewMetric(4.0, 5)},
		{ID: "3", Major: "ME", GPA: NewMetric(2.0, 5)},
	}
	tables := Assemble(rows, Options{ComputeGPA: true, SortBy: SortGPA, GroupBy: GroupMajor})
	if len(tables) != 2 {
		t.Fatalf("got %d tables", len(tables))
	}
	equalIDs(t, tables[0].Rows, "1", "2")
	if tables[0].Rows[0].GPA.Rank != 1 || tables[0].Rows[1].GPA.Rank != 2 {
		t.Error("ranks should restart per table")
	}
	if tables[1].Rows[0].GPA.Rank != 1 {
		t.Errorf("ME rank = %d, want 1", tables[1].Rows[0].GPA.Rank)
	}
}

// --- Encoding tests ---

func TestMetricJSONUndefined(t *testing.T) {
	data, err := json.Marshal(Row{ID: "1", GPA: NewMetric(math.NaN(), 0)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Row
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.GPA.Defined() {
		t.Error("undefined value should survive as NaN")
	}
	if back.GPA.Rank != Unranked {
		t.Errorf("rank = %d, want %d", back.GPA.Rank, Unranked)
	}
}

func TestSheets(t *testing.T) {
	r := &Report{
		Options: Options{ComputeGPA: true, ComputeCAA: true},
		Tables: []Table{{Name: DefaultTableName, Rows: []Row{
			{Name: "张三", ID: "1", GPA: &Metric{Value: 4.06, Credit: 5, Rank: 1}, CAA: NewMetric(math.NaN(), 0)},
		}}},
	}
	sheets := Sheets(r)
	if len(sheets) != 1 {
		t.Fatalf("got %d sheets", len(sheets))
	}
	if len(sheets[0].Rows[0]) != 11 {
		t.Errorf("header has %d columns, want 11", len(sheets[0].Rows[0]))
	}
	line := sheets[0].Rows[1]
	if line[5] != 4.06 || line[7] != 1 {
		t.Errorf("GPA cells = %v", line[5:8])
	}
	if line[8] != "" || line[10] != Unranked {
		t.Errorf("undefined CAA cells = %v", line[8:11])
	}
}
