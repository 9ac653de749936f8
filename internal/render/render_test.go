package render

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dshills/gpacalc/internal/engine"
	"github.com/dshills/gpacalc/internal/report"
	"github.com/dshills/gpacalc/internal/term"
)

func sampleReport() *report.Report {
	return &report.Report{
		Cohort:    "2015级",
		Semesters: []string{"2015-2016-1"},
		Options: report.Options{
			ComputeGPA: true,
			ComputeCAA: true,
			SortBy:     report.SortGPA,
			GroupBy:    report.GroupMajor,
		},
		Complete: true,
		Tables: []report.Table{
			{
				Name:  "IE",
				Major: "IE",
				Rows: []report.Row{
					{Name: "A", ID: "1001", ClassID: "F1526002", Major: "IE", Source: "法语",
						GPA: &report.Metric{Value: 4.06, Credit: 5, Rank: 1},
						CAA: &report.Metric{Value: 92.8, Credit: 5, Rank: 1}},
					{Name: "C", ID: "1003", ClassID: "F1526002", Major: "IE", Source: "法语",
						GPA: report.NewMetric(math.NaN(), 0),
						CAA: report.NewMetric(math.NaN(), 0)},
				},
			},
		},
		Diagnostics: []string{"missing F1526002 C 2015-2016-1 grades"},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	checks := []string{
		"# Grade Report: 2015级",
		"**Semesters:** 2015-2016-1",
		"**Students:** 2 in 1 table(s)",
		"**Sorted by:** gpa",
		"**Grouped by:** major",
		"## IE",
		"| Name | ID | Class |",
		"| A | 1001 | F1526002 | IE | 法语 | 4.06 | 5 | 1 | 92.8 | 5 | 1 |",
		"| C | 1003 | F1526002 | IE | 法语 | - | 0 | - | - | 0 | - |",
		"## Diagnostics",
		"- missing F1526002 C 2015-2016-1 grades",
	}
	for _, c := range checks {
		if !strings.Contains(md, c) {
			t.Errorf("markdown missing %q\n%s", c, md)
		}
	}
	if strings.Contains(md, "incomplete") {
		t.Error("complete report should not be flagged incomplete")
	}
}

func TestMarkdownIncomplete(t *testing.T) {
	r := &report.Report{
		Cohort:      "2016级",
		Semesters:   []string{"2016-2017-1"},
		Options:     report.Options{SortBy: report.SortNone, GroupBy: report.GroupNone},
		Diagnostics: []string{"missing grades for cohort 2016"},
	}
	md := Markdown(r)
	if !strings.Contains(md, "Report incomplete") {
		t.Errorf("expected incomplete notice:\n%s", md)
	}
	if strings.Contains(md, "Grouped by") {
		t.Error("ungrouped report should not show grouping")
	}
}

func TestJSONUndefinedIsNull(t *testing.T) {
	out, err := JSON(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("expected trailing newline")
	}

	var decoded report.Report
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	c := decoded.Tables[0].Rows[1]
	if c.GPA.Defined() {
		t.Errorf("expected undefined GPA, got %v", c.GPA.Value)
	}
	if c.GPA.Rank != report.Unranked {
		t.Errorf("rank = %d, want %d", c.GPA.Rank, report.Unranked)
	}
	if got := decoded.Tables[0].Rows[0].GPA.Value; got != 4.06 {
		t.Errorf("GPA = %v, want 4.06", got)
	}
}

func TestYAML(t *testing.T) {
	out, err := YAML(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if doc["cohort"] != "2015级" {
		t.Errorf("cohort = %v", doc["cohort"])
	}
	if !strings.Contains(out, ".nan") {
		t.Error("expected .nan for undefined metrics")
	}
}

func TestReportFormats(t *testing.T) {
	for _, f := range []Format{FormatMarkdown, FormatJSON, FormatYAML} {
		if !f.Valid() {
			t.Errorf("%s should be valid", f)
		}
		if _, err := Report(sampleReport(), f); err != nil {
			t.Errorf("%s: %v", f, err)
		}
	}
	if _, err := Report(sampleReport(), "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func sampleCoverage() *engine.Coverage {
	c := engine.NewCoverage()
	c.Add("2015", term.Semester{Start: 2015, End: 2016, Number: 1})
	c.Add("2015", term.Semester{Start: 2016, End: 2017, Number: 1})
	c.Add("2016", term.Semester{Start: 2016, End: 2017, Number: 1})
	return c
}

func TestCoverageText(t *testing.T) {
	out, err := Coverage(sampleCoverage(), GraphText)
	if err != nil {
		t.Fatal(err)
	}
	want := "2015:\n" +
		"  2015-2016-1  ok\n" +
		"  2015-2016-2  missing\n" +
		"  2016-2017-1  ok\n" +
		"2016:\n" +
		"  2016-2017-1  ok\n"
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}

	empty, _ := Coverage(engine.NewCoverage(), GraphText)
	if !strings.Contains(empty, "No grade sheets") {
		t.Errorf("unexpected empty output %q", empty)
	}
}

func TestCoverageDOT(t *testing.T) {
	out, err := Coverage(sampleCoverage(), GraphDOT)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"digraph", "cluster_2015", "cluster_2016", "2015 2015-2016-2", "dashed"} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q\n%s", want, out)
		}
	}
}

func TestCoverageMermaid(t *testing.T) {
	out, err := Coverage(sampleCoverage(), GraphMermaid)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "LR") {
		t.Errorf("expected left-to-right flowchart:\n%s", out)
	}
	if !strings.Contains(out, "c2016_2016_2017_1") && !strings.Contains(out, "2016 2016-2017-1") {
		t.Errorf("expected 2016 node:\n%s", out)
	}
	if _, err := Coverage(sampleCoverage(), "svg"); err == nil {
		t.Error("expected error for unknown format")
	}
}
