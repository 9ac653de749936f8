package render

import (
	"fmt"
	"strings"

	"github.com/emicklei/dot"

	"github.com/dshills/gpacalc/internal/engine"
	"github.com/dshills/gpacalc/internal/term"
)

// GraphFormat selects the coverage rendering.
type GraphFormat string

const (
	GraphText    GraphFormat = "text"
	GraphDOT     GraphFormat = "dot"
	GraphMermaid GraphFormat = "mermaid"
)

// Valid reports whether g is a known coverage format.
func (g GraphFormat) Valid() bool {
	switch g {
	case GraphText, GraphDOT, GraphMermaid:
		return true
	}
	return false
}

// Coverage renders the cohort/semester coverage map.
func Coverage(c *engine.Coverage, f GraphFormat) (string, error) {
	switch f {
	case GraphText, "":
		return coverageText(c), nil
	case GraphDOT:
		return coverageGraph(c, true).String(), nil
	case GraphMermaid:
		return dot.MermaidGraph(coverageGraph(c, false), dot.MermaidLeftToRight), nil
	}
	return "", fmt.Errorf("render.Coverage: unknown format %q", f)
}

func coverageText(c *engine.Coverage) string {
	var b strings.Builder
	cohorts := c.Cohorts()
	if len(cohorts) == 0 {
		b.WriteString("No grade sheets found.\n")
		return b.String()
	}
	for _, cohort := range cohorts {
		fmt.Fprintf(&b, "%s:\n", cohort)
		for _, sem := range span(c, cohort) {
			mark := "ok"
			if !c.Has(cohort, sem) {
				mark = "missing"
			}
			fmt.Fprintf(&b, "  %s  %s\n", sem, mark)
		}
	}
	return b.String()
}

// coverageGraph chains each cohort's semesters in chronological order,
// optionally inside one cluster per cohort. Gaps inside a cohort's span are
// drawn dashed.
func coverageGraph(c *engine.Coverage, clustered bool) *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "LR")
	g.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	for _, cohort := range c.Cohorts() {
		cluster := g
		if clustered {
			cluster = g.Subgraph("cluster_"+cohort, dot.ClusterOption{})
			cluster.Attr("label", cohort)
			cluster.Attr("style", "rounded")
		}

		var prev *dot.Node
		for _, sem := range span(c, cohort) {
			n := cluster.Node(nodeID(cohort, sem))
			n.Label(cohort + " " + sem.String())
			if !c.Has(cohort, sem) {
				n.Attr("style", "dashed")
				n.Attr("color", "red")
			}
			if prev != nil {
				cluster.Edge(*prev, n)
			}
			prev = &n
		}
	}
	return g
}

func nodeID(cohort string, sem term.Semester) string {
	return fmt.Sprintf("c%s_%d_%d_%d", cohort, sem.Start, sem.End, sem.Number)
}

// span lists every semester from the cohort's first to last covered one.
func span(c *engine.Coverage, cohort string) []term.Semester {
	sems := c.Semesters(cohort)
	if len(sems) == 0 {
		return nil
	}
	for _, s := range sems {
		if !s.Valid() {
			return sems
		}
	}
	all, err := term.Range(sems[0], sems[len(sems)-1])
	if err != nil {
		return sems
	}
	return all
}
