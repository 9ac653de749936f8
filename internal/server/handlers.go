package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dshills/gpacalc/internal/engine"
	"github.com/dshills/gpacalc/internal/render"
	"github.com/dshills/gpacalc/internal/report"
	"github.com/dshills/gpacalc/internal/session"
	"github.com/dshills/gpacalc/internal/term"
)

func (s *Server) health(c *gin.Context) {
	status := "healthy"
	if _, err := s.sess.Snapshot(); err != nil {
		status = "loading"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"version": s.version,
	})
}

func (s *Server) getSnapshot(c *gin.Context) {
	snap, ok := s.snapshotOrRespond(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snapshotInfo(snap, s.sess.CachedReports()))
}

func (s *Server) getCoverage(c *gin.Context) {
	snap, ok := s.snapshotOrRespond(c)
	if !ok {
		return
	}

	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format == "" || format == "json" {
		cohorts := make(map[string][]string)
		for _, cohort := range snap.Coverage.Cohorts() {
			cohorts[cohort] = term.Strings(snap.Coverage.Semesters(cohort))
		}
		c.JSON(http.StatusOK, gin.H{
			"snapshot": snap.ID,
			"count":    len(cohorts),
			"cohorts":  cohorts,
		})
		return
	}

	out, err := render.Coverage(snap.Coverage, render.GraphFormat(format))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.String(http.StatusOK, out)
}

func (s *Server) getReport(c *gin.Context) {
	q, span, ok := parseReportQuery(c)
	if !ok {
		return
	}

	var (
		rep report.Report
		err error
	)
	if span.single {
		rep, err = s.sess.Search(q, span.first)
	} else {
		rep, err = s.sess.SearchRange(q, span.first, span.last)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	switch strings.ToLower(c.Query("format")) {
	case "", "json":
		c.JSON(http.StatusOK, rep)
	case "md":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(render.Markdown(&rep)))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or md"})
	}
}

func (s *Server) reload(c *gin.Context) {
	snap, err := s.sess.Reload()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshotInfo(snap, 0))
}

func (s *Server) snapshotOrRespond(c *gin.Context) (*engine.Snapshot, bool) {
	snap, err := s.sess.Snapshot()
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return snap, true
}

func (s *Server) respondError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrNotLoaded) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func snapshotInfo(snap *engine.Snapshot, cached int) gin.H {
	return gin.H{
		"id":             snap.ID,
		"loaded_at":      snap.LoadedAt,
		"fingerprint":    snap.Fingerprint,
		"students":       snap.Roster.Len(),
		"sheets":         snap.Files,
		"cohorts":        snap.Coverage.Cohorts(),
		"diagnostics":    snap.Diagnostics(),
		"cached_reports": cached,
	}
}

type semesterSpan struct {
	first, last term.Semester
	single      bool
}

// parseReportQuery reads the report parameters, answering 400 itself when
// they are unusable.
func parseReportQuery(c *gin.Context) (engine.Query, semesterSpan, bool) {
	var span semesterSpan
	q := engine.Query{
		Cohort: strings.TrimSpace(c.Query("cohort")),
		Filters: engine.Filters{
			Major:     strings.TrimSpace(c.Query("major")),
			Source:    strings.TrimSpace(c.Query("source")),
			StudentID: strings.TrimSpace(c.Query("student_id")),
		},
	}
	if q.Cohort == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cohort parameter is required"})
		return q, span, false
	}

	sortBy, ok := report.ParseSortBy(c.Query("sort"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be one of none, id, gpa, caa"})
		return q, span, false
	}
	q.Sort = sortBy

	sem, from, to := c.Query("semester"), c.Query("from"), c.Query("to")
	var err error
	switch {
	case sem != "" && (from != "" || to != ""):
		c.JSON(http.StatusBadRequest, gin.H{"error": "use either semester or from/to"})
		return q, span, false
	case sem != "":
		span.single = true
		span.first, err = term.Parse(sem)
	case from != "" && to != "":
		span.first, span.last, err = term.ParseSpan(from, to)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "semester or from and to are required"})
		return q, span, false
	}
	// Inconsistent semesters still reach the engine, which reports them as
	// diagnostics.
	var fe *term.FormatError
	if err != nil && !errors.As(err, &fe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return q, span, false
	}
	return q, span, true
}
