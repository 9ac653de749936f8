// Package engine ingests rosters and grade sheets into an immutable snapshot
// and answers report queries against it.
package engine

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/dshills/gpacalc/internal/diag"
	"github.com/dshills/gpacalc/internal/roster"
	"github.com/dshills/gpacalc/internal/sheet"
	"github.com/dshills/gpacalc/internal/student"
	"github.com/dshills/gpacalc/internal/term"
)

// ErrNoRoster is returned when no roster entry could be loaded at all.
var ErrNoRoster = errors.New("no roster entries loaded")

// Sources locates the input files of a snapshot.
type Sources struct {
	RosterDir   string
	DataDir     string
	RosterSheet string
	Columns     roster.Columns
}

// Snapshot is the ingested state queries run against. It is not modified
// after Load returns.
type Snapshot struct {
	ID          string
	LoadedAt    time.Time
	Fingerprint string
	Roster      *roster.Index
	Coverage    *Coverage
	Files       []string

	diags diag.List
}

// Diagnostics returns the load-time diagnostics in the order they occurred.
func (s *Snapshot) Diagnostics() []string {
	return s.diags.Items()
}

type builder struct {
	logger log.Logger
	diags  *diag.List
	hashes []string
}

// Load builds a snapshot from the roster and grade sheet directories.
// Problems with individual files become diagnostics; only unreadable
// directories and an empty roster are errors.
func Load(src Sources, logger log.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	start := time.Now()
	snap := &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: start,
		Coverage: NewCoverage(),
	}
	b := &builder{logger: logger, diags: &snap.diags}

	idx, err := b.loadRoster(src)
	if err != nil {
		return nil, err
	}
	snap.Roster = idx

	names, err := sheet.List(src.DataDir)
	if err != nil {
		return nil, fmt.Errorf("engine.Load: grade sheets: %w", err)
	}
	for _, name := range names {
		if b.loadSheet(filepath.Join(src.DataDir, name), snap.Coverage, idx) {
			snap.Files = append(snap.Files, name)
		}
	}

	h := sha256.Sum256([]byte(strings.Join(b.hashes, "\n")))
	snap.Fingerprint = fmt.Sprintf("sha256:%x", h)

	level.Info(logger).Log(
		"msg", "snapshot loaded",
		"snapshot", snap.ID,
		"students", idx.Len(),
		"sheets", len(snap.Files),
		"diagnostics", snap.diags.Len(),
		"took", time.Since(start),
	)
	return snap, nil
}

func (b *builder) loadRoster(src Sources) (*roster.Index, error) {
	names, err := sheet.List(src.RosterDir)
	if err != nil {
		return nil, fmt.Errorf("engine.Load: roster: %w", err)
	}
	var sources []roster.Source
	for _, name := range names {
		path := filepath.Join(src.RosterDir, name)
		f, err := sheet.Load(path)
		if err != nil {
			b.diags.Addf("cannot read roster %s: %v", name, err)
			level.Warn(b.logger).Log("msg", "roster skipped", "file", name, "err", err)
			continue
		}
		tbl, ok := f.Table(src.RosterSheet)
		if !ok {
			b.diags.Addf("roster %s has no sheets", name)
			continue
		}
		b.hashes = append(b.hashes, f.Hash)
		sources = append(sources, roster.Source{Tag: roster.TagFromFilename(name), Table: tbl})
	}

	idx, diags := roster.Build(sources, src.Columns)
	b.diags.Extend(diags...)
	if idx.Len() == 0 {
		return nil, fmt.Errorf("engine.Load: %s: %w", src.RosterDir, ErrNoRoster)
	}
	level.Debug(b.logger).Log("msg", "roster built", "files", len(sources), "students", idx.Len())
	return idx, nil
}

// loadSheet ingests one grade sheet and reports whether its body was read.
func (b *builder) loadSheet(path string, cov *Coverage, idx *roster.Index) bool {
	name := filepath.Base(path)
	if !sheet.Supported(path) {
		b.diags.Addf("cannot read %s: %v", name, sheet.ErrUnsupported)
		return false
	}

	key, err := ParseSheetKey(name)
	var fe *term.FormatError
	switch {
	case errors.As(err, &fe):
		b.diags.Addf("%s: %v", name, err)
	case err != nil:
		b.diags.Addf("cannot parse sheet name %s: %v", name, err)
		return false
	}
	cov.Add(key.Cohort, key.Semester)

	f, err := sheet.Load(path)
	if err != nil {
		b.diags.Addf("cannot read %s: %v", name, err)
		level.Warn(b.logger).Log("msg", "sheet skipped", "file", name, "err", err)
		return false
	}
	tbl, ok := f.Table("")
	if !ok {
		b.diags.Addf("%s has no sheets", name)
		return false
	}
	b.hashes = append(b.hashes, f.Hash)
	b.ingestSheet(key, tbl, idx)
	level.Debug(b.logger).Log("msg", "sheet ingested", "file", name, "cohort", key.Cohort, "semester", key.Semester, "rows", len(tbl.Body()))
	return true
}

// SameCohort compares cohort labels ignoring one trailing qualifier such as
// the 级 in "2015级" or the F in "2015F".
func SameCohort(a, b string) bool {
	return CohortYear(a) == CohortYear(b)
}

// CohortYear strips one trailing non-digit qualifier from a cohort label.
func CohortYear(label string) string {
	r := []rune(strings.TrimSpace(label))
	if n := len(r); n > 0 && !unicode.IsDigit(r[n-1]) {
		r = r[:n-1]
	}
	return string(r)
}

// SelectStudents returns the students of cohort in roster order, optionally
// narrowed to one class or one student id. classID wins when both are set.
func (s *Snapshot) SelectStudents(cohort, classID, studentID string) []*student.Student {
	var out []*student.Student
	for _, st := range s.Roster.Students() {
		if !SameCohort(st.Cohort, cohort) {
			continue
		}
		switch {
		case classID != "":
			if st.ClassID != classID {
				continue
			}
		case studentID != "":
			if st.ID != studentID {
				continue
			}
		}
		out = append(out, st)
	}
	return out
}

// CheckCoverage reports whether every semester has a grade sheet for cohort,
// with one message per gap.
func (s *Snapshot) CheckCoverage(cohort string, sems []term.Semester) (bool, []string) {
	year := CohortYear(cohort)
	if !s.Coverage.HasCohort(year) {
		return false, []string{fmt.Sprintf("missing grades for cohort %s", year)}
	}
	var msgs []string
	for _, sem := range sems {
		if !s.Coverage.Has(year, sem) {
			msgs = append(msgs, fmt.Sprintf("missing grades for cohort %s in semester %s", year, sem))
		}
	}
	return len(msgs) == 0, msgs
}
