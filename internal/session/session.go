// Package session holds the current snapshot for long-running callers and
// caches query results per snapshot.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/patrickmn/go-cache"

	"github.com/dshills/gpacalc/internal/engine"
	"github.com/dshills/gpacalc/internal/report"
	"github.com/dshills/gpacalc/internal/term"
)

// ErrNotLoaded is returned by queries made before the first successful load.
var ErrNotLoaded = errors.New("no snapshot loaded")

// Loader builds a fresh snapshot.
type Loader func() (*engine.Snapshot, error)

// Session serves queries from the most recently loaded snapshot. Reloads are
// serialized and replace the snapshot only when they succeed.
type Session struct {
	load   Loader
	logger log.Logger

	mu   sync.RWMutex
	snap *engine.Snapshot

	reloadMu sync.Mutex
	reports  *cache.Cache
}

// New returns a session with no snapshot. Cached reports expire after ttl;
// a ttl of zero keeps them until the next reload.
func New(load Loader, ttl time.Duration, logger log.Logger) *Session {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Session{
		load:    load,
		logger:  logger,
		reports: cache.New(ttl, 2*ttl),
	}
}

// Reload builds a new snapshot and makes it current. On failure the previous
// snapshot stays in place and the error is returned.
func (s *Session) Reload() (*engine.Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	snap, err := s.load()
	if err != nil {
		level.Error(s.logger).Log("msg", "reload failed", "err", err)
		return nil, fmt.Errorf("session.Reload: %w", err)
	}

	s.mu.Lock()
	prev := s.snap
	s.snap = snap
	s.mu.Unlock()
	s.reports.Flush()

	kv := []any{"msg", "snapshot swapped", "snapshot", snap.ID, "took", time.Since(start)}
	if prev != nil {
		kv = append(kv, "previous", prev.ID, "changed", prev.Fingerprint != snap.Fingerprint)
	}
	level.Info(s.logger).Log(kv...)
	return snap, nil
}

// Snapshot returns the current snapshot.
func (s *Session) Snapshot() (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return s.snap, nil
}

// CachedReports returns the number of cached query results.
func (s *Session) CachedReports() int {
	return s.reports.ItemCount()
}

// Search runs a single-semester query against the current snapshot. The
// returned report may be shared with other callers and must not be modified.
func (s *Session) Search(q engine.Query, sem term.Semester) (report.Report, error) {
	return s.cached(q, sem.String(), func(snap *engine.Snapshot) report.Report {
		return snap.Search(q, sem)
	})
}

// SearchRange runs a semester range query against the current snapshot.
func (s *Session) SearchRange(q engine.Query, first, last term.Semester) (report.Report, error) {
	return s.cached(q, first.String()+".."+last.String(), func(snap *engine.Snapshot) report.Report {
		return snap.SearchRange(q, first, last)
	})
}

func (s *Session) cached(q engine.Query, span string, run func(*engine.Snapshot) report.Report) (report.Report, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return report.Report{}, err
	}

	key := cacheKey(snap.ID, q, span)
	if v, ok := s.reports.Get(key); ok {
		level.Debug(s.logger).Log("msg", "report cache hit", "key", key)
		return v.(report.Report), nil
	}
	rep := run(snap)
	s.reports.SetDefault(key, rep)
	return rep, nil
}

func cacheKey(snapshotID string, q engine.Query, span string) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		snapshotID, q.Cohort, span,
		q.Filters.Major, q.Filters.Source, q.Filters.StudentID, q.Sort)
}
