package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/dshills/gpacalc/internal/sheet"
)

// watcher turns bursts of sheet changes into single reloads.
type watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   log.Logger
}

func newWatcher(dirs []string, debounce time.Duration, logger log.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		level.Info(logger).Log("msg", "watching", "dir", dir)
	}
	return &watcher{fs: fw, debounce: debounce, logger: logger}, nil
}

// relevant reports whether ev touches a readable sheet.
func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	return sheet.Supported(ev.Name)
}

// run calls reload once per quiet period after relevant changes until ctx
// is done.
func (w *watcher) run(ctx context.Context, reload func()) {
	defer func() {
		_ = w.fs.Close()
	}()

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			level.Debug(w.logger).Log("msg", "change detected", "file", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			level.Info(w.logger).Log("msg", "inputs changed, reloading")
			reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			level.Warn(w.logger).Log("msg", "watch error", "err", err)
		}
	}
}
