package manager

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounceInterval = 100 * time.Millisecond

// rulebookWatcher follows one rulebook path, a single file or a directory
// tree, and fires a reload after a quiet period. Editors tend to write in
// several bursts; the quiet period collapses a burst into one reload.
type rulebookWatcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *slog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func newRulebookWatcher(path string, debounce time.Duration, logger *slog.Logger) (*rulebookWatcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &rulebookWatcher{
		fsw:      fsw,
		path:     path,
		debounce: debounce,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if err := w.register(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return w, nil
}

// register adds the path to the underlying watcher. Directories are
// walked so nested rulebook files are covered; hidden directories are
// skipped.
func (w *rulebookWatcher) register(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fsw.Add(path)
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

// run blocks, turning file events into debounced reload calls, until the
// context is cancelled or Stop is called. A failed reload is logged and
// watching continues; the registry keeps serving the last good clauses.
func (w *rulebookWatcher) run(ctx context.Context, reload func() error) error {
	defer close(w.done)

	w.logger.Info("Rulebook watcher started",
		"path", w.path,
		"debounce_ms", w.debounce.Milliseconds(),
	)

	var quiet *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Rulebook watcher stopped", "reason", "context cancelled")
			return nil

		case <-w.stop:
			w.logger.Info("Rulebook watcher stopped")
			return nil

		case <-fire:
			if err := reload(); err != nil {
				w.logger.Error("Rulebook reload failed", "error", err)
			}

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if !isRulebookChange(event) {
				continue
			}
			w.logger.Debug("Rulebook change detected",
				"path", event.Name,
				"op", event.Op.String(),
			)
			if quiet == nil {
				quiet = time.NewTimer(w.debounce)
				fire = quiet.C
			} else {
				if !quiet.Stop() {
					select {
					case <-quiet.C:
					default:
					}
				}
				quiet.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			w.logger.Error("Rulebook watcher error", "error", err)
		}
	}
}

// Stop ends the watch loop and closes the underlying watcher. Safe to
// call more than once.
func (w *rulebookWatcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
	return w.fsw.Close()
}

// isRulebookChange reports whether the event is a content change to a
// rulebook file. Permission-only changes and hidden or non-YAML files
// are ignored.
func isRulebookChange(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
