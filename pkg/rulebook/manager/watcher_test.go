package manager

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"ruler-hq/ruler/pkg/telemetry/logging"
)

func TestIsRulebookChange(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "rules/meals.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "rules/taxi.yml", Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: "rules/meals.yaml", Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: "rules/meals.yaml", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "rules/meals.yaml", Op: fsnotify.Chmod}, false},
		{"hidden file", fsnotify.Event{Name: "rules/.meals.yaml.swp", Op: fsnotify.Write}, false},
		{"foreign extension", fsnotify.Event{Name: "rules/notes.txt", Op: fsnotify.Write}, false},
		{"uppercase extension", fsnotify.Event{Name: "rules/meals.YAML", Op: fsnotify.Write}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRulebookChange(tt.event); got != tt.want {
				t.Errorf("isRulebookChange(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestRulebookWatcher_DebouncesBurstIntoOneReload(t *testing.T) {
	dir := t.TempDir()
	writeRulebook(t, dir, "meals.yaml", validRulebook)

	w, err := newRulebookWatcher(dir, 50*time.Millisecond, logging.Discard())
	if err != nil {
		t.Fatalf("newRulebookWatcher() failed: %v", err)
	}

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.run(ctx, func() error {
			reloads.Add(1)
			return nil
		})
	}()

	// A burst of writes within the quiet period collapses to one reload.
	for i := 0; i < 3; i++ {
		writeRulebook(t, dir, "meals.yaml", validRulebook)
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.After(2 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("reload was never triggered")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// Let any stray timer fire before counting.
	time.Sleep(150 * time.Millisecond)
	if got := reloads.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1 for a single burst", got)
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("run() returned %v, want nil on stop", err)
	}
}

func TestRulebookWatcher_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	writeRulebook(t, dir, "meals.yaml", validRulebook)

	w, err := newRulebookWatcher(dir, 20*time.Millisecond, logging.Discard())
	if err != nil {
		t.Fatalf("newRulebookWatcher() failed: %v", err)
	}
	defer w.Stop()

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx, func() error {
		reloads.Add(1)
		return nil
	})

	writeRulebook(t, dir, "notes.txt", "scratch")
	writeRulebook(t, dir, ".meals.yaml.tmp", "partial")

	time.Sleep(150 * time.Millisecond)
	if got := reloads.Load(); got != 0 {
		t.Errorf("reloads = %d, want 0 for non-rulebook files", got)
	}
}
