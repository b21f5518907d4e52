package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cuesplit/internal/extract"
	"cuesplit/internal/logging"
	"cuesplit/internal/plan"
	"cuesplit/internal/testsupport"
)

type recordingExecutor struct {
	mu   sync.Mutex
	jobs []plan.Job
}

func (r *recordingExecutor) Execute(_ context.Context, job plan.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return nil
}

func newTestWatcher(t *testing.T, dir string, settle time.Duration) (*cueWatcher, *recordingExecutor, *[]string) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithHistoryDisabled())
	logger := logging.NewNop()
	exec := &recordingExecutor{}
	s := newSplitter(cfg, logger, nil)
	s.newExecutor = func(string) extract.Executor { return exec }

	var results []string
	w := newCueWatcher(dir, settle, s, logger)
	w.onResult = func(result *splitResult, err error) {
		if err != nil {
			results = append(results, "FAILED "+filepath.Base(result.CuePath))
			return
		}
		results = append(results, filepath.Base(result.CuePath))
	}
	return w, exec, &results
}

func TestCueWatcherFlushWaitsForSettle(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteCue(t, dir, "album.cue", testsupport.SampleCue)
	w, exec, results := newTestWatcher(t, dir, time.Minute)

	now := time.Now()
	w.pending[path] = now
	w.flush(t.Context(), now.Add(30*time.Second))
	if len(*results) != 0 {
		t.Fatalf("split before settle: %v", *results)
	}

	w.flush(t.Context(), now.Add(time.Minute))
	if len(*results) != 1 || (*results)[0] != "album.cue" {
		t.Fatalf("unexpected results %v", *results)
	}
	if len(exec.jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(exec.jobs))
	}
	if len(w.pending) != 0 {
		t.Fatalf("pending not cleared: %v", w.pending)
	}
}

func TestCueWatcherSkipsUnchangedSheets(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteCue(t, dir, "album.cue", testsupport.SampleCue)
	w, exec, results := newTestWatcher(t, dir, 0)

	now := time.Now()
	w.pending[path] = now
	w.flush(t.Context(), now)
	w.pending[path] = now
	w.flush(t.Context(), now)
	if len(*results) != 1 || len(exec.jobs) != 2 {
		t.Fatalf("expected a single split, got results=%v jobs=%d", *results, len(exec.jobs))
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	w.pending[path] = now
	w.flush(t.Context(), now)
	if len(*results) != 2 {
		t.Fatalf("expected rewritten sheet to split again, got %v", *results)
	}
}

func TestCueWatcherReportsFailuresAndContinues(t *testing.T) {
	dir := t.TempDir()
	bad := testsupport.WriteCue(t, dir, "a-broken.cue", "FILE a.flac WAVE\n    TITLE Orphan\n")
	good := testsupport.WriteCue(t, dir, "b-album.cue", testsupport.SampleCue)
	w, _, results := newTestWatcher(t, dir, 0)

	now := time.Now()
	w.pending[bad] = now
	w.pending[good] = now
	w.flush(t.Context(), now)

	if len(*results) != 2 || (*results)[0] != "FAILED a-broken.cue" || (*results)[1] != "b-album.cue" {
		t.Fatalf("unexpected results %v", *results)
	}
}

func TestCueWatcherQueueExisting(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteCue(t, dir, "album.cue", testsupport.SampleCue)
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), 1)
	w, _, _ := newTestWatcher(t, dir, 5*time.Second)

	now := time.Now()
	if err := w.queueExisting(now); err != nil {
		t.Fatalf("queueExisting: %v", err)
	}
	if len(w.pending) != 1 {
		t.Fatalf("expected one pending cue sheet, got %v", w.pending)
	}
	if _, ok := w.pending[filepath.Join(dir, "album.cue")]; !ok {
		t.Fatalf("album.cue not queued: %v", w.pending)
	}
}

func TestCueWatcherPicksUpNewSheet(t *testing.T) {
	dir := t.TempDir()
	w, _, _ := newTestWatcher(t, dir, 0)
	w.poll = 10 * time.Millisecond

	split := make(chan string, 1)
	w.onResult = func(result *splitResult, err error) {
		if err != nil {
			return
		}
		select {
		case split <- filepath.Base(result.CuePath):
		default:
		}
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.run(ctx) }()

	// The watch is registered asynchronously; rewrite until an event lands.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case name := <-split:
			if name != "album.cue" {
				t.Fatalf("unexpected split %q", name)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("run: %v", err)
			}
			return
		case <-ticker.C:
			testsupport.WriteCue(t, dir, "album.cue", testsupport.SampleCue)
		case <-deadline:
			t.Fatal("cue sheet was not split")
		}
	}
}

func TestIsCueSheet(t *testing.T) {
	for name, want := range map[string]bool{
		"album.cue":  true,
		"ALBUM.CUE":  true,
		"album.flac": false,
		"cue":        false,
	} {
		if got := isCueSheet(name); got != want {
			t.Fatalf("isCueSheet(%q) = %v, want %v", name, got, want)
		}
	}
}
