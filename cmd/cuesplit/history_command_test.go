package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"cuesplit/internal/history"
	"cuesplit/internal/plan"
	"cuesplit/internal/services"
	"cuesplit/internal/testsupport"
)

func seedRun(t *testing.T, env *cliTestEnv) *history.Run {
	t.Helper()
	store := testsupport.MustOpenHistory(t, env.cfg)
	duration := 210.0
	jobs := []plan.Job{
		{SourcePath: "/music/album.flac", Start: 0, Duration: &duration, OutputFilename: "01. Band - Opening.flac"},
		{SourcePath: "/music/album.flac", Start: 210, OutputFilename: "02. Band - Closing.flac"},
	}
	run, err := store.BeginRun(t.Context(), "/music/album.cue", "/music", jobs)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.RecordJob(t.Context(), run.ID, 1, history.StatusCompleted, ""); err != nil {
		t.Fatalf("RecordJob: %v", err)
	}
	if err := store.RecordJob(t.Context(), run.ID, 2, history.StatusFailed, "ffmpeg exited 1"); err != nil {
		t.Fatalf("RecordJob: %v", err)
	}
	if err := store.FinishRun(t.Context(), run.ID, history.StatusFailed, "track 2 failed"); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	return run
}

func TestHistoryListAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	run := seedRun(t, env)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, run.ID)
	requireContains(t, out, "album.cue")
	requireContains(t, out, "failed")

	out, _, err = runCLI(t, []string{"history", "show", run.ID}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Status:     failed")
	requireContains(t, out, "Error:      track 2 failed")
	requireContains(t, out, "01. Band - Opening.flac")
	requireContains(t, out, "failed: ffmpeg exited 1")
}

func TestHistoryShowJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	run := seedRun(t, env)

	out, _, err := runCLI(t, []string{"history", "show", "--json", run.ID}, env.configPath)
	if err != nil {
		t.Fatalf("history show --json: %v", err)
	}
	var view runView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if view.ID != run.ID || len(view.Jobs) != 2 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Jobs[1].DurationSeconds != nil || view.Jobs[1].Error != "ffmpeg exited 1" {
		t.Fatalf("unexpected second job %+v", view.Jobs[1])
	}
}

func TestHistoryShowUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"history", "show", "does-not-exist"}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestHistoryRepairFailsStaleRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustOpenHistory(t, env.cfg)
	run, err := store.BeginRun(t.Context(), filepath.Join(env.musicDir, "album.cue"), env.musicDir, nil)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "repair"}, env.configPath)
	if err != nil {
		t.Fatalf("history repair: %v", err)
	}
	requireContains(t, out, "Marked 1 run(s) as failed")

	got, err := store.GetRun(t.Context(), run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != history.StatusFailed {
		t.Fatalf("expected failed, got %s", got.Status)
	}
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())

	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
