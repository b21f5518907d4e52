package main

import (
	"errors"
	"testing"

	"cuesplit/internal/services"
	"cuesplit/internal/testsupport"
)

func TestCheckReportsReadyBinaries(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "[OK] All required binaries available")
	requireContains(t, out, "== Directories ==")
	requireContains(t, out, "State directory")
	requireContains(t, out, env.configPath)
}

func TestCheckFailsWithoutFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Extract.FFmpegBinary = "cuesplit-no-such-ffmpeg"
	env.cfg.Extract.FFprobeBinary = "cuesplit-no-such-ffprobe"
	writeTestConfig(t, env.configPath, env.cfg)
	t.Setenv("PATH", t.TempDir())

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, out, "[ERROR] Missing:")
}
