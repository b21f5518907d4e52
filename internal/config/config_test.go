package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cuesplit/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CUESPLIT_FFMPEG", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "cuesplit", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "cuesplit", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.HistoryPath() != filepath.Join(tempHome, ".local", "share", "cuesplit", "history.db") {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
	if cfg.Paths.OutputDir != "" {
		t.Fatalf("expected empty output dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Extract.FFmpegBinary != "ffmpeg" || cfg.Extract.Codec != "flac" {
		t.Fatalf("unexpected extract defaults: %+v", cfg.Extract)
	}
	if cfg.Extract.Reencode || cfg.Extract.Overwrite {
		t.Fatalf("expected stream copy without overwrite by default: %+v", cfg.Extract)
	}
	if !cfg.Extract.LockOutputDir || !cfg.History.Enabled {
		t.Fatal("expected output lock and history enabled by default")
	}
	if cfg.Cue.Charset != "windows-1252" {
		t.Fatalf("unexpected charset %q", cfg.Cue.Charset)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "cuesplit.toml")

	type payload struct {
		Paths struct {
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Cue struct {
			Charset string `toml:"charset"`
		} `toml:"cue"`
		Extract struct {
			Reencode       bool `toml:"reencode"`
			TimeoutSeconds int  `toml:"timeout_seconds"`
		} `toml:"extract"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.OutputDir = filepath.Join(tempDir, "out")
	custom.Cue.Charset = " Shift_JIS "
	custom.Extract.Reencode = true
	custom.Extract.TimeoutSeconds = 600
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Debug"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempDir, "out") {
		t.Fatalf("unexpected output dir %q", cfg.Paths.OutputDir)
	}
	if cfg.Cue.Charset != "shift_jis" {
		t.Fatalf("expected normalized charset, got %q", cfg.Cue.Charset)
	}
	if !cfg.Extract.Reencode || cfg.Extract.TimeoutSeconds != 600 {
		t.Fatalf("unexpected extract config %+v", cfg.Extract)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadReadsEnvFileNextToConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "cuesplit.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, ".env"), []byte("CUESPLIT_FFPROBE=/opt/ffmpeg/bin/ffprobe\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	// godotenv exports into the process environment; register cleanup first.
	t.Setenv("CUESPLIT_FFPROBE", "")
	os.Unsetenv("CUESPLIT_FFPROBE")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Extract.FFprobeBinary != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("expected ffprobe from .env, got %q", cfg.Extract.FFprobeBinary)
	}
}

func TestEnvVarOverridesConfigFileForBinaries(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "cuesplit.toml")
	if err := os.WriteFile(configPath, []byte("[extract]\nffmpeg_binary = \"/usr/bin/ffmpeg\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CUESPLIT_FFMPEG", "/custom/ffmpeg")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Extract.FFmpegBinary != "/custom/ffmpeg" {
		t.Fatalf("expected env override, got %q", cfg.Extract.FFmpegBinary)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cuesplit.toml")
	if err := os.WriteFile(configPath, []byte("[logging\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Cue.Charset != "windows-1252" {
		t.Fatalf("unexpected sample charset %q", cfg.Cue.Charset)
	}
	if !strings.Contains(cfg.Paths.StateDir, "cuesplit") {
		t.Fatalf("expected state dir to contain cuesplit, got %q", cfg.Paths.StateDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Cue.Charset = "klingon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown charset")
	}

	cfg = config.Default()
	cfg.Extract.Codec = "mp3"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported codec")
	}

	cfg = config.Default()
	cfg.Extract.TimeoutSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative timeout")
	}

	cfg = config.Default()
	cfg.Watch.SettleSeconds = -5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative settle time")
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for log format")
	}

	cfg = config.Default()
	cfg.Logging.Level = "chatty"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for log level")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
