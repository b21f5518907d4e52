package main

import (
	"bytes"
	"strings"
	"testing"

	"cuesplit/internal/testsupport"
)

func TestEncodeJSONKeepsHTMLCharacters(t *testing.T) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, map[string]string{"artist": "Simon & Garfunkel <live>"}, false); err != nil {
		t.Fatalf("encodeJSON: %v", err)
	}
	got := buf.String()
	if got != "{\"artist\":\"Simon & Garfunkel <live>\"}\n" {
		t.Fatalf("unexpected compact output %q", got)
	}
}

func TestEncodeJSONIndent(t *testing.T) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, []int{1, 2}, true); err != nil {
		t.Fatalf("encodeJSON: %v", err)
	}
	if buf.String() != "[\n  1,\n  2\n]\n" {
		t.Fatalf("unexpected indented output %q", buf.String())
	}
}

func TestEncodeJSONErrorWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, map[string]any{"bad": make(chan int)}, false); err == nil {
		t.Fatal("expected unsupported type error")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no partial output, got %q", buf.String())
	}
}

func TestPlanJSONIsCompactWhenPiped(t *testing.T) {
	env := setupCLITestEnv(t)
	cuePath := testsupport.WriteCue(t, env.musicDir, "album.cue", testsupport.SampleCue)

	out, _, err := runCLI(t, []string{"plan", "--json", cuePath}, env.configPath)
	if err != nil {
		t.Fatalf("plan --json: %v", err)
	}
	if strings.Count(strings.TrimRight(out, "\n"), "\n") != 0 {
		t.Fatalf("expected a single line of JSON, got %q", out)
	}
}
