package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SampleCue is a two-track single-file cue sheet referencing "album.flac".
const SampleCue = `REM GENRE Rock
REM DATE 1999
PERFORMER "Band"
TITLE "Album"
FILE "album.flac" WAVE
  TRACK 01 AUDIO
    TITLE "Opening"
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    TITLE "Closing"
    INDEX 00 03:28:00
    INDEX 01 03:30:00
`

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteCue writes a cue sheet into dir and a small placeholder for every
// FILE it names, returning the cue sheet path.
func WriteCue(t testing.TB, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write cue %s: %v", path, err)
	}
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "FILE" {
			continue
		}
		source := strings.Trim(strings.Join(fields[1:len(fields)-1], " "), `"`)
		if !filepath.IsAbs(source) {
			source = filepath.Join(dir, source)
		}
		WriteFile(t, source, 1024)
	}
	return path
}
