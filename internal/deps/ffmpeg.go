package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFmpeg reports the FFmpeg binary extraction will execute.
//
// The configured command wins when it resolves. Otherwise an ffmpeg binary
// sitting next to the resolved ffprobe is used, which covers static builds
// unpacked outside PATH, before falling back to "ffmpeg" from PATH.
func ResolveFFmpeg(ffmpegCommand, ffprobeCommand string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Extracts and tags individual tracks",
	}

	if configured := strings.TrimSpace(ffmpegCommand); configured != "" {
		if resolved, err := exec.LookPath(configured); err == nil {
			result.Command = resolved
			result.Available = true
			return result
		}
	}

	if probe := strings.TrimSpace(ffprobeCommand); probe != "" {
		if resolved, err := exec.LookPath(probe); err == nil {
			if candidate, ok := ffmpegSiblingCandidate(resolved); ok {
				if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
					result.Command = candidate
					result.Available = true
					return result
				}
			}
		}
	}

	ffmpegName := "ffmpeg"
	if ffmpegPath, err := exec.LookPath(ffmpegName); err == nil {
		result.Command = ffmpegPath
		result.Available = true
		return result
	}

	result.Command = strings.TrimSpace(ffmpegCommand)
	if result.Command == "" {
		result.Command = ffmpegName
	}
	result.Available = false
	result.Detail = fmt.Sprintf("binary %q not found", result.Command)
	return result
}

func ffmpegSiblingCandidate(ffprobePath string) (string, bool) {
	if ffprobePath == "" {
		return "", false
	}
	dir := filepath.Dir(ffprobePath)
	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name), true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
