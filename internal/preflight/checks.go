package preflight

import (
	"context"
	"fmt"
	"os"
	"sort"

	"golang.org/x/sys/unix"

	"cuesplit/internal/config"
	"cuesplit/internal/deps"
	"cuesplit/internal/media/ffprobe"
	"cuesplit/internal/plan"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries required by the config.
// Both the split pipeline and the CLI check command use this so the
// requirements list lives in one place. FFmpeg is resolved through
// deps.ResolveFFmpeg so a sibling of ffprobe is found as well.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	for i := range statuses {
		if statuses[i].Name != "FFmpeg" || statuses[i].Available {
			continue
		}
		resolved := deps.ResolveFFmpeg(cfg.Extract.FFmpegBinary, cfg.Extract.FFprobeBinary)
		resolved.Description = statuses[i].Description
		statuses[i] = resolved
	}
	return statuses
}

// CheckSources inspects each distinct source referenced by jobs. A source
// passes when it exists, carries an audio stream, and runs longer than the
// latest job start taken from it. Results follow first-use order.
func CheckSources(ctx context.Context, ffprobeBinary string, jobs []plan.Job) []Result {
	latestStart := make(map[string]float64)
	var order []string
	for _, job := range jobs {
		start, seen := latestStart[job.SourcePath]
		if !seen {
			order = append(order, job.SourcePath)
		}
		if !seen || job.Start > start {
			latestStart[job.SourcePath] = job.Start
		}
	}

	results := make([]Result, 0, len(order))
	for _, source := range order {
		results = append(results, checkSource(ctx, ffprobeBinary, source, latestStart[source]))
	}
	return results
}

func checkSource(ctx context.Context, binary, source string, latestStart float64) Result {
	name := "Source " + source
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: "does not exist"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("stat: %v", err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: "is a directory"}
	}

	probe, err := ffprobe.Inspect(ctx, binary, source)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	audio, ok := probe.PrimaryAudio()
	if !ok {
		return Result{Name: name, Detail: "no audio stream"}
	}
	duration := probe.DurationSeconds()
	if duration > 0 && duration <= latestStart {
		return Result{
			Name:   name,
			Detail: fmt.Sprintf("duration %s ends before last track start %s", plan.FormatClock(duration), plan.FormatClock(latestStart)),
		}
	}
	detail := audio.CodecName
	if rate := audio.SampleRateHz(); rate > 0 {
		detail = fmt.Sprintf("%s %d Hz %dch", detail, rate, audio.Channels)
	}
	if duration > 0 {
		detail = fmt.Sprintf("%s, %s", detail, plan.FormatClock(duration))
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// Failed returns the results that did not pass, sorted by name.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	sort.SliceStable(failed, func(i, j int) bool { return failed[i].Name < failed[j].Name })
	return failed
}
