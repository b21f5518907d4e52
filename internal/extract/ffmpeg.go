package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"cuesplit/internal/config"
	"cuesplit/internal/logging"
	"cuesplit/internal/plan"
	"cuesplit/internal/services"
)

const stageName = "extract"

// commandRunner executes an external command and returns its combined output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// FFmpeg extracts one track per job by invoking the ffmpeg binary.
type FFmpeg struct {
	Binary    string
	OutputDir string
	// Reencode transcodes with Codec instead of copying the source stream.
	Reencode  bool
	Codec     string
	Overwrite bool
	// Timeout bounds each ffmpeg invocation; zero disables the bound.
	Timeout time.Duration

	logger *slog.Logger
	run    commandRunner
}

// NewFFmpeg builds an executor from the extract section of cfg writing into
// outputDir.
func NewFFmpeg(cfg *config.Config, outputDir string, logger *slog.Logger) *FFmpeg {
	return &FFmpeg{
		Binary:    cfg.Extract.FFmpegBinary,
		OutputDir: outputDir,
		Reencode:  cfg.Extract.Reencode,
		Codec:     cfg.Extract.Codec,
		Overwrite: cfg.Extract.Overwrite,
		Timeout:   time.Duration(cfg.Extract.TimeoutSeconds) * time.Second,
		logger:    logging.NewComponentLogger(logger, "ffmpeg"),
		run:       defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (f *FFmpeg) WithCommandRunner(r commandRunner) {
	if f != nil && r != nil {
		f.run = r
	}
}

// Args returns the ffmpeg argument list for job, excluding the binary.
func (f *FFmpeg) Args(job plan.Job) []string {
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error"}
	if f.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	args = append(args, "-i", job.SourcePath, "-ss", job.StartClock())
	if duration, ok := job.DurationClock(); ok {
		args = append(args, "-t", duration)
	}
	for _, tag := range job.OrderedTags() {
		args = append(args, "-metadata", tag[0]+"="+tag[1])
	}
	codec := "copy"
	if f.Reencode {
		codec = f.Codec
		if codec == "" {
			codec = "flac"
		}
	}
	args = append(args, "-acodec", codec, job.OutputPath(f.OutputDir))
	return args
}

// Execute runs ffmpeg for job. An existing output file fails the job unless
// Overwrite is set.
func (f *FFmpeg) Execute(ctx context.Context, job plan.Job) error {
	if f == nil {
		return services.Wrap(services.ErrConfiguration, stageName, "ffmpeg", "executor not initialized", nil)
	}
	target := job.OutputPath(f.OutputDir)
	if !f.Overwrite {
		if _, err := os.Stat(target); err == nil {
			return services.Wrap(services.ErrValidation, stageName, "ffmpeg",
				fmt.Sprintf("%s already exists (use --overwrite to replace it)", target), nil)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrTransient, stageName, "stat output", target, err)
		}
	}

	binary := strings.TrimSpace(f.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	run := f.run
	if run == nil {
		run = defaultCommandRunner
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	args := f.Args(job)
	logger := logging.WithContext(ctx, f.logger)
	logger.Debug("executing ffmpeg",
		logging.String("source", job.SourcePath),
		logging.String("output", target),
		logging.String("start", job.StartClock()),
		logging.String("args", strings.Join(args, " ")),
	)

	output, err := run(ctx, binary, args...)
	if err != nil {
		switch ctxErr := ctx.Err(); {
		case errors.Is(ctxErr, context.DeadlineExceeded):
			err = fmt.Errorf("%w (timeout %s)", err, f.Timeout)
		case ctxErr != nil:
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		detail := strings.TrimSpace(string(output))
		message := "ffmpeg failed for " + job.OutputFilename
		if detail != "" {
			message += ": " + lastLine(detail)
		}
		return services.Wrap(services.ErrExternalTool, stageName, "ffmpeg", message, err)
	}
	return nil
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

func lastLine(text string) string {
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return text
}
