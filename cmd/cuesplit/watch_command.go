package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"cuesplit/internal/config"
	"cuesplit/internal/logging"
)

const watchPollInterval = 500 * time.Millisecond

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir string
		existing  bool
	)

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Split every cue sheet that appears in a directory",
		Long: "Watch follows a directory and splits each new or rewritten .cue file once it\n" +
			"has been quiet for watch.settle_seconds. Cue sheets are processed one at a\n" +
			"time; a failing sheet is logged and the watch continues.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve watch directory: %w", err)
			}
			logger, err := ctx.logger(cfg)
			if err != nil {
				return err
			}
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			out := cmd.OutOrStdout()
			w := newCueWatcher(dir, time.Duration(cfg.Watch.SettleSeconds)*time.Second, newSplitter(cfg, logger, store), logger)
			w.outputDir = outputDir
			w.scanExisting = existing
			w.onResult = func(result *splitResult, err error) {
				if err != nil {
					fmt.Fprintf(out, "FAILED %s: %v\n", result.CuePath, err)
					return
				}
				fmt.Fprintf(out, "Split %s (%d tracks) into %s\n", result.CuePath, result.Completed, result.OutputDir)
			}
			fmt.Fprintf(out, "Watching %s for cue sheets (Ctrl+C to stop)\n", dir)
			return w.run(signalCtx)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for every split (default: beside each cue sheet)")
	cmd.Flags().BoolVar(&existing, "existing", false, "Also split cue sheets already present when the watch starts")
	return cmd
}

// cueWatcher debounces filesystem events per cue sheet and splits each one
// after it has been quiet for settle.
type cueWatcher struct {
	dir          string
	settle       time.Duration
	poll         time.Duration
	outputDir    string
	scanExisting bool
	splitter     *splitter
	logger       *slog.Logger
	onResult     func(*splitResult, error)

	pending map[string]time.Time
	done    map[string]time.Time
}

func newCueWatcher(dir string, settle time.Duration, s *splitter, logger *slog.Logger) *cueWatcher {
	return &cueWatcher{
		dir:      dir,
		settle:   settle,
		poll:     watchPollInterval,
		splitter: s,
		logger:   logging.NewComponentLogger(logger, "watch"),
		pending:  make(map[string]time.Time),
		done:     make(map[string]time.Time),
	}
}

// run blocks until ctx is canceled or the watcher closes.
func (w *cueWatcher) run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for cue sheets", logging.String("dir", w.dir), logging.Duration("settle", w.settle))

	if w.scanExisting {
		if err := w.queueExisting(time.Now()); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped", logging.Int("pending", len(w.pending)))
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isCueSheet(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create || event.Op&fsnotify.Write == fsnotify.Write {
				w.logger.Debug("cue sheet event", logging.String("path", event.Name), logging.String("op", event.Op.String()))
				w.pending[event.Name] = time.Now()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logging.Error(err))
		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *cueWatcher) queueExisting(now time.Time) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !isCueSheet(entry.Name()) {
			continue
		}
		w.pending[filepath.Join(w.dir, entry.Name())] = now.Add(-w.settle)
	}
	return nil
}

// flush splits every pending cue sheet that has settled, oldest path name
// first.
func (w *cueWatcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)

	for _, path := range ready {
		if ctx.Err() != nil {
			return
		}
		delete(w.pending, path)
		info, err := os.Stat(path)
		if err != nil {
			w.logger.Debug("cue sheet vanished before split", logging.String("path", path))
			continue
		}
		if seen, ok := w.done[path]; ok && seen.Equal(info.ModTime()) {
			continue
		}
		w.done[path] = info.ModTime()

		result, err := w.splitter.split(ctx, splitRequest{CuePath: path, OutputDir: w.outputDir})
		if err != nil {
			w.logger.Error("split failed", logging.String("cue", path), logging.Error(err))
		}
		if w.onResult != nil && result != nil {
			w.onResult(result, err)
		}
	}
}

func isCueSheet(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".cue")
}
