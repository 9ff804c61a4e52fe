package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/AIDetect/internal/analyzer"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/emoji"
	"github.com/yildizm/AIDetect/internal/logger"
	"github.com/yildizm/AIDetect/internal/monitor"
)

var watchDebounce time.Duration

const defaultWatchDebounce = 300 * time.Millisecond

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-check a text file every time it is saved",
		Long: `Watch a text file and send its content to the detection service after
every save. Bursts of writes are coalesced and unchanged content is not sent
again. Press Ctrl+C to stop watching.`,
		Example: `  aidetect watch draft.md
  aidetect watch --debounce 1s notes.txt -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&watchDebounce, "debounce", defaultWatchDebounce, "quiet period after a write before analyzing")

	return cmd
}

// textWatch re-analyzes one file through a long-lived session
type textWatch struct {
	path     string
	session  *analyzer.Session
	cfg      *config.Config
	out      io.Writer
	log      *logger.Logger
	debounce time.Duration

	last string
	runs int
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	path, err := filepath.Abs(config.ExpandPath(args[0]))
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := validateWatchFilePath(path); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	det, err := detectorFactory(cfg)
	if err != nil {
		return err
	}
	metrics := monitor.Instrument(det)

	session := newSession(metrics, cfg)
	defer session.Dispose()

	w := &textWatch{
		path:     path,
		session:  session,
		cfg:      cfg,
		out:      cmd.OutOrStdout(),
		log:      GetLogger("watch"),
		debounce: watchDebounce,
	}
	session.OnChange(func(s analyzer.Snapshot) {
		w.log.Debug("status %s", s.Status)
	})

	watcher, cleanup, err := setupFileWatcher(path)
	if err != nil {
		return err
	}
	defer cleanup()

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "%s Watching file: %s\n", emoji.GetEmoji("watch"), path)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = w.run(ctx, watcher)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s Watch summary: %s\n", emoji.GetEmoji("info"), metrics.Stats())
	return err
}

// setupFileWatcher watches the directory holding path so that editors which
// save by rename keep being followed.
func setupFileWatcher(path string) (*fsnotify.Watcher, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		cleanupWatcher(watcher)
		return nil, nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, func() { cleanupWatcher(watcher) }, nil
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// run analyzes the current content, then again after every quiet period
// following a change, until ctx is done.
func (w *textWatch) run(ctx context.Context, watcher *fsnotify.Watcher) error {
	w.analyze(ctx)

	debounce := w.debounce
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nStopping watch...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if w.relevant(event) {
				timer.Reset(debounce)
			}

		case <-timer.C:
			w.analyze(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn("watcher error: %v", err)
		}
	}
}

// relevant reports whether event changed the watched file's content
func (w *textWatch) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// analyze re-reads the file and prints a report when the content changed.
// Failures are reported and the watch keeps going.
func (w *textWatch) analyze(ctx context.Context) {
	// #nosec G304 - path is validated by validateWatchFilePath
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warn("failed to read %s: %v", w.path, err)
		return
	}

	text := string(data)
	if w.runs > 0 && text == w.last {
		w.log.Debug("content unchanged, skipping")
		return
	}
	if strings.TrimSpace(text) == "" {
		w.log.Debug("file is empty, waiting for content")
		w.last = text
		return
	}
	w.last = text
	w.runs++

	if err := w.session.UpdateText(text); err != nil {
		w.log.Warn("failed to update text: %v", err)
		return
	}

	start := time.Now()
	w.session.AnalyzeSync(ctx)
	report := buildReport(w.session.Snapshot(), w.cfg, w.path, time.Since(start), false)

	if err := writeReport(w.out, report, w.cfg.Output.DefaultFormat); err != nil {
		w.log.Warn("%v", err)
	}
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
