package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/logger"
	"github.com/yildizm/AIDetect/internal/monitor"
	"github.com/yildizm/AIDetect/internal/ui"
)

func newTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive shell",
		Long: `Open the interactive shell. Tab switches between text and image mode,
ctrl+s sends the current input and esc quits.

Log output goes to output.log_file while the shell owns the screen.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	det, err := detectorFactory(cfg)
	if err != nil {
		return err
	}

	restore, err := redirectLogs(cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer restore()

	metrics := monitor.Instrument(det)
	log := GetLogger("ui")

	session := newSession(metrics, cfg)
	err = ui.Run(cmd.Context(), session, ui.Options{
		Provider:      cfg.AI.Provider,
		Model:         cfg.AI.Model,
		MaxImageBytes: cfg.Analysis.MaxImageBytes,
		Theme:         cfg.Output.Theme,
		Logger:        log,
	})
	log.Info("session summary: %s", metrics.Stats())
	return err
}

// redirectLogs sends all loggers to path, or drops them when path is empty,
// and returns a func that puts the previous writer back.
func redirectLogs(path string) (func(), error) {
	if path == "" {
		previous := logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(previous) }, nil
	}

	path = filepath.Clean(config.ExpandPath(path))
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	// #nosec G304 - path comes from the user's own config
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	previous := logger.SetOutput(file)
	return func() {
		logger.SetOutput(previous)
		if err := file.Close(); err != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}, nil
}
