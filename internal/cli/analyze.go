package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/AIDetect/internal/analyzer"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/formatter"
)

var (
	textInline   string
	imagePreview bool
)

const stdinSource = "stdin"

func newTextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text [file|-]",
		Short: "Check whether a text was written by AI",
		Long: `Send a text to the detection service and print the verdict.

The text is read from the given file, from --text, or from stdin when the
argument is "-" or missing. Empty text is rejected without calling the service.`,
		Example: `  aidetect text essay.txt
  aidetect text --text "The quick brown fox"
  pbpaste | aidetect text -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runText,
	}

	cmd.Flags().StringVarP(&textInline, "text", "t", "", "text to analyze instead of a file")

	return cmd
}

func newImageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image <file>",
		Short: "Check whether an image was generated by AI",
		Long: `Send a PNG, JPG or WEBP image to the detection service and print the verdict.

Files over analysis.max_image_bytes (4 MiB by default) or of another type
are rejected before anything is sent.`,
		Example: `  aidetect image photo.jpg
  aidetect image --preview render.png`,
		Args: cobra.ExactArgs(1),
		RunE: runImage,
	}

	cmd.Flags().BoolVar(&imagePreview, "preview", false, "include a thumbnail in text output")

	return cmd
}

func runText(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	text, source, err := readTextInput(args, textInline, cmd.InOrStdin())
	if err != nil {
		return err
	}

	det, err := detectorFactory(cfg)
	if err != nil {
		return err
	}

	session := newSession(det, cfg)
	defer session.Dispose()

	if err := session.UpdateText(text); err != nil {
		return fmt.Errorf("failed to set text: %w", err)
	}

	return analyzeAndReport(cmd.Context(), cmd.OutOrStdout(), session, cfg, source)
}

func runImage(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	path := config.ExpandPath(args[0])

	file, err := analyzer.LoadImageFile(path, cfg.Analysis.MaxImageBytes)
	if err != nil {
		return err
	}

	det, err := detectorFactory(cfg)
	if err != nil {
		return err
	}

	session := newSession(det, cfg)
	defer session.Dispose()

	session.SetMode(analyzer.ModeImage)
	if err := session.SelectFile(file); err != nil {
		return fmt.Errorf("failed to select image: %w", err)
	}

	return analyzeAndReport(cmd.Context(), cmd.OutOrStdout(), session, cfg, path)
}

// readTextInput picks the text source: --text, a file, or stdin
func readTextInput(args []string, inline string, stdin io.Reader) (text, source string, err error) {
	if inline != "" {
		if len(args) > 0 {
			return "", "", fmt.Errorf("use either --text or a file argument, not both")
		}
		return inline, "--text", nil
	}

	if len(args) == 0 || args[0] == "-" {
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Reading from stdin...\n")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), stdinSource, nil
	}

	filename := args[0]
	if err := validateFilePath(filename); err != nil {
		return "", "", fmt.Errorf("invalid file path: %w", err)
	}

	cleanPath := filepath.Clean(filename)
	// #nosec G304 - path is validated above
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return string(data), cleanPath, nil
}

// analyzeAndReport runs one request to completion and writes the report. A
// failed analysis is printed and then returned as an error for the exit code.
func analyzeAndReport(ctx context.Context, out io.Writer, session *analyzer.Session, cfg *config.Config, source string) error {
	start := time.Now()
	status := session.AnalyzeSync(ctx)
	elapsed := time.Since(start)

	report := buildReport(session.Snapshot(), cfg, source, elapsed, imagePreview)
	if err := writeReport(out, report, cfg.Output.DefaultFormat); err != nil {
		return err
	}

	if status.Kind == analyzer.StatusError {
		return fmt.Errorf("analysis failed: %s", status.Message)
	}
	return nil
}

// buildReport converts a session snapshot into a report; the image
// thumbnail is rendered only when preview is set
func buildReport(snap analyzer.Snapshot, cfg *config.Config, source string, elapsed time.Duration, preview bool) *formatter.Report {
	report := &formatter.Report{
		Mode:        snap.Mode,
		Source:      source,
		Provider:    cfg.AI.Provider,
		Model:       cfg.AI.Model,
		Status:      snap.Status,
		GeneratedAt: time.Now(),
	}

	if snap.Status.Kind == analyzer.StatusResult || snap.Status.Kind == analyzer.StatusError {
		report.Elapsed = elapsed
	}

	switch snap.Mode {
	case analyzer.ModeText:
		report.Size = len([]rune(snap.Text))
	case analyzer.ModeImage:
		report.Size = snap.Image.Size()
		if snap.Image != nil {
			report.MimeType = snap.Image.MimeType
		}
		if preview {
			report.Preview = snap.Preview.Render()
		}
	}

	return report
}

// writeReport formats report and writes it to out
func writeReport(out io.Writer, report *formatter.Report, format string) error {
	f, err := formatter.New(format, colorEnabled())
	if err != nil {
		return err
	}

	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}
