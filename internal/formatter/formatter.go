package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/AIDetect/internal/analyzer"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Report is one analysed input and its settled status
type Report struct {
	Mode        analyzer.Mode
	Source      string
	Size        int
	MimeType    string
	Provider    string
	Model       string
	Status      analyzer.Status
	Elapsed     time.Duration
	GeneratedAt time.Time

	// Preview is a rendered thumbnail, terminal output only
	Preview string
}

// New returns the formatter for format: text, json or markdown
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use text, json or markdown)", format)
	}
}
