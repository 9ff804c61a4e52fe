package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/AIDetect/internal/analyzer"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	generated := report.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	b.WriteString("# AI Content Detection Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generated.Format("2006-01-02 15:04:05"))

	f.writeSummaryTable(&b, report)
	f.writeResult(&b, report)

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, r *Report) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(b, "| Mode | %s |\n", r.Mode)
	if r.Source != "" {
		fmt.Fprintf(b, "| Source | `%s` |\n", escapeTableCell(r.Source))
	}
	fmt.Fprintf(b, "| Size | %s |\n", formatSize(r))
	if r.MimeType != "" {
		fmt.Fprintf(b, "| Type | %s |\n", r.MimeType)
	}
	fmt.Fprintf(b, "| Provider | %s |\n", escapeTableCell(providerLabel(r)))
	fmt.Fprintf(b, "| Elapsed | %s |\n\n", formatElapsed(r.Elapsed))
}

func (f *markdownFormatter) writeResult(b *strings.Builder, r *Report) {
	b.WriteString("## Result\n\n")

	panel := analyzer.Project(r.Status)
	switch panel.Kind {
	case analyzer.PanelVerdict:
		fmt.Fprintf(b, "**%s** %s\n\n", panel.Caption, panel.Title)
		fmt.Fprintf(b, "> %s\n", panel.Explanation)
	case analyzer.PanelError:
		fmt.Fprintf(b, "**Error**: %s\n", panel.Message)
	case analyzer.PanelSpinner:
		fmt.Fprintf(b, "_%s_\n", panel.Message)
	default:
		b.WriteString("_No analysis has been run._\n")
	}
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
