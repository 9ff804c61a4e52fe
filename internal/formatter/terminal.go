package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/AIDetect/internal/analyzer"
	"github.com/yildizm/AIDetect/internal/emoji"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeInput(&b, report)

	if report.Preview != "" {
		b.WriteString(report.Preview + "\n\n")
	}

	f.writeStatus(&b, report)

	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "AI Content Detection"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeInput writes what was analysed as a tree
func (f *terminalFormatter) writeInput(b *strings.Builder, r *Report) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Input\n")

	items := []termfmt.TreeItem{
		{Label: "Mode", Value: r.Mode.String()},
	}
	if r.Source != "" {
		items = append(items, termfmt.TreeItem{Label: "Source", Value: r.Source})
	}
	items = append(items, termfmt.TreeItem{Label: "Size", Value: formatSize(r)})
	if r.MimeType != "" {
		items = append(items, termfmt.TreeItem{Label: "Type", Value: r.MimeType})
	}
	items = append(items,
		termfmt.TreeItem{Label: "Provider", Value: providerLabel(r)},
		termfmt.TreeItem{Label: "Elapsed", Value: formatElapsed(r.Elapsed), Last: true},
	)

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeStatus writes the projected status panel
func (f *terminalFormatter) writeStatus(b *strings.Builder, r *Report) {
	panel := analyzer.Project(r.Status)

	switch panel.Kind {
	case analyzer.PanelVerdict:
		symbol := termfmt.GetEmoji("ai", f.opts)
		if symbol == "" {
			symbol = emoji.GetEmoji("ai")
		}
		fmt.Fprintf(b, "%s %s %s\n", symbol, panel.Caption, f.title(panel))
		b.WriteString(strings.Repeat("─", 50) + "\n")
		fmt.Fprintf(b, "%s %s\n", emoji.Verdict(panel.Verdict), panel.Explanation)
	case analyzer.PanelError:
		fmt.Fprintf(b, "%s Error: %s\n", emoji.GetEmoji("error"), panel.Message)
	case analyzer.PanelSpinner:
		fmt.Fprintf(b, "%s %s\n", emoji.GetEmoji("loading"), panel.Message)
	default:
		b.WriteString("No analysis has been run\n")
	}
}

func (f *terminalFormatter) title(p analyzer.Panel) string {
	if !f.opts.Color {
		return p.Title
	}
	color := lipgloss.Color("10")
	if p.Verdict {
		color = lipgloss.Color("9")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(p.Title)
}
