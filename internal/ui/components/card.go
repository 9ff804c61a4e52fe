package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/AIDetect/internal/analyzer"
)

// VerdictCard renders a settled verdict: caption, YES/NO title, explanation
type VerdictCard struct {
	Caption     string
	Title       string
	Explanation string
	Icon        string
	AIGenerated bool
	Width       int

	AIColor    lipgloss.TerminalColor
	HumanColor lipgloss.TerminalColor
	MutedColor lipgloss.TerminalColor
}

// NewVerdictCard builds a card from a verdict panel
func NewVerdictCard(p analyzer.Panel) *VerdictCard {
	return &VerdictCard{
		Caption:     p.Caption,
		Title:       p.Title,
		Explanation: p.Explanation,
		AIGenerated: p.Verdict,
		Width:       60,
		AIColor:     lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"},
		HumanColor:  lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"},
		MutedColor:  lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
	}
}

// SetIcon sets the icon shown before the title
func (c *VerdictCard) SetIcon(icon string) *VerdictCard {
	c.Icon = icon
	return c
}

// SetColors overrides the verdict and text colors
func (c *VerdictCard) SetColors(ai, human, muted lipgloss.TerminalColor) *VerdictCard {
	c.AIColor, c.HumanColor, c.MutedColor = ai, human, muted
	return c
}

// SetWidth sets the card width
func (c *VerdictCard) SetWidth(width int) *VerdictCard {
	if width > 0 {
		c.Width = width
	}
	return c
}

// Render renders the card
func (c *VerdictCard) Render() string {
	accent := c.HumanColor
	if c.AIGenerated {
		accent = c.AIColor
	}

	caption := lipgloss.NewStyle().Foreground(c.MutedColor).Render(c.Caption)

	title := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(c.Title)
	if c.Icon != "" {
		title = c.Icon + " " + title
	}

	explanation := lipgloss.NewStyle().Foreground(c.MutedColor).Italic(true).Render(c.Explanation)

	content := lipgloss.JoinVertical(lipgloss.Center, caption, title, explanation)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1).
		Width(c.Width).
		Align(lipgloss.Center).
		Render(content)
}
