package components

import "github.com/charmbracelet/lipgloss"

// Tabs renders a row of labels with one active
type Tabs struct {
	Labels   []string
	Active   int
	Style    lipgloss.Style
	Selected lipgloss.Style
}

// Render joins the tabs horizontally
func (t *Tabs) Render() string {
	rendered := make([]string, 0, len(t.Labels))
	for i, label := range t.Labels {
		style := t.Style
		if i == t.Active {
			style = t.Selected
		}
		rendered = append(rendered, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, rendered...)
}
