package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/AIDetect/internal/analyzer"
)

func TestVerdictCard(t *testing.T) {
	tests := []struct {
		verdict bool
		want    []string
	}{
		{true, []string{analyzer.VerdictCaption, analyzer.VerdictYes, analyzer.ExplanationAI}},
		{false, []string{analyzer.VerdictCaption, analyzer.VerdictNo, analyzer.ExplanationHuman}},
	}

	for _, tt := range tests {
		card := NewVerdictCard(analyzer.Project(analyzer.Result(tt.verdict))).SetWidth(60).SetIcon("[AI]")
		out := card.Render()
		for _, w := range tt.want {
			if !strings.Contains(out, w) {
				t.Errorf("verdict %v: card missing %q:\n%s", tt.verdict, w, out)
			}
		}
		if !strings.Contains(out, "[AI]") {
			t.Errorf("icon missing:\n%s", out)
		}
	}
}

func TestTabs(t *testing.T) {
	tabs := &Tabs{
		Labels:   []string{"Text", "Image"},
		Active:   1,
		Style:    lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle(),
	}

	out := tabs.Render()
	if strings.Index(out, "Text") > strings.Index(out, "Image") {
		t.Errorf("tabs out of order: %q", out)
	}
}
