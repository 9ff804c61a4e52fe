package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/AIDetect/internal/analyzer"
)

// detectionCompleteMsg carries a settled request back into Update
type detectionCompleteMsg struct {
	outcome analyzer.Outcome
}

// fileLoadedMsg is the result of reading an image path
type fileLoadedMsg struct {
	file *analyzer.ImageFile
	err  error
}

// RunDetection performs the request off the event loop
func RunDetection(ctx context.Context, d *analyzer.Dispatch) tea.Cmd {
	return func() tea.Msg {
		return detectionCompleteMsg{outcome: d.Run(ctx)}
	}
}

// LoadImage reads and checks an image off the event loop
func LoadImage(path string, maxBytes int64) tea.Cmd {
	return func() tea.Msg {
		file, err := analyzer.LoadImageFile(path, maxBytes)
		return fileLoadedMsg{file: file, err: err}
	}
}
