package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/AIDetect/internal/analyzer"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the machine-readable form of a Report
type JSONOutput struct {
	Mode        string      `json:"mode"`
	Source      string      `json:"source,omitempty"`
	Size        int         `json:"size"`
	MimeType    string      `json:"mime_type,omitempty"`
	Provider    string      `json:"provider,omitempty"`
	Model       string      `json:"model,omitempty"`
	Status      string      `json:"status"`
	Verdict     *VerdictOut `json:"verdict,omitempty"`
	Error       string      `json:"error,omitempty"`
	ElapsedMS   int64       `json:"elapsed_ms"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// VerdictOut carries the verdict and its fixed copy
type VerdictOut struct {
	AIGenerated bool   `json:"ai_generated"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	return json.MarshalIndent(createJSONOutput(report), "", "  ")
}

func createJSONOutput(r *Report) *JSONOutput {
	out := &JSONOutput{
		Mode:        r.Mode.String(),
		Source:      r.Source,
		Size:        r.Size,
		MimeType:    r.MimeType,
		Provider:    r.Provider,
		Model:       r.Model,
		Status:      r.Status.Kind.String(),
		ElapsedMS:   r.Elapsed.Milliseconds(),
		GeneratedAt: r.GeneratedAt,
	}
	if out.GeneratedAt.IsZero() {
		out.GeneratedAt = time.Now()
	}

	panel := analyzer.Project(r.Status)
	switch panel.Kind {
	case analyzer.PanelVerdict:
		out.Verdict = &VerdictOut{
			AIGenerated: panel.Verdict,
			Title:       panel.Title,
			Explanation: panel.Explanation,
		}
	case analyzer.PanelError:
		out.Error = panel.Message
	}

	return out
}
