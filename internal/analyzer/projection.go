package analyzer

// PanelKind is what the status area shows
type PanelKind int

const (
	PanelNone PanelKind = iota
	PanelSpinner
	PanelVerdict
	PanelError
)

// Fixed verdict copy
const (
	VerdictCaption   = "AI-generated content:"
	VerdictYes       = "YES"
	VerdictNo        = "NO"
	ExplanationAI    = "This content appears to have been generated by AI."
	ExplanationHuman = "This content appears to be of human origin."
	LoadingLabel     = "Analyzing..."
)

// Panel is the display form of a Status
type Panel struct {
	Kind        PanelKind
	Verdict     bool
	Caption     string
	Title       string
	Explanation string
	Message     string
}

// Project maps a status onto its panel
func Project(status Status) Panel {
	switch status.Kind {
	case StatusLoading:
		return Panel{Kind: PanelSpinner, Message: LoadingLabel}
	case StatusResult:
		p := Panel{
			Kind:        PanelVerdict,
			Verdict:     status.Verdict,
			Caption:     VerdictCaption,
			Title:       VerdictNo,
			Explanation: ExplanationHuman,
		}
		if status.Verdict {
			p.Title = VerdictYes
			p.Explanation = ExplanationAI
		}
		return p
	case StatusError:
		return Panel{Kind: PanelError, Message: status.Message}
	default:
		return Panel{Kind: PanelNone}
	}
}

// ButtonLabel is the analyze action caption for mode
func ButtonLabel(mode Mode, status Status) string {
	if status.Kind == StatusLoading {
		return LoadingLabel
	}
	return mode.Label()
}
