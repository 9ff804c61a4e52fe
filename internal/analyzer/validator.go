package analyzer

import (
	"strings"
)

const (
	ReasonNoText  = "no text provided"
	ReasonNoImage = "no image provided"
)

// ValidationError is a local input problem; it never reaches the Detector
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// WorkingInput is the mode-specific input. Only the field set belonging to
// the active mode is populated.
type WorkingInput struct {
	Text    string
	Image   *ImageFile
	Preview *PreviewHandle
}

// Validate checks input for mode before dispatch
func Validate(mode Mode, input WorkingInput) error {
	switch mode {
	case ModeText:
		if strings.TrimSpace(input.Text) == "" {
			return &ValidationError{Reason: ReasonNoText}
		}
	case ModeImage:
		if input.Image == nil {
			return &ValidationError{Reason: ReasonNoImage}
		}
	}
	return nil
}
