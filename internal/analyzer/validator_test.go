package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	img := &ImageFile{Name: "a.png", MimeType: "image/png", Data: []byte{1}}

	tests := []struct {
		name   string
		mode   Mode
		input  WorkingInput
		reason string
	}{
		{name: "text ok", mode: ModeText, input: WorkingInput{Text: "Hello world"}},
		{name: "text empty", mode: ModeText, input: WorkingInput{}, reason: ReasonNoText},
		{name: "text whitespace", mode: ModeText, input: WorkingInput{Text: " \t\n  "}, reason: ReasonNoText},
		{name: "text mode ignores image", mode: ModeText, input: WorkingInput{Image: img}, reason: ReasonNoText},
		{name: "image ok", mode: ModeImage, input: WorkingInput{Image: img}},
		{name: "image missing", mode: ModeImage, input: WorkingInput{}, reason: ReasonNoImage},
		{name: "image mode ignores text", mode: ModeImage, input: WorkingInput{Text: "hi"}, reason: ReasonNoImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.mode, tt.input)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			if assert.ErrorAs(t, err, &verr) {
				assert.Equal(t, tt.reason, verr.Reason)
			}
		})
	}
}
