// Package gemini implements the detection provider for the Google Gemini API.
package gemini

// GenerateContentRequest is the body of a models/{model}:generateContent call
type GenerateContentRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"system_instruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is one user or model turn
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a text or inline binary part
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64 encoded bytes
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerationConfig constrains the reply
type GenerationConfig struct {
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
	Temperature      *float32 `json:"temperature,omitempty"`
}

// GenerateContentResponse is the reply of generateContent
type GenerateContentResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
}

// Candidate is one generated reply
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// PromptFeedback reports why a prompt was blocked
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// ErrorResponse is the error envelope of the Gemini API
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Text concatenates the text parts of the first candidate
func (r *GenerateContentResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var text string
	for _, part := range r.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text
}
