package ai

import (
	"time"
)

// TextRequest asks a provider to classify a text passage
type TextRequest struct {
	// Text is the passage to classify, sent verbatim
	Text string `json:"text"`

	// Model overrides the provider default model
	Model string `json:"model,omitempty"`

	// RequestID for request tracking
	RequestID string `json:"request_id,omitempty"`
}

// ImageRequest asks a provider to classify an image
type ImageRequest struct {
	// Data holds the raw file bytes
	Data []byte `json:"-"`

	// MimeType is one of image/png, image/jpeg, image/webp
	MimeType string `json:"mime_type"`

	// Model overrides the provider default model
	Model string `json:"model,omitempty"`

	// RequestID for request tracking
	RequestID string `json:"request_id,omitempty"`
}

// Verdict is the provider's classification of one payload
type Verdict struct {
	// IsAIGenerated is true for AI-generated content, false for human-origin
	IsAIGenerated bool `json:"is_ai_generated"`

	// Raw is the unparsed model reply
	Raw string `json:"raw,omitempty"`

	// Model indicates which model was used
	Model string `json:"model"`

	// Provider that produced the verdict
	Provider string `json:"provider"`

	// RequestID matches the original request
	RequestID string `json:"request_id,omitempty"`

	// Latency of the round trip
	Latency time.Duration `json:"latency"`
}

// ProviderConfig contains configuration for a provider
type ProviderConfig struct {
	// Name is the provider identifier
	Name string `json:"name"`

	// Type is the provider type (gemini, openai, ollama)
	Type string `json:"type"`

	// APIKey for authentication
	APIKey string `json:"api_key,omitempty"`

	// BaseURL for the API endpoint
	BaseURL string `json:"base_url,omitempty"`

	// DefaultModel is the default model to use
	DefaultModel string `json:"default_model,omitempty"`

	// Timeout for requests
	Timeout time.Duration `json:"timeout,omitempty"`

	// Custom headers for requests
	Headers map[string]string `json:"headers,omitempty"`
}

// Supported image MIME types
const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeWebP = "image/webp"
)

// IsSupportedImageType reports whether a MIME type can be sent to providers
func IsSupportedImageType(mimeType string) bool {
	switch mimeType {
	case MimePNG, MimeJPEG, MimeWebP:
		return true
	default:
		return false
	}
}
