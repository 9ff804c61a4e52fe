// Package ollama implements the detection provider for a local Ollama server.
package ollama

import "time"

// GenerateRequest represents an Ollama generate API request
type GenerateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	System  string   `json:"system,omitempty"`
	Images  []string `json:"images,omitempty"` // base64 encoded
	Format  string   `json:"format,omitempty"`
	Stream  bool     `json:"stream"`
	Options *Options `json:"options,omitempty"`
}

// GenerateResponse represents an Ollama generate API response
type GenerateResponse struct {
	Model     string    `json:"model"`
	Response  string    `json:"response"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`

	TotalDuration int64 `json:"total_duration,omitempty"`
	EvalCount     int   `json:"eval_count,omitempty"`
}

// TagsResponse represents the response from /api/tags
type TagsResponse struct {
	Models []Model `json:"models"`
}

// Model represents an Ollama model
type Model struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
}

// Options contains generation options
type Options struct {
	Temperature float64 `json:"temperature"`
	Seed        int     `json:"seed,omitempty"`
}

// ErrorResponse represents an Ollama API error response
type ErrorResponse struct {
	Error string `json:"error"`
}
