package ai

import (
	"context"
	"io"
)

// DetectionProvider defines the interface for detection backends
type DetectionProvider interface {
	// Name returns the provider name (e.g., "gemini", "openai", "ollama")
	Name() string

	// DetectText classifies a text passage
	DetectText(ctx context.Context, req *TextRequest) (*Verdict, error)

	// DetectImage classifies an image payload
	DetectImage(ctx context.Context, req *ImageRequest) (*Verdict, error)

	// ValidateConfig validates the provider configuration
	ValidateConfig() error
}

// HealthChecker verifies a provider can be used before the first request
type HealthChecker interface {
	// HealthCheck verifies provider connectivity and credentials
	HealthCheck(ctx context.Context) error
}

// Provider combines all provider capabilities
type Provider interface {
	DetectionProvider
	HealthChecker
	io.Closer
}
