package ollama

import (
	"time"

	"github.com/yildizm/AIDetect/internal/ai"
)

// Config holds Ollama-specific configuration
type Config struct {
	// BaseURL is the Ollama API endpoint
	BaseURL string `json:"base_url"`

	// DefaultModel is the default model to use if none specified.
	// Image detection needs a vision-capable model.
	DefaultModel string `json:"default_model"`

	// Timeout for HTTP requests
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns a default Ollama configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "http://localhost:11434",
		DefaultModel: "llava",
		Timeout:      60 * time.Second,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ai.NewConfigurationError("ollama", "base_url", "base URL is required")
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("ollama", "default_model", "default model is required")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("ollama", "timeout", "timeout must be positive")
	}

	return nil
}

// ToProviderConfig converts Ollama config to generic provider config
func (c *Config) ToProviderConfig() *ai.ProviderConfig {
	return &ai.ProviderConfig{
		Name:         "ollama",
		Type:         "ollama",
		BaseURL:      c.BaseURL,
		DefaultModel: c.DefaultModel,
		Timeout:      c.Timeout,
	}
}

// FromProviderConfig creates Ollama config from generic provider config
func FromProviderConfig(pc *ai.ProviderConfig) *Config {
	config := DefaultConfig()

	if pc.BaseURL != "" {
		config.BaseURL = pc.BaseURL
	}

	if pc.DefaultModel != "" {
		config.DefaultModel = pc.DefaultModel
	}

	if pc.Timeout > 0 {
		config.Timeout = pc.Timeout
	}

	return config
}
