package gemini

import (
	"fmt"
	"net/url"
	"time"

	"github.com/yildizm/AIDetect/internal/ai"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	APIKey       string        `json:"api_key"`
	BaseURL      string        `json:"base_url"`
	DefaultModel string        `json:"default_model"`
	Timeout      time.Duration `json:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		DefaultModel: DefaultModel,
		Timeout:      DefaultTimeout,
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ai.NewConfigurationError("gemini", "api_key", "API key is required")
	}

	if c.BaseURL == "" {
		return ai.NewConfigurationError("gemini", "base_url", "base URL is required")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return ai.NewConfigurationError("gemini", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("gemini", "default_model", "default model is required")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("gemini", "timeout", "timeout must be positive")
	}

	return nil
}

func (c *Config) ToProviderConfig() *ai.ProviderConfig {
	return &ai.ProviderConfig{
		Name:         "gemini",
		Type:         "gemini",
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		DefaultModel: c.DefaultModel,
		Timeout:      c.Timeout,
	}
}

func FromProviderConfig(config *ai.ProviderConfig) *Config {
	if config == nil {
		return DefaultConfig()
	}

	c := &Config{
		APIKey:       config.APIKey,
		BaseURL:      config.BaseURL,
		DefaultModel: config.DefaultModel,
		Timeout:      config.Timeout,
	}

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.DefaultModel == "" {
		c.DefaultModel = DefaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	return c
}
