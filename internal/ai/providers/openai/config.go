package openai

import (
	"fmt"
	"net/url"
	"time"

	"github.com/yildizm/AIDetect/internal/ai"
)

const (
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second

	organizationHeader = "OpenAI-Organization"
)

type Config struct {
	APIKey         string        `json:"api_key"`
	BaseURL        string        `json:"base_url"`
	DefaultModel   string        `json:"default_model"`
	Timeout        time.Duration `json:"timeout"`
	OrganizationID string        `json:"organization_id,omitempty"`
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
		return ai.NewConfigurationError("openai", "api_key", "API key is required")
	}

	if c.BaseURL == "" {
		return ai.NewConfigurationError("openai", "base_url", "base URL is required")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return ai.NewConfigurationError("openai", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("openai", "default_model", "default model is required")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("openai", "timeout", "timeout must be positive")
	}

	return nil
}

func (c *Config) ToProviderConfig() *ai.ProviderConfig {
	var headers map[string]string
	if c.OrganizationID != "" {
		headers = map[string]string{organizationHeader: c.OrganizationID}
	}

	return &ai.ProviderConfig{
		Name:         "openai",
		Type:         "openai",
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		DefaultModel: c.DefaultModel,
		Timeout:      c.Timeout,
		Headers:      headers,
	}
}

func FromProviderConfig(config *ai.ProviderConfig) *Config {
	if config == nil {
		return DefaultConfig()
	}

	c := &Config{
		APIKey:         config.APIKey,
		BaseURL:        config.BaseURL,
		DefaultModel:   config.DefaultModel,
		Timeout:        config.Timeout,
		OrganizationID: config.Headers[organizationHeader],
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
