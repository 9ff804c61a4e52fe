package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/yildizm/AIDetect/internal/analyzer"
)

// Config represents the complete AIDetect configuration
type Config struct {
	Version  string         `yaml:"version" toml:"version" json:"version"`
	AI       AIConfig       `yaml:"ai" toml:"ai" json:"ai"`
	Analysis AnalysisConfig `yaml:"analysis" toml:"analysis" json:"analysis"`
	Output   OutputConfig   `yaml:"output" toml:"output" json:"output"`
}

// AIConfig selects and configures the detection provider
type AIConfig struct {
	Provider string        `yaml:"provider" toml:"provider" json:"provider"`
	Model    string        `yaml:"model" toml:"model" json:"model"`
	Endpoint string        `yaml:"endpoint" toml:"endpoint" json:"endpoint"`
	APIKey   string        `yaml:"api_key" toml:"api_key" json:"api_key,omitempty"`
	Timeout  time.Duration `yaml:"timeout" toml:"timeout" json:"timeout"`
}

// AnalysisConfig holds session behaviour
type AnalysisConfig struct {
	MaxImageBytes    int64  `yaml:"max_image_bytes" toml:"max_image_bytes" json:"max_image_bytes"`
	StaleCompletions string `yaml:"stale_completions" toml:"stale_completions" json:"stale_completions"`
	PreviewWidth     int    `yaml:"preview_width" toml:"preview_width" json:"preview_width"`
}

// OutputConfig holds output formatting settings
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" toml:"default_format" json:"default_format"`
	ColorMode     string `yaml:"color_mode" toml:"color_mode" json:"color_mode"`
	Verbose       bool   `yaml:"verbose" toml:"verbose" json:"verbose"`
	LogFile       string `yaml:"log_file" toml:"log_file" json:"log_file"`
	Theme         string `yaml:"theme" toml:"theme" json:"theme"`
}

// Providers lists the detection backends that can be configured
var Providers = []string{"gemini", "openai", "ollama"}

// providerKeyEnv maps a provider to the environment variables its SDKs read
var providerKeyEnv = map[string][]string{
	"gemini": {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"openai": {"OPENAI_API_KEY"},
}

const (
	maxPreviewWidth = 200
	minPreviewWidth = 8
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		AI: AIConfig{
			Provider: "gemini",
			Timeout:  30 * time.Second,
		},
		Analysis: AnalysisConfig{
			MaxImageBytes:    analyzer.MaxImageBytes,
			StaleCompletions: string(analyzer.StaleDiscard),
			PreviewWidth:     analyzer.DefaultPreviewWidth,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			Theme:         "default",
		},
	}
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if err := c.validateAIConfig(); err != nil {
		return err
	}

	if err := c.validateAnalysisConfig(); err != nil {
		return err
	}

	return c.validateOutputConfig()
}

func (c *Config) validateAIConfig() error {
	if !contains(Providers, c.AI.Provider) {
		return fmt.Errorf("invalid AI provider: %s (must be one of: %s)", c.AI.Provider, strings.Join(Providers, ", "))
	}

	if c.AI.Timeout < 0 {
		return fmt.Errorf("ai.timeout must be non-negative")
	}

	if c.AI.Endpoint != "" {
		u, err := url.Parse(c.AI.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid AI endpoint: %s (must be an http or https URL)", c.AI.Endpoint)
		}
	}

	return nil
}

func (c *Config) validateAnalysisConfig() error {
	if c.Analysis.MaxImageBytes <= 0 {
		return fmt.Errorf("max_image_bytes must be greater than 0")
	}

	if _, err := analyzer.ParseStalePolicy(c.Analysis.StaleCompletions); err != nil {
		return fmt.Errorf("invalid stale_completions: %w", err)
	}

	if c.Analysis.PreviewWidth < minPreviewWidth || c.Analysis.PreviewWidth > maxPreviewWidth {
		return fmt.Errorf("preview_width must be between %d and %d", minPreviewWidth, maxPreviewWidth)
	}

	return nil
}

func (c *Config) validateOutputConfig() error {
	validFormats := []string{"text", "json", "markdown"}
	if c.Output.DefaultFormat != "" && !contains(validFormats, c.Output.DefaultFormat) {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, markdown)", c.Output.DefaultFormat)
	}

	validColorModes := []string{"auto", "always", "never"}
	if c.Output.ColorMode != "" && !contains(validColorModes, c.Output.ColorMode) {
		return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
	}

	validThemes := []string{"default", "high-contrast", "minimal"}
	if c.Output.Theme != "" && !contains(validThemes, c.Output.Theme) {
		return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
	}

	return nil
}

// StalePolicy returns the parsed stale completion policy
func (c *Config) StalePolicy() analyzer.StalePolicy {
	policy, _ := analyzer.ParseStalePolicy(c.Analysis.StaleCompletions)
	return policy
}

// ResolvedAPIKey returns the configured key. A value written as $VAR or
// ${VAR} is read from the environment; an empty key falls back to the
// provider's conventional variables.
func (a *AIConfig) ResolvedAPIKey() string {
	if strings.HasPrefix(a.APIKey, "$") {
		return os.ExpandEnv(a.APIKey)
	}
	if a.APIKey != "" {
		return a.APIKey
	}

	for _, name := range providerKeyEnv[a.Provider] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// NeedsAPIKey reports whether the provider authenticates with a key
func (a *AIConfig) NeedsAPIKey() bool {
	return a.Provider != "ollama"
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
