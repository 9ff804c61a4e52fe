package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.aidetect.yaml", // Project-specific config (highest priority)
	"./.aidetect.toml",
	"~/.config/aidetect/config.yaml", // User config
	"~/.config/aidetect/config.toml",
	"/etc/aidetect/config.yaml", // System config (lowest priority)
}

// EnvPrefix prefixes every environment override
const EnvPrefix = "AIDETECT_"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.aidetect.yaml or ./.aidetect.toml
// 4. ~/.config/aidetect/config.{yaml,toml}
// 5. /etc/aidetect/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML or TOML file and merges it into config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := decodeConfig(path, data, &fileConfig); err != nil {
		return err
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

func decodeConfig(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
		return nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		"AI_PROVIDER": func(v string) error { config.AI.Provider = v; return nil },
		"AI_MODEL":    func(v string) error { config.AI.Model = v; return nil },
		"AI_ENDPOINT": func(v string) error { config.AI.Endpoint = v; return nil },
		"AI_API_KEY":  func(v string) error { config.AI.APIKey = v; return nil },
		"AI_TIMEOUT":  func(v string) error { return parseDuration(v, &config.AI.Timeout) },

		"ANALYSIS_MAX_IMAGE_BYTES":   func(v string) error { return parseInt64(v, &config.Analysis.MaxImageBytes) },
		"ANALYSIS_STALE_COMPLETIONS": func(v string) error { config.Analysis.StaleCompletions = v; return nil },
		"ANALYSIS_PREVIEW_WIDTH":     func(v string) error { return parseInt(v, &config.Analysis.PreviewWidth) },

		"OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"OUTPUT_LOG_FILE":       func(v string) error { config.Output.LogFile = v; return nil },
		"OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },
	}

	for suffix, setter := range envMappings {
		envVar := EnvPrefix + suffix
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	switch strings.ToLower(filepath.Ext(cleanPath)) {
	case ".yaml", ".yml", ".toml":
	default:
		return fmt.Errorf("config file must have .yaml, .yml or .toml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ExpandPath is expandPath for callers outside the package
func ExpandPath(path string) string {
	return expandPath(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config
// Only non-zero values from source overwrite destination
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeAIConfig(&dst.AI, &src.AI)
	mergeAnalysisConfig(&dst.Analysis, &src.Analysis)
	mergeOutputConfig(&dst.Output, &src.Output)
}

func mergeAIConfig(dst, src *AIConfig) {
	mergeIfSet(&dst.Provider, src.Provider)
	mergeIfSet(&dst.Model, src.Model)
	mergeIfSet(&dst.Endpoint, src.Endpoint)
	mergeIfSet(&dst.APIKey, src.APIKey)
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
}

func mergeAnalysisConfig(dst, src *AnalysisConfig) {
	if src.MaxImageBytes != 0 {
		dst.MaxImageBytes = src.MaxImageBytes
	}
	mergeIfSet(&dst.StaleCompletions, src.StaleCompletions)
	if src.PreviewWidth != 0 {
		dst.PreviewWidth = src.PreviewWidth
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	mergeIfSet(&dst.DefaultFormat, src.DefaultFormat)
	mergeIfSet(&dst.ColorMode, src.ColorMode)
	mergeIfSet(&dst.LogFile, src.LogFile)
	mergeIfSet(&dst.Theme, src.Theme)
	if src.Verbose {
		dst.Verbose = true
	}
}

func mergeIfSet(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func parseInt(s string, target *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*target = val
	return nil
}

func parseInt64(s string, target *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*target = val
	return nil
}

func parseBool(s string, target *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*target = val
	return nil
}

func parseDuration(s string, target *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*target = val
	return nil
}
