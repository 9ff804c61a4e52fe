package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# AIDetect configuration
version: "1.0"

ai:
  # Detection backend: gemini, openai or ollama
  provider: gemini
  # Model name; empty uses the provider default
  model: ""
  # Base URL override, e.g. http://localhost:11434 for ollama
  endpoint: ""
  # API key. $VAR or ${VAR} reads it from the environment.
  # Empty falls back to GEMINI_API_KEY / GOOGLE_API_KEY or OPENAI_API_KEY.
  api_key: ""
  # Per-request HTTP timeout
  timeout: 30s

analysis:
  # Largest image accepted at selection time
  max_image_bytes: 4194304
  # What to do with a verdict that arrives after the input changed:
  #   discard - drop it (default)
  #   apply   - show it anyway
  stale_completions: discard
  # Image preview width in terminal cells
  preview_width: 32

output:
  # text, json or markdown
  default_format: text
  # auto, always or never
  color_mode: auto
  verbose: false
  # Log destination while the interactive shell owns the screen
  log_file: ""
  # default, high-contrast or minimal
  theme: default
`
}

// MinimalSampleConfig returns a configuration with only the essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"

ai:
  provider: gemini
  api_key: ${GEMINI_API_KEY}

output:
  default_format: text
`
}
