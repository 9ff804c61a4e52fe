package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/emoji"
	"gopkg.in/yaml.v3"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage AIDetect configuration",
		Long: `Manage AIDetect configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// standalone config commands load the files themselves so a broken config
// can still be reported
func standalone() map[string]string {
	return map[string]string{skipConfigAnnotation: ""}
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new AIDetect configuration file with default values.

By default, creates a full configuration file with all options and comments.
Use --minimal for a compact configuration with only essential settings.`,
		Example: `  # Create full config in current directory
  aidetect config init

  # Create minimal config
  aidetect config init --minimal

  # Create config at specific path
  aidetect config init --path ~/.config/aidetect/config.yaml

  # Overwrite existing config
  aidetect config init --force`,
		Annotations: standalone(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = ".aidetect.yaml"
			}
			outputPath = config.ExpandPath(outputPath)

			if !force && fileExists(outputPath) {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", outputPath)
			}

			dir := filepath.Dir(outputPath)
			if dir != "." && dir != "/" {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			content := config.SampleConfig()
			if minimal {
				content = config.MinimalSampleConfig()
			}

			if err := os.WriteFile(outputPath, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file created at: %s\n", emoji.GetEmoji("success"), outputPath)
			if minimal {
				fmt.Fprintf(out, "%s Created minimal configuration with essential settings\n", emoji.GetEmoji("file"))
			} else {
				fmt.Fprintf(out, "%s Created full configuration with all options and documentation\n", emoji.GetEmoji("file"))
			}

			return nil
		},
	}

	initCmd.Flags().StringVar(&outputPath, "path", "", "where to write the config file (default: .aidetect.yaml)")
	initCmd.Flags().BoolVar(&minimal, "minimal", false, "create minimal configuration")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")

	return initCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the merged configuration from all sources including defaults,
config files, and environment variable overrides. The API key is masked.`,
		Example: `  # Show config in YAML format
  aidetect config show

  # Show config in JSON format
  aidetect config show --format json

  # Show config from specific file
  aidetect config show --config /path/to/config.yaml`,
		Annotations: standalone(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg.AI.APIKey = maskSecret(cfg.AI.APIKey)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config to YAML: %w", err)
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}

			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	var check bool

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate the AIDetect configuration for syntax and semantic errors.

Checks the configuration for:
- Valid YAML or TOML syntax
- A known provider and an http(s) endpoint
- Valid values for enums
- Proper data types

With --check it also contacts the provider to verify the endpoint, the API
key and, for Ollama, that the model is pulled.`,
		Example: `  # Validate current config
  aidetect config validate

  # Validate specific config file
  aidetect config validate --config /path/to/config.yaml

  # Also check the provider accepts the API key
  aidetect config validate --check`,
		Annotations: standalone(),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				fmt.Fprintf(out, "%s Configuration validation failed:\n", emoji.GetEmoji("error"))
				fmt.Fprintf(out, "   %v\n", err)
				return err
			}

			fmt.Fprintf(out, "%s Configuration is valid\n", emoji.GetEmoji("success"))

			model := cfg.AI.Model
			if model == "" {
				model = "(provider default)"
			}
			key := "not set"
			if !cfg.AI.NeedsAPIKey() {
				key = "not required"
			} else if cfg.AI.ResolvedAPIKey() != "" {
				key = "set"
			}

			fmt.Fprintf(out, "%s Configuration summary:\n", emoji.GetEmoji("settings"))
			fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			fmt.Fprintf(out, "   AI Provider: %s\n", cfg.AI.Provider)
			fmt.Fprintf(out, "   Model: %s\n", model)
			fmt.Fprintf(out, "   API Key: %s\n", key)
			fmt.Fprintf(out, "   Stale Completions: %s\n", cfg.StalePolicy())
			fmt.Fprintf(out, "   Max Image Size: %d bytes\n", cfg.Analysis.MaxImageBytes)
			fmt.Fprintf(out, "   Output Format: %s\n", cfg.Output.DefaultFormat)

			if check {
				fmt.Fprintln(out)
				return checkProvider(cmd.Context(), out, cfg)
			}
			return nil
		},
	}

	validateCmd.Flags().BoolVar(&check, "check", false, "also connect to the provider and verify the credentials")

	return validateCmd
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths AIDetect searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  aidetect config path`,
		Annotations: standalone(),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file search paths (in priority order):\n\n", emoji.GetEmoji("folder"))

			paths := config.GetConfigPaths()
			for i, path := range paths {
				exists := " " + emoji.GetEmoji("error") + " (not found)"
				if fileExists(path) {
					exists = " " + emoji.GetEmoji("success") + " (exists)"
				}
				fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, exists)
			}
			fmt.Fprintln(out)

			if currentConfig, found := config.FindConfigFile(); found {
				fmt.Fprintf(out, "%s Current config file: %s\n", emoji.GetEmoji("target"), currentConfig)
			} else {
				fmt.Fprintf(out, "%s No config file found, using defaults\n", emoji.GetEmoji("info"))
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s Environment variables with %s prefix will override file settings\n", emoji.GetEmoji("help"), config.EnvPrefix)
		},
	}

	return pathCmd
}

// maskSecret keeps env references readable and hides literal keys
func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case s[0] == '$':
		return s
	case len(s) <= 8:
		return "********"
	default:
		return s[:4] + "..." + s[len(s)-4:]
	}
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
