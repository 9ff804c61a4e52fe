package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/emoji"
	"github.com/yildizm/AIDetect/internal/logger"
	"golang.org/x/term"
)

var (
	cfgFile      string
	verbose      bool
	noColor      bool
	noEmoji      bool
	outputFmt    string
	providerName string
	modelName    string

	globalConfig *config.Config
)

// skipConfigAnnotation marks commands that must run without a loaded config
const skipConfigAnnotation = "skip-config"

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aidetect",
		Short: "Detect AI-generated text and images",
		Long: `AIDetect asks a detection service whether a piece of text or an image
was generated by AI and shows a YES/NO verdict.

Run without a subcommand to open the interactive shell, or use the text,
image and watch commands for one-shot and scripted use.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)

			if _, skip := cmd.Annotations[skipConfigAnnotation]; skip {
				return nil
			}
			return loadGlobalConfig(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeProviders()
		},
		RunE: runTUI,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown)")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "detection provider (gemini, openai, ollama)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "model name, empty for the provider default")

	// Add subcommands
	rootCmd.AddCommand(newTUICommand())
	rootCmd.AddCommand(newTextCommand())
	rootCmd.AddCommand(newImageCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// loadGlobalConfig reads the config files and env, then applies the flags
func loadGlobalConfig(cmd *cobra.Command) error {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	if cmd.Flag("provider").Changed {
		cfg.AI.Provider = providerName
	}
	if cmd.Flag("model").Changed {
		cfg.AI.Model = modelName
	}
	if cmd.Flag("output").Changed {
		cfg.Output.DefaultFormat = outputFmt
	}
	if cmd.Flag("verbose").Changed {
		cfg.Output.Verbose = verbose
	}
	if noColor {
		cfg.Output.ColorMode = "never"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	globalConfig = cfg
	return nil
}

// GetGlobalConfig returns the loaded configuration, or defaults before loading
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// GetLogger returns a component logger that follows the verbose setting
func GetLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Long:        "Display version number, build commit, date, and runtime information",
		Annotations: map[string]string{skipConfigAnnotation: ""},
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "AIDetect %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers
func isVerbose() bool {
	return verbose || (globalConfig != nil && globalConfig.Output.Verbose)
}

func getOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// colorEnabled resolves output.color_mode against the terminal on stdout
func colorEnabled() bool {
	switch GetGlobalConfig().Output.ColorMode {
	case "never":
		return false
	case "always":
		return true
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}
