package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/yildizm/AIDetect/internal/ai"
	"github.com/yildizm/AIDetect/internal/ai/providers/gemini"
	"github.com/yildizm/AIDetect/internal/ai/providers/ollama"
	"github.com/yildizm/AIDetect/internal/ai/providers/openai"
	"github.com/yildizm/AIDetect/internal/analyzer"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/emoji"
	"golang.org/x/term"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// detectorFactory builds the detection service for a command. Tests swap it
// for a fake.
var detectorFactory = newDetector

// promptInput is where a missing API key is read from
var promptInput = os.Stdin

// registerProviders adds every built-in provider to the global registry
func registerProviders() error {
	registerOnce.Do(func() {
		registry := ai.GlobalRegistry()
		for _, register := range []func(ai.Registry) error{gemini.Register, openai.Register, ollama.Register} {
			if err := register(registry); err != nil {
				registerErr = fmt.Errorf("failed to register provider: %w", err)
				return
			}
		}
	})
	return registerErr
}

// providerConfig maps the ai section onto the registry's provider config
func providerConfig(cfg *config.AIConfig, apiKey string) *ai.ProviderConfig {
	return &ai.ProviderConfig{
		Name:         cfg.Provider,
		Type:         cfg.Provider,
		APIKey:       apiKey,
		BaseURL:      cfg.Endpoint,
		DefaultModel: cfg.Model,
		Timeout:      cfg.Timeout,
	}
}

// newProvider creates the configured provider with the resolved API key
func newProvider(cfg *config.Config) (ai.Provider, error) {
	if err := registerProviders(); err != nil {
		return nil, err
	}

	apiKey, err := resolveAPIKey(&cfg.AI, promptInput, os.Stderr)
	if err != nil {
		return nil, err
	}

	provider, err := ai.GlobalRegistry().GetWithConfig(cfg.AI.Provider, providerConfig(&cfg.AI, apiKey))
	if err != nil {
		if ai.IsConfigurationError(err) {
			return nil, fmt.Errorf("%w\n%s", err, apiKeyHint(cfg.AI.Provider))
		}
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}
	return provider, nil
}

// newDetector creates the configured provider and wraps it as a detector
func newDetector(cfg *config.Config) (analyzer.Detector, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	log := GetLogger("detector")
	log.Debug("using provider %s", cfg.AI.Provider)
	return ai.NewDetector(provider, cfg.AI.Model, log), nil
}

// checkProvider sends the provider's health request and explains a failure
func checkProvider(ctx context.Context, out io.Writer, cfg *config.Config) error {
	provider, err := newProvider(cfg)
	if err != nil {
		fmt.Fprintf(out, "%s Provider check failed:\n   %v\n", emoji.GetEmoji("error"), err)
		return err
	}

	if cfg.AI.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.AI.Timeout)
		defer cancel()
	}

	fmt.Fprintf(out, "%s Checking %s...\n", emoji.GetEmoji("loading"), cfg.AI.Provider)
	if err := provider.HealthCheck(ctx); err != nil {
		fmt.Fprintf(out, "%s Provider check failed: %s\n", emoji.GetEmoji("error"), analyzer.ErrorMessage(err))
		switch {
		case ai.IsAuthError(err):
			fmt.Fprintf(out, "   %s\n", apiKeyHint(cfg.AI.Provider))
		case ai.IsRetryableError(err):
			fmt.Fprintf(out, "   The service may be temporarily unavailable, try again later\n")
		}
		return fmt.Errorf("provider check failed: %w", err)
	}

	fmt.Fprintf(out, "%s Provider %s is reachable\n", emoji.GetEmoji("success"), cfg.AI.Provider)
	return nil
}

// closeProviders releases the providers created during this run
func closeProviders() {
	if err := ai.GlobalRegistry().Close(); err != nil {
		GetLogger("setup").Warn("failed to close providers: %v", err)
	}
}

// resolveAPIKey returns the configured key, prompting for it without echo
// when none is set and in is an interactive terminal.
func resolveAPIKey(cfg *config.AIConfig, in *os.File, prompt io.Writer) (string, error) {
	key := cfg.ResolvedAPIKey()
	if key != "" || !cfg.NeedsAPIKey() {
		return key, nil
	}

	if in == nil || !term.IsTerminal(int(in.Fd())) {
		return "", nil
	}

	fmt.Fprintf(prompt, "%s %s API key: ", emoji.GetEmoji("key"), cfg.Provider)
	raw, err := term.ReadPassword(int(in.Fd()))
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func apiKeyHint(provider string) string {
	switch provider {
	case "gemini":
		return "Set GEMINI_API_KEY, AIDETECT_AI_API_KEY or ai.api_key in the config file"
	case "openai":
		return "Set OPENAI_API_KEY, AIDETECT_AI_API_KEY or ai.api_key in the config file"
	default:
		return "Check the ai section of the config file (aidetect config show)"
	}
}

// newSession wires a detector into a session configured from cfg
func newSession(det analyzer.Detector, cfg *config.Config) *analyzer.Session {
	log := GetLogger("session")
	return analyzer.NewSession(det,
		analyzer.WithStalePolicy(cfg.StalePolicy()),
		analyzer.WithPreviewManager(analyzer.NewPreviewManager(cfg.Analysis.PreviewWidth, log.WithComponent("preview"))),
		analyzer.WithLogger(log),
	)
}
