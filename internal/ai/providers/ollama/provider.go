package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/AIDetect/internal/ai"
	"github.com/yildizm/go-promptfmt"
)

// Provider implements the detection provider interface for Ollama
type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
}

// New creates a new Ollama provider instance
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, ai.NewConfigurationError("ollama", "base_url", "invalid base URL: "+err.Error())
	}

	return &Provider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "ollama"
}

// DetectText classifies a text passage
func (p *Provider) DetectText(ctx context.Context, req *ai.TextRequest) (*ai.Verdict, error) {
	if req == nil {
		return nil, ai.NewValidationError("request", "nil", "text request is required")
	}

	return p.detect(ctx, req.RequestID, p.buildRequest(req.Model, ai.TextPrompt(req.Text), nil))
}

// DetectImage classifies an image; the model must accept images
func (p *Provider) DetectImage(ctx context.Context, req *ai.ImageRequest) (*ai.Verdict, error) {
	if req == nil {
		return nil, ai.NewValidationError("request", "nil", "image request is required")
	}

	images := []string{base64.StdEncoding.EncodeToString(req.Data)}
	return p.detect(ctx, req.RequestID, p.buildRequest(req.Model, ai.ImagePrompt(), images))
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

// Close cleans up provider resources
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// HealthCheck verifies the server is reachable and the default model is pulled
func (p *Provider) HealthCheck(ctx context.Context) error {
	model := p.config.DefaultModel
	available, err := p.IsModelAvailable(ctx, model)
	if err != nil {
		return err
	}
	if !available {
		return ai.NewProviderError(ai.ErrTypeConfiguration,
			fmt.Sprintf("model %s is not available on the Ollama server, run: ollama pull %s", model, model), "ollama")
	}
	return nil
}

func (p *Provider) buildRequest(model string, prompt *promptfmt.Prompt, images []string) *GenerateRequest {
	if model == "" {
		model = p.config.DefaultModel
	}

	return &GenerateRequest{
		Model:   model,
		Prompt:  prompt.String(),
		System:  prompt.SystemPrompt,
		Images:  images,
		Format:  "json",
		Stream:  false,
		Options: &Options{Temperature: 0},
	}
}

func (p *Provider) detect(ctx context.Context, requestID string, req *GenerateRequest) (*ai.Verdict, error) {
	start := time.Now()

	resp, err := p.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	isAI, err := ai.ParseVerdict("ollama", resp.Response)
	if err != nil {
		return nil, err
	}

	model := resp.Model
	if model == "" {
		model = req.Model
	}

	return &ai.Verdict{
		IsAIGenerated: isAI,
		Raw:           resp.Response,
		Model:         model,
		Provider:      "ollama",
		RequestID:     requestID,
		Latency:       time.Since(start),
	}, nil
}

// generate performs a single generation request
func (p *Provider) generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	endpoint := p.baseURL.JoinPath("/api/generate")

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to marshal request", "ollama", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to create request", "ollama", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "could not reach the Ollama server", "ollama", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeMalformedResponse, "failed to decode response", "ollama", err)
	}

	return &result, nil
}

func (p *Provider) handleErrorResponse(resp *http.Response) error {
	message := fmt.Sprintf("request failed with status %d", resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var errorResp ErrorResponse
	if json.Unmarshal(body, &errorResp) == nil && errorResp.Error != "" {
		message = errorResp.Error
	}

	errType := ai.ErrorTypeForStatus(resp.StatusCode)
	if resp.StatusCode == http.StatusNotFound {
		// Ollama answers 404 when the model has not been pulled
		errType = ai.ErrTypeConfiguration
	}

	return ai.NewHTTPError(errType, resp.StatusCode, message, "ollama")
}

// ListModels returns available models
func (p *Provider) ListModels(ctx context.Context) ([]Model, error) {
	endpoint := p.baseURL.JoinPath("/api/tags")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to create request", "ollama", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "could not reach the Ollama server", "ollama", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	var tagsResp TagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tagsResp); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeMalformedResponse, "failed to decode response", "ollama", err)
	}

	return tagsResp.Models, nil
}

// IsModelAvailable checks if a model is available locally
func (p *Provider) IsModelAvailable(ctx context.Context, modelName string) (bool, error) {
	models, err := p.ListModels(ctx)
	if err != nil {
		return false, err
	}

	for _, model := range models {
		if model.Name == modelName || strings.HasPrefix(model.Name, modelName+":") {
			return true, nil
		}
	}

	return false, nil
}
