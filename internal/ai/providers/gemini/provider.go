package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/yildizm/AIDetect/internal/ai"
	"github.com/yildizm/go-promptfmt"
)

type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
}

func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, ai.NewConfigurationError("gemini", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	return &Provider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) DetectText(ctx context.Context, req *ai.TextRequest) (*ai.Verdict, error) {
	if req == nil {
		return nil, ai.NewValidationError("request", "nil", "text request is required")
	}

	prompt := ai.TextPrompt(req.Text)
	body := p.buildRequest(prompt, Part{Text: prompt.String()})
	return p.detect(ctx, req.Model, req.RequestID, body)
}

func (p *Provider) DetectImage(ctx context.Context, req *ai.ImageRequest) (*ai.Verdict, error) {
	if req == nil {
		return nil, ai.NewValidationError("request", "nil", "image request is required")
	}

	prompt := ai.ImagePrompt()
	body := p.buildRequest(prompt,
		Part{InlineData: &InlineData{
			MimeType: req.MimeType,
			Data:     base64.StdEncoding.EncodeToString(req.Data),
		}},
		Part{Text: prompt.String()},
	)
	return p.detect(ctx, req.Model, req.RequestID, body)
}

func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

func (p *Provider) Close() error {
	return nil
}

func (p *Provider) HealthCheck(ctx context.Context) error {
	endpoint := p.baseURL.JoinPath("/v1beta/models")
	endpoint.RawQuery = "pageSize=1"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to create health check request", "gemini", err)
	}
	req.Header.Set("x-goog-api-key", p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "health check request failed", "gemini", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	return p.handleErrorResponse(resp)
}

func (p *Provider) buildRequest(prompt *promptfmt.Prompt, parts ...Part) *GenerateContentRequest {
	temperature := float32(0)
	return &GenerateContentRequest{
		SystemInstruction: &Content{Parts: []Part{{Text: prompt.SystemPrompt}}},
		Contents:          []Content{{Role: "user", Parts: parts}},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: "application/json",
			Temperature:      &temperature,
		},
	}
}

func (p *Provider) detect(ctx context.Context, model, requestID string, body *GenerateContentRequest) (*ai.Verdict, error) {
	if model == "" {
		model = p.config.DefaultModel
	}

	start := time.Now()
	resp, err := p.generateContent(ctx, model, body)
	if err != nil {
		return nil, err
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, ai.NewProviderError(ai.ErrTypeValidation,
			fmt.Sprintf("content was blocked by the detection service (%s)", resp.PromptFeedback.BlockReason), "gemini")
	}

	raw := resp.Text()
	isAI, err := ai.ParseVerdict("gemini", raw)
	if err != nil {
		return nil, err
	}

	if resp.ModelVersion != "" {
		model = resp.ModelVersion
	}

	return &ai.Verdict{
		IsAIGenerated: isAI,
		Raw:           raw,
		Model:         model,
		Provider:      "gemini",
		RequestID:     requestID,
		Latency:       time.Since(start),
	}, nil
}

func (p *Provider) generateContent(ctx context.Context, model string, req *GenerateContentRequest) (*GenerateContentResponse, error) {
	endpoint := p.baseURL.JoinPath("/v1beta/models/" + model + ":generateContent")

	body, err := json.Marshal(req)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to marshal request", "gemini", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to create request", "gemini", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.config.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "could not reach the detection service", "gemini", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	var out GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeMalformedResponse, "failed to decode response", "gemini", err)
	}

	return &out, nil
}

func (p *Provider) handleErrorResponse(resp *http.Response) error {
	fallback := fmt.Sprintf("request failed with status %d", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ai.NewHTTPError(ai.ErrorTypeForStatus(resp.StatusCode), resp.StatusCode, fallback, "gemini")
	}

	var errorResp ErrorResponse
	message := fallback
	if json.Unmarshal(body, &errorResp) == nil && errorResp.Error.Message != "" {
		message = errorResp.Error.Message
	}

	errType := ai.ErrorTypeForStatus(resp.StatusCode)
	if errorResp.Error.Status == "RESOURCE_EXHAUSTED" {
		errType = ai.ErrTypeQuota
	}

	return ai.NewHTTPError(errType, resp.StatusCode, message, "gemini")
}
