package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yildizm/AIDetect/internal/ai"
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
		return nil, ai.NewConfigurationError("openai", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	return &Provider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) DetectText(ctx context.Context, req *ai.TextRequest) (*ai.Verdict, error) {
	if req == nil {
		return nil, ai.NewValidationError("request", "nil", "text request is required")
	}

	prompt := ai.TextPrompt(req.Text)
	chatReq := p.buildChatRequest(req.Model, req.RequestID, prompt.SystemPrompt, prompt.String())
	return p.detect(ctx, req.RequestID, chatReq)
}

func (p *Provider) DetectImage(ctx context.Context, req *ai.ImageRequest) (*ai.Verdict, error) {
	if req == nil {
		return nil, ai.NewValidationError("request", "nil", "image request is required")
	}

	prompt := ai.ImagePrompt()
	chatReq := p.buildChatRequest(req.Model, req.RequestID, prompt.SystemPrompt, []ContentPart{
		{Type: "text", Text: prompt.String()},
		{Type: "image_url", ImageURL: &ImageURL{URL: DataURL(req.MimeType, req.Data)}},
	})
	return p.detect(ctx, req.RequestID, chatReq)
}

func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

func (p *Provider) Close() error {
	return nil
}

func (p *Provider) HealthCheck(ctx context.Context) error {
	endpoint := p.baseURL.JoinPath("/v1/models")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to create health check request", "openai", err)
	}
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "health check request failed", "openai", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	return p.handleErrorResponse(resp)
}

func (p *Provider) buildChatRequest(model, requestID, system string, userContent interface{}) *ChatCompletionRequest {
	if model == "" {
		model = p.config.DefaultModel
	}

	return &ChatCompletionRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: userContent},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
		User:           requestID,
	}
}

func (p *Provider) detect(ctx context.Context, requestID string, req *ChatCompletionRequest) (*ai.Verdict, error) {
	start := time.Now()
	resp, err := p.sendChatRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	raw := resp.Content()
	isAI, err := ai.ParseVerdict("openai", raw)
	if err != nil {
		return nil, err
	}

	model := resp.Model
	if model == "" {
		model = req.Model
	}

	return &ai.Verdict{
		IsAIGenerated: isAI,
		Raw:           raw,
		Model:         model,
		Provider:      "openai",
		RequestID:     requestID,
		Latency:       time.Since(start),
	}, nil
}

func (p *Provider) sendChatRequest(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	endpoint := p.baseURL.JoinPath("/v1/chat/completions")

	body, err := json.Marshal(req)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to marshal request", "openai", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to create request", "openai", err)
	}

	p.setHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "could not reach the detection service", "openai", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	var chatResp ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeMalformedResponse, "failed to decode response", "openai", err)
	}

	return &chatResp, nil
}

func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	if p.config.OrganizationID != "" {
		req.Header.Set(organizationHeader, p.config.OrganizationID)
	}
}

func (p *Provider) handleErrorResponse(resp *http.Response) error {
	fallback := fmt.Sprintf("request failed with status %d", resp.StatusCode)

	var errorResp ErrorResponse
	message := fallback
	if body, err := io.ReadAll(resp.Body); err == nil {
		if json.Unmarshal(body, &errorResp) == nil && errorResp.Error.Message != "" {
			message = errorResp.Error.Message
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		// insufficient_quota also arrives as a 429 but waiting will not help
		if errorResp.Error.Code == "insufficient_quota" {
			return ai.NewHTTPError(ai.ErrTypeQuota, resp.StatusCode, message, "openai")
		}
		retryAfter := 0
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			retryAfter = seconds
		}
		return ai.NewRateLimitError("openai", retryAfter)
	}

	return ai.NewHTTPError(ai.ErrorTypeForStatus(resp.StatusCode), resp.StatusCode, message, "openai")
}
