package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/AIDetect/internal/ai"
)

func newMockProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.BaseURL = server.URL
	config.Timeout = 5 * time.Second

	provider, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return provider
}

func TestProvider_New(t *testing.T) {
	provider, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if provider.Name() != "ollama" {
		t.Errorf("Expected provider name 'ollama', got '%s'", provider.Name())
	}

	if _, err := New(&Config{BaseURL: "http://localhost:11434"}); err == nil {
		t.Error("Expected error for missing default model")
	}
}

func TestProvider_DetectText(t *testing.T) {
	provider := newMockProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path '/api/generate', got '%s'", r.URL.Path)
		}

		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got '%s'", r.Method)
		}

		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		if req.Format != "json" {
			t.Errorf("Expected json format, got '%s'", req.Format)
		}
		if req.Stream {
			t.Error("Expected non-streaming request")
		}
		if req.System != ai.TextPrompt("").SystemPrompt {
			t.Error("Expected system prompt to be set")
		}
		if len(req.Images) != 0 {
			t.Error("Text request must not carry images")
		}

		resp := GenerateResponse{
			Model:     req.Model,
			Response:  `{"isAiGenerated": false}`,
			Done:      true,
			CreatedAt: time.Now(),
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	verdict, err := provider.DetectText(context.Background(), &ai.TextRequest{Text: "hello", RequestID: "r1"})
	if err != nil {
		t.Fatalf("DetectText failed: %v", err)
	}

	if verdict.IsAIGenerated {
		t.Error("Expected human-origin verdict")
	}
	if verdict.Model != "llava" {
		t.Errorf("Expected model 'llava', got '%s'", verdict.Model)
	}
	if verdict.Provider != "ollama" {
		t.Errorf("Expected provider 'ollama', got '%s'", verdict.Provider)
	}
}

func TestProvider_DetectImage(t *testing.T) {
	payload := []byte("RIFF....WEBP")

	provider := newMockProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		if len(req.Images) != 1 || req.Images[0] != base64.StdEncoding.EncodeToString(payload) {
			t.Errorf("Expected one base64 image, got %v", req.Images)
		}
		if req.Prompt != ai.ImagePrompt().String() {
			t.Errorf("Unexpected prompt %q", req.Prompt)
		}

		_ = json.NewEncoder(w).Encode(GenerateResponse{Model: req.Model, Response: `{"isAiGenerated": true}`, Done: true})
	})

	verdict, err := provider.DetectImage(context.Background(), &ai.ImageRequest{Data: payload, MimeType: ai.MimeWebP})
	if err != nil {
		t.Fatalf("DetectImage failed: %v", err)
	}
	if !verdict.IsAIGenerated {
		t.Error("Expected AI-generated verdict")
	}
}

func TestProvider_ErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ai.ErrorType
		wantMsg  string
	}{
		{
			name:     "model not pulled",
			status:   http.StatusNotFound,
			body:     `{"error": "model 'llava' not found, try pulling it first"}`,
			wantType: ai.ErrTypeConfiguration,
			wantMsg:  "model 'llava' not found, try pulling it first",
		},
		{
			name:     "server error without body",
			status:   http.StatusInternalServerError,
			body:     ``,
			wantType: ai.ErrTypeProvider,
			wantMsg:  "request failed with status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newMockProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := provider.DetectText(context.Background(), &ai.TextRequest{Text: "x"})

			var pe *ai.ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("Expected ProviderError, got %v", err)
			}
			if pe.Type != tt.wantType {
				t.Errorf("Expected type %s, got %s", tt.wantType, pe.Type)
			}
			if pe.Message != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, pe.Message)
			}
		})
	}
}

func TestProvider_HealthCheck(t *testing.T) {
	provider := newMockProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Expected path '/api/tags', got '%s'", r.URL.Path)
		}

		_ = json.NewEncoder(w).Encode(TagsResponse{Models: []Model{
			{Name: "llava:latest", Size: 1000000},
			{Name: "llama3.2:1b", Size: 500000},
		}})
	})

	if err := provider.HealthCheck(context.Background()); err != nil {
		t.Fatalf("Health check failed: %v", err)
	}

	available, err := provider.IsModelAvailable(context.Background(), "llava")
	if err != nil {
		t.Fatalf("IsModelAvailable failed: %v", err)
	}
	if !available {
		t.Error("Expected llava to be available")
	}

	available, err = provider.IsModelAvailable(context.Background(), "mistral")
	if err != nil {
		t.Fatalf("IsModelAvailable failed: %v", err)
	}
	if available {
		t.Error("Expected mistral to be unavailable")
	}
}

func TestProvider_HealthCheckFailure(t *testing.T) {
	provider := newMockProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if err := provider.HealthCheck(context.Background()); err == nil {
		t.Fatal("Expected health check error")
	}
}

func TestProvider_HealthCheckMissingModel(t *testing.T) {
	provider := newMockProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(TagsResponse{Models: []Model{{Name: "mistral:7b"}}})
	})

	err := provider.HealthCheck(context.Background())
	if !ai.IsConfigurationError(err) {
		t.Fatalf("Expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "ollama pull llava") {
		t.Errorf("Error should say how to pull the model, got %v", err)
	}
}

func TestFactory_ValidateConfig(t *testing.T) {
	factory := NewFactory()

	tests := []struct {
		name    string
		config  *ai.ProviderConfig
		wantErr bool
	}{
		{name: "nil config", config: nil, wantErr: true},
		{name: "wrong type", config: &ai.ProviderConfig{Type: "openai"}, wantErr: true},
		{name: "empty config gets defaults", config: &ai.ProviderConfig{}},
		{name: "custom endpoint", config: &ai.ProviderConfig{Type: "ollama", BaseURL: "http://gpu-box:11434", DefaultModel: "llava:13b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := factory.ValidateConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
