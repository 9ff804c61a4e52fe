package ai

import (
	"context"
	"errors"
	"testing"
)

// stubProvider is a minimal Provider for registry and detector tests
type stubProvider struct {
	name    string
	verdict *Verdict
	err     error
	closed  bool
	lastImg *ImageRequest
	lastTxt *TextRequest
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) DetectText(_ context.Context, req *TextRequest) (*Verdict, error) {
	s.lastTxt = req
	return s.verdict, s.err
}

func (s *stubProvider) DetectImage(_ context.Context, req *ImageRequest) (*Verdict, error) {
	s.lastImg = req
	return s.verdict, s.err
}

func (s *stubProvider) ValidateConfig() error               { return nil }
func (s *stubProvider) HealthCheck(_ context.Context) error { return nil }
func (s *stubProvider) Close() error                        { s.closed = true; return nil }

type stubFactory struct {
	created []*stubProvider
}

func (f *stubFactory) Create(config *ProviderConfig) (Provider, error) {
	p := &stubProvider{name: config.Name}
	f.created = append(f.created, p)
	return p, nil
}

func (f *stubFactory) ValidateConfig(config *ProviderConfig) error {
	if config.APIKey == "bad" {
		return NewConfigurationError("stub", "api_key", "rejected")
	}
	return nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"openai", "gemini", "ollama"} {
		if err := r.Register(name, &stubFactory{}); err != nil {
			t.Fatalf("Register(%s) error = %v", name, err)
		}
	}

	err := r.Register("gemini", &stubFactory{})
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Type != ErrTypeRegistration {
		t.Errorf("duplicate registration should fail with a registration error, got %v", err)
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.GetWithConfig("missing", &ProviderConfig{Name: "missing"})
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Type != ErrTypeNotFound {
		t.Errorf("expected not_found error, got %v", err)
	}
}

func TestRegistry_GetWithConfigReplacesProvider(t *testing.T) {
	r := NewRegistry()
	f := &stubFactory{}
	if err := r.Register("stub", f); err != nil {
		t.Fatal(err)
	}

	first, err := r.GetWithConfig("stub", &ProviderConfig{Name: "stub", APIKey: "k1"})
	if err != nil {
		t.Fatalf("GetWithConfig() error = %v", err)
	}

	second, err := r.GetWithConfig("stub", &ProviderConfig{Name: "stub", APIKey: "k2"})
	if err != nil {
		t.Fatalf("GetWithConfig() error = %v", err)
	}
	if second == first {
		t.Error("GetWithConfig() should create a new provider")
	}
	if !f.created[0].closed {
		t.Error("replaced provider should be closed")
	}

	if _, err := r.GetWithConfig("stub", &ProviderConfig{APIKey: "bad"}); !IsConfigurationError(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry()
	f := &stubFactory{}
	_ = r.Register("stub", f)
	_, _ = r.GetWithConfig("stub", &ProviderConfig{Name: "stub"})

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !f.created[0].closed {
		t.Error("Close() should close live providers")
	}
}
