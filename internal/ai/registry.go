package ai

import "sync"

// Registry manages available detection providers
type Registry interface {
	// Register adds a provider factory to the registry
	Register(name string, factory ProviderFactory) error

	// GetWithConfig creates (or replaces) a provider with specific configuration
	GetWithConfig(name string, config *ProviderConfig) (Provider, error)

	// Close shuts down all providers and cleans up resources
	Close() error
}

// ProviderFactory creates provider instances
type ProviderFactory interface {
	// Create creates a new provider instance with the given config
	Create(config *ProviderConfig) (Provider, error)

	// ValidateConfig validates configuration for this provider type
	ValidateConfig(config *ProviderConfig) error
}

// defaultRegistry implements Registry interface
type defaultRegistry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
	providers map[string]Provider
}

// NewRegistry creates a new provider registry
func NewRegistry() Registry {
	return &defaultRegistry{
		factories: make(map[string]ProviderFactory),
		providers: make(map[string]Provider),
	}
}

// Register adds a provider factory to the registry
func (r *defaultRegistry) Register(name string, factory ProviderFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return &ProviderError{
			Type:     ErrTypeRegistration,
			Message:  "provider already registered",
			Provider: name,
		}
	}

	r.factories[name] = factory
	return nil
}

// GetWithConfig creates a provider with specific configuration
func (r *defaultRegistry) GetWithConfig(name string, config *ProviderConfig) (Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, notRegistered(name)
	}

	if err := factory.ValidateConfig(config); err != nil {
		return nil, err
	}

	provider, err := factory.Create(config)
	if err != nil {
		return nil, err
	}

	if previous, ok := r.providers[name]; ok {
		_ = previous.Close()
	}

	r.providers[name] = provider

	return provider, nil
}

// Close shuts down all providers
func (r *defaultRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lastErr error
	for name, provider := range r.providers {
		if err := provider.Close(); err != nil {
			lastErr = err
		}
		delete(r.providers, name)
	}

	return lastErr
}

func notRegistered(name string) *ProviderError {
	return &ProviderError{
		Type:     ErrTypeNotFound,
		Message:  "provider not registered",
		Provider: name,
	}
}

// Global registry instance
var globalRegistry = NewRegistry()

// GlobalRegistry returns the global provider registry
func GlobalRegistry() Registry {
	return globalRegistry
}
