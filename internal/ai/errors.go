package ai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of detection-service error
type ErrorType string

const (
	// ErrTypeProvider indicates provider-related errors
	ErrTypeProvider ErrorType = "provider"

	// ErrTypeConfiguration indicates configuration errors
	ErrTypeConfiguration ErrorType = "configuration"

	// ErrTypeAuthentication indicates authentication errors
	ErrTypeAuthentication ErrorType = "authentication"

	// ErrTypeRateLimit indicates rate limiting errors
	ErrTypeRateLimit ErrorType = "rate_limit"

	// ErrTypeQuota indicates quota/billing errors
	ErrTypeQuota ErrorType = "quota"

	// ErrTypeNetwork indicates network-related errors
	ErrTypeNetwork ErrorType = "network"

	// ErrTypeTimeout indicates timeout errors
	ErrTypeTimeout ErrorType = "timeout"

	// ErrTypeValidation indicates the service rejected the payload
	ErrTypeValidation ErrorType = "validation"

	// ErrTypeRegistration indicates provider registration errors
	ErrTypeRegistration ErrorType = "registration"

	// ErrTypeNotFound indicates provider not found errors
	ErrTypeNotFound ErrorType = "not_found"

	// ErrTypeMalformedResponse indicates a reply that carries no verdict
	ErrTypeMalformedResponse ErrorType = "malformed_response"

	// ErrTypeInternal indicates internal system errors
	ErrTypeInternal ErrorType = "internal"
)

// ProviderError represents errors returned by a detection provider
type ProviderError struct {
	// Type categorizes the error
	Type ErrorType `json:"type"`

	// Message provides human-readable error description
	Message string `json:"message"`

	// Provider indicates which provider caused the error
	Provider string `json:"provider,omitempty"`

	// StatusCode for HTTP-related errors
	StatusCode int `json:"status_code,omitempty"`

	// Underlying error that caused this error
	Cause error `json:"-"`

	// Retryable indicates if the user may usefully try again
	Retryable bool `json:"retryable"`
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	var parts []string

	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider=%s", e.Provider))
	}

	parts = append(parts, fmt.Sprintf("type=%s", e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// UserMessage returns the message meant for display, without diagnostics
func (e *ProviderError) UserMessage() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error type
func (e *ProviderError) Is(target error) bool {
	if pe, ok := target.(*ProviderError); ok {
		return e.Type == pe.Type
	}
	return false
}

// IsRetryable returns whether the error is retryable
func (e *ProviderError) IsRetryable() bool {
	return e.Retryable
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// UserMessage returns the message meant for display
func (e *ValidationError) UserMessage() string {
	return e.Message
}

// RateLimitError represents rate limiting errors
type RateLimitError struct {
	Provider   string `json:"provider"`
	RetryAfter int    `json:"retry_after"`
}

// Error implements the error interface
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for provider '%s': retry after %d seconds",
		e.Provider, e.RetryAfter)
}

// UserMessage returns the message meant for display
func (e *RateLimitError) UserMessage() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded, try again in %d seconds", e.RetryAfter)
	}
	return "rate limit exceeded, try again later"
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Provider string `json:"provider"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for provider '%s', field '%s': %s",
		e.Provider, e.Field, e.Message)
}

// NewProviderError creates a new provider error
func NewProviderError(errType ErrorType, message, provider string) *ProviderError {
	return &ProviderError{
		Type:      errType,
		Message:   message,
		Provider:  provider,
		Retryable: isRetryableError(errType),
	}
}

// NewProviderErrorWithCause creates a provider error with an underlying cause
func NewProviderErrorWithCause(errType ErrorType, message, provider string, cause error) *ProviderError {
	return &ProviderError{
		Type:      errType,
		Message:   message,
		Provider:  provider,
		Cause:     cause,
		Retryable: isRetryableError(errType),
	}
}

// NewHTTPError creates a provider error carrying an HTTP status
func NewHTTPError(errType ErrorType, status int, message, provider string) *ProviderError {
	pe := NewProviderError(errType, message, provider)
	pe.StatusCode = status
	return pe
}

// NewValidationError creates a validation error
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(provider string, retryAfter int) *RateLimitError {
	return &RateLimitError{
		Provider:   provider,
		RetryAfter: retryAfter,
	}
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(provider, field, message string) *ConfigurationError {
	return &ConfigurationError{
		Provider: provider,
		Field:    field,
		Message:  message,
	}
}

// isRetryableError determines if an error type is retryable
func isRetryableError(errType ErrorType) bool {
	switch errType {
	case ErrTypeRateLimit, ErrTypeTimeout, ErrTypeNetwork:
		return true
	default:
		return false
	}
}

// IsRetryableError checks if an error is retryable
func IsRetryableError(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.IsRetryable()
	}
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// IsAuthError checks if an error was caused by rejected credentials
func IsAuthError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Type == ErrTypeAuthentication
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Type == ErrTypeConfiguration
	}
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ErrorTypeForStatus maps an HTTP status onto an error type
func ErrorTypeForStatus(status int) ErrorType {
	switch {
	case status == 401 || status == 403:
		return ErrTypeAuthentication
	case status == 402:
		return ErrTypeQuota
	case status == 429:
		return ErrTypeRateLimit
	case status == 408 || status == 504:
		return ErrTypeTimeout
	case status == 400 || status == 413 || status == 415 || status == 422:
		return ErrTypeValidation
	default:
		return ErrTypeProvider
	}
}
