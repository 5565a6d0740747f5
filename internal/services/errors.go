package services

import "fmt"

// ConfigurationError means the provider cannot be called because its
// credentials are missing. It never carries key material.
type ConfigurationError struct {
	Provider ProviderKind
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s service configuration error", e.Provider.DisplayName())
}

// UpstreamError wraps any failure of a provider call: transport errors,
// non-2xx statuses and replies with no usable text. Body holds the raw
// upstream response for server-side logging only.
type UpstreamError struct {
	Provider   ProviderKind
	StatusCode int
	Message    string
	Body       string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s upstream error (status %d): %s", e.Provider.DisplayName(), e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s upstream error: %s", e.Provider.DisplayName(), e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
