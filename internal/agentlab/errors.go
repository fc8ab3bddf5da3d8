package agentlab

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfigMissing is returned when the requested env file does not exist.
var ErrConfigMissing = errors.New("env file not found")

// MissingCredentialError is returned when a provider API key is not set
// after the environment has been loaded.
type MissingCredentialError struct {
	Provider string // provider name ("gemini" or "groq")
	Key      string // config key or env var the user should set
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s token is not configured. Set it in the config file (%s) or the matching environment variable", e.Provider, e.Key)
}

// UnsupportedModelError is returned when a model name is outside the
// allow-list. It is produced before any network call.
type UnsupportedModelError struct {
	Model     string
	Available []string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("unsupported model %q. Available models: %s", e.Model, strings.Join(e.Available, ", "))
}

// ProviderError is returned when a provider API call fails. The body is
// surfaced verbatim and the call is not retried.
type ProviderError struct {
	Provider   string
	StatusCode int // 0 when the request never reached the API
	Body       string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s API error (HTTP %d): %s", e.Provider, e.StatusCode, e.Body)
}

// ParseError is returned when a structured-output response cannot be
// decoded. The raw response is carried so callers can surface it.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse structured output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
