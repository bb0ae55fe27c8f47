package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// MissingCredentialError reports that a required API key environment
// variable is unset for the resolved endpoint.
type MissingCredentialError struct {
	EnvVar  string
	BaseURL string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing %s for endpoint %s (set it in the environment or .env)", e.EnvVar, e.BaseURL)
}

// UnsupportedProviderError reports a provider name the registry does not
// know at all.
type UnsupportedProviderError struct {
	Name string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider: %s", e.Name)
}

// NotImplementedError is returned by stub adapters registered for known
// but unconfigured backends. It is deterministic: a stub never partially
// succeeds.
type NotImplementedError struct {
	Provider string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("provider %q not implemented", e.Provider)
}

// ProviderError is a non-2xx response from a backend. The body is kept
// verbatim for diagnostics.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Body)
}

// DecodeError reports a malformed streaming payload.
type DecodeError struct {
	Payload string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed stream payload: %s", e.Payload)
}

// RetriesExhaustedError wraps the last underlying error after the retry
// bound is spent.
type RetriesExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Err }

// retryable classifies an error at its point of origin. Network failures,
// timeouts, and 5xx/429 responses are worth retrying; everything else
// (4xx, missing credentials, malformed payloads) fails fast.
func retryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode >= 500 || pe.StatusCode == 429
	}
	var mc *MissingCredentialError
	if errors.As(err, &mc) {
		return false
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	// Deadline exceeded without a net.Error wrapper still counts as a
	// timeout worth retrying.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return false
}

// IsTimeout reports whether err is a network timeout. Callers use it to
// suggest raising the configured request timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
