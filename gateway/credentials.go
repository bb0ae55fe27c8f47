package gateway

import (
	"os"
	"strings"
)

// DefaultBaseURL is the endpoint used when a request carries no override.
const DefaultBaseURL = "https://api.openai.com/v1"

// Environment variables consulted per endpoint class.
const (
	EnvOpenAIKey   = "OPENAI_API_KEY"
	EnvGroqKey     = "GROQ_API_KEY"
	EnvLMStudioKey = "LMSTUDIO_API_KEY"
)

// Credentials is the result of resolving an endpoint: the effective base
// URL, the bearer key (possibly empty), and whether the key was
// mandatory. Derived per call, never persisted or cached.
type Credentials struct {
	BaseURL  string
	APIKey   string
	Required bool
}

// ResolveCredentials determines the effective base URL and bearer key for
// a call. Rules, in order: a groq host requires GROQ_API_KEY; a loopback
// host treats LMSTUDIO_API_KEY as optional (local inference servers
// usually run unauthenticated); any other host requires OPENAI_API_KEY.
//
// The environment is read on every call so tests and long-lived callers
// see changes immediately.
func ResolveCredentials(baseURL string) (*Credentials, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	var envVar string
	required := true
	switch {
	case strings.Contains(baseURL, "api.groq.com"):
		envVar = EnvGroqKey
	case isLoopback(baseURL):
		envVar = EnvLMStudioKey
		required = false
	default:
		envVar = EnvOpenAIKey
	}

	key := os.Getenv(envVar)
	if required && key == "" {
		return nil, &MissingCredentialError{EnvVar: envVar, BaseURL: baseURL}
	}

	return &Credentials{BaseURL: baseURL, APIKey: key, Required: required}, nil
}

// isLoopback reports whether the URL points at a local inference server.
func isLoopback(baseURL string) bool {
	return strings.Contains(baseURL, "127.0.0.1") || strings.Contains(baseURL, "localhost")
}

// IsLocalEndpoint reports whether the provider/baseURL pair resolves to
// a loopback endpoint, where an API key is optional.
func IsLocalEndpoint(provider, baseURL string) bool {
	if baseURL == "" {
		baseURL = ResolveBaseURL(provider)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return isLoopback(baseURL)
}

// ResolveBaseURL maps a provider name to its conventional base URL.
// Returns "" for providers served by the default endpoint.
func ResolveBaseURL(provider string) string {
	switch strings.ToLower(provider) {
	case "groq":
		return "https://api.groq.com/openai/v1"
	case "lmstudio":
		if base := os.Getenv("LMSTUDIO_API_BASE"); base != "" {
			return base
		}
		return "http://127.0.0.1:1234/v1"
	default:
		return ""
	}
}
