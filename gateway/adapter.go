package gateway

import (
	"context"
	"strings"
	"time"
)

// Adapter translates a normalized Request into a backend-specific call.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Send performs a non-streaming completion call.
	Send(ctx context.Context, req *Request) (*Response, error)

	// SendStream establishes a streaming call and returns the decoded
	// fragment stream. The caller must Close the stream.
	SendStream(ctx context.Context, req *Request) (*Stream, error)
}

// stubAdapter stands in for known but unconfigured backends. Every
// method fails immediately and deterministically.
type stubAdapter struct {
	name string
}

func (a *stubAdapter) Send(context.Context, *Request) (*Response, error) {
	return nil, &NotImplementedError{Provider: a.name}
}

func (a *stubAdapter) SendStream(context.Context, *Request) (*Stream, error) {
	return nil, &NotImplementedError{Provider: a.name}
}

// stubProviders are backend names the registry recognizes but has no
// real adapter for yet.
var stubProviders = []string{
	"anthropic", "gemini", "grok", "xai", "groq", "ollama", "lmstudio",
}

// Registry maps provider names to adapters. It is assembled once per
// command invocation; lookups are case-insensitive.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds the registry with the real OpenAI-compatible
// adapter plus stubs for the remaining known provider names.
func NewRegistry(opts ...ClientOption) *Registry {
	m := map[string]Adapter{
		"openai": NewClient(opts...),
	}
	for _, name := range stubProviders {
		m[name] = &stubAdapter{name: name}
	}
	return &Registry{adapters: m}
}

// NewRegistryWithTimeout builds a registry whose real adapter uses the
// given per-request timeout.
func NewRegistryWithTimeout(timeout time.Duration) *Registry {
	return NewRegistry(WithTimeout(timeout))
}

// Get returns the adapter for the named provider, or an
// UnsupportedProviderError for names the registry does not know.
func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[strings.ToLower(name)]
	if !ok {
		return nil, &UnsupportedProviderError{Name: name}
	}
	return a, nil
}

// Providers returns the known provider names in no particular order.
func (r *Registry) Providers() []string {
	out := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		out = append(out, name)
	}
	return out
}
