// Package gateway dispatches normalized chat requests to interchangeable
// OpenAI-compatible text-generation backends. It owns the wire protocol:
// credential and endpoint resolution, bounded retry with backoff, the
// non-streaming call, and the incremental streaming decoder.
//
// The package never caches credentials or connections across calls beyond
// the shared HTTP client; environment state is re-read on every request.
package gateway

// Role identifies the sender of a message in the chat conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in the chat conversation sent to a backend.
// Immutable once constructed.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Usage holds token accounting as reported by the backend.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Request is a normalized chat request. It is built fresh per call and
// never mutated after dispatch.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`

	// BaseURL overrides the default API endpoint. Empty means the
	// adapter's default (https://api.openai.com/v1 for the OpenAI
	// adapter). Not serialized on the wire.
	BaseURL string `json:"-"`
}

// Response is the result of a non-streaming call. Usage is nil when the
// backend did not report counters.
type Response struct {
	Content string `json:"content"`
	Usage   *Usage `json:"usage,omitempty"`
}
