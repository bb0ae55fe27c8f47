package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client is the real HTTP adapter for OpenAI-compatible backends
// (OpenAI, Groq, LM Studio, vLLM, and anything else speaking the
// /chat/completions protocol). One Client shares a single HTTP client
// across all calls, including concurrent fan-outs.
type Client struct {
	http *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout covering connect and
// response (default: 60s).
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely. Intended
// for tests.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// NewClient creates a Client with the given options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// wire types for the /chat/completions protocol.

type chatCompletionBody struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

// Send performs a non-streaming completion call. The HTTP exchange is
// retried with backoff; a non-2xx status surfaces as ProviderError
// (retried only for 5xx/429).
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	body, err := c.do(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var parsed chatCompletionResponse
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("backend returned no choices")
	}
	return &Response{
		Content: parsed.Choices[0].Message.Content,
		Usage:   parsed.Usage,
	}, nil
}

// SendStream establishes a streaming call and hands the response body to
// the streaming decoder. Only connection establishment is retried; once
// fragments flow the stream is forward-only and not restartable.
func (c *Client) SendStream(ctx context.Context, req *Request) (*Stream, error) {
	body, err := c.do(ctx, req, true)
	if err != nil {
		return nil, err
	}
	return newStream(body), nil
}

// do resolves credentials, issues the POST through the retry executor,
// and returns the response body on a 2xx status.
func (c *Client) do(ctx context.Context, req *Request, stream bool) (io.ReadCloser, error) {
	creds, err := ResolveCredentials(req.BaseURL)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(chatCompletionBody{
		Model:    req.Model,
		Messages: req.Messages,
		Stream:   stream,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	url := creds.BaseURL + "/chat/completions"

	body, err := retry(ctx, func() (io.ReadCloser, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if creds.APIKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)
		}

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			text, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(text)}
		}
		return resp.Body, nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// ListModels fetches the model identifiers the backend advertises via
// GET {base}/models. Used for listing and as a cheap credential probe.
func (c *Client) ListModels(ctx context.Context, baseURL string) ([]string, error) {
	creds, err := ResolveCredentials(baseURL)
	if err != nil {
		return nil, err
	}
	url := creds.BaseURL + "/models"

	body, err := retry(ctx, func() (io.ReadCloser, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if creds.APIKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+creds.APIKey)
		}
		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			text, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(text)}
		}
		return resp.Body, nil
	})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var parsed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding model list: %w", err)
	}
	names := make([]string, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		names = append(names, m.ID)
	}
	return names, nil
}
