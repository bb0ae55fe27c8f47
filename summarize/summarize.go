package summarize

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/swa-hq/swa/gateway"
)

const defaultConcurrency = 4

// Summarizer fans out chunk summaries over one adapter (sharing its
// HTTP client) and synthesizes a final answer.
type Summarizer struct {
	adapter     gateway.Adapter
	model       string
	baseURL     string
	concurrency int
	limiter     *rate.Limiter
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithConcurrency caps in-flight chunk requests (default 4).
func WithConcurrency(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithRequestsPerMinute applies a token-bucket rate limit across the
// fan-out. Zero means unlimited.
func WithRequestsPerMinute(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(float64(n)/60.0), n)
		}
	}
}

// WithBaseURL overrides the endpoint for every request.
func WithBaseURL(url string) Option {
	return func(s *Summarizer) { s.baseURL = url }
}

// New creates a Summarizer using the given adapter and model.
func New(adapter gateway.Adapter, model string, opts ...Option) *Summarizer {
	s := &Summarizer{
		adapter:     adapter,
		model:       model,
		concurrency: defaultConcurrency,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Result carries the merged summary and how many chunks fed it.
type Result struct {
	Summary string
	Chunks  int
}

// Summarize chunks text by maxTokensPerChunk, summarizes every chunk
// concurrently, and merges the partials with one synthesis call when
// there is more than one chunk.
//
// The fan-out is a plain join barrier: results keep chunk order, and any
// chunk failure aborts the whole batch (errgroup cancels the shared
// context).
func (s *Summarizer) Summarize(ctx context.Context, text string, maxTokensPerChunk int) (*Result, error) {
	chunks := Chunk(text, maxTokensPerChunk)
	if len(chunks) == 0 {
		return &Result{}, nil
	}

	partials := make([]string, len(chunks))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			if s.limiter != nil {
				if err := s.limiter.Wait(gCtx); err != nil {
					return err
				}
			}
			prompt := fmt.Sprintf(
				"Summarize the following content (part %d/%d). Focus on key points and be concise.\n\n%s",
				i+1, len(chunks), chunk)
			resp, err := s.send(gCtx, prompt)
			if err != nil {
				return fmt.Errorf("summarizing chunk %d/%d: %w", i+1, len(chunks), err)
			}
			partials[i] = resp.Content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(chunks) == 1 {
		return &Result{Summary: partials[0], Chunks: 1}, nil
	}

	synthesis := "Synthesize a concise overall summary from these parts:\n"
	for _, p := range partials {
		synthesis += "- " + p + "\n"
	}
	resp, err := s.send(ctx, synthesis)
	if err != nil {
		return nil, fmt.Errorf("synthesizing summary: %w", err)
	}
	return &Result{Summary: resp.Content, Chunks: len(chunks)}, nil
}

func (s *Summarizer) send(ctx context.Context, prompt string) (*gateway.Response, error) {
	return s.adapter.Send(ctx, &gateway.Request{
		Model:    s.model,
		Messages: []gateway.Message{{Role: gateway.RoleUser, Content: prompt}},
		BaseURL:  s.baseURL,
	})
}
