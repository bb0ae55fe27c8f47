// Package models lists the model identifiers a backend advertises,
// enriches them with best-effort capability metadata, and maintains the
// on-disk cache used as an offline fallback.
package models

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/swa-hq/swa/config"
	"github.com/swa-hq/swa/gateway"
)

// Info describes one available model.
type Info struct {
	Name          string   `json:"name"`
	Provider      string   `json:"provider"`
	Source        string   `json:"source"` // remote|cache
	Streaming     bool     `json:"streaming"`
	ContextWindow int      `json:"context_window,omitempty"`
	SupportsJSON  bool     `json:"supports_json"`
	SupportsTools bool     `json:"supports_tools"`
	Modalities    []string `json:"modalities"`
}

// Lister fetches and caches model listings.
type Lister struct {
	client    *gateway.Client
	cfg       *config.Config
	cachePath string
	now       func() time.Time
}

// NewLister creates a Lister. cfg may be nil (no overrides applied);
// cachePath may be empty (caching disabled).
func NewLister(client *gateway.Client, cfg *config.Config, cachePath string) *Lister {
	return &Lister{client: client, cfg: cfg, cachePath: cachePath, now: time.Now}
}

// List fetches the models the provider advertises and applies capability
// inference plus config overrides. On fetch failure it falls back to the
// cache when the cache is still fresh; a stale cache is ignored and the
// fetch error is returned.
func (l *Lister) List(ctx context.Context, provider, baseURL string) ([]Info, error) {
	names, err := l.client.ListModels(ctx, baseURL)
	if err != nil {
		if cached := l.loadFreshCache(provider); cached != nil {
			return cached, nil
		}
		return nil, err
	}

	infos := make([]Info, 0, len(names))
	for _, name := range names {
		info := inferCapabilities(provider, name)
		l.applyOverride(&info)
		infos = append(infos, info)
	}

	if l.cachePath != "" {
		c := &Cache{Timestamp: l.now().UnixMilli(), Provider: provider, Models: infos}
		if err := WriteCache(l.cachePath, c); err != nil {
			// Cache writes are best-effort; the listing still stands.
			slog.Warn("writing model cache failed", "path", l.cachePath, "error", err)
		}
	}
	return infos, nil
}

func (l *Lister) loadFreshCache(provider string) []Info {
	if l.cachePath == "" {
		return nil
	}
	c, err := ReadCache(l.cachePath)
	if err != nil {
		slog.Warn("reading model cache failed", "path", l.cachePath, "error", err)
		return nil
	}
	if c == nil || !c.Fresh(l.now()) || !strings.EqualFold(c.Provider, provider) {
		return nil
	}
	out := make([]Info, len(c.Models))
	for i, m := range c.Models {
		m.Source = "cache"
		l.applyOverride(&m)
		out[i] = m
	}
	return out
}

func (l *Lister) applyOverride(info *Info) {
	ovr := l.cfg.FindModelOverride(info.Provider, info.Name)
	if ovr == nil {
		return
	}
	if ovr.Streaming != nil {
		info.Streaming = *ovr.Streaming
	}
	if ovr.ContextWindow > 0 {
		info.ContextWindow = ovr.ContextWindow
	}
	if ovr.SupportsJSON != nil {
		info.SupportsJSON = *ovr.SupportsJSON
	}
	if ovr.SupportsTools != nil {
		info.SupportsTools = *ovr.SupportsTools
	}
	if len(ovr.Modalities) > 0 {
		info.Modalities = ovr.Modalities
	}
}

// inferCapabilities guesses capability fields from the model name. Pure
// heuristics: failures to guess leave fields at conservative defaults.
func inferCapabilities(provider, name string) Info {
	info := Info{
		Name:       name,
		Provider:   provider,
		Source:     "remote",
		Streaming:  true,
		Modalities: []string{"text"},
	}
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "gpt-4o"):
		info.ContextWindow = 128000
		info.SupportsJSON = true
		info.SupportsTools = true
		info.Modalities = []string{"text", "vision"}
	case strings.Contains(lower, "gpt-4"), strings.Contains(lower, "gpt-3.5"):
		info.SupportsJSON = true
		info.SupportsTools = true
	case strings.Contains(lower, "llama"):
		info.SupportsJSON = true
	case strings.Contains(lower, "whisper"), strings.Contains(lower, "tts"):
		info.Streaming = false
		info.Modalities = []string{"audio"}
	case strings.Contains(lower, "embedding"):
		info.Streaming = false
	}
	return info
}
