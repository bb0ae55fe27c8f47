package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CacheTTL is the freshness window for the on-disk model cache; entries
// older than this are considered stale and ignored.
const CacheTTL = 24 * time.Hour

// Cache is the JSON artifact written next to the models listing: a fetch
// timestamp plus the descriptors fetched at that time. Collaborating
// tools read it directly, so the shape is part of the external surface.
type Cache struct {
	Timestamp int64  `json:"timestamp_ms"`
	Provider  string `json:"provider"`
	Models    []Info `json:"models"`
}

// Fresh reports whether the cache is inside the freshness window at
// time now.
func (c *Cache) Fresh(now time.Time) bool {
	age := now.UnixMilli() - c.Timestamp
	return age >= 0 && age <= CacheTTL.Milliseconds()
}

// DefaultCachePath returns the per-user cache file location.
func DefaultCachePath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving cache directory: %w", err)
	}
	return filepath.Join(base, "swa", "models.json"), nil
}

// ReadCache loads the cache at path. A missing file returns (nil, nil).
func ReadCache(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading model cache: %w", err)
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing model cache: %w", err)
	}
	return &c, nil
}

// WriteCache persists the cache to path, creating parent directories.
func WriteCache(path string, c *Cache) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model cache: %w", err)
	}
	return nil
}
