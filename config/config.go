// Package config loads and persists swa profile configuration from a
// YAML file and resolves the effective provider and model for a command
// invocation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from config.yaml.
type Config struct {
	// DefaultProfile names the profile used when none is given on the
	// command line.
	DefaultProfile string `yaml:"default_profile"`

	Profiles map[string]Profile `yaml:"profiles"`

	// ModelOverrides adjusts reported model capabilities. Keys are
	// either "provider:model" or a bare model name matching any
	// provider.
	ModelOverrides map[string]ModelOverride `yaml:"model_overrides"`
}

// Profile is one named provider/model/key combination.
type Profile struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// ModelOverride adjusts capability fields for a model. Pointer fields
// distinguish "unset" from an explicit false.
type ModelOverride struct {
	Streaming     *bool    `yaml:"streaming"`
	ContextWindow int      `yaml:"context_window"`
	SupportsJSON  *bool    `yaml:"supports_json"`
	SupportsTools *bool    `yaml:"supports_tools"`
	Modalities    []string `yaml:"modalities"`
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return filepath.Join(base, "swa", "config.yaml"), nil
}

// Load reads the config at path. A missing file returns (nil, nil);
// first-run commands treat that as an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return &cfg, nil
}

// Write persists cfg to path, creating parent directories as needed.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// FindModelOverride looks up an override by "provider:model", falling
// back to the bare model name.
func (c *Config) FindModelOverride(provider, model string) *ModelOverride {
	if c == nil {
		return nil
	}
	key := strings.ToLower(provider) + ":" + model
	if ovr, ok := c.ModelOverrides[key]; ok {
		return &ovr
	}
	if ovr, ok := c.ModelOverrides[model]; ok {
		return &ovr
	}
	return nil
}

// Effective is the provider/model pair a command actually uses. APIKey
// carries the profile's stored key, if any; callers export it to the
// environment so credential resolution picks it up.
type Effective struct {
	Provider string
	Model    string
	APIKey   string
}

// Defaults applied when neither config nor flags decide.
const (
	DefaultProvider = "openai"
	DefaultModel    = "gpt-4o-mini"
)

// ResolveEffective merges the config profile with command-line
// overrides. Precedence, lowest to highest: built-in defaults, the
// selected profile (profileFlag, else the config's default_profile,
// else "default"), then explicit provider/model flags.
func ResolveEffective(path, profileFlag, providerFlag, modelFlag string) (Effective, error) {
	cfg, err := Load(path)
	if err != nil {
		return Effective{}, err
	}

	eff := Effective{Provider: DefaultProvider, Model: DefaultModel}

	if cfg != nil {
		name := profileFlag
		if name == "" {
			name = cfg.DefaultProfile
		}
		if name == "" {
			name = "default"
		}
		if p, ok := cfg.Profiles[name]; ok {
			if p.Provider != "" {
				eff.Provider = p.Provider
			}
			if p.Model != "" {
				eff.Model = p.Model
			}
			eff.APIKey = p.APIKey
		}
	}

	if providerFlag != "" {
		eff.Provider = providerFlag
	}
	if modelFlag != "" {
		eff.Model = modelFlag
	}
	return eff, nil
}
