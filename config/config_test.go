package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config must not error: %v", err)
	}
	if cfg != nil {
		t.Fatal("expected nil config for a missing file")
	}
}

func TestLoad_ParsesProfiles(t *testing.T) {
	path := writeConfig(t, `
default_profile: work
profiles:
  work:
    provider: groq
    model: llama-3.1-70b
  home:
    provider: lmstudio
    model: local-model
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultProfile != "work" {
		t.Fatalf("expected default_profile work, got %q", cfg.DefaultProfile)
	}
	if cfg.Profiles["work"].Provider != "groq" {
		t.Fatalf("unexpected work profile: %+v", cfg.Profiles["work"])
	}
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swa", "config.yaml")
	in := &Config{
		DefaultProfile: "default",
		Profiles: map[string]Profile{
			"default": {Provider: "openai", Model: "gpt-4o-mini"},
		},
	}
	if err := Write(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.DefaultProfile != in.DefaultProfile {
		t.Fatalf("round-trip mismatch: %+v", out)
	}
	if out.Profiles["default"].Model != "gpt-4o-mini" {
		t.Fatalf("round-trip mismatch: %+v", out.Profiles)
	}
}

func TestResolveEffective_Precedence(t *testing.T) {
	path := writeConfig(t, `
default_profile: work
profiles:
  work:
    provider: groq
    model: llama-3.1-70b
  alt:
    provider: lmstudio
`)

	// Profile from config default.
	eff, err := ResolveEffective(path, "", "", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if eff.Provider != "groq" || eff.Model != "llama-3.1-70b" {
		t.Fatalf("unexpected effective: %+v", eff)
	}

	// Explicit profile; missing model falls back to the built-in.
	eff, err = ResolveEffective(path, "alt", "", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if eff.Provider != "lmstudio" || eff.Model != DefaultModel {
		t.Fatalf("unexpected effective: %+v", eff)
	}

	// Flags beat everything.
	eff, err = ResolveEffective(path, "work", "openai", "gpt-4o")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if eff.Provider != "openai" || eff.Model != "gpt-4o" {
		t.Fatalf("flags must win: %+v", eff)
	}
}

func TestResolveEffective_NoConfig(t *testing.T) {
	eff, err := ResolveEffective(filepath.Join(t.TempDir(), "none.yaml"), "", "", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if eff.Provider != DefaultProvider || eff.Model != DefaultModel {
		t.Fatalf("expected built-in defaults, got %+v", eff)
	}
}

func TestFindModelOverride(t *testing.T) {
	yes := true
	cfg := &Config{
		ModelOverrides: map[string]ModelOverride{
			"groq:llama-3.1-70b": {ContextWindow: 131072},
			"gpt-4o":             {SupportsTools: &yes},
		},
	}

	ovr := cfg.FindModelOverride("Groq", "llama-3.1-70b")
	if ovr == nil || ovr.ContextWindow != 131072 {
		t.Fatalf("provider-qualified lookup failed: %+v", ovr)
	}

	ovr = cfg.FindModelOverride("openai", "gpt-4o")
	if ovr == nil || ovr.SupportsTools == nil || !*ovr.SupportsTools {
		t.Fatalf("bare-model fallback failed: %+v", ovr)
	}

	if cfg.FindModelOverride("openai", "unknown") != nil {
		t.Fatal("expected nil for unknown model")
	}

	var nilCfg *Config
	if nilCfg.FindModelOverride("openai", "gpt-4o") != nil {
		t.Fatal("nil config must return nil")
	}
}
