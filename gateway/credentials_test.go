package gateway

import (
	"errors"
	"testing"
)

func TestResolveCredentials_LoopbackOptional(t *testing.T) {
	t.Setenv(EnvLMStudioKey, "")

	creds, err := ResolveCredentials("http://127.0.0.1:1234/v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Required {
		t.Fatal("loopback endpoints must not require a credential")
	}
	if creds.APIKey != "" {
		t.Fatalf("expected empty key, got %q", creds.APIKey)
	}
}

func TestResolveCredentials_LocalhostOptional(t *testing.T) {
	t.Setenv(EnvLMStudioKey, "local-key")

	creds, err := ResolveCredentials("http://localhost:8080/v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Required {
		t.Fatal("localhost endpoints must not require a credential")
	}
	if creds.APIKey != "local-key" {
		t.Fatalf("expected optional key to be picked up, got %q", creds.APIKey)
	}
}

func TestResolveCredentials_CloudRequired(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "")

	_, err := ResolveCredentials("")
	var mc *MissingCredentialError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingCredentialError, got %v", err)
	}
	if mc.EnvVar != EnvOpenAIKey {
		t.Fatalf("expected %s, got %s", EnvOpenAIKey, mc.EnvVar)
	}
	if mc.BaseURL != DefaultBaseURL {
		t.Fatalf("expected default base URL in error, got %s", mc.BaseURL)
	}
}

func TestResolveCredentials_GroqEnvVar(t *testing.T) {
	t.Setenv(EnvGroqKey, "gsk-test")

	creds, err := ResolveCredentials("https://api.groq.com/openai/v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !creds.Required {
		t.Fatal("groq endpoints require a credential")
	}
	if creds.APIKey != "gsk-test" {
		t.Fatalf("expected groq key, got %q", creds.APIKey)
	}
}

func TestResolveCredentials_NoCachingAcrossCalls(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "")
	if _, err := ResolveCredentials(""); err == nil {
		t.Fatal("expected missing credential")
	}

	t.Setenv(EnvOpenAIKey, "sk-now-set")
	creds, err := ResolveCredentials("")
	if err != nil {
		t.Fatalf("environment change not observed: %v", err)
	}
	if creds.APIKey != "sk-now-set" {
		t.Fatalf("expected fresh key, got %q", creds.APIKey)
	}
}

func TestResolveBaseURL(t *testing.T) {
	t.Setenv("LMSTUDIO_API_BASE", "")

	if got := ResolveBaseURL("groq"); got != "https://api.groq.com/openai/v1" {
		t.Fatalf("unexpected groq base: %s", got)
	}
	if got := ResolveBaseURL("lmstudio"); got != "http://127.0.0.1:1234/v1" {
		t.Fatalf("unexpected lmstudio base: %s", got)
	}
	if got := ResolveBaseURL("openai"); got != "" {
		t.Fatalf("openai should use the default base, got %s", got)
	}

	t.Setenv("LMSTUDIO_API_BASE", "http://127.0.0.1:9999/v1")
	if got := ResolveBaseURL("lmstudio"); got != "http://127.0.0.1:9999/v1" {
		t.Fatalf("LMSTUDIO_API_BASE not honored, got %s", got)
	}
}
