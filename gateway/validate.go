package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ValidateCredentials checks that the given key (or the environment
// fallback for the provider) is accepted by the endpoint, using a cheap
// GET {base}/models probe. Used by `swa init` before persisting a
// profile.
func ValidateCredentials(ctx context.Context, provider, apiKey, baseURL string, timeout time.Duration) error {
	if baseURL == "" {
		if baseURL = ResolveBaseURL(provider); baseURL == "" {
			baseURL = DefaultBaseURL
		}
	}

	key := apiKey
	if key == "" {
		creds, err := ResolveCredentials(baseURL)
		if err != nil {
			return err
		}
		key = creds.APIKey
	}
	if !isLoopback(baseURL) && strings.TrimSpace(key) == "" {
		return &MissingCredentialError{EnvVar: EnvOpenAIKey, BaseURL: baseURL}
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/models", nil)
	if err != nil {
		return err
	}
	if strings.TrimSpace(key) != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("credential validation: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("credential validation failed: %w",
			&ProviderError{StatusCode: resp.StatusCode, Body: string(text)})
	}
	return nil
}
