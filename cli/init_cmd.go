package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/swa-hq/swa/config"
	"github.com/swa-hq/swa/gateway"
	"github.com/swa-hq/swa/render"
)

// runInit sets up a provider profile, prompting interactively when run
// from a terminal and validating credentials against the backend.
func runInit(g *globals, args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	var (
		providerFlag string
		modelFlag    string
		apiKeyFlag   string
		baseURLFlag  string
		profileFlag  string
		noValidate   bool
	)
	fs.StringVar(&providerFlag, "provider", "", "provider name (openai, groq, lmstudio, ...)")
	fs.StringVar(&modelFlag, "model", "", "default model for the profile")
	fs.StringVar(&apiKeyFlag, "api-key", "", "API key to store in the profile")
	fs.StringVar(&baseURLFlag, "base-url", "", "custom OpenAI-compatible API base URL")
	fs.StringVar(&profileFlag, "name", "default", "profile name to create or update")
	fs.BoolVar(&noValidate, "no-validate", false, "skip the credential validation probe")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	reader := bufio.NewReader(os.Stdin)

	provider := providerFlag
	if provider == "" && interactive {
		provider = promptLine(reader, "Provider", config.DefaultProvider)
	}
	if provider == "" {
		provider = config.DefaultProvider
	}

	model := modelFlag
	if model == "" && interactive {
		model = promptLine(reader, "Model", config.DefaultModel)
	}
	if model == "" {
		model = config.DefaultModel
	}

	apiKey := apiKeyFlag
	if apiKey == "" && interactive && !gateway.IsLocalEndpoint(provider, baseURLFlag) {
		fmt.Printf("API key (empty to use the environment): ")
		if raw, err := term.ReadPassword(int(os.Stdin.Fd())); err == nil {
			apiKey = strings.TrimSpace(string(raw))
		}
		fmt.Println()
	}

	if !noValidate {
		if err := gateway.ValidateCredentials(context.Background(), provider, apiKey, baseURLFlag, g.timeout); err != nil {
			return fail(g, err)
		}
	}

	cfgPath, err := config.DefaultPath()
	if err != nil {
		return fail(g, err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fail(g, err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]config.Profile{}
	}
	cfg.Profiles[profileFlag] = config.Profile{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}
	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = profileFlag
	}
	if err := config.Write(cfgPath, cfg); err != nil {
		return fail(g, err)
	}

	render.OK(os.Stdout, fmt.Sprintf("profile %q written to %s", profileFlag, cfgPath))
	return 0
}

func promptLine(reader *bufio.Reader, label, fallback string) string {
	fmt.Printf("%s [%s]: ", label, fallback)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fallback
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}
	return line
}
