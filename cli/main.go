// Package main is the entry point for the swa CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/swa-hq/swa/config"
	"github.com/swa-hq/swa/gateway"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// globals are the flags shared by every subcommand.
type globals struct {
	profile string
	model   string
	json    bool
	verbose bool
	timeout time.Duration
}

// run executes the CLI and returns the exit code.
// 0 = success, 1 = command failed, 2 = usage error.
func run(args []string) int {
	fs := flag.NewFlagSet("swa", flag.ContinueOnError)

	var (
		g           globals
		versionFlag bool
	)

	fs.StringVar(&g.profile, "profile", "", "config profile to use")
	fs.StringVar(&g.model, "model", "", "model name override")
	fs.BoolVar(&g.json, "json", false, "machine-readable JSON output")
	fs.BoolVar(&g.verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&g.verbose, "v", false, "enable verbose output (shorthand)")
	fs.DurationVar(&g.timeout, "timeout", 60*time.Second, "per-request timeout")
	fs.BoolVar(&versionFlag, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: swa <command> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  init           Set up a provider profile\n")
		fmt.Fprintf(os.Stderr, "  ask <prompt>   Ask a one-shot question\n")
		fmt.Fprintf(os.Stderr, "  chat           Chat interactively in a session\n")
		fmt.Fprintf(os.Stderr, "  summarize <f>  Summarize a text file\n")
		fmt.Fprintf(os.Stderr, "  session        Manage conversation sessions\n")
		fmt.Fprintf(os.Stderr, "  models         List available models\n")
		fmt.Fprintf(os.Stderr, "  version        Print version and exit\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if versionFlag {
		fmt.Printf("swa %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		fs.Usage()
		return 2
	}

	// API keys commonly live in a local .env during development.
	_ = godotenv.Load()

	command := remaining[0]
	rest := remaining[1:]
	switch command {
	case "init":
		return runInit(&g, rest)
	case "ask":
		return runAsk(&g, rest)
	case "chat":
		return runChat(&g, rest)
	case "summarize":
		return runSummarize(&g, rest)
	case "session":
		return runSession(&g, rest)
	case "models":
		return runModels(&g, rest)
	case "version":
		fmt.Printf("swa %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		fs.Usage()
		return 2
	}
}

// exportProfileKey makes a profile's stored API key visible to
// credential resolution. An explicit environment setting wins.
func exportProfileKey(eff config.Effective) {
	if eff.APIKey == "" {
		return
	}
	envVar := gateway.EnvOpenAIKey
	switch strings.ToLower(eff.Provider) {
	case "groq":
		envVar = gateway.EnvGroqKey
	case "lmstudio":
		envVar = gateway.EnvLMStudioKey
	}
	if os.Getenv(envVar) == "" {
		os.Setenv(envVar, eff.APIKey)
	}
}

// adapterFor resolves the adapter and base URL for a provider. Groq and
// LM Studio speak the OpenAI wire protocol, so they route through the
// real adapter with their own endpoints.
func adapterFor(reg *gateway.Registry, provider string) (gateway.Adapter, string, error) {
	p := strings.ToLower(provider)
	switch p {
	case "openai", "groq", "lmstudio":
		adapter, err := reg.Get("openai")
		if err != nil {
			return nil, "", err
		}
		return adapter, gateway.ResolveBaseURL(p), nil
	default:
		adapter, err := reg.Get(p)
		if err != nil {
			return nil, "", err
		}
		return adapter, "", nil
	}
}
