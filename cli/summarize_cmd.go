package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/swa-hq/swa/config"
	"github.com/swa-hq/swa/gateway"
	"github.com/swa-hq/swa/render"
	"github.com/swa-hq/swa/summarize"
)

// runSummarize condenses a text file through the provider, fanning out
// chunk summaries concurrently.
func runSummarize(g *globals, args []string) int {
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	var (
		providerFlag string
		maxTokens    int
		concurrency  int
		rpm          int
	)
	fs.StringVar(&providerFlag, "provider", "", "provider name override")
	fs.IntVar(&maxTokens, "max-tokens", 600, "approximate token budget per chunk")
	fs.IntVar(&concurrency, "concurrency", 4, "max in-flight chunk requests")
	fs.IntVar(&rpm, "rpm", 0, "request rate limit per minute (0 = unlimited)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: swa summarize <file> [flags]")
		return 2
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fail(g, fmt.Errorf("file not found: %s", path))
		}
		return fail(g, err)
	}

	cfgPath, err := config.DefaultPath()
	if err != nil {
		return fail(g, err)
	}
	eff, err := config.ResolveEffective(cfgPath, g.profile, providerFlag, g.model)
	if err != nil {
		return fail(g, err)
	}
	exportProfileKey(eff)

	reg := gateway.NewRegistryWithTimeout(g.timeout)
	adapter, baseURL, err := adapterFor(reg, eff.Provider)
	if err != nil {
		return fail(g, err)
	}

	s := summarize.New(adapter, eff.Model,
		summarize.WithBaseURL(baseURL),
		summarize.WithConcurrency(concurrency),
		summarize.WithRequestsPerMinute(rpm),
	)
	if g.verbose {
		fmt.Fprintf(os.Stderr, "[summarize] %d chunks of ~%d tokens\n",
			len(summarize.Chunk(string(data), maxTokens)), maxTokens)
	}

	res, err := s.Summarize(context.Background(), string(data), maxTokens)
	if err != nil {
		return fail(g, err)
	}

	if g.json {
		render.JSON(os.Stdout, struct {
			Model   string `json:"model"`
			Chunks  int    `json:"chunks"`
			Summary string `json:"summary"`
		}{eff.Model, res.Chunks, res.Summary})
	} else {
		fmt.Println(res.Summary)
	}
	return 0
}
