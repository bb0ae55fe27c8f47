package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/swa-hq/swa/config"
	"github.com/swa-hq/swa/gateway"
	"github.com/swa-hq/swa/models"
	"github.com/swa-hq/swa/render"
)

// runModels lists the models a provider advertises.
func runModels(g *globals, args []string) int {
	if len(args) == 0 || args[0] != "list" {
		fmt.Fprintln(os.Stderr, "Usage: swa models list [flags]")
		return 2
	}

	fs := flag.NewFlagSet("models list", flag.ContinueOnError)
	var (
		providerFlag string
		baseURLFlag  string
		noCache      bool
	)
	fs.StringVar(&providerFlag, "provider", "", "provider name override")
	fs.StringVar(&baseURLFlag, "base-url", "", "custom OpenAI-compatible API base URL")
	fs.BoolVar(&noCache, "no-cache", false, "skip the on-disk model cache")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
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
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fail(g, err)
	}

	baseURL := baseURLFlag
	if baseURL == "" {
		baseURL = gateway.ResolveBaseURL(eff.Provider)
	}

	cachePath := ""
	if !noCache {
		if cachePath, err = models.DefaultCachePath(); err != nil {
			return fail(g, err)
		}
	}

	client := gateway.NewClient(gateway.WithTimeout(g.timeout))
	lister := models.NewLister(client, cfg, cachePath)

	infos, err := lister.List(context.Background(), eff.Provider, baseURL)
	if err != nil {
		return fail(g, err)
	}

	if g.json {
		render.JSON(os.Stdout, infos)
		return 0
	}
	render.ModelTable(os.Stdout, infos)
	return 0
}
