package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/swa-hq/swa/render"
	"github.com/swa-hq/swa/session"
)

// runSession manages conversation sessions.
func runSession(g *globals, args []string) int {
	if len(args) == 0 {
		sessionUsage()
		return 2
	}

	store, err := session.DefaultStore()
	if err != nil {
		return fail(g, err)
	}

	switch args[0] {
	case "new":
		return sessionNew(g, store, args[1:])
	case "switch":
		return sessionSwitch(g, store, args[1:])
	case "list":
		return sessionList(g, store)
	case "search":
		return sessionSearch(g, store, args[1:])
	case "show":
		return sessionShow(g, store, args[1:])
	case "follow":
		return sessionFollow(g, store, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown session command: %s\n", args[0])
		sessionUsage()
		return 2
	}
}

func sessionUsage() {
	fmt.Fprintln(os.Stderr, "Usage: swa session <new|switch|list|search|show|follow> [args]")
}

func sessionNew(g *globals, store *session.Store, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: swa session new <name>")
		return 2
	}
	name := args[0]
	if _, err := store.CreateIfMissing(name); err != nil {
		return fail(g, err)
	}
	if err := store.SetActiveSession(name); err != nil {
		return fail(g, err)
	}
	render.OK(os.Stdout, fmt.Sprintf("session %q created and activated", name))
	return 0
}

func sessionSwitch(g *globals, store *session.Store, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: swa session switch <name>")
		return 2
	}
	name := args[0]
	if _, err := os.Stat(store.Path(name)); os.IsNotExist(err) {
		return fail(g, fmt.Errorf("session not found: %s", name))
	}
	if err := store.SetActiveSession(name); err != nil {
		return fail(g, err)
	}
	render.OK(os.Stdout, fmt.Sprintf("switched to session %q", name))
	return 0
}

func sessionList(g *globals, store *session.Store) int {
	metas, err := store.ListMetadata()
	if err != nil {
		return fail(g, err)
	}
	active, err := store.ActiveSession()
	if err != nil {
		return fail(g, err)
	}

	if g.json {
		type row struct {
			Name     string `json:"name"`
			Records  int    `json:"records"`
			Size     int64  `json:"size_bytes"`
			LastUsed int64  `json:"last_used_ms,omitempty"`
			Active   bool   `json:"active"`
		}
		rows := make([]row, len(metas))
		for i, m := range metas {
			rows[i] = row{m.Name, m.Records, m.Size, m.LastUsed, m.Name == active}
		}
		render.JSON(os.Stdout, rows)
		return 0
	}
	render.SessionTable(os.Stdout, metas, active)
	return 0
}

func sessionSearch(g *globals, store *session.Store, args []string) int {
	fs := flag.NewFlagSet("session search", flag.ContinueOnError)
	var contains string
	fs.StringVar(&contains, "contains", "", "substring to search for")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 || contains == "" {
		fmt.Fprintln(os.Stderr, "Usage: swa session search <name> -contains <text>")
		return 2
	}

	hits, err := store.Search(fs.Arg(0), contains)
	if err != nil {
		return fail(g, err)
	}
	if g.json {
		render.JSON(os.Stdout, hits)
		return 0
	}
	render.Transcript(os.Stdout, hits)
	return 0
}

func sessionShow(g *globals, store *session.Store, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: swa session show <name>")
		return 2
	}
	history, err := store.LoadHistory(args[0])
	if err != nil {
		return fail(g, err)
	}
	if g.json {
		render.JSON(os.Stdout, history)
		return 0
	}
	render.Transcript(os.Stdout, history)
	return 0
}

// sessionFollow tails a session file, printing turns appended by other
// processes until interrupted.
func sessionFollow(g *globals, store *session.Store, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: swa session follow <name>")
		return 2
	}
	name := args[0]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	ch, err := store.Follow(ctx, name)
	if err != nil {
		return fail(g, err)
	}

	fmt.Fprintf(os.Stderr, "following session %q (Ctrl+C to stop)\n", name)
	for rec := range ch {
		if g.json {
			render.JSON(os.Stdout, rec)
		} else {
			render.Transcript(os.Stdout, []session.Record{rec})
		}
	}
	return 0
}
