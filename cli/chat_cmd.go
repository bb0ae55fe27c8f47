package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/swa-hq/swa/cli/tui"
	"github.com/swa-hq/swa/config"
	"github.com/swa-hq/swa/gateway"
	"github.com/swa-hq/swa/session"
)

// runChat starts a multi-turn conversation in a session. With a
// terminal it opens the TUI; otherwise (or with -plain) it falls back
// to a line-based loop.
func runChat(g *globals, args []string) int {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	var (
		sessionFlag string
		plainFlag   bool
	)
	fs.StringVar(&sessionFlag, "session", "", "session name (default: the active session)")
	fs.BoolVar(&plainFlag, "plain", false, "line-based chat without the TUI")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	store, err := session.DefaultStore()
	if err != nil {
		return fail(g, err)
	}

	sessionName := sessionFlag
	if sessionName == "" {
		if sessionName, err = store.ActiveSession(); err != nil {
			return fail(g, err)
		}
		if sessionName == "" {
			fmt.Fprintln(os.Stderr, "no session specified and no active session; use -session NAME or `swa session new NAME`")
			return 2
		}
	}
	if _, err := store.CreateIfMissing(sessionName); err != nil {
		return fail(g, err)
	}
	if err := store.SetActiveSession(sessionName); err != nil {
		return fail(g, err)
	}

	cfgPath, err := config.DefaultPath()
	if err != nil {
		return fail(g, err)
	}
	eff, err := config.ResolveEffective(cfgPath, g.profile, "", g.model)
	if err != nil {
		return fail(g, err)
	}
	exportProfileKey(eff)

	reg := gateway.NewRegistryWithTimeout(g.timeout)
	adapter, baseURL, err := adapterFor(reg, eff.Provider)
	if err != nil {
		return fail(g, err)
	}

	if !plainFlag && term.IsTerminal(int(os.Stdout.Fd())) {
		chat := tui.NewChat(store, sessionName, adapter, eff.Model, baseURL, contextBudget)
		if _, err := tea.NewProgram(chat, tea.WithAltScreen()).Run(); err != nil {
			return fail(g, err)
		}
		return 0
	}
	return plainChatLoop(g, store, sessionName, adapter, eff.Model, baseURL)
}

// plainChatLoop is the no-TUI chat: read a line, send, print, repeat.
func plainChatLoop(g *globals, store *session.Store, name string, adapter gateway.Adapter, model, baseURL string) int {
	fmt.Printf("chatting in session: %s (/exit to quit)\n", name)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Fprintln(os.Stderr, "exiting chat; session saved")
			return 0
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		switch prompt {
		case "/exit", "exit", "/quit", "quit":
			fmt.Fprintln(os.Stderr, "bye")
			return 0
		}

		history, err := store.LoadHistory(name)
		if err != nil {
			return fail(g, err)
		}
		req := &gateway.Request{
			Model:    model,
			Messages: session.BuildMessages(history, prompt, contextBudget),
			BaseURL:  baseURL,
		}
		resp, err := adapter.Send(context.Background(), req)
		if err != nil {
			return fail(g, err)
		}
		if err := recordExchange(store, name, prompt, resp.Content, model, resp.Usage); err != nil {
			return fail(g, err)
		}
		fmt.Println(resp.Content)
	}
}
