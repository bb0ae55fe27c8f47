package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/swa-hq/swa/config"
	"github.com/swa-hq/swa/gateway"
	"github.com/swa-hq/swa/render"
	"github.com/swa-hq/swa/session"
)

// contextBudget is the approximate token budget for messages sent in
// one request.
const contextBudget = 4000

// runAsk sends a one-shot prompt, optionally inside a session.
func runAsk(g *globals, args []string) int {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	var (
		providerFlag string
		sessionFlag  string
		streamFlag   bool
	)
	fs.StringVar(&providerFlag, "provider", "", "provider name override")
	fs.StringVar(&sessionFlag, "session", "", "session to record the exchange in")
	fs.BoolVar(&streamFlag, "stream", true, "stream the reply as it arrives")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		fmt.Fprintln(os.Stderr, `empty prompt; provide text, e.g. swa ask "What is a goroutine?"`)
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

	store, err := session.DefaultStore()
	if err != nil {
		return fail(g, err)
	}
	sessionName := sessionFlag
	if sessionName == "" {
		if sessionName, err = store.ActiveSession(); err != nil {
			return fail(g, err)
		}
	}

	var messages []gateway.Message
	if sessionName != "" {
		history, err := store.LoadHistory(sessionName)
		if err != nil {
			return fail(g, err)
		}
		messages = session.BuildMessages(history, prompt, contextBudget)
	} else {
		messages = []gateway.Message{{Role: gateway.RoleUser, Content: prompt}}
	}

	reg := gateway.NewRegistryWithTimeout(g.timeout)
	adapter, baseURL, err := adapterFor(reg, eff.Provider)
	if err != nil {
		return fail(g, err)
	}

	// JSON mode always produces a single object, so force non-streaming.
	stream := streamFlag && !g.json
	req := &gateway.Request{
		Model:    eff.Model,
		Messages: messages,
		Stream:   stream,
		BaseURL:  baseURL,
	}

	ctx := context.Background()
	if stream {
		s, err := adapter.SendStream(ctx, req)
		if err != nil {
			return fail(g, err)
		}
		defer s.Close()

		var full strings.Builder
		for s.Next() {
			fmt.Print(s.Text())
			full.WriteString(s.Text())
		}
		fmt.Println()
		if err := s.Err(); err != nil {
			return fail(g, err)
		}
		if sessionName != "" {
			if err := recordExchange(store, sessionName, prompt, full.String(), eff.Model, nil); err != nil {
				return fail(g, err)
			}
		}
		return 0
	}

	resp, err := adapter.Send(ctx, req)
	if err != nil {
		return fail(g, err)
	}
	if sessionName != "" {
		if err := recordExchange(store, sessionName, prompt, resp.Content, eff.Model, resp.Usage); err != nil {
			return fail(g, err)
		}
	}

	if g.json {
		render.JSON(os.Stdout, struct {
			Model  string         `json:"model"`
			Usage  *gateway.Usage `json:"usage,omitempty"`
			Answer string         `json:"answer"`
		}{eff.Model, resp.Usage, resp.Content})
	} else {
		fmt.Println(resp.Content)
	}
	return 0
}

// recordExchange appends the user turn and the assistant reply to the
// session, in that order.
func recordExchange(store *session.Store, name, prompt, reply, model string, usage *gateway.Usage) error {
	if err := store.Append(name, session.Record{
		Timestamp: session.NowMillis(),
		Role:      string(gateway.RoleUser),
		Content:   prompt,
	}); err != nil {
		return err
	}
	return store.Append(name, session.Record{
		Timestamp: session.NowMillis(),
		Role:      string(gateway.RoleAssistant),
		Content:   reply,
		Model:     model,
		Usage:     usage,
	})
}
