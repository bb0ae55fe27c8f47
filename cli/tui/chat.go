// Package tui provides the interactive chat interface using the Bubble
// Tea framework.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swa-hq/swa/gateway"
	"github.com/swa-hq/swa/session"
)

const (
	inputCharLimit = 4000

	// Lines reserved above and below the viewport: status bar, input
	// line, help line, and their spacing.
	chromeHeight = 5
)

// Messages delivered by the streaming goroutine.
type (
	fragmentMsg string
	doneMsg     struct{}
	errMsg      struct{ err error }
)

// Chat is the root Bubble Tea model for a session conversation.
type Chat struct {
	store       *session.Store
	sessionName string
	adapter     gateway.Adapter
	model       string
	baseURL     string
	budget      int

	input textinput.Model
	view  viewport.Model
	spin  spinner.Model

	transcript strings.Builder
	streaming  bool
	prompt     string
	reply      strings.Builder
	events     chan tea.Msg
	err        error

	width  int
	height int
}

// NewChat builds the chat model over an existing session. Prior turns
// are loaded into the transcript up front.
func NewChat(store *session.Store, sessionName string, adapter gateway.Adapter, model, baseURL string, budget int) *Chat {
	input := textinput.New()
	input.Placeholder = "ask something"
	input.Prompt = "> "
	input.CharLimit = inputCharLimit
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	c := &Chat{
		store:       store,
		sessionName: sessionName,
		adapter:     adapter,
		model:       model,
		baseURL:     baseURL,
		budget:      budget,
		input:       input,
		view:        viewport.New(80, 20),
		spin:        sp,
		width:       80,
		height:      24,
	}

	history, err := store.LoadHistory(sessionName)
	if err != nil {
		c.err = err
	}
	for _, rec := range history {
		c.writeTurn(rec.Role, rec.Content)
	}
	c.refresh()
	return c
}

// Init implements tea.Model.
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.view.Width = msg.Width
		if h := msg.Height - chromeHeight; h > 0 {
			c.view.Height = h
		}
		c.input.Width = msg.Width - 4
		c.refresh()
		return c, nil

	case tea.KeyMsg:
		return c.handleKey(msg)

	case spinner.TickMsg:
		if !c.streaming {
			return c, nil
		}
		var cmd tea.Cmd
		c.spin, cmd = c.spin.Update(msg)
		return c, cmd

	case fragmentMsg:
		c.reply.WriteString(string(msg))
		c.refresh()
		return c, waitForEvent(c.events)

	case doneMsg:
		c.finishStream()
		return c, nil

	case errMsg:
		c.streaming = false
		c.events = nil
		c.err = msg.err
		c.refresh()
		return c, nil
	}

	if !c.streaming {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	return c, nil
}

func (c *Chat) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return c, tea.Quit

	case tea.KeyEnter:
		if c.streaming {
			return c, nil
		}
		prompt := strings.TrimSpace(c.input.Value())
		if prompt == "" {
			return c, nil
		}
		return c, tea.Batch(c.startStream(prompt), c.spin.Tick)

	case tea.KeyUp:
		c.view.LineUp(1)
		return c, nil
	case tea.KeyDown:
		c.view.LineDown(1)
		return c, nil
	case tea.KeyPgUp:
		c.view.ViewUp()
		return c, nil
	case tea.KeyPgDown:
		c.view.ViewDown()
		return c, nil
	}

	if !c.streaming {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	return c, nil
}

// startStream kicks off a streaming completion for prompt. Fragments
// arrive over the events channel so Update stays non-blocking.
func (c *Chat) startStream(prompt string) tea.Cmd {
	history, err := c.store.LoadHistory(c.sessionName)
	if err != nil {
		c.err = err
		c.refresh()
		return nil
	}

	c.prompt = prompt
	c.input.Reset()
	c.reply.Reset()
	c.err = nil
	c.streaming = true
	c.writeTurn(string(gateway.RoleUser), prompt)
	c.refresh()

	req := &gateway.Request{
		Model:    c.model,
		Messages: session.BuildMessages(history, prompt, c.budget),
		Stream:   true,
		BaseURL:  c.baseURL,
	}

	ch := make(chan tea.Msg, 32)
	c.events = ch
	go func() {
		defer close(ch)
		s, err := c.adapter.SendStream(context.Background(), req)
		if err != nil {
			ch <- errMsg{err}
			return
		}
		defer s.Close()
		for s.Next() {
			ch <- fragmentMsg(s.Text())
		}
		if err := s.Err(); err != nil {
			ch <- errMsg{err}
			return
		}
		ch <- doneMsg{}
	}()
	return waitForEvent(ch)
}

// waitForEvent delivers the next streaming message. Each delivery
// re-arms itself from Update until the channel closes.
func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// finishStream folds the completed reply into the transcript and
// persists the exchange.
func (c *Chat) finishStream() {
	c.streaming = false
	c.events = nil

	reply := c.reply.String()
	c.reply.Reset()
	c.writeTurn(string(gateway.RoleAssistant), reply)
	if err := c.appendExchange(c.prompt, reply); err != nil {
		c.err = err
	}
	c.refresh()
}

// appendExchange records the user turn then the assistant reply.
func (c *Chat) appendExchange(prompt, reply string) error {
	if err := c.store.Append(c.sessionName, session.Record{
		Timestamp: session.NowMillis(),
		Role:      string(gateway.RoleUser),
		Content:   prompt,
	}); err != nil {
		return err
	}
	return c.store.Append(c.sessionName, session.Record{
		Timestamp: session.NowMillis(),
		Role:      string(gateway.RoleAssistant),
		Content:   reply,
		Model:     c.model,
	})
}

func (c *Chat) writeTurn(role, content string) {
	style := assistantStyle
	if role == string(gateway.RoleUser) {
		style = userStyle
	}
	c.transcript.WriteString(style.Render(role) + "\n" + content + "\n\n")
}

// refresh recomposes the viewport content from the transcript plus any
// in-flight reply and pins it to the bottom.
func (c *Chat) refresh() {
	var b strings.Builder
	b.WriteString(c.transcript.String())
	if c.streaming {
		b.WriteString(assistantStyle.Render(string(gateway.RoleAssistant)) + "\n")
		b.WriteString(c.reply.String())
	}
	if c.err != nil {
		b.WriteString("\n" + errorStyle.Render(c.err.Error()) + "\n")
	}
	c.view.SetContent(b.String())
	c.view.GotoBottom()
}

// View implements tea.Model.
func (c *Chat) View() string {
	status := statusStyle.Render("session: "+c.sessionName) + "  " + statusStyle.Render("model: "+c.model)
	if c.streaming {
		status += "  " + c.spin.View() + statusStyle.Render("thinking")
	}

	var inputView string
	if c.streaming {
		inputView = dimStyle.Render("> waiting for the reply")
	} else {
		inputView = c.input.View()
	}

	help := helpStyle.Render("enter send  ↑/↓ scroll  esc quit")
	return lipgloss.JoinVertical(lipgloss.Left, status, "", c.view.View(), "", inputView, help)
}
