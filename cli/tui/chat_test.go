package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/swa-hq/swa/gateway"
	"github.com/swa-hq/swa/session"
)

func testChat(t *testing.T) (*Chat, *session.Store) {
	t.Helper()
	store := session.NewStore(t.TempDir())
	if _, err := store.CreateIfMissing("work"); err != nil {
		t.Fatalf("CreateIfMissing: %v", err)
	}
	return NewChat(store, "work", nil, "gpt-4o-mini", "", 4000), store
}

func TestNewChatLoadsHistory(t *testing.T) {
	store := session.NewStore(t.TempDir())
	if err := store.Append("work", session.Record{
		Timestamp: session.NowMillis(),
		Role:      string(gateway.RoleUser),
		Content:   "what is a goroutine",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	c := NewChat(store, "work", nil, "gpt-4o-mini", "", 4000)
	if !strings.Contains(c.transcript.String(), "what is a goroutine") {
		t.Errorf("transcript missing prior turn: %q", c.transcript.String())
	}
}

func TestChatQuitKeys(t *testing.T) {
	c, _ := testChat(t)

	for _, keyType := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := c.Update(tea.KeyMsg{Type: keyType})
		if cmd == nil {
			t.Fatalf("key %v: cmd = nil, want tea.Quit", keyType)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %v: cmd produced %T, want tea.QuitMsg", keyType, cmd())
		}
	}
}

func TestChatFragmentsAccumulate(t *testing.T) {
	c, _ := testChat(t)
	c.streaming = true
	c.events = make(chan tea.Msg, 1)

	c.Update(fragmentMsg("Hel"))
	c.Update(fragmentMsg("lo"))

	if got := c.reply.String(); got != "Hello" {
		t.Errorf("reply = %q, want %q", got, "Hello")
	}
}

func TestChatDonePersistsExchange(t *testing.T) {
	c, store := testChat(t)
	c.streaming = true
	c.prompt = "hi"
	c.reply.WriteString("hello there")

	c.Update(doneMsg{})

	if c.streaming {
		t.Error("still streaming after done")
	}
	history, err := store.LoadHistory("work")
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != string(gateway.RoleUser) || history[0].Content != "hi" {
		t.Errorf("user turn = %+v", history[0])
	}
	if history[1].Role != string(gateway.RoleAssistant) || history[1].Content != "hello there" {
		t.Errorf("assistant turn = %+v", history[1])
	}
	if history[1].Model != "gpt-4o-mini" {
		t.Errorf("assistant model = %q, want gpt-4o-mini", history[1].Model)
	}
	if !strings.Contains(c.transcript.String(), "hello there") {
		t.Error("transcript missing completed reply")
	}
}

func TestChatErrorStopsStreaming(t *testing.T) {
	c, _ := testChat(t)
	c.streaming = true

	c.Update(errMsg{err: &gateway.ProviderError{StatusCode: 500, Body: "boom"}})

	if c.streaming {
		t.Error("still streaming after error")
	}
	if c.err == nil {
		t.Error("err not recorded")
	}
}

func TestChatIgnoresInputWhileStreaming(t *testing.T) {
	c, _ := testChat(t)
	c.streaming = true

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter during streaming produced a command")
	}
}
