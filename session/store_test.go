package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/swa-hq/swa/gateway"
)

func TestStore_AppendLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	rec := Record{
		Timestamp: 1700000000000,
		Role:      "assistant",
		Content:   "The answer is 42.",
		Model:     "test-model",
		Usage:     &gateway.Usage{PromptTokens: 7, CompletionTokens: 5, TotalTokens: 12},
	}
	if err := store.Append("alpha", rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	history, err := store.LoadHistory("alpha")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 record, got %d", len(history))
	}
	got := history[len(history)-1]
	if got.Timestamp != rec.Timestamp || got.Role != rec.Role || got.Content != rec.Content || got.Model != rec.Model {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.Usage == nil || *got.Usage != *rec.Usage {
		t.Fatalf("usage mismatch: %+v", got.Usage)
	}
}

func TestStore_AppendGrowsByExactlyTwoPerExchange(t *testing.T) {
	store := NewStore(t.TempDir())

	appendPair := func(q, a string) {
		t.Helper()
		if err := store.Append("chat", Record{Timestamp: NowMillis(), Role: "user", Content: q}); err != nil {
			t.Fatalf("append user: %v", err)
		}
		if err := store.Append("chat", Record{Timestamp: NowMillis(), Role: "assistant", Content: a}); err != nil {
			t.Fatalf("append assistant: %v", err)
		}
	}

	appendPair("first?", "one")
	before, err := store.LoadHistory("chat")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	appendPair("second?", "two")
	after, err := store.LoadHistory("chat")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(after) != len(before)+2 {
		t.Fatalf("expected %d records, got %d", len(before)+2, len(after))
	}
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	store := NewStore(t.TempDir())

	history, err := store.LoadHistory("never-created")
	if err != nil {
		t.Fatalf("missing session must read as empty: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d records", len(history))
	}
}

func TestStore_SkipsUnparseableLines(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.CreateIfMissing("corrupt"); err != nil {
		t.Fatalf("create: %v", err)
	}

	raw := `{"timestamp_ms":1,"role":"user","content":"ok"}
this line is garbage
{"timestamp_ms":2,"role":"assistant","content":"also ok"}
{"broken json
`
	if err := os.WriteFile(store.Path("corrupt"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	history, err := store.LoadHistory("corrupt")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 parseable records, got %d", len(history))
	}
	if history[0].Content != "ok" || history[1].Content != "also ok" {
		t.Fatalf("unexpected records: %+v", history)
	}
}

func TestStore_SearchCaseInsensitive(t *testing.T) {
	store := NewStore(t.TempDir())
	records := []Record{
		{Timestamp: 1, Role: "user", Content: "Tell me about Goroutines"},
		{Timestamp: 2, Role: "assistant", Content: "A goroutine is a lightweight thread."},
		{Timestamp: 3, Role: "user", Content: "What about channels?"},
	}
	for _, rec := range records {
		if err := store.Append("search", rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	hits, err := store.Search("search", "GOROUTINE")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Timestamp != 1 || hits[1].Timestamp != 2 {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestStore_ListMetadataNewestFirst(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Append("old", Record{Timestamp: 100, Role: "user", Content: "old"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append("new", Record{Timestamp: 200, Role: "user", Content: "first"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append("new", Record{Timestamp: 300, Role: "assistant", Content: "second"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	metas, err := store.ListMetadata()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(metas))
	}
	if metas[0].Name != "new" || metas[1].Name != "old" {
		t.Fatalf("expected newest-first ordering, got %v then %v", metas[0].Name, metas[1].Name)
	}
	if metas[0].Records != 2 || metas[0].LastUsed != 300 {
		t.Fatalf("unexpected metadata: %+v", metas[0])
	}
	if metas[0].Size == 0 {
		t.Fatal("expected non-zero file size")
	}
}

func TestStore_ActiveSessionPointer(t *testing.T) {
	store := NewStore(t.TempDir())

	name, err := store.ActiveSession()
	if err != nil {
		t.Fatalf("unset pointer must not error: %v", err)
	}
	if name != "" {
		t.Fatalf("expected empty pointer, got %q", name)
	}

	if err := store.SetActiveSession("work"); err != nil {
		t.Fatalf("set: %v", err)
	}
	name, err = store.ActiveSession()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if name != "work" {
		t.Fatalf("expected %q, got %q", "work", name)
	}

	// The pointer file is plain trimmed text.
	data, err := os.ReadFile(filepath.Join(store.root, "active_session"))
	if err != nil {
		t.Fatalf("read pointer file: %v", err)
	}
	if string(data) != "work" {
		t.Fatalf("unexpected pointer file contents: %q", data)
	}
}

func TestStore_CreateIfMissingIdempotent(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Append("keep", Record{Timestamp: 1, Role: "user", Content: "data"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := store.CreateIfMissing("keep"); err != nil {
		t.Fatalf("create: %v", err)
	}

	history, err := store.LoadHistory("keep")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("create must not truncate, got %d records", len(history))
	}
}
