// Package session persists named conversations as append-only JSONL
// files and builds the bounded message lists sent to a provider.
//
// A conversation is owned by whichever process writes to it; the files
// are the source of truth and no in-memory state survives a command.
// Appends are not synchronized across processes — acceptable for a
// single-user CLI.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/swa-hq/swa/gateway"
)

// Record is one conversational turn, user or assistant. Records are
// append-only: never edited or deleted once written.
type Record struct {
	Timestamp int64          `json:"timestamp_ms"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Model     string         `json:"model,omitempty"`
	Usage     *gateway.Usage `json:"usage,omitempty"`
}

// Meta summarizes a stored conversation.
type Meta struct {
	Name     string
	Path     string
	LastUsed int64 // ms since epoch of the last parseable record, 0 if none
	Records  int
	Size     int64
}

// Store reads and writes conversations under a root directory. The root
// is injected so tests and callers control where state lives; session
// files go in root/sessions, the active pointer in root/active_session.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// DefaultStore roots the store in the user's config directory.
func DefaultStore() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}
	return NewStore(filepath.Join(base, "swa")), nil
}

func (s *Store) sessionsDir() string {
	return filepath.Join(s.root, "sessions")
}

// Path returns the JSONL file path for the named conversation.
func (s *Store) Path(name string) string {
	return filepath.Join(s.sessionsDir(), name+".jsonl")
}

func (s *Store) activePath() string {
	return filepath.Join(s.root, "active_session")
}

// CreateIfMissing ensures the conversation file exists and returns its
// path.
func (s *Store) CreateIfMissing(name string) (string, error) {
	if err := os.MkdirAll(s.sessionsDir(), 0o755); err != nil {
		return "", fmt.Errorf("creating sessions dir: %w", err)
	}
	path := s.Path(name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating session file: %w", err)
	}
	return path, f.Close()
}

// Append writes one record as a JSON line and flushes it to disk.
func (s *Store) Append(name string, rec Record) error {
	path, err := s.CreateIfMissing(name)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening session for append: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending session record: %w", err)
	}
	return f.Sync()
}

// LoadHistory reads the full conversation in order. A missing file is an
// empty conversation, not an error; unparseable lines are skipped
// (best-effort recovery, the data is not loss-sensitive).
func (s *Store) LoadHistory(name string) ([]Record, error) {
	data, err := os.ReadFile(s.Path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", name, err)
	}
	return parseRecords(string(data)), nil
}

func parseRecords(data string) []Record {
	var out []Record
	for _, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Search returns records whose content contains the needle,
// case-insensitively.
func (s *Store) Search(name, needle string) ([]Record, error) {
	history, err := s.LoadHistory(name)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(needle)
	var out []Record
	for _, rec := range history {
		if strings.Contains(strings.ToLower(rec.Content), lower) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ListMetadata summarizes all stored conversations, newest first.
func (s *Store) ListMetadata() ([]Meta, error) {
	entries, err := os.ReadDir(s.sessionsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	var out []Meta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".jsonl")
		path := filepath.Join(s.sessionsDir(), entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		records := 0
		var last int64
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			records++
			var rec Record
			if err := json.Unmarshal([]byte(line), &rec); err == nil {
				last = rec.Timestamp
			}
		}
		out = append(out, Meta{
			Name:     name,
			Path:     path,
			LastUsed: last,
			Records:  records,
			Size:     info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUsed > out[j].LastUsed })
	return out, nil
}

// ActiveSession reads the active-conversation pointer. Returns "" when
// no session has been activated yet.
func (s *Store) ActiveSession() (string, error) {
	data, err := os.ReadFile(s.activePath())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading active session: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SetActiveSession persists the active-conversation pointer.
func (s *Store) SetActiveSession(name string) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	if err := os.WriteFile(s.activePath(), []byte(name), 0o644); err != nil {
		return fmt.Errorf("writing active session: %w", err)
	}
	return nil
}

// NowMillis returns the current time in milliseconds since the epoch,
// the timestamp unit of Record.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
