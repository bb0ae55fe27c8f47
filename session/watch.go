package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Follow tails the named conversation and delivers records appended
// after the call, until ctx is done. Another process appending to the
// same file (no locking — see the store docs) shows up here as it
// writes.
//
// The returned channel is closed when ctx is canceled or the watcher
// fails. Unparseable lines are skipped, matching LoadHistory.
func (s *Store) Follow(ctx context.Context, name string) (<-chan Record, error) {
	path, err := s.CreateIfMissing(name)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory: append-only files never move, but directory
	// watches survive editors that replace files wholesale.
	if err := watcher.Add(s.sessionsDir()); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching sessions dir: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("stat session file: %w", err)
	}
	offset := info.Size()

	out := make(chan Record)
	go func() {
		defer close(out)
		defer watcher.Close()

		var pending string
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path || !event.Has(fsnotify.Write) {
					continue
				}
				offset = drainAppended(ctx, path, offset, &pending, out)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("session watcher error", "session", name, "error", err)
			}
		}
	}()
	return out, nil
}

// drainAppended reads bytes written past offset, emits complete records,
// and returns the new offset. Partial trailing lines stay in pending
// until the writer finishes them.
func drainAppended(ctx context.Context, path string, offset int64, pending *string, out chan<- Record) int64 {
	f, err := os.Open(path)
	if err != nil {
		return offset
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return offset
	}
	offset += int64(len(data))

	*pending += string(data)
	for {
		idx := strings.IndexByte(*pending, '\n')
		if idx < 0 {
			return offset
		}
		line := strings.TrimSpace((*pending)[:idx])
		*pending = (*pending)[idx+1:]
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		select {
		case out <- rec:
		case <-ctx.Done():
			return offset
		}
	}
}
