package gateway

import (
	"bufio"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	streamDataPrefix  = "data:"
	streamEndSentinel = "[DONE]"
)

// Stream decodes a server-sent-events shaped response body into an
// ordered sequence of incremental text fragments. It is forward-only and
// not restartable; abandoning it (Close) drops the underlying
// connection.
//
// Usage follows the bufio.Scanner shape:
//
//	for stream.Next() {
//	    fmt.Print(stream.Text())
//	}
//	if err := stream.Err(); err != nil { ... }
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	text    string
	err     error
	done    bool
}

func newStream(body io.ReadCloser) *Stream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Stream{body: body, scanner: sc}
}

// Next advances to the next fragment. It returns false when the end
// sentinel arrives, the underlying stream closes, or decoding fails.
func (s *Stream) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, streamDataPrefix) {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, streamDataPrefix))
		if data == "" {
			continue
		}
		if data == streamEndSentinel {
			s.done = true
			return false
		}
		piece, ok, err := extractDelta(data)
		if err != nil {
			s.err = err
			s.done = true
			return false
		}
		if !ok {
			// Chunks carrying only role announcements or finish
			// reasons produce no text.
			continue
		}
		s.text = piece
		return true
	}
	if err := s.scanner.Err(); err != nil {
		s.err = err
	}
	s.done = true
	return false
}

// Text returns the fragment produced by the last successful Next.
func (s *Stream) Text() string { return s.text }

// Err returns the first error encountered while decoding, if any.
func (s *Stream) Err() error { return s.err }

// Close releases the underlying connection. Safe to call at any point;
// closing mid-stream cancels the transfer.
func (s *Stream) Close() error { return s.body.Close() }

// extractDelta pulls the incremental content field out of one event
// payload. The canonical location is choices[0].delta.content; a
// top-level content field is accepted as a fallback for simpler
// backends. gjson tracks string state properly, so escaped quotes and
// reordered fields decode correctly.
func extractDelta(data string) (string, bool, error) {
	if !gjson.Valid(data) {
		return "", false, &DecodeError{Payload: data}
	}
	if v := gjson.Get(data, "choices.0.delta.content"); v.Exists() {
		return v.String(), true, nil
	}
	if v := gjson.Get(data, "content"); v.Exists() {
		return v.String(), true, nil
	}
	return "", false, nil
}
