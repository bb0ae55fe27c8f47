package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/swa-hq/swa/models"
	"github.com/swa-hq/swa/session"
)

func TestJSON_SingleLine(t *testing.T) {
	var buf strings.Builder
	JSON(&buf, map[string]string{"answer": "hi"})

	out := buf.String()
	if !strings.HasSuffix(out, "\n") || strings.Count(out, "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", out)
	}
	var parsed map[string]string
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["answer"] != "hi" {
		t.Fatalf("unexpected payload: %v", parsed)
	}
}

func TestJSONError_Shape(t *testing.T) {
	var buf strings.Builder
	JSONError(&buf, "missing_api_key", "OPENAI_API_KEY not set", "set it in .env")

	var out ErrorOut
	if err := json.Unmarshal([]byte(buf.String()), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Code != "missing_api_key" || out.Hint == "" {
		t.Fatalf("unexpected error shape: %+v", out)
	}

	// Hint is omitted when empty.
	buf.Reset()
	JSONError(&buf, "unknown", "boom", "")
	if strings.Contains(buf.String(), "hint") {
		t.Fatalf("empty hint must be omitted: %s", buf.String())
	}
}

func TestSessionTable_MarksActive(t *testing.T) {
	var buf strings.Builder
	SessionTable(&buf, []session.Meta{
		{Name: "work", Records: 4, Size: 2048, LastUsed: 1700000000000},
		{Name: "scratch", Records: 1, Size: 100},
	}, "work")

	out := buf.String()
	if !strings.Contains(out, "work") || !strings.Contains(out, "scratch") {
		t.Fatalf("missing rows: %s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "work") && !strings.Contains(line, "*") {
			t.Fatalf("active session not marked: %s", line)
		}
	}
}

func TestModelTable_Columns(t *testing.T) {
	var buf strings.Builder
	ModelTable(&buf, []models.Info{
		{Name: "gpt-4o", Provider: "openai", Source: "remote", ContextWindow: 128000, SupportsJSON: true, SupportsTools: true},
	})

	out := buf.String()
	if !strings.Contains(out, "128k") || !strings.Contains(out, "yes") {
		t.Fatalf("capability columns missing: %s", out)
	}
}

func TestSessionTable_Empty(t *testing.T) {
	var buf strings.Builder
	SessionTable(&buf, nil, "")
	if !strings.Contains(buf.String(), "no sessions") {
		t.Fatalf("unexpected empty rendering: %s", buf.String())
	}
}
