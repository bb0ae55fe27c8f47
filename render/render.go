// Package render formats command output: styled terminal tables and
// labels via lipgloss, plus a machine-readable JSON mode with stable
// error codes.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/swa-hq/swa/models"
	"github.com/swa-hq/swa/session"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	roleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#88C0D0"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A3BE8C"))
)

// JSON writes value as a single JSON line.
func JSON(w io.Writer, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		fmt.Fprintf(w, `{"code":"encode_error","message":%q}`+"\n", err.Error())
		return
	}
	fmt.Fprintln(w, string(data))
}

// ErrorOut is the JSON error shape: a stable code, a human message, and
// an optional remediation hint.
type ErrorOut struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// JSONError writes an ErrorOut line.
func JSONError(w io.Writer, code, message, hint string) {
	JSON(w, ErrorOut{Code: code, Message: message, Hint: hint})
}

// SessionTable renders conversation metadata, newest first, marking the
// active session.
func SessionTable(w io.Writer, metas []session.Meta, active string) {
	if len(metas) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("no sessions yet"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-20s %8s %10s  %s", "NAME", "TURNS", "SIZE", "LAST ACTIVITY")))
	for _, m := range metas {
		line := fmt.Sprintf("%-20s %8d %10s  %s", m.Name, m.Records, formatSize(m.Size), formatWhen(m.LastUsed))
		if m.Name == active {
			fmt.Fprintln(w, activeStyle.Render(line+" *"))
		} else {
			fmt.Fprintln(w, line)
		}
	}
}

// ModelTable renders a model listing with capability columns.
func ModelTable(w io.Writer, infos []models.Info) {
	if len(infos) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("no models found"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-32s %-10s %-7s %8s %6s %6s", "MODEL", "PROVIDER", "SOURCE", "CONTEXT", "JSON", "TOOLS")))
	for _, m := range infos {
		ctx := "-"
		if m.ContextWindow > 0 {
			ctx = fmt.Sprintf("%dk", m.ContextWindow/1000)
		}
		fmt.Fprintf(w, "%-32s %-10s %-7s %8s %6s %6s\n",
			m.Name, m.Provider, m.Source, ctx, yesNo(m.SupportsJSON), yesNo(m.SupportsTools))
	}
}

// Transcript renders stored records as a readable conversation.
func Transcript(w io.Writer, records []session.Record) {
	for _, rec := range records {
		label := roleStyle.Render(rec.Role)
		if rec.Model != "" {
			label += subtleStyle.Render(" (" + rec.Model + ")")
		}
		fmt.Fprintf(w, "%s %s\n%s\n\n", label, subtleStyle.Render(formatWhen(rec.Timestamp)), rec.Content)
	}
}

// OK renders a short success notice.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, okStyle.Render(msg))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}

func formatWhen(ms int64) string {
	if ms == 0 {
		return "never"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}
