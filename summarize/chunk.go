// Package summarize condenses large texts through a provider: the input
// is chunked by approximate token count, chunk summaries are fanned out
// concurrently, and a final synthesis call merges them.
package summarize

import "github.com/swa-hq/swa/session"

// charsPerToken mirrors the context builder's estimate ratio.
const charsPerToken = 4

// Chunk splits text into pieces of at most roughly maxTokens each,
// preferring to break at the last space or newline inside the window so
// words stay intact. Returns nil for empty input.
func Chunk(text string, maxTokens int) []string {
	if text == "" {
		return nil
	}
	maxChars := maxTokens * charsPerToken
	if maxChars <= 0 {
		return []string{text}
	}

	var chunks []string
	start := 0
	lastBreak := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' || text[i] == ' ' {
			lastBreak = i
		}
		if i-start >= maxChars {
			split := i
			if lastBreak > start {
				split = lastBreak
			}
			chunks = append(chunks, text[start:split])
			start = split + 1
			lastBreak = start
		}
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks
}

// EstimateTokens re-exports the session heuristic for callers sizing
// chunk budgets.
func EstimateTokens(text string) int {
	return session.EstimateTokens(text)
}
