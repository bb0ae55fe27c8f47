package session

import "github.com/swa-hq/swa/gateway"

// charsPerToken is the token-estimate ratio. It is a rough heuristic
// with no connection to any backend's real tokenizer; treat it as a
// tunable constant, not a bound.
const charsPerToken = 4

// EstimateTokens approximates the token cost of text as
// ceil(runes / charsPerToken).
func EstimateTokens(text string) int {
	n := len([]rune(text))
	return (n + charsPerToken - 1) / charsPerToken
}

// BuildMessages converts stored history plus a new user turn into the
// bounded message list actually sent to a provider.
//
// The combined list is walked from the end backward, keeping a message
// only while the accumulated estimate stays within maxTokens — except
// that the newest turn is always kept, even when it alone exceeds the
// budget. The kept suffix is returned in chronological order. Truncation
// is pure drop-from-the-oldest; nothing is summarized or reordered.
func BuildMessages(history []Record, newUserText string, maxTokens int) []gateway.Message {
	messages := make([]gateway.Message, 0, len(history)+1)
	for _, rec := range history {
		messages = append(messages, gateway.Message{
			Role:    gateway.Role(rec.Role),
			Content: rec.Content,
		})
	}
	messages = append(messages, gateway.Message{
		Role:    gateway.RoleUser,
		Content: newUserText,
	})

	total := 0
	kept := 0
	for i := len(messages) - 1; i >= 0; i-- {
		cost := EstimateTokens(messages[i].Content)
		if total+cost > maxTokens && kept > 0 {
			break
		}
		total += cost
		kept++
	}
	return messages[len(messages)-kept:]
}
