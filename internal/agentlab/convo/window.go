package convo

import (
	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/pkoukk/tiktoken-go"
)

// Window bounds the history resent to the provider on each turn.
// Without it every prior turn is resent in full, which grows linearly
// per turn; fine for short demos, not for long sessions.
type Window struct {
	maxMessages int // 0 = unbounded
	maxTokens   int // 0 = unbounded
	countTokens func(string) int
}

// NewWindow builds a window policy. Token counting uses the cl100k
// encoding; when the encoding cannot be loaded (offline) a bytes/4
// estimate is used instead.
func NewWindow(maxMessages, maxTokens int) *Window {
	w := &Window{maxMessages: maxMessages, maxTokens: maxTokens, countTokens: estimateTokens}
	if maxTokens > 0 {
		if enc, err := tiktoken.EncodingForModel("gpt-4"); err == nil {
			w.countTokens = func(s string) int {
				return len(enc.Encode(s, nil, nil))
			}
		}
	}
	return w
}

// Enabled reports whether the window constrains anything.
func (w *Window) Enabled() bool {
	return w != nil && (w.maxMessages > 0 || w.maxTokens > 0)
}

// Apply returns the newest messages that fit both caps, in their
// original chronological order. The input is not modified.
func (w *Window) Apply(messages []agentlab.Message) []agentlab.Message {
	if !w.Enabled() {
		return messages
	}

	start := len(messages)
	tokens := 0
	for i := len(messages) - 1; i >= 0; i-- {
		if w.maxMessages > 0 && len(messages)-i > w.maxMessages {
			break
		}
		if w.maxTokens > 0 {
			tokens += w.countTokens(messages[i].Content)
			if tokens > w.maxTokens {
				if start == len(messages) {
					// A single oversized message is still sent; the
					// provider enforces its own limits.
					start = i
				}
				break
			}
		}
		start = i
	}

	return messages[start:]
}

// estimateTokens approximates token count when no encoding is
// available. Four bytes per token is the usual rule of thumb.
func estimateTokens(s string) int {
	return len(s)/4 + 1
}
