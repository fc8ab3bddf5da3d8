package convo

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gkassa/agentlab/internal/agentlab"
)

// scriptedProvider replays canned replies and records what it was sent.
type scriptedProvider struct {
	replies  []string
	calls    int
	lastHist []agentlab.Message
	lastMsg  string
	fail     bool
}

func (p *scriptedProvider) Chat(message string) (string, error) {
	return p.ChatWithHistory("", nil, message)
}

func (p *scriptedProvider) ChatWithHistory(systemPrompt string, messages []agentlab.Message, newMessage string) (string, error) {
	if p.fail {
		return "", &agentlab.ProviderError{Provider: "scripted", Body: "boom"}
	}
	p.lastHist = messages
	p.lastMsg = newMessage
	reply := fmt.Sprintf("reply-%d", p.calls)
	if p.calls < len(p.replies) {
		reply = p.replies[p.calls]
	}
	p.calls++
	return reply, nil
}

func (p *scriptedProvider) ListModels() ([]agentlab.ModelInfo, error) { return nil, nil }

func (p *scriptedProvider) SetDebug(enabled bool) {}

func TestDriverSendAppendsInOrder(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"four", "eight"}}
	driver := NewDriver(provider, "you are terse")

	reply, err := driver.Send("what is 2+2?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != "four" {
		t.Errorf("Send() reply = %q, want %q", reply, "four")
	}
	// First turn: no prior history is sent.
	if len(provider.lastHist) != 0 {
		t.Errorf("first turn history length = %d, want 0", len(provider.lastHist))
	}

	if _, err := driver.Send("and doubled?"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	// Second turn resends the full prior history.
	if len(provider.lastHist) != 2 {
		t.Fatalf("second turn history length = %d, want 2", len(provider.lastHist))
	}
	if provider.lastHist[0].Role != agentlab.RoleUser || provider.lastHist[1].Role != agentlab.RoleAssistant {
		t.Errorf("history roles = %v, %v; want user, assistant", provider.lastHist[0].Role, provider.lastHist[1].Role)
	}

	msgs := driver.Conversation().Messages()
	if len(msgs) != 4 {
		t.Fatalf("conversation length = %d, want 4", len(msgs))
	}
	wantRoles := []agentlab.Role{agentlab.RoleUser, agentlab.RoleAssistant, agentlab.RoleUser, agentlab.RoleAssistant}
	for i, want := range wantRoles {
		if msgs[i].Role != want {
			t.Errorf("message %d role = %v, want %v", i, msgs[i].Role, want)
		}
	}
}

func TestDriverSendProviderError(t *testing.T) {
	provider := &scriptedProvider{fail: true}
	driver := NewDriver(provider, "")

	_, err := driver.Send("hello")
	var provErr *agentlab.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Send() error = %v, want ProviderError", err)
	}
}

func TestConversationEntriesAreCopies(t *testing.T) {
	conv := New()
	conv.Append("a", agentlab.RoleUser, "one")
	entries := conv.Entries()
	entries[0].Content = "mutated"

	got, _ := conv.Last()
	if got.Content != "one" {
		t.Errorf("conversation entry mutated through copy: %q", got.Content)
	}
}

func TestWindowMessageCap(t *testing.T) {
	w := NewWindow(2, 0)
	msgs := []agentlab.Message{
		{Role: agentlab.RoleUser, Content: "one"},
		{Role: agentlab.RoleAssistant, Content: "two"},
		{Role: agentlab.RoleUser, Content: "three"},
	}

	got := w.Apply(msgs)
	if len(got) != 2 {
		t.Fatalf("Apply() length = %d, want 2", len(got))
	}
	if got[0].Content != "two" || got[1].Content != "three" {
		t.Errorf("Apply() kept %q, %q; want newest two in order", got[0].Content, got[1].Content)
	}
}

func TestWindowTokenCap(t *testing.T) {
	w := NewWindow(0, 5)
	// Deterministic counter: one token per word.
	w.countTokens = func(s string) int { return len(strings.Fields(s)) }

	msgs := []agentlab.Message{
		{Content: "a b c d"},   // 4 tokens
		{Content: "e f g"},     // 3 tokens
		{Content: "h i"},       // 2 tokens
	}

	got := w.Apply(msgs)
	// Newest-first accumulation: "h i" (2) + "e f g" (5) fit, adding
	// "a b c d" would exceed the cap.
	if len(got) != 2 {
		t.Fatalf("Apply() length = %d, want 2", len(got))
	}
	if got[0].Content != "e f g" {
		t.Errorf("Apply() oldest kept = %q, want %q", got[0].Content, "e f g")
	}
}

func TestWindowKeepsOversizedNewestMessage(t *testing.T) {
	w := NewWindow(0, 1)
	w.countTokens = func(s string) int { return 100 }

	msgs := []agentlab.Message{{Content: "old"}, {Content: "huge"}}
	got := w.Apply(msgs)
	if len(got) != 1 || got[0].Content != "huge" {
		t.Errorf("Apply() = %v, want just the newest message", got)
	}
}

func TestWindowDisabled(t *testing.T) {
	var w *Window
	if w.Enabled() {
		t.Error("nil window should be disabled")
	}
	w = NewWindow(0, 0)
	if w.Enabled() {
		t.Error("zero-valued window should be disabled")
	}
	msgs := []agentlab.Message{{Content: "a"}, {Content: "b"}}
	if got := w.Apply(msgs); len(got) != 2 {
		t.Errorf("disabled window trimmed history: %d messages", len(got))
	}
}
