// Package convo holds the conversation model: an ordered, append-only
// sequence of role-tagged messages, and the driver that submits it to a
// provider one turn at a time.
package convo

import (
	"github.com/gkassa/agentlab/internal/agentlab"
)

// Entry is one message in a conversation. Sender is the participant
// name in multi-agent runs and empty for plain chats.
type Entry struct {
	agentlab.Message
	Sender string `json:"sender,omitempty"`
}

// Conversation is an ordered sequence of messages. Order is
// chronological turn order; entries are never mutated once appended.
type Conversation struct {
	entries []Entry
}

// New returns an empty conversation.
func New() *Conversation {
	return &Conversation{}
}

// Append adds a message and returns the stored entry.
func (c *Conversation) Append(sender string, role agentlab.Role, content string) Entry {
	entry := Entry{Message: agentlab.NewMessage(role, content), Sender: sender}
	c.entries = append(c.entries, entry)
	return entry
}

// Entries returns a copy of the conversation in turn order.
func (c *Conversation) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Messages returns the conversation as provider messages, in turn order.
func (c *Conversation) Messages() []agentlab.Message {
	out := make([]agentlab.Message, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Message
	}
	return out
}

// Len returns the number of messages in the conversation.
func (c *Conversation) Len() int {
	return len(c.entries)
}

// Last returns the most recent entry, or false when empty.
func (c *Conversation) Last() (Entry, bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	return c.entries[len(c.entries)-1], true
}

// Driver submits a conversation to a bound provider one turn at a time.
type Driver struct {
	provider agentlab.Provider
	system   string
	window   *Window
	conv     *Conversation
}

// NewDriver creates a driver over a fresh conversation.
func NewDriver(provider agentlab.Provider, systemPrompt string) *Driver {
	return &Driver{provider: provider, system: systemPrompt, conv: New()}
}

// NewDriverWith creates a driver over an existing conversation, used
// when resuming a stored session.
func NewDriverWith(provider agentlab.Provider, systemPrompt string, conv *Conversation) *Driver {
	return &Driver{provider: provider, system: systemPrompt, conv: conv}
}

// SetWindow installs a bounded-window policy. A nil window resends the
// full history on every turn.
func (d *Driver) SetWindow(w *Window) {
	d.window = w
}

// Conversation returns the driver's conversation.
func (d *Driver) Conversation() *Conversation {
	return d.conv
}

// Send appends the user message, submits the prior history to the
// provider, appends the reply, and returns it. A provider error leaves
// the user message appended but no reply; callers treat it as fatal.
func (d *Driver) Send(text string) (string, error) {
	history := d.conv.Messages()
	if d.window != nil && d.window.Enabled() {
		history = d.window.Apply(history)
	}

	d.conv.Append("", agentlab.RoleUser, text)

	reply, err := d.provider.ChatWithHistory(d.system, history, text)
	if err != nil {
		return "", err
	}

	d.conv.Append("", agentlab.RoleAssistant, reply)
	return reply, nil
}
