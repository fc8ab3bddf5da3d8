// Package team runs bounded round-robin exchanges between two or more
// participants over a shared conversation.
package team

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/gkassa/agentlab/internal/agentlab/convo"
)

// Participant produces one reply per turn against the shared
// conversation. Participants are stateless across turns except through
// the conversation itself.
type Participant interface {
	Name() string
	Reply(conv *convo.Conversation) (string, error)
}

// Agent is a provider-backed participant with a system instruction.
type Agent struct {
	name     string
	system   string
	provider agentlab.Provider
}

// NewAgent creates a provider-backed participant.
func NewAgent(name, systemInstruction string, provider agentlab.Provider) *Agent {
	return &Agent{name: name, system: systemInstruction, provider: provider}
}

// Name implements Participant.
func (a *Agent) Name() string { return a.name }

// Reply submits the shared conversation, as seen from this agent, to
// its bound provider. Its own past messages become assistant turns;
// everything else becomes user turns tagged with the sender name.
func (a *Agent) Reply(conv *convo.Conversation) (string, error) {
	entries := conv.Entries()
	if len(entries) == 0 {
		return "", fmt.Errorf("agent %s asked to reply to an empty conversation", a.name)
	}

	history := make([]agentlab.Message, 0, len(entries)-1)
	for _, e := range entries[:len(entries)-1] {
		history = append(history, a.asSeen(e))
	}
	last := a.asSeen(entries[len(entries)-1])

	return a.provider.ChatWithHistory(a.system, history, last.Content)
}

// asSeen maps a shared conversation entry into this agent's view.
func (a *Agent) asSeen(e convo.Entry) agentlab.Message {
	m := e.Message
	if e.Sender == a.name {
		m.Role = agentlab.RoleAssistant
		return m
	}
	m.Role = agentlab.RoleUser
	if e.Sender != "" {
		m.Content = e.Sender + ": " + m.Content
	}
	return m
}

// HumanProxy is a participant that reads its turn from an input stream,
// simulating the human side of an exchange.
type HumanProxy struct {
	name string
	in   *bufio.Reader
	out  io.Writer
}

// NewHumanProxy creates a participant reading turns from in.
func NewHumanProxy(name string, in io.Reader, out io.Writer) *HumanProxy {
	return &HumanProxy{name: name, in: bufio.NewReader(in), out: out}
}

// Name implements Participant.
func (h *HumanProxy) Name() string { return h.name }

// Reply prompts on out and reads one line from in.
func (h *HumanProxy) Reply(conv *convo.Conversation) (string, error) {
	fmt.Fprintf(h.out, "%s> ", h.name)
	line, err := h.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input for %s: %w", h.name, err)
	}
	return strings.TrimSpace(line), nil
}

// State tracks the loop lifecycle.
type State int

const (
	Active State = iota
	Terminated
)

// RoundRobin cycles turn-taking across participants in fixed order
// until the termination condition is satisfied.
type RoundRobin struct {
	participants []Participant
	termination  TerminationCondition
	conv         *convo.Conversation
	state        State
	onMessage    func(convo.Entry)
}

// NewRoundRobin creates a round-robin team. At least one participant
// and a termination condition are required.
func NewRoundRobin(participants []Participant, termination TerminationCondition) (*RoundRobin, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("round-robin team needs at least one participant")
	}
	if termination == nil {
		return nil, fmt.Errorf("round-robin team needs a termination condition")
	}
	return &RoundRobin{
		participants: participants,
		termination:  termination,
		conv:         convo.New(),
		state:        Active,
	}, nil
}

// OnMessage registers a callback invoked for every appended message,
// used to stream the exchange to the console as it happens.
func (t *RoundRobin) OnMessage(fn func(convo.Entry)) {
	t.onMessage = fn
}

// Conversation returns the shared conversation.
func (t *RoundRobin) Conversation() *convo.Conversation {
	return t.conv
}

// State returns the loop state.
func (t *RoundRobin) State() State {
	return t.state
}

// Run seeds the conversation with the task message and cycles
// participants until the termination condition is satisfied. A failed
// provider call is fatal to the run; there is no retry.
func (t *RoundRobin) Run(task string) error {
	if t.state != Active {
		return fmt.Errorf("team has already terminated")
	}

	if t.append("", agentlab.RoleUser, task) {
		return nil
	}

	for i := 0; ; i = (i + 1) % len(t.participants) {
		p := t.participants[i]
		reply, err := p.Reply(t.conv)
		if err != nil {
			t.state = Terminated
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
		if t.append(p.Name(), agentlab.RoleAssistant, reply) {
			return nil
		}
	}
}

// append adds a message, emits it, and evaluates termination.
// Reports whether the run has terminated.
func (t *RoundRobin) append(sender string, role agentlab.Role, content string) bool {
	entry := t.conv.Append(sender, role, content)
	if t.onMessage != nil {
		t.onMessage(entry)
	}
	if t.termination.Satisfied(entry, t.conv.Len()) {
		t.state = Terminated
		return true
	}
	return false
}
