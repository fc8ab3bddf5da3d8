package team

import (
	"fmt"
	"strings"

	"github.com/gkassa/agentlab/internal/agentlab/convo"
)

// TerminationCondition decides when a multi-participant exchange stops.
// It is evaluated after every message appended to the conversation,
// including the seed task message.
type TerminationCondition interface {
	// Satisfied reports whether the run should stop, given the message
	// just appended and the total message count so far.
	Satisfied(last convo.Entry, total int) bool

	// Description explains the condition for transcripts and logs.
	Description() string
}

// MaxMessages stops the run once the conversation holds max messages.
type MaxMessages struct {
	Max int
}

// Satisfied implements TerminationCondition.
func (c MaxMessages) Satisfied(last convo.Entry, total int) bool {
	return total >= c.Max
}

// Description implements TerminationCondition.
func (c MaxMessages) Description() string {
	return fmt.Sprintf("max %d messages", c.Max)
}

// TextMention stops the run on the first message containing the
// sentinel phrase. Matching is a case-sensitive substring check.
type TextMention struct {
	Text string
}

// Satisfied implements TerminationCondition.
func (c TextMention) Satisfied(last convo.Entry, total int) bool {
	return strings.Contains(last.Content, c.Text)
}

// Description implements TerminationCondition.
func (c TextMention) Description() string {
	return fmt.Sprintf("mention of %q", c.Text)
}

// Any stops the run as soon as one of its conditions is satisfied.
type Any []TerminationCondition

// Satisfied implements TerminationCondition.
func (c Any) Satisfied(last convo.Entry, total int) bool {
	for _, cond := range c {
		if cond.Satisfied(last, total) {
			return true
		}
	}
	return false
}

// Description implements TerminationCondition.
func (c Any) Description() string {
	parts := make([]string, len(c))
	for i, cond := range c {
		parts[i] = cond.Description()
	}
	return strings.Join(parts, " or ")
}
