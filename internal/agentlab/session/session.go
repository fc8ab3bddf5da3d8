package session

import (
	"time"

	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/google/uuid"
)

// Session represents a persisted conversation session
type Session struct {
	ID           string             `json:"id"`            // UUID v4
	Name         string             `json:"name"`          // Optional session name (empty by default)
	Model        string             `json:"model"`         // Model name from the allow-list
	SystemPrompt string             `json:"system_prompt"` // System prompt snapshot (can be empty)
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Messages     []agentlab.Message `json:"messages"`
}

// New creates a new session bound to the given model
func New(model string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []agentlab.Message{},
	}
}

// AddMessage adds a new message to the session
func (s *Session) AddMessage(role agentlab.Role, content string) {
	s.Messages = append(s.Messages, agentlab.NewMessage(role, content))
	s.UpdatedAt = time.Now()
}

// ShortID returns the shortened session ID (first 8 characters)
func (s *Session) ShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// DisplayName returns the session name when set, otherwise the short ID.
func (s *Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ShortID()
}

// MessageCount returns the number of messages in the session
func (s *Session) MessageCount() int {
	return len(s.Messages)
}
