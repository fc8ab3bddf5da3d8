// Package agentlab provides the core abstractions for LLM providers.
// This package defines the Provider interface that all provider
// implementations (gemini, groq) must implement, plus the model
// registry that maps allow-listed model names to their provider.
package agentlab

// ModelInfo represents information about an available model from a provider.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "gemini-1.5-flash")
	Description string // Human-readable description of the model
	IsDefault   bool   // Whether this is the default model for the provider
}

// Provider defines the interface for LLM providers.
// All provider implementations (gemini, groq) must implement this interface.
//
// Example usage:
//
//	provider := gemini.NewProvider(cfg, "gemini-1.5-flash")
//	response, err := provider.Chat("Hello, world!")
type Provider interface {
	// Chat sends a single message and returns the response.
	Chat(message string) (string, error)

	// ChatWithHistory sends a message with conversation history.
	// The systemPrompt is prepended to the conversation.
	// messages contains the conversation history (user and assistant messages).
	// newMessage is the new user message to send.
	ChatWithHistory(systemPrompt string, messages []Message, newMessage string) (string, error)

	// ListModels returns a list of available models for the provider.
	ListModels() ([]ModelInfo, error)

	// SetDebug enables or disables debug output.
	SetDebug(enabled bool)
}

// Embedder computes fixed-length embedding vectors for text.
// Only the gemini client implements it; the vector demo depends on
// this interface rather than the concrete client.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(texts []string) ([][]float64, error)
}
