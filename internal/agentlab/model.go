package agentlab

import "sort"

// ProviderKind is the tagged variant over the supported providers.
type ProviderKind string

const (
	ProviderGemini ProviderKind = "gemini"
	ProviderGroq   ProviderKind = "groq"
)

// registry is the fixed allow-list of chat models. Every runnable model
// maps to exactly one provider; anything else is rejected before a
// network call is made.
var registry = map[string]ProviderKind{
	"gemini-1.5-flash":     ProviderGemini,
	"gemini-1.5-pro":       ProviderGemini,
	"gemini-2.5-flash":     ProviderGemini,
	"llama3-8b-8192":       ProviderGroq,
	"llama-3.1-8b-instant": ProviderGroq,
}

// DefaultModel is used when neither flag, env, nor config names a model.
const DefaultModel = "gemini-1.5-flash"

// DefaultEmbeddingModel is the embedding model for the similarity demo.
const DefaultEmbeddingModel = "text-embedding-004"

// Resolve maps a model name to its provider kind.
// Returns UnsupportedModelError if the model is not in the allow-list.
func Resolve(model string) (ProviderKind, error) {
	kind, ok := registry[model]
	if !ok {
		return "", &UnsupportedModelError{Model: model, Available: AvailableModels()}
	}
	return kind, nil
}

// AvailableModels returns the allow-listed model names, sorted.
func AvailableModels() []string {
	models := make([]string, 0, len(registry))
	for m := range registry {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}
