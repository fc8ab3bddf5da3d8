package cmd

import (
	"fmt"

	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/gkassa/agentlab/internal/agentlab/config"
	"github.com/gkassa/agentlab/internal/gemini"
	"github.com/gkassa/agentlab/internal/groq"
)

// newProvider creates a provider instance for the given model. The model
// is resolved against the registry before any network call is made, so an
// unknown model fails fast with the list of supported ones.
func newProvider(cfg *config.Config, model string) (agentlab.Provider, error) {
	kind, err := agentlab.Resolve(model)
	if err != nil {
		return nil, err
	}

	switch kind {
	case agentlab.ProviderGemini:
		return gemini.NewProvider(cfg, model), nil
	case agentlab.ProviderGroq:
		return groq.NewProvider(cfg, model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", kind)
	}
}

// newEmbedder creates the embedding client. Only Gemini serves embeddings.
func newEmbedder(cfg *config.Config) agentlab.Embedder {
	p := gemini.NewProvider(cfg, agentlab.DefaultModel)
	if cfg.EmbeddingModel != "" {
		p.SetEmbeddingModel(cfg.EmbeddingModel)
	}
	p.SetDebug(verbose)
	return p
}

// resolveModel applies the model priority: flag > config. The config value
// already reflects AGENTLAB_MODEL through the viper env binding.
func resolveModel(cfg *config.Config, flagValue string, flagChanged bool) (string, error) {
	model := cfg.Model
	if flagChanged {
		model = flagValue
	}
	if model == "" {
		model = agentlab.DefaultModel
	}
	if _, err := agentlab.Resolve(model); err != nil {
		return "", err
	}
	return model, nil
}
