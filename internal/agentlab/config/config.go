package config

import (
	"fmt"

	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/spf13/viper"
)

// Config holds the tool configuration. Values come from the TOML config
// file, AGENTLAB_* environment variables, and built-in defaults, in
// viper's usual precedence order.
type Config struct {
	Model                 string   `toml:"model" mapstructure:"model"`
	EmbeddingModel        string   `toml:"embedding_model" mapstructure:"embedding_model"`
	GeminiBaseURL         string   `toml:"gemini_base_url" mapstructure:"gemini_base_url"`
	GeminiToken           string   `toml:"gemini_token" mapstructure:"gemini_token"`
	GroqBaseURL           string   `toml:"groq_base_url" mapstructure:"groq_base_url"`
	GroqToken             string   `toml:"groq_token" mapstructure:"groq_token"`
	PromptDirs            []string `toml:"prompt_dirs" mapstructure:"prompt_dirs"`
	OutputDir             string   `toml:"output_dir" mapstructure:"output_dir"`
	HistoryDB             string   `toml:"history_db" mapstructure:"history_db"`
	ContextWindowMessages int      `toml:"context_window_messages" mapstructure:"context_window_messages"` // 0 = unbounded
	ContextWindowTokens   int      `toml:"context_window_tokens" mapstructure:"context_window_tokens"`     // 0 = unbounded
	SessionRetentionDays  int      `toml:"session_retention_days" mapstructure:"session_retention_days"`   // 0 = keep forever
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig(promptDir string) *Config {
	return &Config{
		Model:                 agentlab.DefaultModel,
		EmbeddingModel:        agentlab.DefaultEmbeddingModel,
		GeminiBaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		GeminiToken:           "$GOOGLE_API_KEY", // Default to env var
		GroqBaseURL:           "https://api.groq.com/openai/v1",
		GroqToken:             "$GROQ_API_KEY",
		PromptDirs:            []string{promptDir},
		OutputDir:             "outputs",
		HistoryDB:             "", // resolved to <config dir>/chat_history.db
		ContextWindowMessages: 0,
		ContextWindowTokens:   0,
		SessionRetentionDays:  30,
	}
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	// Expand $VAR references in tokens once, at load time
	config.GeminiToken = expandEnvVar(config.GeminiToken)
	config.GroqToken = expandEnvVar(config.GroqToken)

	// Convert prompt directories to absolute paths
	for i, promptDir := range config.PromptDirs {
		absPath, err := ResolvePath(promptDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving prompt directory path '%s': %v", promptDir, err)
		}
		config.PromptDirs[i] = absPath
	}

	return config, nil
}
