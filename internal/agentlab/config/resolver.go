package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/spf13/viper"
)

// expandEnvVar expands an environment variable reference in the given value.
// Supports both $VAR and ${VAR} syntax. Values without a leading $ are
// returned as-is; an unset variable expands to the empty string.
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}

	var envVarName string
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	return os.Getenv(envVarName)
}

// BaseURL returns the base URL for the specified provider.
func (c *Config) BaseURL(kind agentlab.ProviderKind) (string, error) {
	var baseURL string
	switch kind {
	case agentlab.ProviderGemini:
		baseURL = c.GeminiBaseURL
	case agentlab.ProviderGroq:
		baseURL = c.GroqBaseURL
	default:
		return "", fmt.Errorf("unsupported provider: %s", kind)
	}

	if baseURL == "" {
		return "", fmt.Errorf("%s base URL is not configured. Set it in the config file (%s_base_url) or environment variable (AGENTLAB_%s_BASE_URL)", kind, kind, strings.ToUpper(string(kind)))
	}

	return baseURL, nil
}

// Credential returns the API key for the specified provider.
// Environment variable references are already expanded during LoadConfig().
func (c *Config) Credential(kind agentlab.ProviderKind) (string, error) {
	var token, key string
	switch kind {
	case agentlab.ProviderGemini:
		token, key = c.GeminiToken, "gemini_token"
	case agentlab.ProviderGroq:
		token, key = c.GroqToken, "groq_token"
	default:
		return "", fmt.Errorf("unsupported provider: %s", kind)
	}

	if token == "" {
		return "", &agentlab.MissingCredentialError{Provider: string(kind), Key: key}
	}

	return token, nil
}

// HistoryDBPath returns the sqlite database path for chat history.
// Falls back to chat_history.db next to the config file.
func (c *Config) HistoryDBPath() (string, error) {
	if c.HistoryDB != "" {
		return ResolvePath(c.HistoryDB)
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chat_history.db"), nil
}

// ResolvePath converts a relative path to absolute path if needed
func ResolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, path), nil
}

// configDir returns the directory of the config file in use, or the
// current working directory when no config file was loaded.
func configDir() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %v", err)
		}
		return cwd, nil
	}

	dir := filepath.Dir(configFile)
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %v", err)
		}
		dir = filepath.Join(cwd, dir)
	}
	return dir, nil
}
