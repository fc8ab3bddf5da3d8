package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkassa/agentlab/internal/agentlab"
)

func TestLoadEnvMissingFile(t *testing.T) {
	err := LoadEnv(filepath.Join(t.TempDir(), ".env"))
	if err == nil {
		t.Fatal("LoadEnv() on a missing file should fail")
	}
	if !errors.Is(err, agentlab.ErrConfigMissing) {
		t.Errorf("LoadEnv() error = %v, want ErrConfigMissing", err)
	}
}

func TestLoadEnvSetsVariables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("AGENTLAB_TEST_KEY=from-env-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AGENTLAB_TEST_KEY", "preexisting")

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	// Overload semantics: the file wins over preexisting values.
	if got := os.Getenv("AGENTLAB_TEST_KEY"); got != "from-env-file" {
		t.Errorf("AGENTLAB_TEST_KEY = %q, want %q", got, "from-env-file")
	}
}

func TestLoadEnvIfPresent(t *testing.T) {
	if err := LoadEnvIfPresent(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("LoadEnvIfPresent() on a missing file = %v, want nil", err)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("AGENTLAB_EXPAND_TEST", "secret")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain value", input: "abc123", want: "abc123"},
		{name: "dollar syntax", input: "$AGENTLAB_EXPAND_TEST", want: "secret"},
		{name: "brace syntax", input: "${AGENTLAB_EXPAND_TEST}", want: "secret"},
		{name: "unset variable", input: "$AGENTLAB_UNSET_TEST", want: ""},
		{name: "empty value", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnvVar(tt.input); got != tt.want {
				t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCredential(t *testing.T) {
	cfg := &Config{GeminiToken: "g-token", GroqToken: ""}

	got, err := cfg.Credential(agentlab.ProviderGemini)
	if err != nil {
		t.Fatalf("Credential(gemini) error = %v", err)
	}
	if got != "g-token" {
		t.Errorf("Credential(gemini) = %q, want %q", got, "g-token")
	}

	_, err = cfg.Credential(agentlab.ProviderGroq)
	var missing *agentlab.MissingCredentialError
	if !errors.As(err, &missing) {
		t.Fatalf("Credential(groq) error = %v, want MissingCredentialError", err)
	}
	if missing.Provider != "groq" {
		t.Errorf("MissingCredentialError.Provider = %q, want %q", missing.Provider, "groq")
	}
}
