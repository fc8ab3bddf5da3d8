package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePromptFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFormatMessagePassthrough(t *testing.T) {
	system, user, model, err := FormatMessage("hello", "", nil, nil)
	if err != nil {
		t.Fatalf("FormatMessage() error = %v", err)
	}
	if system != "" || user != "hello" || model != nil {
		t.Errorf("FormatMessage() = (%q, %q, %v), want (\"\", \"hello\", nil)", system, user, model)
	}
}

func TestFormatMessageSubstitution(t *testing.T) {
	dir := t.TempDir()
	writePromptFile(t, dir, "support.toml", `
system = "You are a support specialist for {{product}}."
user = "Customer issue: {{input}}. Respond in a {{tone}} tone."
`)

	system, user, _, err := FormatMessage(
		"device won't connect",
		"support",
		[]string{dir},
		[]string{"product:SmartHome Hub", "tone:empathetic"},
	)
	if err != nil {
		t.Fatalf("FormatMessage() error = %v", err)
	}
	if want := "You are a support specialist for SmartHome Hub."; system != want {
		t.Errorf("system = %q, want %q", system, want)
	}
	if !strings.Contains(user, "device won't connect") || !strings.Contains(user, "empathetic") {
		t.Errorf("user = %q, missing substitutions", user)
	}
}

func TestFormatMessageLaterDirWins(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	writePromptFile(t, low, "p.toml", `user = "low {{input}}"`)
	writePromptFile(t, high, "p.toml", `user = "high {{input}}"`)

	_, user, _, err := FormatMessage("x", "p", []string{low, high}, nil)
	if err != nil {
		t.Fatalf("FormatMessage() error = %v", err)
	}
	if user != "high x" {
		t.Errorf("user = %q, want %q (later directory should take precedence)", user, "high x")
	}
}

func TestFormatMessageNotFound(t *testing.T) {
	_, _, _, err := FormatMessage("x", "missing", []string{t.TempDir()}, nil)
	if err == nil {
		t.Fatal("FormatMessage() should fail for a missing prompt file")
	}
}

func TestFormatMessagePinnedModelValidated(t *testing.T) {
	dir := t.TempDir()
	writePromptFile(t, dir, "good.toml", `
user = "{{input}}"
model = "llama3-8b-8192"
`)
	writePromptFile(t, dir, "bad.toml", `
user = "{{input}}"
model = "gpt-4"
`)

	_, _, model, err := FormatMessage("x", "good", []string{dir}, nil)
	if err != nil {
		t.Fatalf("FormatMessage() error = %v", err)
	}
	if model == nil || *model != "llama3-8b-8192" {
		t.Errorf("model = %v, want llama3-8b-8192", model)
	}

	if _, _, _, err := FormatMessage("x", "bad", []string{dir}, nil); err == nil {
		t.Error("FormatMessage() should reject a pinned model outside the allow-list")
	}
}

func TestProcessArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "basic pairs",
			args: []string{"tone:formal", "product:Hub"},
			want: map[string]string{"tone": "formal", "product": "Hub"},
		},
		{
			name: "escaped colon",
			args: []string{`url:https\://example.com`},
			want: map[string]string{"url": "https://example.com"},
		},
		{
			name:    "missing colon",
			args:    []string{"tone"},
			wantErr: true,
		},
		{
			name:    "reserved input key",
			args:    []string{"input:x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := processArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("processArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("processArgs()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
