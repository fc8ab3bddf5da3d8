package agentlab

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind ProviderKind
		wantErr  bool
	}{
		{
			name:     "gemini flash",
			input:    "gemini-1.5-flash",
			wantKind: ProviderGemini,
			wantErr:  false,
		},
		{
			name:     "gemini pro",
			input:    "gemini-1.5-pro",
			wantKind: ProviderGemini,
			wantErr:  false,
		},
		{
			name:     "groq llama3",
			input:    "llama3-8b-8192",
			wantKind: ProviderGroq,
			wantErr:  false,
		},
		{
			name:    "unknown model",
			input:   "gpt-4",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "case sensitive",
			input:   "Gemini-1.5-Flash",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := Resolve(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				var unsupported *UnsupportedModelError
				if !errors.As(err, &unsupported) {
					t.Errorf("Resolve() error type = %T, want *UnsupportedModelError", err)
				} else if unsupported.Model != tt.input {
					t.Errorf("UnsupportedModelError.Model = %q, want %q", unsupported.Model, tt.input)
				}
				return
			}
			if kind != tt.wantKind {
				t.Errorf("Resolve() kind = %v, want %v", kind, tt.wantKind)
			}
		})
	}
}

func TestAvailableModelsSorted(t *testing.T) {
	models := AvailableModels()
	if len(models) != len(registry) {
		t.Fatalf("AvailableModels() returned %d models, want %d", len(models), len(registry))
	}
	for i := 1; i < len(models); i++ {
		if models[i-1] >= models[i] {
			t.Errorf("AvailableModels() not sorted: %q before %q", models[i-1], models[i])
		}
	}
}

func TestDefaultModelIsRegistered(t *testing.T) {
	if _, err := Resolve(DefaultModel); err != nil {
		t.Errorf("default model %q is not in the registry: %v", DefaultModel, err)
	}
}
