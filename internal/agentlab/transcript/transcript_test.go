package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/gkassa/agentlab/internal/agentlab/convo"
)

func sampleTranscript() *Transcript {
	return &Transcript{
		Title:   "Study Session",
		Model:   "gemini-1.5-flash",
		Task:    "explain recursion",
		Started: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Entries: []convo.Entry{
			{Message: agentlab.Message{Role: agentlab.RoleUser, Content: "explain recursion"}, Sender: "student"},
			{Message: agentlab.Message{Role: agentlab.RoleAssistant, Content: "A function that calls itself."}, Sender: "tutor"},
		},
	}
}

func TestRender(t *testing.T) {
	out := sampleTranscript().Render()

	for _, want := range []string{
		"title: Study Session",
		"model: gemini-1.5-flash",
		"messages: 2",
		"# Study Session",
		"Task: explain recursion",
		"## student",
		"## tutor",
		"A function that calls itself.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered transcript missing %q", want)
		}
	}
}

func TestRenderFallsBackToRoleLabel(t *testing.T) {
	tr := sampleTranscript()
	tr.Entries[0].Sender = ""
	out := tr.Render()
	if !strings.Contains(out, "## user") {
		t.Errorf("expected role label fallback, got:\n%s", out)
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	path, err := sampleTranscript().Write(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Base(path) != "study-session-20250314-093000.md" {
		t.Errorf("unexpected file name: %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read transcript: %v", err)
	}
	if !strings.Contains(string(data), "# Study Session") {
		t.Errorf("written transcript missing title")
	}
}

func TestWriteEmptyTranscript(t *testing.T) {
	tr := sampleTranscript()
	tr.Entries = nil
	if _, err := tr.Write(t.TempDir()); err == nil {
		t.Error("expected error for empty transcript")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Study Session", "study-session"},
		{"  lots   of spaces ", "lots-of-spaces"},
		{"Déjà vu!", "d-j-vu"},
		{"???", "transcript"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
