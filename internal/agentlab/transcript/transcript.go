// Package transcript renders finished conversations as markdown files.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gkassa/agentlab/internal/agentlab/convo"
)

// Transcript describes a conversation run that is about to be written out.
type Transcript struct {
	Title   string
	Model   string
	Task    string
	Started time.Time
	Entries []convo.Entry
}

// Render produces the markdown document for the transcript.
func (t *Transcript) Render() string {
	var sb strings.Builder

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("title: %s\n", t.Title))
	if t.Model != "" {
		sb.WriteString(fmt.Sprintf("model: %s\n", t.Model))
	}
	sb.WriteString(fmt.Sprintf("date: %s\n", t.Started.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("messages: %d\n", len(t.Entries)))
	sb.WriteString("---\n\n")

	sb.WriteString(fmt.Sprintf("# %s\n\n", t.Title))
	if t.Task != "" {
		sb.WriteString(fmt.Sprintf("Task: %s\n\n", t.Task))
	}

	for i, entry := range t.Entries {
		label := entry.Sender
		if label == "" {
			label = string(entry.Role)
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", label))
		sb.WriteString(strings.TrimSpace(entry.Content))
		sb.WriteString("\n")
		if i < len(t.Entries)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// Write saves the rendered transcript under dir and returns the file path.
// The directory is created if it does not exist, and the file name is
// derived from the title and start time so repeated runs never collide.
func (t *Transcript) Write(dir string) (string, error) {
	if len(t.Entries) == 0 {
		return "", fmt.Errorf("transcript has no messages")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.md", slugify(t.Title), t.Started.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(t.Render()), 0644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return path, nil
}

// slugify lowercases the title and collapses everything that is not a
// letter or digit into single hyphens.
func slugify(s string) string {
	var sb strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				sb.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	out := strings.TrimSuffix(sb.String(), "-")
	if out == "" {
		out = "transcript"
	}
	return out
}
