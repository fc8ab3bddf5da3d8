// Package extract parses structured entity output from model responses.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gkassa/agentlab/internal/agentlab"
)

// EntityType classifies an extracted entity.
type EntityType string

const (
	EntityModel EntityType = "model"
	EntityTask  EntityType = "task"
)

// Entity is one item pulled out of the source text.
type Entity struct {
	Type EntityType `json:"type"`
	Name string     `json:"name"`
}

// Result is the full structured output of one extraction.
type Result struct {
	Entities []Entity `json:"entities"`
}

// Instruction is the system prompt that pins the model to the expected
// JSON shape. Kept in one place so the parser and the prompt never
// drift apart.
const Instruction = `Extract entities from the user's text. Respond with ONLY a JSON object of the form
{"entities":[{"type":"model","name":"..."},{"type":"task","name":"..."}]}
where type is "model" for AI model names and "task" for activities or objectives.
Do not include any other text.`

// Parse decodes a model response into a Result. Responses wrapped in
// markdown code fences are unwrapped first. Any decoding or validation
// failure returns a ParseError carrying the raw response.
func Parse(raw string) (*Result, error) {
	cleaned := stripFences(raw)

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &agentlab.ParseError{Raw: raw, Err: err}
	}

	for _, entity := range result.Entities {
		if entity.Type != EntityModel && entity.Type != EntityTask {
			return nil, &agentlab.ParseError{Raw: raw, Err: fmt.Errorf("unknown entity type %q", entity.Type)}
		}
		if entity.Name == "" {
			return nil, &agentlab.ParseError{Raw: raw, Err: fmt.Errorf("entity with empty name")}
		}
	}

	return &result, nil
}

// stripFences removes a surrounding markdown code fence, with or
// without a language tag. Models add one even when told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
