package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gkassa/agentlab/internal/agentlab"
)

// FormatMessage formats the message with the named prompt template.
// Returns the formatted system prompt, the formatted user message, and
// the model pinned by the template (if any). When promptName is empty,
// the message passes through untouched.
func FormatMessage(message string, promptName string, promptDirs []string, args []string) (string, string, *string, error) {
	if promptName == "" {
		return "", message, nil, nil
	}

	// Add .toml extension if not present
	promptFile := promptName
	if !strings.HasSuffix(promptFile, ".toml") {
		promptFile = promptFile + ".toml"
	}

	// Search for the prompt file in all directories; later directories
	// take precedence, so keep searching after a hit.
	var promptPath string
	var found bool
	for _, promptDir := range promptDirs {
		candidatePath := filepath.Join(promptDir, promptFile)
		if _, err := os.Stat(candidatePath); err == nil {
			promptPath = candidatePath
			found = true
		}
	}

	if !found {
		return "", "", nil, fmt.Errorf("prompt file '%s' not found in any of the prompt directories: %v", promptFile, promptDirs)
	}

	promptTemplate, err := LoadPrompt(promptPath)
	if err != nil {
		return "", "", nil, fmt.Errorf("error loading prompt file: %v", err)
	}

	argMap, err := processArgs(args)
	if err != nil {
		return "", "", nil, fmt.Errorf("error processing arguments: %v", err)
	}

	replacements := make(map[string]string)
	replacements["input"] = message
	for key, value := range argMap {
		replacements[key] = value
	}

	systemPrompt := promptTemplate.System
	userPrompt := promptTemplate.User
	for key, value := range replacements {
		placeholder := fmt.Sprintf("{{%s}}", key)
		systemPrompt = strings.ReplaceAll(systemPrompt, placeholder, value)
		userPrompt = strings.ReplaceAll(userPrompt, placeholder, value)
	}

	// Validate the pinned model against the allow-list
	if promptTemplate.Model != nil {
		if _, err := agentlab.Resolve(*promptTemplate.Model); err != nil {
			return "", "", nil, fmt.Errorf("invalid model in prompt template: %w", err)
		}
	}

	return systemPrompt, userPrompt, promptTemplate.Model, nil
}

// processArgs processes the command line arguments and returns a map of key-value pairs
func processArgs(args []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, arg := range args {
		// Handle quoted values
		arg = strings.TrimSpace(arg)
		if strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
			arg = strings.Trim(arg, `"`)
		}

		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid argument format: %s. Expected format: key:value", arg)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove escape characters from value
		value = strings.ReplaceAll(value, `\:`, ":")
		value = strings.ReplaceAll(value, `\"`, `"`)

		if key == "input" {
			return nil, fmt.Errorf("'input' is a reserved keyword and cannot be used as a key")
		}
		result[key] = value
	}
	return result, nil
}
