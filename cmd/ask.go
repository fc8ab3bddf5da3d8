package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/gkassa/agentlab/internal/agentlab/config"
	promptpkg "github.com/gkassa/agentlab/internal/agentlab/prompt"
	"github.com/spf13/cobra"
)

var (
	askModel     string
	askPrompt    string
	askArgFlags  []string
	askUseEditor bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send a single message to the LLM",
	Long: `Send a single message to the LLM and print the response.
This command performs a one-time API call without any session state.

For persistent multi-turn conversations, use 'agentlab chat' instead.

If no message is provided as an argument, it reads from stdin.
If --editor flag is set, it opens the default editor (from EDITOR environment variable) to compose the message.

The prompt file should be in TOML format with the following structure:
system = "System prompt with optional {{input}} placeholder"
user = "User prompt with optional {{input}} placeholder"
model = "optional-model-name"  # Optional: overrides the default model for this prompt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		message, err := readMessage(args, askUseEditor)
		if err != nil {
			return err
		}

		system, user, promptModel, err := promptpkg.FormatMessage(message, askPrompt, cfg.PromptDirs, askArgFlags)
		if err != nil {
			return fmt.Errorf("formatting message with prompt: %w", err)
		}

		// Model priority: flag > prompt template pin > config.
		if promptModel != nil && !cmd.Flags().Changed("model") {
			cfg.Model = *promptModel
			if verbose {
				fmt.Fprintf(os.Stderr, "Using model from prompt file: %s\n", cfg.Model)
			}
		}
		model, err := resolveModel(cfg, askModel, cmd.Flags().Changed("model"))
		if err != nil {
			return err
		}

		provider, err := newProvider(cfg, model)
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}
		provider.SetDebug(verbose)

		var response string
		if system != "" {
			response, err = provider.ChatWithHistory(system, nil, user)
		} else {
			response, err = provider.Chat(user)
		}
		if err != nil {
			return fmt.Errorf("chat request failed: %w", err)
		}

		fmt.Println(response)
		return nil
	},
}

// readMessage returns the message from arguments, the editor, or stdin.
func readMessage(args []string, useEditor bool) (string, error) {
	if useEditor {
		message, err := getMessageFromEditor()
		if err != nil {
			return "", fmt.Errorf("getting message from editor: %w", err)
		}
		return message, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading from stdin: %w", err)
	}
	return strings.TrimSpace(string(input)), nil
}

// getMessageFromEditor opens the default editor and returns the edited message
func getMessageFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return "", fmt.Errorf("EDITOR environment variable is not set")
	}

	tmpFile, err := os.CreateTemp("", "agentlab-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	cmd := exec.Command(editor, tmpFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to open editor: %v", err)
	}

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %v", err)
	}

	return strings.TrimSpace(string(content)), nil
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "Model to use (e.g., gemini-1.5-flash)")
	askCmd.Flags().StringVarP(&askPrompt, "prompt", "p", "", "Name of the prompt template (without .toml extension)")
	askCmd.Flags().StringArrayVar(&askArgFlags, "arg", []string{}, "Key-value pairs for prompt template (format: key:value)")
	askCmd.Flags().BoolVarP(&askUseEditor, "editor", "e", false, "Use default editor (from EDITOR environment variable) to compose message")
}
