package cmd

import (
	"fmt"
	"os"

	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/gkassa/agentlab/internal/agentlab/config"
	"github.com/gkassa/agentlab/internal/agentlab/convo"
	promptpkg "github.com/gkassa/agentlab/internal/agentlab/prompt"
	"github.com/gkassa/agentlab/internal/agentlab/session"
	"github.com/spf13/cobra"
)

var (
	chatModel       string
	chatPrompt      string
	chatArgFlags    []string
	chatUseEditor   bool
	chatSessionID   string
	chatNewSession  bool
	chatSessionName string
	chatWindowMsgs  int
	chatWindowToks  int
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send a message in a persistent chat session",
	Long: `Send a message in a persistent chat session and print the response.
Each session stores its full conversation history in a local sqlite
database, and the history is sent back to the provider on every turn.

Without --session a new session is created; --new-session makes that
explicit. Use --session with a short ID prefix (or 'latest') to
continue an existing one.

If no message is provided as an argument, it reads from stdin.
If --editor flag is set, it opens the default editor (from EDITOR environment variable) to compose the message.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if chatSessionID != "" && chatNewSession {
			return fmt.Errorf("cannot specify both --session and --new-session")
		}

		if chatSessionID != "" && chatPrompt != "" {
			return fmt.Errorf("cannot use --prompt with an existing session")
		}

		message, err := readMessage(args, chatUseEditor)
		if err != nil {
			return err
		}
		if message == "" {
			return fmt.Errorf("empty message")
		}

		dbPath, err := cfg.HistoryDBPath()
		if err != nil {
			return fmt.Errorf("resolving history database path: %w", err)
		}
		store, err := session.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer store.Close()

		var sess *session.Session
		isNewSession := false

		if chatSessionID != "" {
			sess, err = store.FindByPrefix(chatSessionID)
			if err != nil {
				return fmt.Errorf("finding session: %w", err)
			}
			if warning := modelOverrideWarning(cmd.Flags().Changed("model"), chatModel, sess.Model); warning != "" {
				fmt.Fprint(os.Stderr, warning)
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "Continuing session: %s\n", sess.ShortID())
				fmt.Fprintf(os.Stderr, "Model: %s\n", sess.Model)
			}
		} else {
			isNewSession = true

			var systemPrompt string
			if chatPrompt != "" {
				system, user, promptModel, err := promptpkg.FormatMessage(message, chatPrompt, cfg.PromptDirs, chatArgFlags)
				if err != nil {
					return fmt.Errorf("formatting message with prompt: %w", err)
				}
				systemPrompt = system
				message = user
				if promptModel != nil && !cmd.Flags().Changed("model") {
					cfg.Model = *promptModel
				}
			}

			model, err := resolveModel(cfg, chatModel, cmd.Flags().Changed("model"))
			if err != nil {
				return err
			}

			sess = session.New(model)
			sess.Name = chatSessionName
			sess.SystemPrompt = systemPrompt

			if verbose {
				fmt.Fprintf(os.Stderr, "Creating new session: %s\n", sess.ShortID())
				fmt.Fprintf(os.Stderr, "Model: %s\n", sess.Model)
			}
		}

		provider, err := newProvider(cfg, sess.Model)
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}
		provider.SetDebug(verbose)

		// Rebuild the conversation from the stored session so the driver
		// resends the prior turns.
		conv := convo.New()
		for _, msg := range sess.Messages {
			conv.Append("", msg.Role, msg.Content)
		}
		driver := convo.NewDriverWith(provider, sess.SystemPrompt, conv)
		windowMsgs := cfg.ContextWindowMessages
		if cmd.Flags().Changed("window-messages") {
			windowMsgs = chatWindowMsgs
		}
		windowToks := cfg.ContextWindowTokens
		if cmd.Flags().Changed("window-tokens") {
			windowToks = chatWindowToks
		}
		if windowMsgs > 0 || windowToks > 0 {
			driver.SetWindow(convo.NewWindow(windowMsgs, windowToks))
		}

		response, err := driver.Send(message)
		if err != nil {
			return fmt.Errorf("chat request failed: %w", err)
		}

		sess.AddMessage(agentlab.RoleUser, message)
		sess.AddMessage(agentlab.RoleAssistant, response)
		if err := store.Save(sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Println(response)

		if isNewSession {
			fmt.Fprintf(os.Stderr, "\nSession created: %s\n", sess.ShortID())
			fmt.Fprintf(os.Stderr, "Next time, use:\n  agentlab chat -s %s \"your message\"\n", sess.ShortID())
		}

		return nil
	},
}

// modelOverrideWarning reports the notice shown when --model is passed
// while continuing an existing session. The session stays bound to the
// model it was created with.
func modelOverrideWarning(flagChanged bool, flagModel, sessionModel string) string {
	if !flagChanged || flagModel == sessionModel {
		return ""
	}
	return fmt.Sprintf("Warning: --model %s is ignored; this session is bound to %s\n", flagModel, sessionModel)
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "Model to use (e.g., gemini-1.5-flash)")
	chatCmd.Flags().StringVarP(&chatPrompt, "prompt", "p", "", "Name of the prompt template for a new session (without .toml extension)")
	chatCmd.Flags().StringArrayVar(&chatArgFlags, "arg", []string{}, "Key-value pairs for prompt template (format: key:value)")
	chatCmd.Flags().BoolVarP(&chatUseEditor, "editor", "e", false, "Use default editor (from EDITOR environment variable) to compose message")
	chatCmd.Flags().StringVarP(&chatSessionID, "session", "s", "", "Session ID (short or full UUID, or 'latest' for most recent session)")
	chatCmd.Flags().BoolVarP(&chatNewSession, "new-session", "n", false, "Create a new session")
	chatCmd.Flags().StringVar(&chatSessionName, "session-name", "", "Name for the new session (optional)")
	chatCmd.Flags().IntVar(&chatWindowMsgs, "window-messages", 0, "Resend at most this many recent messages (0 = full history)")
	chatCmd.Flags().IntVar(&chatWindowToks, "window-tokens", 0, "Resend at most this many tokens of history (0 = unbounded)")
}
