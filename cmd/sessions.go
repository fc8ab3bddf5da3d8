package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/gkassa/agentlab/internal/agentlab/config"
	"github.com/gkassa/agentlab/internal/agentlab/session"
	"github.com/spf13/cobra"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
	Long: `Manage the chat sessions stored in the local history database.

Sessions are created by 'agentlab chat' and identified by UUID; most
subcommands accept a short ID prefix (at least 4 characters) or
'latest' for the most recently updated session.`,
}

// openSessionStore opens the history database from the configuration.
func openSessionStore() (*session.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	dbPath, err := cfg.HistoryDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolving history database path: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "History database: %s\n", dbPath)
	}
	store, err := session.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	return store, nil
}

// sessionsListCmd represents the sessions list command
var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSessionStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sessions, err := store.List()
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			fmt.Println("Start one with: agentlab chat \"your message\"")
			return nil
		}

		fmt.Printf("%-10s  %-24s  %-22s  %-8s  %s\n", "ID", "NAME", "MODEL", "MESSAGES", "UPDATED")
		fmt.Printf("%s  %s  %s  %s  %s\n",
			strings.Repeat("-", 10),
			strings.Repeat("-", 24),
			strings.Repeat("-", 22),
			strings.Repeat("-", 8),
			strings.Repeat("-", 16))
		for _, sess := range sessions {
			fmt.Printf("%-10s  %-24s  %-22s  %-8d  %s\n",
				sess.ShortID(),
				sess.DisplayName(),
				sess.Model,
				sess.MessageCount(),
				sess.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

// sessionsShowCmd represents the sessions show command
var sessionsShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Show a session's conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSessionStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		fmt.Printf("Session: %s\n", sess.ShortID())
		fmt.Printf("Name: %s\n", sess.DisplayName())
		fmt.Printf("Model: %s\n", sess.Model)
		if sess.SystemPrompt != "" {
			fmt.Printf("System prompt: %s\n", sess.SystemPrompt)
		}
		fmt.Printf("Created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("Messages: %d\n\n", sess.MessageCount())

		for _, msg := range sess.Messages {
			fmt.Printf("[%s] %s\n\n", msg.Role, msg.Content)
		}
		return nil
	},
}

// sessionsDeleteCmd represents the sessions delete command
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSessionStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}
		if err := store.Delete(sess.ID); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
		fmt.Printf("Deleted session: %s\n", sess.ShortID())
		return nil
	},
}

// sessionsPruneCmd represents the sessions prune command
var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions older than the retention period",
	Long: `Delete sessions whose last update is older than the configured
retention period (session_retention_days). A retention of 0 keeps
everything; use --days to override the configured value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		days := cfg.SessionRetentionDays
		if cmd.Flags().Changed("days") {
			days, _ = cmd.Flags().GetInt("days")
		}

		store, err := openSessionStore()
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.Prune(days)
		if err != nil {
			return fmt.Errorf("pruning sessions: %w", err)
		}
		if deleted == 0 {
			fmt.Println("No sessions to prune.")
		} else {
			fmt.Printf("Pruned %d session(s) older than %d days.\n", deleted, days)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsPruneCmd)

	sessionsPruneCmd.Flags().Int("days", 0, "Override the configured retention period in days")
}
