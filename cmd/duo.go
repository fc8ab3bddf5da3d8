package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/gkassa/agentlab/internal/agentlab/config"
	"github.com/gkassa/agentlab/internal/agentlab/convo"
	"github.com/gkassa/agentlab/internal/agentlab/team"
	"github.com/gkassa/agentlab/internal/agentlab/transcript"
	"github.com/spf13/cobra"
)

var (
	duoModel        string
	duoMaxMessages  int
	duoSentinel     string
	duoFirstName    string
	duoFirstSystem  string
	duoSecondName   string
	duoSecondSystem string
	duoNoTranscript bool
)

// duoCmd represents the duo command
var duoCmd = &cobra.Command{
	Use:   "duo [task]",
	Short: "Run a two-agent round-robin conversation",
	Long: `Run a round-robin conversation between two provider-backed agents.
The task message seeds a shared conversation and the agents alternate
turns until the message cap is reached or, if --sentinel is set, until
one of them utters the sentinel phrase. The seed message counts toward
the cap.

The finished exchange is written as a markdown transcript to the
output directory unless --no-transcript is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		model, err := resolveModel(cfg, duoModel, cmd.Flags().Changed("model"))
		if err != nil {
			return err
		}

		provider, err := newProvider(cfg, model)
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}
		provider.SetDebug(verbose)

		if duoMaxMessages < 2 {
			return fmt.Errorf("--max-messages must be at least 2")
		}

		var termination team.TerminationCondition = team.MaxMessages{Max: duoMaxMessages}
		if duoSentinel != "" {
			termination = team.Any{team.TextMention{Text: duoSentinel}, team.MaxMessages{Max: duoMaxMessages}}
		}

		first := team.NewAgent(duoFirstName, duoFirstSystem, provider)
		second := team.NewAgent(duoSecondName, duoSecondSystem, provider)

		rr, err := team.NewRoundRobin([]team.Participant{first, second}, termination)
		if err != nil {
			return err
		}
		rr.OnMessage(func(e convo.Entry) {
			label := e.Sender
			if label == "" {
				label = "task"
			}
			fmt.Printf("---------- %s ----------\n%s\n", label, e.Content)
		})

		started := time.Now()
		task := args[0]
		if err := rr.Run(task); err != nil {
			return fmt.Errorf("running team: %w", err)
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "Terminated after %d messages (%s)\n", rr.Conversation().Len(), termination.Description())
		}

		if !duoNoTranscript {
			tr := &transcript.Transcript{
				Title:   fmt.Sprintf("%s and %s", duoFirstName, duoSecondName),
				Model:   model,
				Task:    task,
				Started: started,
				Entries: rr.Conversation().Entries(),
			}
			path, err := tr.Write(cfg.OutputDir)
			if err != nil {
				return fmt.Errorf("writing transcript: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Transcript saved: %s\n", path)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(duoCmd)

	duoCmd.Flags().StringVarP(&duoModel, "model", "m", "", "Model to use for both agents (e.g., gemini-1.5-flash)")
	duoCmd.Flags().IntVar(&duoMaxMessages, "max-messages", 8, "Stop once the conversation holds this many messages, seed included")
	duoCmd.Flags().StringVar(&duoSentinel, "sentinel", "", "Also stop on the first message containing this phrase (case-sensitive)")
	duoCmd.Flags().StringVar(&duoFirstName, "first-name", "mentor", "Name of the first agent")
	duoCmd.Flags().StringVar(&duoFirstSystem, "first-system", "You are an experienced engineer mentoring a new team member. Answer questions concisely and ask one follow-up to check understanding.", "System instruction for the first agent")
	duoCmd.Flags().StringVar(&duoSecondName, "second-name", "newhire", "Name of the second agent")
	duoCmd.Flags().StringVar(&duoSecondSystem, "second-system", "You are a curious new team member. Engage with the mentor's answers and ask clarifying questions.", "System instruction for the second agent")
	duoCmd.Flags().BoolVar(&duoNoTranscript, "no-transcript", false, "Do not write a markdown transcript")
}
