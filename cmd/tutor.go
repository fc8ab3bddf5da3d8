package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gkassa/agentlab/internal/agentlab/config"
	"github.com/gkassa/agentlab/internal/agentlab/convo"
	"github.com/gkassa/agentlab/internal/agentlab/team"
	"github.com/gkassa/agentlab/internal/agentlab/transcript"
	"github.com/gkassa/agentlab/internal/fstool"
	"github.com/spf13/cobra"
)

const tutorSentinel = "LESSON COMPLETED"

var (
	tutorModel       string
	tutorMaxMessages int
	tutorSystem      string
	tutorFSServer    string
)

// tutorCmd represents the tutor command
var tutorCmd = &cobra.Command{
	Use:   "tutor [topic]",
	Short: "Run an interactive lesson with a tutor agent",
	Long: `Run an interactive lesson between you and a tutor agent.
The tutor speaks first about the topic, then you alternate turns on
stdin. The lesson ends when the tutor says "` + tutorSentinel + `" or
when the message cap is reached.

With --fs-server the finished transcript is written through an external
filesystem tool server instead of directly; the flag value is the
command that starts the server (it must speak line-delimited JSON-RPC
on stdio and accept write_file calls).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		model, err := resolveModel(cfg, tutorModel, cmd.Flags().Changed("model"))
		if err != nil {
			return err
		}

		provider, err := newProvider(cfg, model)
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}
		provider.SetDebug(verbose)

		tutor := team.NewAgent("tutor", tutorSystem, provider)
		student := team.NewHumanProxy("you", os.Stdin, os.Stderr)

		termination := team.Any{
			team.TextMention{Text: tutorSentinel},
			team.MaxMessages{Max: tutorMaxMessages},
		}
		rr, err := team.NewRoundRobin([]team.Participant{tutor, student}, termination)
		if err != nil {
			return err
		}
		rr.OnMessage(func(e convo.Entry) {
			// The student already sees their own line as they type it.
			if e.Sender == "tutor" {
				fmt.Printf("tutor> %s\n", e.Content)
			}
		})

		started := time.Now()
		topic := args[0]
		task := fmt.Sprintf("Teach me about: %s", topic)
		if err := rr.Run(task); err != nil {
			return fmt.Errorf("running lesson: %w", err)
		}

		tr := &transcript.Transcript{
			Title:   fmt.Sprintf("Lesson: %s", topic),
			Model:   model,
			Task:    task,
			Started: started,
			Entries: rr.Conversation().Entries(),
		}

		if tutorFSServer != "" {
			if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			client, err := fstool.Start(context.Background(), tutorFSServer, cfg.OutputDir)
			if err != nil {
				return fmt.Errorf("starting tool server: %w", err)
			}
			defer client.Close()

			name := fmt.Sprintf("lesson-%s.md", started.Format("20060102-150405"))
			if err := client.WriteFile(name, tr.Render()); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Transcript saved via tool server: %s\n", name)
			return nil
		}

		path, err := tr.Write(cfg.OutputDir)
		if err != nil {
			return fmt.Errorf("writing transcript: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Transcript saved: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tutorCmd)

	tutorCmd.Flags().StringVarP(&tutorModel, "model", "m", "", "Model to use for the tutor (e.g., gemini-1.5-flash)")
	tutorCmd.Flags().IntVar(&tutorMaxMessages, "max-messages", 20, "Stop once the conversation holds this many messages")
	tutorCmd.Flags().StringVar(&tutorSystem, "system",
		fmt.Sprintf("You are a patient tutor. Teach the requested topic step by step, then quiz the student. When the student has answered correctly, say %q.", tutorSentinel),
		"System instruction for the tutor agent")
	tutorCmd.Flags().StringVar(&tutorFSServer, "fs-server", "", "Command for an external filesystem tool server used to write the transcript")
}
