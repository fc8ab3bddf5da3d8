package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/gkassa/agentlab/internal/agentlab/config"
	"github.com/gkassa/agentlab/internal/agentlab/convo"
	"github.com/gkassa/agentlab/internal/agentlab/extract"
	"github.com/gkassa/agentlab/internal/agentlab/transcript"
	"github.com/spf13/cobra"
)

var (
	extractModel        string
	extractNoTranscript bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract typed entities from text as JSON",
	Long: `Ask the LLM to extract entities from the given text and print them
as JSON. The model is instructed to return only a JSON object with an
"entities" array; each entity has a type ("model" or "task") and a
name. A response that does not parse is reported with the raw output.

If no text is provided as an argument, it reads from stdin.
The prompt, raw response, and parsed result are saved to the output
directory unless --no-transcript is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		text, err := readMessage(args, false)
		if err != nil {
			return err
		}
		if text == "" {
			return fmt.Errorf("empty input text")
		}

		model, err := resolveModel(cfg, extractModel, cmd.Flags().Changed("model"))
		if err != nil {
			return err
		}

		provider, err := newProvider(cfg, model)
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}
		provider.SetDebug(verbose)

		started := time.Now()
		raw, err := provider.ChatWithHistory(extract.Instruction, nil, text)
		if err != nil {
			return fmt.Errorf("extraction request failed: %w", err)
		}

		result, err := extract.Parse(raw)
		if err != nil {
			var parseErr *agentlab.ParseError
			if errors.As(err, &parseErr) {
				fmt.Fprintf(os.Stderr, "Raw response:\n%s\n", parseErr.Raw)
			}
			return fmt.Errorf("parsing extraction output: %w", err)
		}

		pretty, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Println(string(pretty))

		if !extractNoTranscript {
			tr := &transcript.Transcript{
				Title:   "Entity Extraction",
				Model:   model,
				Task:    text,
				Started: started,
				Entries: []convo.Entry{
					{Message: agentlab.NewMessage(agentlab.RoleSystem, extract.Instruction), Sender: "instruction"},
					{Message: agentlab.NewMessage(agentlab.RoleUser, text), Sender: "input"},
					{Message: agentlab.NewMessage(agentlab.RoleAssistant, raw), Sender: "raw"},
					{Message: agentlab.NewMessage(agentlab.RoleAssistant, string(pretty)), Sender: "parsed"},
				},
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
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractModel, "model", "m", "", "Model to use (e.g., gemini-1.5-flash)")
	extractCmd.Flags().BoolVar(&extractNoTranscript, "no-transcript", false, "Do not write a markdown transcript")
}
