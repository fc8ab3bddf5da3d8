package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/gkassa/agentlab/internal/agentlab/config"
	"github.com/gkassa/agentlab/internal/gemini"
	"github.com/gkassa/agentlab/internal/groq"
	"github.com/spf13/cobra"
)

var modelsRemote bool

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List available models",
	Long: `List the models this tool can use.

By default the built-in registry is shown; these are the model names
accepted by --model flags. With --remote the latest model list is
fetched from each provider's API instead.

Supported providers: gemini, groq

Example:
  agentlab models              # List registered models
  agentlab models --remote     # Fetch model lists from all provider APIs
  agentlab models groq --remote`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !modelsRemote {
			fmt.Println("Registered models:")
			for _, model := range agentlab.AvailableModels() {
				kind, _ := agentlab.Resolve(model)
				defaultMark := ""
				if model == agentlab.DefaultModel {
					defaultMark = "  (default)"
				}
				fmt.Printf("  %-28s %s%s\n", model, kind, defaultMark)
			}
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		providers := []agentlab.ProviderKind{agentlab.ProviderGemini, agentlab.ProviderGroq}
		if len(args) > 0 {
			switch args[0] {
			case string(agentlab.ProviderGemini):
				providers = []agentlab.ProviderKind{agentlab.ProviderGemini}
			case string(agentlab.ProviderGroq):
				providers = []agentlab.ProviderKind{agentlab.ProviderGroq}
			default:
				return fmt.Errorf("unsupported provider '%s'\nSupported providers: gemini, groq", args[0])
			}
		}

		type providerResult struct {
			kind   agentlab.ProviderKind
			models []agentlab.ModelInfo
			err    error
		}

		var results []providerResult
		for _, kind := range providers {
			result := providerResult{kind: kind}

			if verbose {
				fmt.Fprintf(os.Stderr, "Listing models for provider: %s\n", kind)
			}

			var models []agentlab.ModelInfo
			var listErr error
			switch kind {
			case agentlab.ProviderGemini:
				p := gemini.NewProvider(cfg, agentlab.DefaultModel)
				p.SetDebug(verbose)
				models, listErr = p.ListModels()
			case agentlab.ProviderGroq:
				p := groq.NewProvider(cfg, agentlab.DefaultModel)
				p.SetDebug(verbose)
				models, listErr = p.ListModels()
			}

			if listErr != nil {
				result.err = fmt.Errorf("failed to list models: %w", listErr)
			} else if len(models) == 0 {
				result.err = fmt.Errorf("no models returned from API")
			} else {
				result.models = models
			}
			results = append(results, result)
		}

		successCount := 0
		for _, result := range results {
			if result.err != nil {
				continue
			}

			if successCount > 0 {
				fmt.Println()
			}
			successCount++

			fmt.Printf("Available models for %s:\n\n", result.kind)

			maxIDWidth := 15
			for _, model := range result.models {
				if len(model.ID) > maxIDWidth {
					maxIDWidth = len(model.ID)
				}
			}

			fmt.Printf("%-*s  %-10s  %s\n", maxIDWidth, "MODEL ID", "DEFAULT", "DESCRIPTION")
			fmt.Printf("%s  %s  %s\n",
				strings.Repeat("-", maxIDWidth),
				strings.Repeat("-", 10),
				strings.Repeat("-", 50))

			for _, model := range result.models {
				defaultMark := ""
				if model.IsDefault {
					defaultMark = "Yes"
				}
				fmt.Printf("%-*s  %-10s  %s\n", maxIDWidth, model.ID, defaultMark, model.Description)
			}

			fmt.Printf("\nUse a model with: agentlab ask --model <model> [message]\n")
		}

		errorCount := 0
		for _, result := range results {
			if result.err == nil {
				continue
			}
			if errorCount == 0 && successCount > 0 {
				fmt.Println()
			}
			errorCount++
			fmt.Fprintf(os.Stderr, "Warning: Skipping %s - %v\n", result.kind, result.err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().BoolVar(&modelsRemote, "remote", false, "Fetch model lists from the provider APIs")
}
