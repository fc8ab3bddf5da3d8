package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gkassa/agentlab/internal/agentlab/config"
	"github.com/spf13/cobra"
)

var promptsWithDir bool

// promptsCmd represents the prompts command
var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List available prompt templates",
	Long: `List all available prompt templates from the configured prompt directories.
This command recursively scans all prompt directories specified in the configuration and displays
the names of available .toml prompt files, including those in subdirectories.

Prompt names are displayed as relative paths from the prompt directory root.
For example, a file at ${prompt_dir}/foo/bar.toml will be displayed as "foo/bar".

If you want to see which directory each prompt comes from, use the --with-dir option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "Prompt directories: %v\n", cfg.PromptDirs)
		}

		var allPrompts []string
		promptMap := make(map[string]string) // prompt name -> directory path

		for _, promptDir := range cfg.PromptDirs {
			if _, err := os.Stat(promptDir); os.IsNotExist(err) {
				if verbose {
					fmt.Fprintf(os.Stderr, "Prompt directory does not exist: %s\n", promptDir)
				}
				continue
			}

			err := filepath.Walk(promptDir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() || !strings.HasSuffix(info.Name(), ".toml") {
					return nil
				}

				relPath, err := filepath.Rel(promptDir, path)
				if err != nil {
					return nil
				}
				promptName := filepath.ToSlash(strings.TrimSuffix(relPath, ".toml"))

				// Later directories take precedence, so keep the last hit.
				if _, exists := promptMap[promptName]; !exists {
					allPrompts = append(allPrompts, promptName)
				}
				promptMap[promptName] = promptDir
				return nil
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error walking prompt directory %s: %v\n", promptDir, err)
				continue
			}
		}

		sort.Strings(allPrompts)

		if len(allPrompts) == 0 {
			fmt.Println("No prompt templates found.")
			fmt.Println("Create .toml files in the following directories:")
			for _, promptDir := range cfg.PromptDirs {
				fmt.Printf("  - %s\n", promptDir)
			}
			return nil
		}

		for _, name := range allPrompts {
			if promptsWithDir {
				fmt.Printf("%s (%s)\n", name, promptMap[name])
			} else {
				fmt.Println(name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)

	promptsCmd.Flags().BoolVar(&promptsWithDir, "with-dir", false, "Show which directory each prompt comes from")
}
