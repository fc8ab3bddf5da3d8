package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gkassa/agentlab/internal/agentlab/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: configfile, model, embedding_model, gemini_base_url, gemini_token, groq_base_url, groq_token, promptdirs, output_dir, history_db

Examples:
  agentlab config                   # Show all configuration
  agentlab config model             # Show only model
  agentlab config gemini_token      # Show only Gemini token (masked)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		historyDB, _ := cfg.HistoryDBPath()

		if len(args) > 0 {
			field := strings.ToLower(args[0])
			switch field {
			case "configfile":
				fmt.Println(viper.ConfigFileUsed())
			case "model":
				fmt.Println(cfg.Model)
			case "embedding_model", "embeddingmodel":
				fmt.Println(cfg.EmbeddingModel)
			case "gemini_base_url", "geminibaseurl":
				fmt.Println(cfg.GeminiBaseURL)
			case "gemini_token", "geminitoken":
				fmt.Println(maskToken(cfg.GeminiToken))
			case "groq_base_url", "groqbaseurl":
				fmt.Println(cfg.GroqBaseURL)
			case "groq_token", "groqtoken":
				fmt.Println(maskToken(cfg.GroqToken))
			case "promptdirs":
				fmt.Println(strings.Join(cfg.PromptDirs, ","))
			case "output_dir", "outputdir":
				fmt.Println(cfg.OutputDir)
			case "history_db", "historydb":
				fmt.Println(historyDB)
			default:
				fmt.Fprintf(os.Stderr, "Unknown field: %s\n", args[0])
				fmt.Fprintf(os.Stderr, "Available fields: configfile, model, embedding_model, gemini_base_url, gemini_token, groq_base_url, groq_token, promptdirs, output_dir, history_db\n")
				os.Exit(1)
			}
			return nil
		}

		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("Model: %s\n", cfg.Model)
		fmt.Printf("EmbeddingModel: %s\n", cfg.EmbeddingModel)
		fmt.Printf("GeminiBaseURL: %s\n", cfg.GeminiBaseURL)
		fmt.Printf("GeminiToken: %s\n", maskToken(cfg.GeminiToken))
		fmt.Printf("GroqBaseURL: %s\n", cfg.GroqBaseURL)
		fmt.Printf("GroqToken: %s\n", maskToken(cfg.GroqToken))
		fmt.Printf("PromptDirectories: %s\n", strings.Join(cfg.PromptDirs, ","))
		fmt.Printf("OutputDirectory: %s\n", cfg.OutputDir)
		fmt.Printf("HistoryDB: %s\n", historyDB)
		fmt.Printf("ContextWindowMessages: %d\n", cfg.ContextWindowMessages)
		fmt.Printf("ContextWindowTokens: %d\n", cfg.ContextWindowTokens)
		fmt.Printf("SessionRetentionDays: %d\n", cfg.SessionRetentionDays)
		return nil
	},
}

// maskToken returns a masked version of the token for security
func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Long: `Initialize the configuration file with default settings.
The config file will be created at $HOME/.config/agentlab/config.toml by default.
You can specify a different location using the --config option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %v", err)
		}

		configFile := filepath.Join(home, ".config", "agentlab", "config.toml")
		if cfgFile != "" {
			configFile = cfgFile
		}

		configDir := filepath.Dir(configFile)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %v", err)
		}

		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("config file already exists at: %s", configFile)
		}

		cfg := config.NewDefaultConfig(filepath.Join(configDir, "prompts"))

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("failed to create config file: %v", err)
		}
		defer f.Close()

		encoder := toml.NewEncoder(f)
		if err := encoder.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %v", err)
		}

		promptsDir := filepath.Join(configDir, "prompts")
		if err := os.MkdirAll(promptsDir, 0755); err != nil {
			return fmt.Errorf("failed to create prompts directory: %v", err)
		}

		fmt.Printf("Configuration file created at: %s\n", configFile)
		fmt.Printf("Prompts directory created at: %s\n", promptsDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
}
