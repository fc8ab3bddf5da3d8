package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gkassa/agentlab/internal/agentlab/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	envFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "agentlab",
	Short: "A CLI workbench for LLM experiments",
	Long: `agentlab is a command-line workbench for experimenting with LLM APIs.
It supports single-shot prompting, persistent chat sessions, multi-agent
conversations, embedding similarity demos, and structured extraction.
You can configure the tool using a TOML configuration file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/agentlab/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load before anything else (default is ./.env if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads the env file, config file and ENV variables if set.
func initConfig() {
	// Env file first so it can feed both viper bindings and $VAR token
	// references in the config file.
	if envFile != "" {
		if err := config.LoadEnv(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
			os.Exit(1)
		}
		if verbose {
			fmt.Fprintln(os.Stderr, "Loaded env file:", envFile)
		}
	} else {
		if err := config.LoadEnvIfPresent(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
			os.Exit(1)
		}
	}

	// Set environment variable prefix and automatic env
	viper.SetEnvPrefix("AGENTLAB")
	viper.AutomaticEnv()

	// Determine config directory for user config
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "agentlab")

	// Note: Later directories in the array take precedence over earlier ones
	defaultPromptDirs := []string{
		"/usr/share/agentlab/prompts",
		filepath.Join(userConfigDir, "prompts"),
	}
	defaultConfig := config.NewDefaultConfig(filepath.Join(userConfigDir, "prompts"))

	// Set default values
	viper.SetDefault("model", defaultConfig.Model)
	viper.SetDefault("embedding_model", defaultConfig.EmbeddingModel)
	viper.SetDefault("gemini_base_url", defaultConfig.GeminiBaseURL)
	viper.SetDefault("gemini_token", defaultConfig.GeminiToken)
	viper.SetDefault("groq_base_url", defaultConfig.GroqBaseURL)
	viper.SetDefault("groq_token", defaultConfig.GroqToken)
	viper.SetDefault("prompt_dirs", defaultPromptDirs)
	viper.SetDefault("output_dir", defaultConfig.OutputDir)
	viper.SetDefault("history_db", defaultConfig.HistoryDB)
	viper.SetDefault("context_window_messages", defaultConfig.ContextWindowMessages)
	viper.SetDefault("context_window_tokens", defaultConfig.ContextWindowTokens)
	viper.SetDefault("session_retention_days", defaultConfig.SessionRetentionDays)

	// Bind environment variables
	viper.BindEnv("model", "AGENTLAB_MODEL")
	viper.BindEnv("embedding_model", "AGENTLAB_EMBEDDING_MODEL")
	viper.BindEnv("gemini_base_url", "AGENTLAB_GEMINI_BASE_URL")
	viper.BindEnv("gemini_token", "AGENTLAB_GEMINI_TOKEN")
	viper.BindEnv("groq_base_url", "AGENTLAB_GROQ_BASE_URL")
	viper.BindEnv("groq_token", "AGENTLAB_GROQ_TOKEN")
	viper.BindEnv("output_dir", "AGENTLAB_OUTPUT_DIR")
	viper.BindEnv("history_db", "AGENTLAB_HISTORY_DB")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	} else {
		viper.AddConfigPath("/etc/agentlab")
		viper.AddConfigPath(userConfigDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			}
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "Environment variables:")
		fmt.Fprintln(os.Stderr, "  AGENTLAB_MODEL:", viper.GetString("model"))
		fmt.Fprintln(os.Stderr, "  AGENTLAB_GEMINI_BASE_URL:", viper.GetString("gemini_base_url"))
		fmt.Fprintln(os.Stderr, "  AGENTLAB_GROQ_BASE_URL:", viper.GetString("groq_base_url"))
		fmt.Fprintln(os.Stderr, "  AGENTLAB_PROMPT_DIRS:", viper.GetStringSlice("prompt_dirs"))
		fmt.Fprintln(os.Stderr, "  AGENTLAB_OUTPUT_DIR:", viper.GetString("output_dir"))
	}
}
