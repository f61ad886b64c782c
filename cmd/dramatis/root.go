package dramatis

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "dramatis",
		Short: "Dramatis: LLM character analysis for narrative text",
		Long: `Dramatis extracts characters, relationships, and trait profiles from
narrative text using a configurable LLM backend (OpenAI, Anthropic, Bedrock,
Gemini, OpenRouter, Ollama, or llama.cpp).

Text is processed in word-bounded chunks and the per-chunk findings are
merged into a single deduplicated cast.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize configuration
			initConfig()
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dramatis.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("provider", "ollama", "LLM provider (openai, anthropic, bedrock, gemini, openrouter, ollama, llamacpp)")
	rootCmd.PersistentFlags().String("model", "llama3.2", "model identifier")
	rootCmd.PersistentFlags().String("base-url", "", "provider base URL override")
	rootCmd.PersistentFlags().Int("max-chunk-words", 2500, "maximum words per chunk")

	// Bind flags to viper
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("llm.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("analysis.max_chunk_words", rootCmd.PersistentFlags().Lookup("max-chunk-words"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".dramatis" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dramatis")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
