package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// LLM configuration
	LLM LLMConfig `mapstructure:"llm"`

	// Analysis configuration
	Analysis AnalysisConfig `mapstructure:"analysis"`

	// Retry configuration for transient provider failures
	Retry RetryConfig `mapstructure:"retry"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// LLMConfig holds provider and model configuration
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"` // openai, anthropic, bedrock, gemini, openrouter, ollama, llamacpp
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Region      string  `mapstructure:"region"` // bedrock only
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Timeout     int     `mapstructure:"timeout"` // in seconds
}

// AnalysisConfig holds chunking and concurrency configuration
type AnalysisConfig struct {
	MaxChunkWords int `mapstructure:"max_chunk_words"`
	Parallelism   int `mapstructure:"parallelism"`
}

// RetryConfig holds configuration for retrying transient failures
type RetryConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	MaxRetries    int     `mapstructure:"max_retries"`
	InitialDelay  int     `mapstructure:"initial_delay"` // in seconds
	MaxDelay      int     `mapstructure:"max_delay"`     // in seconds
	BackoffFactor float64 `mapstructure:"backoff_factor"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// LLM defaults
	viper.SetDefault("llm.provider", "ollama")
	viper.SetDefault("llm.model", "llama3.2")
	viper.SetDefault("llm.temperature", 0.3)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.timeout", 120)

	// Analysis defaults
	viper.SetDefault("analysis.max_chunk_words", 2500)
	viper.SetDefault("analysis.parallelism", 1)

	// Retry defaults
	viper.SetDefault("retry.enabled", true)
	viper.SetDefault("retry.max_retries", 3)
	viper.SetDefault("retry.initial_delay", 1)
	viper.SetDefault("retry.max_delay", 60)
	viper.SetDefault("retry.backoff_factor", 2.0)

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", false)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Provider selection and model
	if provider := os.Getenv("DRAMATIS_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if model := os.Getenv("DRAMATIS_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if baseURL := os.Getenv("DRAMATIS_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}

	// Provider credentials; each backend reads its own variable
	switch config.LLM.Provider {
	case "openai":
		if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
			config.LLM.APIKey = apiKey
		}
	case "anthropic":
		if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
			config.LLM.APIKey = apiKey
		}
	case "gemini":
		if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
			config.LLM.APIKey = apiKey
		}
	case "openrouter":
		if apiKey := os.Getenv("OPENROUTER_API_KEY"); apiKey != "" {
			config.LLM.APIKey = apiKey
		}
	case "bedrock":
		if region := os.Getenv("AWS_REGION"); region != "" && config.LLM.Region == "" {
			config.LLM.Region = region
		}
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
}
