package dramatis

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/storygraph/dramatis"
	"github.com/storygraph/dramatis/pkg/config"
	"github.com/storygraph/dramatis/pkg/llm"
	"github.com/storygraph/dramatis/pkg/logger"
)

// buildAnalyzer assembles the analyzer stack from configuration: the raw
// provider client, optional retry and circuit breaker wrappers, then the
// analyzer itself.
func buildAnalyzer(cfg *config.Config, log *slog.Logger) (*dramatis.Analyzer, error) {
	llmCfg := llm.NewLLMConfig().
		WithProvider(llm.ProviderID(cfg.LLM.Provider)).
		WithModel(cfg.LLM.Model).
		WithAPIKey(cfg.LLM.APIKey).
		WithBaseURL(cfg.LLM.BaseURL).
		WithRegion(cfg.LLM.Region)
	if cfg.LLM.Temperature > 0 {
		llmCfg = llmCfg.WithTemperature(cfg.LLM.Temperature)
	}
	if cfg.LLM.MaxTokens > 0 {
		llmCfg = llmCfg.WithMaxTokens(cfg.LLM.MaxTokens)
	}
	if cfg.LLM.Timeout > 0 {
		llmCfg = llmCfg.WithTimeout(cfg.LLM.Timeout)
	}

	client, err := llm.NewClient(llmCfg)
	if err != nil {
		return nil, err
	}

	if cfg.Retry.Enabled {
		client = llm.NewRetryClient(client, &llm.RetryConfig{
			MaxRetries:        cfg.Retry.MaxRetries,
			InitialDelay:      time.Duration(cfg.Retry.InitialDelay) * time.Second,
			MaxDelay:          time.Duration(cfg.Retry.MaxDelay) * time.Second,
			BackoffMultiplier: cfg.Retry.BackoffFactor,
		})
	}
	if cfg.CircuitBreaker.Enabled {
		client = llm.NewCircuitBreakerClient(client, &llm.BreakerConfig{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         cfg.CircuitBreaker.Interval,
			Timeout:          cfg.CircuitBreaker.Timeout,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}, log)
	}

	return dramatis.NewAnalyzer(client, &dramatis.Config{
		MaxChunkWords: cfg.Analysis.MaxChunkWords,
		Parallelism:   cfg.Analysis.Parallelism,
	}, log)
}

// loadStack loads configuration, builds the logger, and assembles the
// analyzer. Shared by every analysis subcommand.
func loadStack() (*config.Config, *slog.Logger, *dramatis.Analyzer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	analyzer, err := buildAnalyzer(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, analyzer, nil
}

// readInput reads analysis text from a file argument or stdin when the
// argument is "-" or absent.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}
