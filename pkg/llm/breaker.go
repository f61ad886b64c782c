package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/storygraph/dramatis/pkg/types"
)

// BreakerConfig holds configuration for circuit breaking.
type BreakerConfig struct {
	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state, in seconds.
	Interval int
	// Timeout is how long the breaker stays open, in seconds.
	Timeout int
	// ReadyToTripRatio is the failure ratio that opens the breaker.
	ReadyToTripRatio float64
}

// DefaultBreakerConfig returns the default circuit breaker configuration.
func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		MaxRequests:      1,
		Interval:         60,
		Timeout:          30,
		ReadyToTripRatio: 0.6,
	}
}

// CircuitBreakerClient wraps a Client with circuit breaking so a provider
// outage stops generating doomed chunk calls quickly.
type CircuitBreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewCircuitBreakerClient creates a new circuit breaker client.
func NewCircuitBreakerClient(client Client, cfg *BreakerConfig, logger *slog.Logger) *CircuitBreakerClient {
	if cfg == nil {
		cfg = DefaultBreakerConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	st := gobreaker.Settings{
		Name:        string(client.Provider()),
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"provider", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &CircuitBreakerClient{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(st),
		logger: logger,
	}
}

// Chat implements the Client interface.
func (c *CircuitBreakerClient) Chat(ctx context.Context, messages []types.Message, opts *ChatOptions) (*types.Response, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.Chat(ctx, messages, opts)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*types.Response), nil
}

// Provider implements the Client interface.
func (c *CircuitBreakerClient) Provider() ProviderID {
	return c.client.Provider()
}

// Close implements the Client interface.
func (c *CircuitBreakerClient) Close() error {
	return c.client.Close()
}
