package llm_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storygraph/dramatis/pkg/llm"
	"github.com/storygraph/dramatis/pkg/types"
)

// flakyClient fails a fixed number of times before succeeding.
type flakyClient struct {
	failures int32
	err      error
	calls    int32
}

func (f *flakyClient) Chat(ctx context.Context, messages []types.Message, opts *llm.ChatOptions) (*types.Response, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= atomic.LoadInt32(&f.failures) {
		return nil, f.err
	}
	return &types.Response{Content: "ok"}, nil
}

func (f *flakyClient) Provider() llm.ProviderID { return llm.ProviderOpenAI }
func (f *flakyClient) Close() error             { return nil }

func fastRetryConfig(maxRetries int) *llm.RetryConfig {
	return &llm.RetryConfig{
		MaxRetries:        maxRetries,
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryClientRecoversFromTransient(t *testing.T) {
	client := &flakyClient{failures: 2, err: llm.NewRateLimitError()}
	retry := llm.NewRetryClient(client, fastRetryConfig(3))

	resp, err := retry.Chat(context.Background(), []types.Message{{Role: "user", Content: "hi"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, int32(3), atomic.LoadInt32(&client.calls))
}

func TestRetryClientGivesUpAfterBudget(t *testing.T) {
	client := &flakyClient{failures: 100, err: llm.NewTransportError("connection reset", nil)}
	retry := llm.NewRetryClient(client, fastRetryConfig(2))

	_, err := retry.Chat(context.Background(), []types.Message{{Role: "user", Content: "hi"}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &llm.TransportError{}))
	// Initial attempt plus two retries.
	assert.Equal(t, int32(3), atomic.LoadInt32(&client.calls))
}

func TestRetryClientDoesNotRetryFatal(t *testing.T) {
	client := &flakyClient{failures: 100, err: llm.NewAuthenticationError("bad key")}
	retry := llm.NewRetryClient(client, fastRetryConfig(3))

	_, err := retry.Chat(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &llm.AuthenticationError{}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.calls))
}

func TestRetryClientDoesNotRetryProviderErrors(t *testing.T) {
	client := &flakyClient{failures: 100, err: llm.NewProviderError(400, "bad request")}
	retry := llm.NewRetryClient(client, fastRetryConfig(3))

	_, err := retry.Chat(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.calls))
}

func TestRetryClientHonorsContextDuringBackoff(t *testing.T) {
	client := &flakyClient{failures: 100, err: llm.NewRateLimitError()}
	retry := llm.NewRetryClient(client, &llm.RetryConfig{
		MaxRetries:        3,
		InitialDelay:      time.Minute,
		MaxDelay:          time.Minute,
		BackoffMultiplier: 2.0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := retry.Chat(ctx, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &llm.TransportError{}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.calls))
}

func TestRetryClientPassesThroughIdentity(t *testing.T) {
	client := &flakyClient{}
	retry := llm.NewRetryClient(client, nil)

	assert.Equal(t, llm.ProviderOpenAI, retry.Provider())
	assert.NoError(t, retry.Close())
}
