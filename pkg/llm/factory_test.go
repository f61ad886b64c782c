package llm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storygraph/dramatis/pkg/llm"
)

func TestNewClientUnknownProvider(t *testing.T) {
	cfg := llm.NewLLMConfig().WithProvider("hal9000").WithModel("m")

	_, err := llm.NewClient(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &llm.ConfigurationError{}))
	assert.Contains(t, err.Error(), "hal9000")
}

func TestNewClientRequiresModel(t *testing.T) {
	cfg := llm.NewLLMConfig().WithProvider(llm.ProviderOllama)

	_, err := llm.NewClient(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &llm.ConfigurationError{}))
}

func TestNewClientMissingCredentialFailsBeforeNetwork(t *testing.T) {
	for _, tc := range []struct {
		provider llm.ProviderID
		env      string
	}{
		{llm.ProviderOpenAI, "OPENAI_API_KEY"},
		{llm.ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{llm.ProviderGemini, "GEMINI_API_KEY"},
		{llm.ProviderOpenRouter, "OPENROUTER_API_KEY"},
	} {
		t.Run(string(tc.provider), func(t *testing.T) {
			t.Setenv(tc.env, "")

			cfg := llm.NewLLMConfig().WithProvider(tc.provider).WithModel("some-model")
			_, err := llm.NewClient(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, &llm.AuthenticationError{}))
			assert.Contains(t, err.Error(), tc.env)
		})
	}
}

func TestNewClientCredentialFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	cfg := llm.NewLLMConfig().WithProvider(llm.ProviderAnthropic).WithModel("claude-sonnet-4-5")
	client, err := llm.NewClient(cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, llm.ProviderAnthropic, client.Provider())
}

func TestNewClientBedrockRequiresRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	cfg := llm.NewLLMConfig().WithProvider(llm.ProviderBedrock).WithModel("anthropic.claude-3-haiku")
	_, err := llm.NewClient(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &llm.ConfigurationError{}))
}

func TestNewClientBedrockRequiresAWSCredentials(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	cfg := llm.NewLLMConfig().WithProvider(llm.ProviderBedrock).WithModel("anthropic.claude-3-haiku")
	_, err := llm.NewClient(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, &llm.AuthenticationError{}))
}

func TestNewClientLocalProvidersNeedNoCredential(t *testing.T) {
	t.Run("ollama", func(t *testing.T) {
		cfg := llm.NewLLMConfig().WithProvider(llm.ProviderOllama).WithModel("llama3.2")
		client, err := llm.NewClient(cfg)
		require.NoError(t, err)
		defer client.Close()
		assert.Equal(t, llm.ProviderOllama, client.Provider())
	})

	t.Run("llamacpp", func(t *testing.T) {
		cfg := llm.NewLLMConfig().WithProvider(llm.ProviderLlamaCpp).WithModel("local")
		client, err := llm.NewClient(cfg)
		require.NoError(t, err)
		defer client.Close()
		assert.Equal(t, llm.ProviderLlamaCpp, client.Provider())
	})
}

func TestTemperatureClamped(t *testing.T) {
	cfg := llm.NewLLMConfig().WithTemperature(1.7)
	assert.Equal(t, float32(1), cfg.Temperature)

	cfg = llm.NewLLMConfig().WithTemperature(-0.5)
	assert.Equal(t, float32(0), cfg.Temperature)
}

func TestProviderRegistry(t *testing.T) {
	ids := llm.ProviderIDs()
	assert.Len(t, ids, 7)

	p, ok := llm.GetProvider(llm.ProviderGemini)
	require.True(t, ok)
	assert.False(t, p.IsLocal)
	assert.NotEmpty(t, p.DefaultBaseURL)

	p, ok = llm.GetProvider(llm.ProviderOllama)
	require.True(t, ok)
	assert.True(t, p.IsLocal)

	_, ok = llm.GetProvider("nonsense")
	assert.False(t, ok)
}
