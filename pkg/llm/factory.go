package llm

import (
	"fmt"
	"os"
	"strings"
)

// NewClient constructs the backend variant matching cfg.Provider. Dispatch
// happens here, once, so an unknown tag or a missing credential fails fast
// instead of at call time. Credentials left empty in cfg are resolved from
// the provider's named environment variables exactly once.
func NewClient(cfg *LLMConfig) (Client, error) {
	if cfg == nil {
		cfg = NewLLMConfig()
	}
	provider, ok := GetProvider(cfg.Provider)
	if !ok {
		return nil, NewConfigurationError(fmt.Sprintf("unsupported provider: %q", cfg.Provider))
	}
	if cfg.Model == "" {
		return nil, NewConfigurationError(fmt.Sprintf("provider %s requires a model name", provider.ID))
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = provider.DefaultBaseURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeout
	}
	// Provider may clamp; we clamp uniformly so retries at temperature 0
	// behave identically across backends.
	cfg.WithTemperature(cfg.Temperature)

	if err := resolveCredentials(cfg, provider); err != nil {
		return nil, err
	}

	switch provider.ID {
	case ProviderOpenAI, ProviderOpenRouter:
		return newOpenAIClient(cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	case ProviderBedrock:
		return newBedrockClient(cfg)
	case ProviderGemini:
		return newGeminiClient(cfg)
	case ProviderOllama:
		return newOllamaClient(cfg)
	case ProviderLlamaCpp:
		return newLlamaCppClient(cfg)
	default:
		return nil, NewConfigurationError(fmt.Sprintf("unsupported provider: %q", cfg.Provider))
	}
}

// resolveCredentials fills cfg.APIKey from the environment when empty and
// verifies every required credential is present before any network call.
func resolveCredentials(cfg *LLMConfig, provider Provider) error {
	if provider.IsLocal {
		return nil
	}

	if provider.ID == ProviderBedrock {
		if cfg.Region == "" {
			cfg.Region = os.Getenv("AWS_REGION")
		}
		if cfg.Region == "" {
			return NewConfigurationError("bedrock requires a region (config or AWS_REGION)")
		}
		// The SDK reads the credential chain itself; we only verify the
		// standard environment variables are populated.
		for _, env := range provider.CredentialEnv {
			if os.Getenv(env) == "" {
				return NewAuthenticationError(fmt.Sprintf("bedrock requires %s", env))
			}
		}
		return nil
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(provider.CredentialEnv[0])
	}
	if cfg.APIKey == "" {
		return NewAuthenticationError(fmt.Sprintf(
			"provider %s requires an API key (config or %s)",
			provider.ID, strings.Join(provider.CredentialEnv, ", ")))
	}
	return nil
}
