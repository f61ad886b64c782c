package llm

// Default configuration values
const (
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.3
	DefaultTimeout     = 120 // seconds
)

// LLMConfig holds configuration for LLM clients.
type LLMConfig struct {
	// Provider is the backend tag ("openai", "anthropic", "bedrock",
	// "gemini", "openrouter", "ollama", "llamacpp").
	Provider ProviderID `json:"provider"`

	// APIKey is the authentication key for hosted providers.
	// Excluded from JSON serialization to prevent accidental exposure.
	APIKey string `json:"-"`

	// Model is the model identifier to use for generating responses.
	Model string `json:"model,omitempty"`

	// BaseURL is the base URL of the API service. Required for llamacpp,
	// optional everywhere else (overrides the vendor default).
	BaseURL string `json:"base_url,omitempty"`

	// Region is the AWS region. Required for bedrock, ignored elsewhere.
	Region string `json:"region,omitempty"`

	// Temperature controls randomness in generation, clamped to [0, 1].
	Temperature float32 `json:"temperature,omitempty"`

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int `json:"max_tokens,omitempty"`

	// TimeoutSeconds bounds each outbound call. Timeouts surface as
	// TransportError.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// NewLLMConfig creates a new LLMConfig with default values.
func NewLLMConfig() *LLMConfig {
	return &LLMConfig{
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
		TimeoutSeconds: DefaultTimeout,
	}
}

// WithProvider sets the provider tag.
func (c *LLMConfig) WithProvider(provider ProviderID) *LLMConfig {
	c.Provider = provider
	return c
}

// WithAPIKey sets the API key.
func (c *LLMConfig) WithAPIKey(apiKey string) *LLMConfig {
	c.APIKey = apiKey
	return c
}

// WithModel sets the model.
func (c *LLMConfig) WithModel(model string) *LLMConfig {
	c.Model = model
	return c
}

// WithBaseURL sets the base URL.
func (c *LLMConfig) WithBaseURL(baseURL string) *LLMConfig {
	c.BaseURL = baseURL
	return c
}

// WithRegion sets the AWS region.
func (c *LLMConfig) WithRegion(region string) *LLMConfig {
	c.Region = region
	return c
}

// WithTemperature sets the temperature, clamping it into [0, 1].
func (c *LLMConfig) WithTemperature(temperature float32) *LLMConfig {
	if temperature < 0 {
		temperature = 0
	}
	if temperature > 1 {
		temperature = 1
	}
	c.Temperature = temperature
	return c
}

// WithMaxTokens sets the max tokens.
func (c *LLMConfig) WithMaxTokens(maxTokens int) *LLMConfig {
	c.MaxTokens = maxTokens
	return c
}

// WithTimeout sets the per-call timeout in seconds.
func (c *LLMConfig) WithTimeout(seconds int) *LLMConfig {
	c.TimeoutSeconds = seconds
	return c
}
