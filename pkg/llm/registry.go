package llm

// ProviderID represents a unique identifier for an LLM provider.
type ProviderID string

const (
	// ProviderOpenAI is the ID for OpenAI's hosted chat API.
	ProviderOpenAI ProviderID = "openai"
	// ProviderAnthropic is the ID for Anthropic's hosted messages API.
	ProviderAnthropic ProviderID = "anthropic"
	// ProviderBedrock is the ID for models hosted on AWS Bedrock.
	ProviderBedrock ProviderID = "bedrock"
	// ProviderGemini is the ID for Google's Gemini API.
	ProviderGemini ProviderID = "gemini"
	// ProviderOpenRouter is the ID for the OpenRouter aggregator.
	ProviderOpenRouter ProviderID = "openrouter"
	// ProviderOllama is the ID for a local Ollama server.
	ProviderOllama ProviderID = "ollama"
	// ProviderLlamaCpp is the ID for a local llama.cpp server.
	ProviderLlamaCpp ProviderID = "llamacpp"
)

// Provider describes one supported backend.
type Provider struct {
	ID          ProviderID
	Name        string
	Description string

	// IsLocal is true for providers reached over localhost without credentials.
	IsLocal bool

	// CredentialEnv names the environment variables that hold the provider's
	// credentials. Empty for local providers.
	CredentialEnv []string

	// DefaultBaseURL is the endpoint used when the config leaves BaseURL empty.
	DefaultBaseURL string
}

// BuiltInProviders contains the supported set of backends.
var BuiltInProviders = map[ProviderID]Provider{
	ProviderOpenAI: {
		ID:            ProviderOpenAI,
		Name:          "OpenAI",
		Description:   "Cloud-hosted GPT chat models",
		CredentialEnv: []string{"OPENAI_API_KEY"},
	},
	ProviderAnthropic: {
		ID:            ProviderAnthropic,
		Name:          "Anthropic",
		Description:   "Cloud-hosted Claude models",
		CredentialEnv: []string{"ANTHROPIC_API_KEY"},
	},
	ProviderBedrock: {
		ID:            ProviderBedrock,
		Name:          "AWS Bedrock",
		Description:   "Foundation models hosted on AWS Bedrock",
		CredentialEnv: []string{"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY"},
	},
	ProviderGemini: {
		ID:             ProviderGemini,
		Name:           "Google Gemini",
		Description:    "Cloud-hosted Gemini models",
		CredentialEnv:  []string{"GEMINI_API_KEY"},
		DefaultBaseURL: "https://generativelanguage.googleapis.com",
	},
	ProviderOpenRouter: {
		ID:             ProviderOpenRouter,
		Name:           "OpenRouter",
		Description:    "Multi-vendor aggregator speaking the OpenAI wire protocol",
		CredentialEnv:  []string{"OPENROUTER_API_KEY"},
		DefaultBaseURL: "https://openrouter.ai/api/v1",
	},
	ProviderOllama: {
		ID:             ProviderOllama,
		Name:           "Ollama",
		Description:    "Locally-run models served by Ollama",
		IsLocal:        true,
		DefaultBaseURL: "http://localhost:11434",
	},
	ProviderLlamaCpp: {
		ID:             ProviderLlamaCpp,
		Name:           "llama.cpp server",
		Description:    "Locally-run models served by the llama.cpp HTTP server",
		IsLocal:        true,
		DefaultBaseURL: "http://localhost:8080",
	},
}

// GetProvider returns the provider with the given ID.
func GetProvider(id ProviderID) (Provider, bool) {
	p, ok := BuiltInProviders[id]
	return p, ok
}

// ProviderIDs returns the tags of all supported providers.
func ProviderIDs() []ProviderID {
	ids := make([]ProviderID, 0, len(BuiltInProviders))
	for id := range BuiltInProviders {
		ids = append(ids, id)
	}
	return ids
}
