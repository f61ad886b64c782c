package llm

import (
	"context"

	"github.com/storygraph/dramatis/pkg/types"
)

// Client defines the interface for chat-completion providers. Implementations
// perform exactly one network (or local-process) call per Chat invocation and
// never retry; retrying is the responsibility of wrappers such as RetryClient.
type Client interface {
	// Chat sends a chat completion request and returns the raw response.
	// A nil opts uses the configured defaults.
	Chat(ctx context.Context, messages []types.Message, opts *ChatOptions) (*types.Response, error)

	// Provider returns the backend tag this client dispatches to.
	Provider() ProviderID

	// Close cleans up any resources.
	Close() error
}

// ChatOptions overrides per-call sampling parameters. Zero-value fields fall
// back to the client's LLMConfig.
type ChatOptions struct {
	// Temperature, when non-nil, overrides the configured temperature.
	// Used by the parse-retry path to re-ask at a lower temperature.
	Temperature *float32

	// MaxTokens, when positive, overrides the configured completion budget.
	MaxTokens int
}

const (
	// RoleSystem represents a system message.
	RoleSystem types.Role = "system"
	// RoleUser represents a user message.
	RoleUser types.Role = "user"
	// RoleAssistant represents an assistant message.
	RoleAssistant types.Role = "assistant"
)

// NewMessage creates a new message with the specified role and content.
func NewMessage(role types.Role, content string) types.Message {
	return types.Message{
		Role:    role,
		Content: content,
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) types.Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) types.Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) types.Message {
	return NewMessage(RoleAssistant, content)
}

// temperatureFor resolves the effective temperature for a call.
func temperatureFor(cfg *LLMConfig, opts *ChatOptions) float32 {
	if opts != nil && opts.Temperature != nil {
		return *opts.Temperature
	}
	return cfg.Temperature
}

// maxTokensFor resolves the effective completion budget for a call.
func maxTokensFor(cfg *LLMConfig, opts *ChatOptions) int {
	if opts != nil && opts.MaxTokens > 0 {
		return opts.MaxTokens
	}
	if cfg.MaxTokens > 0 {
		return cfg.MaxTokens
	}
	return DefaultMaxTokens
}
