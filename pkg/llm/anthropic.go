package llm

import (
	"context"
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/storygraph/dramatis/pkg/types"
)

// AnthropicClient implements Client for Anthropic Claude models.
type AnthropicClient struct {
	config *LLMConfig
	client anthropic.Client
}

func newAnthropicClient(cfg *LLMConfig) (*AnthropicClient, error) {
	requestOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicClient{
		config: cfg,
		client: anthropic.NewClient(requestOpts...),
	}, nil
}

// Chat implements the Client interface.
func (a *AnthropicClient) Chat(ctx context.Context, messages []types.Message, opts *ChatOptions) (*types.Response, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyPrompt
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.config.TimeoutSeconds)*time.Second)
	defer cancel()

	// Anthropic carries the system prompt outside the message list.
	var system []anthropic.TextBlockParam
	converted := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case RoleAssistant:
			converted = append(converted, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			converted = append(converted, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.config.Model),
		MaxTokens:   int64(maxTokensFor(a.config, opts)),
		Messages:    converted,
		Temperature: anthropic.Float(float64(temperatureFor(a.config, opts))),
	}
	if len(system) > 0 {
		params.System = system
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapAnthropicError(err)
	}
	if len(message.Content) == 0 {
		return nil, ErrEmptyResponse
	}
	content := message.Content[0]
	if content.Type != "text" || content.Text == "" {
		return nil, ErrEmptyResponse
	}

	response := &types.Response{
		Content:      content.Text,
		Model:        string(message.Model),
		FinishReason: string(message.StopReason),
	}
	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		response.TokensUsed = &types.TokenUsage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		}
	}
	return response, nil
}

// Provider implements the Client interface.
func (a *AnthropicClient) Provider() ProviderID {
	return ProviderAnthropic
}

// Close implements the Client interface.
func (a *AnthropicClient) Close() error {
	return nil
}

// mapAnthropicError translates SDK errors into the client error taxonomy.
func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, apiErr.Error())
	}
	if isTimeout(err) {
		return NewTransportError("request timed out", err)
	}
	return NewTransportError(err.Error(), err)
}
