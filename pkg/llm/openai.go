package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/storygraph/dramatis/pkg/types"
)

// OpenAIClient implements Client for OpenAI's chat API and for any service
// speaking the same wire protocol (OpenRouter uses this client with a
// different base URL and credential).
type OpenAIClient struct {
	config   *LLMConfig
	provider ProviderID
	client   *openai.Client
}

func newOpenAIClient(cfg *LLMConfig) (*OpenAIClient, error) {
	var client *openai.Client
	if cfg.BaseURL != "" {
		if err := validateBaseURL(cfg.BaseURL); err != nil {
			return nil, NewConfigurationError(fmt.Sprintf("invalid base URL: %v", err))
		}
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		clientConfig.BaseURL = cfg.BaseURL
		if !hasAPIPath(cfg.BaseURL) {
			clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/v1"
		}
		client = openai.NewClientWithConfig(clientConfig)
	} else {
		client = openai.NewClient(cfg.APIKey)
	}

	return &OpenAIClient{
		config:   cfg,
		provider: cfg.Provider,
		client:   client,
	}, nil
}

// Chat implements the Client interface.
func (c *OpenAIClient) Chat(ctx context.Context, messages []types.Message, opts *ChatOptions) (*types.Response, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyPrompt
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.config.TimeoutSeconds)*time.Second)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    convertMessages(messages),
		Temperature: temperatureFor(c.config, opts),
		MaxTokens:   maxTokensFor(c.config, opts),
		Stream:      false,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrEmptyResponse
	}

	response := &types.Response{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		FinishReason: string(resp.Choices[0].FinishReason),
	}
	if resp.Usage.TotalTokens > 0 {
		response.TokensUsed = &types.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return response, nil
}

// Provider implements the Client interface.
func (c *OpenAIClient) Provider() ProviderID {
	return c.provider
}

// Close implements the Client interface.
func (c *OpenAIClient) Close() error {
	return nil
}

// convertMessages converts internal messages to the OpenAI wire format.
func convertMessages(messages []types.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		var role string
		switch m.Role {
		case RoleSystem:
			role = openai.ChatMessageRoleSystem
		case RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		default:
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:    role,
			Content: cleanInput(m.Content),
		})
	}
	return out
}

// mapOpenAIError translates SDK errors into the client error taxonomy.
func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, reqErr.Error())
	}
	if isTimeout(err) {
		return NewTransportError("request timed out", err)
	}
	return NewTransportError(err.Error(), err)
}

// isTimeout reports whether err is a timeout or cancellation.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// cleanInput strips zero-width characters and control characters that some
// providers reject, keeping newlines, returns, and tabs.
func cleanInput(input string) string {
	zeroWidthChars := []string{"\u200b", "\u200c", "\u200d", "\ufeff", "\u2060"}
	cleaned := input
	for _, char := range zeroWidthChars {
		cleaned = strings.ReplaceAll(cleaned, char, "")
	}

	var builder strings.Builder
	for _, r := range cleaned {
		if r >= 32 || r == '\n' || r == '\r' || r == '\t' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// validateBaseURL ensures a custom base URL is an absolute http(s) URL.
func validateBaseURL(baseURL string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// hasAPIPath reports whether the base URL already carries a version path
// (e.g. OpenRouter's /api/v1), so "/v1" is not appended twice.
func hasAPIPath(baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return strings.Contains(u.Path, "/v1")
}
