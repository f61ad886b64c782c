package llm

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/storygraph/dramatis/pkg/types"
)

// OllamaClient implements Client for a locally-run Ollama server.
type OllamaClient struct {
	config *LLMConfig
	client *api.Client
}

func newOllamaClient(cfg *LLMConfig) (*OllamaClient, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, NewConfigurationError("invalid ollama base URL: " + err.Error())
	}

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	return &OllamaClient{
		config: cfg,
		client: api.NewClient(base, httpClient),
	}, nil
}

// Chat implements the Client interface.
func (o *OllamaClient) Chat(ctx context.Context, messages []types.Message, opts *ChatOptions) (*types.Response, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyPrompt
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(o.config.TimeoutSeconds)*time.Second)
	defer cancel()

	converted := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		converted = append(converted, api.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    o.config.Model,
		Messages: converted,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": float64(temperatureFor(o.config, opts)),
			"num_predict": maxTokensFor(o.config, opts),
		},
	}

	var last api.ChatResponse
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		last = resp
		return nil
	})
	if err != nil {
		if isTimeout(err) {
			return nil, NewTransportError("request timed out", err)
		}
		return nil, NewTransportError(err.Error(), err)
	}
	if last.Message.Content == "" {
		return nil, ErrEmptyResponse
	}

	response := &types.Response{
		Content: last.Message.Content,
		Model:   last.Model,
	}
	if last.Done {
		response.FinishReason = last.DoneReason
	}
	if last.PromptEvalCount > 0 || last.EvalCount > 0 {
		response.TokensUsed = &types.TokenUsage{
			PromptTokens:     last.PromptEvalCount,
			CompletionTokens: last.EvalCount,
			TotalTokens:      last.PromptEvalCount + last.EvalCount,
		}
	}
	return response, nil
}

// Provider implements the Client interface.
func (o *OllamaClient) Provider() ProviderID {
	return ProviderOllama
}

// Close implements the Client interface.
func (o *OllamaClient) Close() error {
	return nil
}
