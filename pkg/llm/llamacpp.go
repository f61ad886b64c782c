package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/storygraph/dramatis/pkg/types"
)

// LlamaCppClient implements Client for a locally-run llama.cpp HTTP server,
// using its native /completion endpoint.
type LlamaCppClient struct {
	config     *LLMConfig
	httpClient *http.Client
}

func newLlamaCppClient(cfg *LLMConfig) (*LlamaCppClient, error) {
	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return nil, NewConfigurationError(fmt.Sprintf("invalid llama.cpp base URL: %v", err))
	}

	return &LlamaCppClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// llamaCppRequest is the llama.cpp server /completion request body.
type llamaCppRequest struct {
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	NPredict    int     `json:"n_predict"`
	Stream      bool    `json:"stream"`
}

// llamaCppResponse is the llama.cpp server /completion response body.
type llamaCppResponse struct {
	Content         string `json:"content"`
	Model           string `json:"model"`
	StoppedEOS      bool   `json:"stopped_eos"`
	StoppedLimit    bool   `json:"stopped_limit"`
	TokensEvaluated int    `json:"tokens_evaluated"`
	TokensPredicted int    `json:"tokens_predicted"`
}

// Chat implements the Client interface. llama.cpp's native endpoint takes a
// flat prompt, so the message list is folded into a plain chat transcript.
func (l *LlamaCppClient) Chat(ctx context.Context, messages []types.Message, opts *ChatOptions) (*types.Response, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyPrompt
	}

	req := llamaCppRequest{
		Prompt:      flattenMessages(messages),
		Temperature: float64(temperatureFor(l.config, opts)),
		NPredict:    maxTokensFor(l.config, opts),
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(l.config.BaseURL, "/") + "/completion"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, NewTransportError("request timed out", err)
		}
		return nil, NewTransportError(err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError("failed to read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, string(body))
	}

	var llamaResp llamaCppResponse
	if err := json.Unmarshal(body, &llamaResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if llamaResp.Content == "" {
		return nil, ErrEmptyResponse
	}

	response := &types.Response{
		Content: llamaResp.Content,
		Model:   llamaResp.Model,
	}
	switch {
	case llamaResp.StoppedEOS:
		response.FinishReason = "stop"
	case llamaResp.StoppedLimit:
		response.FinishReason = "length"
	}
	if llamaResp.TokensEvaluated > 0 || llamaResp.TokensPredicted > 0 {
		response.TokensUsed = &types.TokenUsage{
			PromptTokens:     llamaResp.TokensEvaluated,
			CompletionTokens: llamaResp.TokensPredicted,
			TotalTokens:      llamaResp.TokensEvaluated + llamaResp.TokensPredicted,
		}
	}
	return response, nil
}

// Provider implements the Client interface.
func (l *LlamaCppClient) Provider() ProviderID {
	return ProviderLlamaCpp
}

// Close implements the Client interface.
func (l *LlamaCppClient) Close() error {
	return nil
}

// flattenMessages folds a message list into a single prompt for completion
// endpoints without chat templating.
func flattenMessages(messages []types.Message) string {
	var b strings.Builder
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			b.WriteString(m.Content)
			b.WriteString("\n\n")
		case RoleAssistant:
			b.WriteString("Assistant: ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		default:
			b.WriteString("User: ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		}
	}
	b.WriteString("Assistant:")
	return b.String()
}
