package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storygraph/dramatis/pkg/types"
)

// GeminiClient implements Client for Google Gemini models.
type GeminiClient struct {
	config     *LLMConfig
	httpClient *http.Client
}

func newGeminiClient(cfg *LLMConfig) (*GeminiClient, error) {
	return &GeminiClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// geminiRequest represents the request structure for the Gemini API.
type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

// geminiContent represents content in Gemini format.
type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

// geminiPart represents a part of content.
type geminiPart struct {
	Text string `json:"text"`
}

// geminiGenerationConfig represents generation configuration.
type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// geminiResponse represents the response from the Gemini API.
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Usage      *geminiUsage      `json:"usageMetadata,omitempty"`
	Error      *geminiError      `json:"error,omitempty"`
}

// geminiCandidate represents a candidate response.
type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

// geminiUsage represents token accounting in the response.
type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// geminiError represents an error response.
type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Chat implements the Client interface.
func (g *GeminiClient) Chat(ctx context.Context, messages []types.Message, opts *ChatOptions) (*types.Response, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyPrompt
	}

	// Gemini has no system role; system content is prepended to the first
	// user turn.
	contents := make([]geminiContent, 0, len(messages))
	for _, msg := range messages {
		role := string(msg.Role)
		if msg.Role == RoleAssistant {
			role = "model"
		} else if msg.Role == RoleSystem {
			if len(contents) == 0 {
				contents = append(contents, geminiContent{
					Role:  "user",
					Parts: []geminiPart{{Text: msg.Content}},
				})
			} else {
				for i := range contents {
					if contents[i].Role == "user" {
						contents[i].Parts[0].Text = msg.Content + "\n\n" + contents[i].Parts[0].Text
						break
					}
				}
			}
			continue
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	req := geminiRequest{
		Contents: contents,
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     float64(temperatureFor(g.config, opts)),
			MaxOutputTokens: maxTokensFor(g.config, opts),
		},
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.config.BaseURL, g.config.Model, g.config.APIKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
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

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if geminiResp.Error != nil {
		return nil, classifyStatus(geminiResp.Error.Code, geminiResp.Error.Message)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	response := &types.Response{
		Content:      geminiResp.Candidates[0].Content.Parts[0].Text,
		Model:        g.config.Model,
		FinishReason: geminiResp.Candidates[0].FinishReason,
	}
	if geminiResp.Usage != nil && geminiResp.Usage.TotalTokenCount > 0 {
		response.TokensUsed = &types.TokenUsage{
			PromptTokens:     geminiResp.Usage.PromptTokenCount,
			CompletionTokens: geminiResp.Usage.CandidatesTokenCount,
			TotalTokens:      geminiResp.Usage.TotalTokenCount,
		}
	}
	return response, nil
}

// Provider implements the Client interface.
func (g *GeminiClient) Provider() ProviderID {
	return ProviderGemini
}

// Close implements the Client interface.
func (g *GeminiClient) Close() error {
	return nil
}
