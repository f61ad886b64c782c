package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/bedrockruntime"

	"github.com/storygraph/dramatis/pkg/types"
)

// bedrockAnthropicVersion is the protocol version Bedrock requires in the
// body of InvokeModel calls for Anthropic-family models.
const bedrockAnthropicVersion = "bedrock-2023-05-31"

// BedrockClient implements Client for models hosted on AWS Bedrock using the
// Anthropic messages body shape, which Bedrock's Claude model IDs speak.
type BedrockClient struct {
	config  *LLMConfig
	runtime *bedrockruntime.BedrockRuntime
}

func newBedrockClient(cfg *LLMConfig) (*BedrockClient, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, NewConfigurationError(fmt.Sprintf("failed to create AWS session: %v", err))
	}

	return &BedrockClient{
		config:  cfg,
		runtime: bedrockruntime.New(sess),
	}, nil
}

// bedrockRequest is the Anthropic-on-Bedrock request body.
type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Messages         []bedrockMessage `json:"messages"`
	System           string           `json:"system,omitempty"`
	Temperature      float64          `json:"temperature"`
}

type bedrockMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// bedrockResponse is the Anthropic-on-Bedrock response body.
type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Chat implements the Client interface.
func (b *BedrockClient) Chat(ctx context.Context, messages []types.Message, opts *ChatOptions) (*types.Response, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyPrompt
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(b.config.TimeoutSeconds)*time.Second)
	defer cancel()

	req := bedrockRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        maxTokensFor(b.config, opts),
		Temperature:      float64(temperatureFor(b.config, opts)),
	}
	for _, m := range messages {
		if m.Role == RoleSystem {
			req.System = m.Content
			continue
		}
		req.Messages = append(req.Messages, bedrockMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	out, err := b.runtime.InvokeModelWithContext(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.config.Model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, mapBedrockError(err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		return nil, ErrEmptyResponse
	}

	response := &types.Response{
		Content:      resp.Content[0].Text,
		Model:        b.config.Model,
		FinishReason: resp.StopReason,
	}
	if resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0 {
		response.TokensUsed = &types.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		}
	}
	return response, nil
}

// Provider implements the Client interface.
func (b *BedrockClient) Provider() ProviderID {
	return ProviderBedrock
}

// Close implements the Client interface.
func (b *BedrockClient) Close() error {
	return nil
}

// mapBedrockError translates AWS SDK errors into the client error taxonomy.
func mapBedrockError(err error) error {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.StatusCode(), reqErr.Message())
	}
	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		switch awsErr.Code() {
		case bedrockruntime.ErrCodeThrottlingException:
			return NewRateLimitError(awsErr.Message())
		case bedrockruntime.ErrCodeAccessDeniedException:
			return NewAuthenticationError(awsErr.Message())
		case bedrockruntime.ErrCodeValidationException, bedrockruntime.ErrCodeModelErrorException:
			return NewProviderError(0, awsErr.Message())
		}
	}
	if isTimeout(err) {
		return NewTransportError("request timed out", err)
	}
	return NewTransportError(err.Error(), err)
}
