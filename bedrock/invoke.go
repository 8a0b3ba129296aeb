package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// contentTypeJSON is the accept and content type for every invocation.
const contentTypeJSON = "application/json"

// claudeRequest is the text-completion request body for the Anthropic
// Claude model family.
type claudeRequest struct {
	Prompt            string  `json:"prompt"`
	MaxTokensToSample int     `json:"max_tokens_to_sample"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
}

// claudeResponse is the completion payload returned by the model.
type claudeResponse struct {
	Completion string `json:"completion"`
	StopReason string `json:"stop_reason"`
}

// Completion is the result of one model invocation.
type Completion struct {
	// Text is the generated completion
	Text string

	// StopReason reports why generation stopped (e.g. "stop_sequence")
	StopReason string

	// InputTokens approximates how many tokens the prompt consumed. The
	// runtime API does not report usage for this model family, so the
	// count assumes roughly six characters per token.
	InputTokens int

	// OutputTokens approximates how many tokens the completion consumed
	OutputTokens int
}

// Invoke sends one prompt to the configured model and returns its
// completion.
//
// Example:
//
//	completion, err := client.Invoke(ctx, prompt,
//	    bedrock.WithMaxTokens(1000),
//	    bedrock.WithTemperature(0.7),
//	)
func (c *Client) Invoke(ctx context.Context, prompt string, opts ...InvokeOption) (*Completion, error) {
	if prompt == "" {
		return nil, errors.New("prompt cannot be empty")
	}

	config := c.resolveInvokeOptions(opts)

	body, err := json.Marshal(claudeRequest{
		Prompt:            prompt,
		MaxTokensToSample: config.maxTokens,
		Temperature:       config.temperature,
		TopP:              config.topP,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "invoking model",
			"model_id", config.modelID,
			"prompt_chars", len(prompt),
			"max_tokens", config.maxTokens)
	}

	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(config.modelID),
		Body:        body,
		Accept:      aws.String(contentTypeJSON),
		ContentType: aws.String(contentTypeJSON),
	})
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "model invocation failed",
				"model_id", config.modelID,
				"error", err)
		}
		return nil, classify(err, "failed to invoke model")
	}

	var response claudeResponse
	if err := json.Unmarshal(out.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &Completion{
		Text:         response.Completion,
		StopReason:   response.StopReason,
		InputTokens:  approxTokens(prompt),
		OutputTokens: approxTokens(response.Completion),
	}, nil
}

// approxTokens estimates a token count from the text length, assuming
// roughly six characters per token for English text.
func approxTokens(text string) int {
	return len(text) / 6
}
