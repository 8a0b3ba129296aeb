// Package bedrock provides tests for single model invocations.
package bedrock

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecastroth/awskit/bedrock/internal/testutil"
)

// TestClient_Invoke_WithMock tests model invocation with mocked responses.
func TestClient_Invoke_WithMock(t *testing.T) {
	t.Run("sends the default request body", func(t *testing.T) {
		prompt := "Human: summarize this invoice\n\nAssistant:"

		mockClient := &testutil.MockBedrockClient{
			InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
				assert.Equal(t, DefaultModelID, aws.ToString(params.ModelId))
				assert.Equal(t, "application/json", aws.ToString(params.Accept))
				assert.Equal(t, "application/json", aws.ToString(params.ContentType))

				var req claudeRequest
				require.NoError(t, json.Unmarshal(params.Body, &req))
				assert.Equal(t, prompt, req.Prompt)
				assert.Equal(t, DefaultMaxTokens, req.MaxTokensToSample)
				assert.Equal(t, 0.0, req.Temperature)
				assert.Equal(t, 0.9, req.TopP)

				return testutil.MakeInvokeOutput(" The invoice totals $42.", "stop_sequence"), nil
			},
		}

		client := NewWithClient(mockClient)
		completion, err := client.Invoke(context.Background(), prompt)

		require.NoError(t, err)
		require.NotNil(t, completion)
		assert.Equal(t, " The invoice totals $42.", completion.Text)
		assert.Equal(t, "stop_sequence", completion.StopReason)
	})

	t.Run("honors per-call overrides", func(t *testing.T) {
		mockClient := &testutil.MockBedrockClient{
			InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
				assert.Equal(t, "anthropic.claude-instant-v1", aws.ToString(params.ModelId))

				var req claudeRequest
				require.NoError(t, json.Unmarshal(params.Body, &req))
				assert.Equal(t, 500, req.MaxTokensToSample)
				assert.Equal(t, 0.7, req.Temperature)
				assert.Equal(t, 0.5, req.TopP)

				return testutil.MakeInvokeOutput("ok", "max_tokens"), nil
			},
		}

		client := NewWithClient(mockClient)
		completion, err := client.Invoke(context.Background(), "Human: hi\n\nAssistant:",
			WithInvokeModelID("anthropic.claude-instant-v1"),
			WithMaxTokens(500),
			WithTemperature(0.7),
			WithTopP(0.5),
		)

		require.NoError(t, err)
		assert.Equal(t, "max_tokens", completion.StopReason)
	})

	t.Run("approximates token usage from text length", func(t *testing.T) {
		prompt := strings.Repeat("p", 60)
		output := strings.Repeat("o", 30)

		mockClient := &testutil.MockBedrockClient{
			InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
				return testutil.MakeInvokeOutput(output, "stop_sequence"), nil
			},
		}

		client := NewWithClient(mockClient)
		completion, err := client.Invoke(context.Background(), prompt)

		require.NoError(t, err)
		assert.Equal(t, 10, completion.InputTokens)
		assert.Equal(t, 5, completion.OutputTokens)
	})

	t.Run("rejects an empty prompt without calling the API", func(t *testing.T) {
		invokeCalled := false
		mockClient := &testutil.MockBedrockClient{
			InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
				invokeCalled = true
				return testutil.MakeInvokeOutput("", ""), nil
			},
		}

		client := NewWithClient(mockClient)
		completion, err := client.Invoke(context.Background(), "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "prompt cannot be empty")
		assert.Nil(t, completion)
		assert.False(t, invokeCalled)
	})

	t.Run("classifies throttling", func(t *testing.T) {
		mockClient := &testutil.MockBedrockClient{
			InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
				return nil, &types.ThrottlingException{Message: aws.String("rate exceeded")}
			},
		}

		client := NewWithClient(mockClient)
		_, err := client.Invoke(context.Background(), "Human: hi\n\nAssistant:")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrThrottled)
		assert.Contains(t, err.Error(), "rate exceeded")
	})

	t.Run("fails on a malformed response body", func(t *testing.T) {
		mockClient := &testutil.MockBedrockClient{
			InvokeModelFunc: func(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
				return &bedrockruntime.InvokeModelOutput{Body: []byte("not json")}, nil
			},
		}

		client := NewWithClient(mockClient)
		_, err := client.Invoke(context.Background(), "Human: hi\n\nAssistant:")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response body")
	})
}
