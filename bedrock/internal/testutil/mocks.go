// Package testutil provides test utilities and mocks for Bedrock
// operations. This package is internal and should only be used for testing
// within the bedrock module.
package testutil

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ecastroth/awskit/bedrock/internal/bedrockapi"
)

// MockBedrockClient is a mock implementation of the InvokeAPI interface for
// testing. It allows customization of the invocation through a function
// field.
type MockBedrockClient struct {
	InvokeModelFunc func(context.Context, *bedrockruntime.InvokeModelInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// InvokeModel mocks the Bedrock InvokeModel operation.
func (m *MockBedrockClient) InvokeModel(
	ctx context.Context,
	params *bedrockruntime.InvokeModelInput,
	optFns ...func(*bedrockruntime.Options),
) (*bedrockruntime.InvokeModelOutput, error) {
	if m.InvokeModelFunc != nil {
		return m.InvokeModelFunc(ctx, params, optFns...)
	}
	return MakeInvokeOutput("", ""), nil
}

// Verify the mock satisfies the interface it stands in for
var _ bedrockapi.InvokeAPI = (*MockBedrockClient)(nil)

// MakeInvokeOutput builds an InvokeModel output carrying a Claude-style
// completion body.
func MakeInvokeOutput(completion, stopReason string) *bedrockruntime.InvokeModelOutput {
	body, err := json.Marshal(map[string]string{
		"completion":  completion,
		"stop_reason": stopReason,
	})
	if err != nil {
		panic(err)
	}
	return &bedrockruntime.InvokeModelOutput{Body: body}
}
