// Package bedrockapi defines the narrow Bedrock runtime SDK interface used
// by this module.
package bedrockapi

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// InvokeAPI is the subset of the AWS SDK Bedrock runtime client this module
// calls. Keeping it narrow allows function-field mocks in tests.
type InvokeAPI interface {
	// InvokeModel runs inference on a foundation model
	InvokeModel(
		ctx context.Context,
		params *bedrockruntime.InvokeModelInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.InvokeModelOutput, error)
}

// Verify that the AWS Bedrock runtime client implements our interface
var _ InvokeAPI = (*bedrockruntime.Client)(nil)
