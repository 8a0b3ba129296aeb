package bedrock

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
)

// Sentinel errors for common Bedrock failures. Use errors.Is to match them
// through wrapped chains.
var (
	// ErrThrottled indicates the request rate exceeded the service quota
	ErrThrottled = errors.New("bedrock: throttled")

	// ErrAccessDenied indicates the caller lacks permission for the model
	ErrAccessDenied = errors.New("bedrock: access denied")

	// ErrModelNotReady indicates the model is not yet available for inference
	ErrModelNotReady = errors.New("bedrock: model not ready")
)

// classify maps AWS SDK failures onto the package sentinels, checking typed
// SDK errors first and smithy API error codes second. Failures with no
// mapping are wrapped with the operation message instead.
func classify(err error, op string) error {
	var throttled *types.ThrottlingException
	if errors.As(err, &throttled) {
		return fmt.Errorf("%s: %w", throttled.ErrorMessage(), ErrThrottled)
	}

	var quotaExceeded *types.ServiceQuotaExceededException
	if errors.As(err, &quotaExceeded) {
		return fmt.Errorf("%s: %w", quotaExceeded.ErrorMessage(), ErrThrottled)
	}

	var accessDenied *types.AccessDeniedException
	if errors.As(err, &accessDenied) {
		return fmt.Errorf("%s: %w", accessDenied.ErrorMessage(), ErrAccessDenied)
	}

	var notReady *types.ModelNotReadyException
	if errors.As(err, &notReady) {
		return fmt.Errorf("%s: %w", notReady.ErrorMessage(), ErrModelNotReady)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ServiceQuotaExceededException", "TooManyRequestsException":
			return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrThrottled)
		case "AccessDeniedException":
			return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrAccessDenied)
		case "ModelNotReadyException":
			return fmt.Errorf("%s: %w", apiErr.ErrorMessage(), ErrModelNotReady)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
