package rekognition

import (
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
)

// Sentinel errors for common Rekognition failures. Use errors.Is to match
// them through wrapped chains.
var (
	// ErrInvalidImage indicates the image bytes or S3 reference cannot be read
	ErrInvalidImage = errors.New("rekognition: invalid image")

	// ErrImageTooLarge indicates the image exceeds the service size limit
	ErrImageTooLarge = errors.New("rekognition: image too large")

	// ErrThrottled indicates the request rate exceeded the service quota
	ErrThrottled = errors.New("rekognition: throttled")

	// ErrAccessDenied indicates the caller lacks permission for the operation
	ErrAccessDenied = errors.New("rekognition: access denied")
)

// classify maps AWS SDK failures onto the package sentinels, checking typed
// SDK errors first and smithy API error codes second. Failures with no
// mapping are wrapped with the operation message instead.
func classify(err error, op string) error {
	var invalidFormat *types.InvalidImageFormatException
	if errors.As(err, &invalidFormat) {
		return errors.Wrap(ErrInvalidImage, invalidFormat.ErrorMessage())
	}

	var invalidS3Object *types.InvalidS3ObjectException
	if errors.As(err, &invalidS3Object) {
		return errors.Wrap(ErrInvalidImage, invalidS3Object.ErrorMessage())
	}

	var tooLarge *types.ImageTooLargeException
	if errors.As(err, &tooLarge) {
		return errors.Wrap(ErrImageTooLarge, tooLarge.ErrorMessage())
	}

	var throughput *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughput) {
		return errors.Wrap(ErrThrottled, throughput.ErrorMessage())
	}

	var throttled *types.ThrottlingException
	if errors.As(err, &throttled) {
		return errors.Wrap(ErrThrottled, throttled.ErrorMessage())
	}

	var accessDenied *types.AccessDeniedException
	if errors.As(err, &accessDenied) {
		return errors.Wrap(ErrAccessDenied, accessDenied.ErrorMessage())
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidImageFormatException", "InvalidS3ObjectException":
			return errors.Wrap(ErrInvalidImage, apiErr.ErrorMessage())
		case "ImageTooLargeException":
			return errors.Wrap(ErrImageTooLarge, apiErr.ErrorMessage())
		case "ProvisionedThroughputExceededException", "ThrottlingException":
			return errors.Wrap(ErrThrottled, apiErr.ErrorMessage())
		case "AccessDeniedException":
			return errors.Wrap(ErrAccessDenied, apiErr.ErrorMessage())
		}
	}

	return errors.Wrap(err, op)
}
