package errors

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// MapAWS converts AWS SDK errors to the package sentinels so callers can
// match them with errors.Is. Typed SDK errors are checked first, then
// smithy API error codes. Errors with no mapping are returned unchanged.
func MapAWS(err error) error {
	if err == nil {
		return nil
	}

	// Already one of ours, possibly wrapped.
	if errors.Is(err, ErrObjectNotFound) ||
		errors.Is(err, ErrBucketNotFound) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrBucketAlreadyExists) ||
		errors.Is(err, ErrBucketNotEmpty) {
		return err
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return ErrObjectNotFound
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return ErrObjectNotFound
	}

	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return ErrBucketNotFound
	}

	var bucketExists *types.BucketAlreadyExists
	if errors.As(err, &bucketExists) {
		return ErrBucketAlreadyExists
	}

	var bucketOwned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &bucketOwned) {
		return ErrBucketAlreadyExists
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return ErrObjectNotFound
		case "NoSuchBucket":
			return ErrBucketNotFound
		case "BucketNotEmpty":
			return ErrBucketNotEmpty
		case "BucketAlreadyExists", "BucketAlreadyOwnedByYou":
			return ErrBucketAlreadyExists
		case "AccessDenied":
			return ErrAccessDenied
		case "SlowDown", "TooManyRequests", "Throttling", "ThrottlingException":
			return ErrTooManyRequests
		case "InvalidRange":
			return ErrInvalidRange
		}
	}

	return err
}

// IsNotFoundAPIError reports whether err is a missing object or bucket,
// either as a package sentinel or as a raw SDK error.
func IsNotFoundAPIError(err error) bool {
	mapped := MapAWS(err)
	return errors.Is(mapped, ErrObjectNotFound) || errors.Is(mapped, ErrBucketNotFound)
}
