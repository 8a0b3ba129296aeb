// Package errors provides the error type and sentinel errors for S3 operations.
package errors

import (
	"errors"
	"fmt"
)

// Error is an S3 operation error carrying the operation name and, when known,
// the bucket and key involved. It wraps the underlying SDK or filesystem error
// so callers can still match sentinels with errors.Is.
type Error struct {
	// Op is the operation that failed (e.g. "upload", "deleteBucket")
	Op string

	// Bucket is the S3 bucket name, if applicable
	Bucket string

	// Key is the S3 object key, if applicable
	Key string

	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to the error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to the error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage prefixes the underlying error with a message while preserving
// the wrapped chain.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error for the given operation wrapping err.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// Sentinel errors for common S3 failures. Use errors.Is to match them through
// wrapped chains.
var (
	// ErrObjectNotFound indicates the requested object does not exist
	ErrObjectNotFound = errors.New("s3: object not found")

	// ErrBucketNotFound indicates the requested bucket does not exist
	ErrBucketNotFound = errors.New("s3: bucket not found")

	// ErrAccessDenied indicates the caller lacks permission for the resource
	ErrAccessDenied = errors.New("s3: access denied")

	// ErrInvalidInput indicates the provided input is invalid
	ErrInvalidInput = errors.New("s3: invalid input")

	// ErrBucketAlreadyExists indicates the bucket name is already taken
	ErrBucketAlreadyExists = errors.New("s3: bucket already exists")

	// ErrBucketNotEmpty indicates the bucket still contains objects
	ErrBucketNotEmpty = errors.New("s3: bucket not empty")

	// ErrInvalidBucketName indicates the bucket name violates S3 naming rules
	ErrInvalidBucketName = errors.New("s3: invalid bucket name")

	// ErrInvalidObjectKey indicates the object key is invalid
	ErrInvalidObjectKey = errors.New("s3: invalid object key")

	// ErrTooManyRequests indicates the request rate was throttled
	ErrTooManyRequests = errors.New("s3: too many requests")

	// ErrInvalidRange indicates the requested byte range is invalid
	ErrInvalidRange = errors.New("s3: invalid range")
)

// IsObjectNotFound reports whether err indicates a missing object.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsBucketNotFound reports whether err indicates a missing bucket.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsAccessDenied reports whether err indicates denied access.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput reports whether err indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsBucketNotEmpty reports whether err indicates a non-empty bucket.
func IsBucketNotEmpty(err error) bool {
	return errors.Is(err, ErrBucketNotEmpty)
}
