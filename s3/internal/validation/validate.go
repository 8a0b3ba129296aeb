// Package validation provides centralized input validation for bucket names,
// object keys, and user metadata. Inputs are checked before any request is
// sent to AWS.
package validation

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ecastroth/awskit/s3/errors"
)

// maxKeyLength is the S3 limit on object key length in bytes.
const maxKeyLength = 1024

// ValidateBucketName validates that a bucket name is DNS-compliant according
// to AWS S3 rules. Returns ErrInvalidBucketName if the name is invalid.
func ValidateBucketName(bucket string) error {
	if bucket == "" {
		return bucketNameError(bucket, "bucket name cannot be empty")
	}

	if len(bucket) < 3 || len(bucket) > 63 {
		return bucketNameError(bucket, "bucket name must be between 3 and 63 characters long")
	}

	for _, char := range bucket {
		if !isValidBucketChar(char) {
			return bucketNameError(bucket,
				"bucket name can only contain lowercase letters, numbers, dots, and hyphens")
		}
	}

	if bucket[0] == '-' || bucket[0] == '.' || bucket[len(bucket)-1] == '-' || bucket[len(bucket)-1] == '.' {
		return bucketNameError(bucket, "bucket name cannot start or end with a hyphen or dot")
	}

	if isIPAddress(bucket) {
		return bucketNameError(bucket, "bucket name cannot be formatted as an IP address")
	}

	if hasAdjacentSpecialChars(bucket) {
		return bucketNameError(bucket, "bucket name cannot contain two adjacent periods or hyphens")
	}

	return nil
}

// ValidateObjectKey validates that an object key is acceptable to S3 and does
// not attempt path traversal.
func ValidateObjectKey(key string) error {
	if key == "" {
		return objectKeyError(key, "object key cannot be empty")
	}

	if hasPathTraversal(key) {
		return objectKeyError(key, "object key cannot contain path traversal sequences")
	}

	if len(key) > maxKeyLength {
		return objectKeyError(key, "object key cannot exceed 1024 characters")
	}

	// S3 keys may be any UTF-8, but control characters break most tooling.
	for _, char := range key {
		if unicode.IsControl(char) {
			return objectKeyError(key, "object key cannot contain control characters")
		}
	}

	return nil
}

// SanitizeMetadata strips non-printable characters from user metadata keys and
// values so they survive the HTTP header encoding S3 applies to them.
func SanitizeMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}

	sanitized := make(map[string]string, len(metadata))
	for key, value := range metadata {
		sanitized[sanitizeMetadataKey(key)] = sanitizeMetadataValue(value)
	}

	return sanitized
}

func bucketNameError(bucket, message string) error {
	return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
		WithBucket(bucket).
		WithMessage(message)
}

func objectKeyError(key, message string) error {
	return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
		WithKey(key).
		WithMessage(message)
}

func isValidBucketChar(char rune) bool {
	return (char >= '0' && char <= '9') || (char >= 'a' && char <= 'z') || char == '.' || char == '-'
}

func hasAdjacentSpecialChars(bucket string) bool {
	for i := 0; i < len(bucket)-1; i++ {
		if (bucket[i] == '.' && bucket[i+1] == '.') || (bucket[i] == '-' && bucket[i+1] == '-') {
			return true
		}
	}
	return false
}

// isIPAddress reports whether s looks like a dotted-quad IP address.
func isIPAddress(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}

	for _, part := range parts {
		if len(part) == 0 {
			return true
		}
		num := 0
		for _, char := range part {
			if char < '0' || char > '9' {
				return false
			}
			num = num*10 + int(char-'0')
		}
		if num > 255 {
			return false
		}
	}

	return true
}

func hasPathTraversal(key string) bool {
	if strings.Contains(key, "..") {
		return true
	}

	cleaned := filepath.Clean(key)

	if strings.HasPrefix(cleaned, "..") {
		return true
	}

	if strings.HasPrefix(cleaned, "/") {
		return true
	}

	// Windows-style absolute paths
	if len(cleaned) >= 3 && cleaned[1] == ':' && (cleaned[2] == '\\' || cleaned[2] == '/') {
		return true
	}

	return false
}

func sanitizeMetadataKey(key string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, key)
}

// sanitizeMetadataValue removes control characters but keeps newlines and tabs
// for multi-line values.
func sanitizeMetadataValue(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, value)
}
