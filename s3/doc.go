// Package s3 provides a high-level client for AWS S3 operations.
// It wraps AWS SDK v2 to provide an intuitive and efficient interface
// for common S3 operations while maintaining flexibility for advanced use cases.
//
// The package emphasizes developer experience through simple APIs while
// maintaining performance through intelligent defaults for concurrency,
// buffering, and retries.
//
// Key features:
//   - Simple, zero-configuration usage with AWS credential chain
//   - Progressive enhancement through functional options
//   - Automatic multipart upload for large files
//   - Batch operations that fan out across a bounded worker pool
//   - Bidirectional directory sync with include/exclude patterns
//   - Comprehensive error handling with typed sentinel errors
//
// Example usage:
//
//	client, err := s3.New(s3.WithRegion("us-east-1"))
//	if err != nil {
//	    return err
//	}
//
//	// Upload a file
//	result, err := client.UploadFile(ctx, "my-bucket", "path/file.txt", "/local/file.txt")
//	if err != nil {
//	    return err
//	}
package s3
