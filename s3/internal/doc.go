// Package internal contains private implementation details for the S3 module.
// These packages are not intended for external use and may change without notice.
//
// The internal packages are organized as follows:
//   - operations: Core S3 operation implementations
//   - sync: Directory synchronization functionality
//   - validation: Input validation logic
//   - pool: Pooled buffers for streaming transfers
//   - s3api: The S3 client interface the operations depend on
//   - testutil: Shared mocks and LocalStack helpers
package internal
