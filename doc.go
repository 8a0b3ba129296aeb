// Package awskit provides high-level helpers for AWS services built on
// AWS SDK v2. Each service lives in its own package and shares a common
// shape: a Client created with functional options, context-first
// operations, and batch variants that fan out across a bounded worker
// pool.
//
// Packages:
//   - s3: object and bucket operations, parallel batch transfers,
//     bidirectional directory sync
//   - rekognition: text, label, and face detection on images, with
//     parallel batch detection over S3 objects
//   - bedrock: text completion with Anthropic Claude models, with
//     parallel batch invocation
//
// The examples directory contains runnable programs exercising the
// packages together.
package awskit
