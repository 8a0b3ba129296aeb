// Package rekognition provides a high-level client for AWS Rekognition
// image analysis. It wraps AWS SDK v2 to expose text, label, and face
// detection with typed results instead of raw SDK shapes.
//
// Images come either as raw bytes (BytesImage, up to 5 MiB) or as S3
// object references (S3Image). S3-referenced images must live in the
// same region as the client; NewForBucket resolves a bucket's region
// and pins the client to it.
//
// Key features:
//   - Word-level text detection with normalized bounding boxes
//   - Label detection with configurable cap and confidence threshold
//   - Face detection with age range and emotion attributes
//   - Batch variants that fan out across a bounded worker pool
//
// Example usage:
//
//	client, err := rekognition.NewForBucket(ctx, "scans-bucket")
//	if err != nil {
//	    return err
//	}
//
//	// Detect the words in every scanned page
//	result, err := client.DetectWordsBatch(ctx, "scans-bucket", keys)
//	if err != nil {
//	    return err
//	}
package rekognition
