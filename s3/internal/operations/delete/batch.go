// Package delete handles multi-object deletion.
// S3 caps DeleteObjects at 1000 keys per request, so larger inputs are
// chunked and the chunks issued through the shared worker pool.
package delete

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ecastroth/awskit/internal/parallel"
	"github.com/ecastroth/awskit/s3/internal/s3api"
	"github.com/ecastroth/awskit/s3/s3types"
)

const (
	// MaxKeysPerRequest is the S3 limit for a single DeleteObjects call.
	MaxKeysPerRequest = 1000

	// defaultChunkConcurrency bounds concurrent DeleteObjects requests
	// when a large key set is drained.
	defaultChunkConcurrency = 5
)

// Deleter issues multi-object delete requests.
type Deleter struct {
	client s3api.S3API
	owner  string
}

// New creates a Deleter. The owner, when non-empty, is stamped on every
// request as the expected bucket owner.
func New(client s3api.S3API, owner string) *Deleter {
	return &Deleter{
		client: client,
		owner:  owner,
	}
}

// DeleteChunk deletes up to MaxKeysPerRequest keys with one DeleteObjects
// call. Per-key failures are reported in the result, not as an error.
func (d *Deleter) DeleteChunk(ctx context.Context, bucket string, keys []string) (*s3types.DeleteResult, error) {
	if len(keys) == 0 {
		return &s3types.DeleteResult{}, nil
	}
	if len(keys) > MaxKeysPerRequest {
		return nil, fmt.Errorf("delete chunk exceeds %d keys", MaxKeysPerRequest)
	}

	identifiers := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		identifiers = append(identifiers, types.ObjectIdentifier{
			Key: aws.String(key),
		})
	}

	input := &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: identifiers,
			Quiet:   aws.Bool(false),
		},
	}
	if d.owner != "" {
		input.ExpectedBucketOwner = aws.String(d.owner)
	}

	output, err := d.client.DeleteObjects(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to delete objects: %w", err)
	}

	return convertOutput(output), nil
}

// DeleteAll deletes an arbitrary number of keys, chunking them into
// DeleteObjects requests issued concurrently. The merged result keeps
// the per-key successes and failures from every chunk.
func (d *Deleter) DeleteAll(
	ctx context.Context,
	bucket string,
	keys []string,
	concurrency int,
) (*s3types.DeleteResult, error) {
	if len(keys) == 0 {
		return &s3types.DeleteResult{}, nil
	}
	if concurrency <= 0 {
		concurrency = defaultChunkConcurrency
	}

	chunks := parallel.Chunk(keys, MaxKeysPerRequest)

	results, errs := parallel.Map(ctx, chunks, concurrency,
		func(ctx context.Context, _ int, chunk []string) (*s3types.DeleteResult, error) {
			return d.DeleteChunk(ctx, bucket, chunk)
		})

	merged := &s3types.DeleteResult{}
	for i, result := range results {
		if errs != nil && errs[i] != nil {
			// A failed request leaves its whole chunk undeleted.
			for _, key := range chunks[i] {
				merged.Errors = append(merged.Errors, s3types.DeleteError{
					Key:     key,
					Code:    "RequestFailure",
					Message: errs[i].Error(),
				})
			}
			continue
		}
		merged.Deleted = append(merged.Deleted, result.Deleted...)
		merged.Errors = append(merged.Errors, result.Errors...)
	}

	return merged, nil
}

// convertOutput maps the SDK response into the package result type.
func convertOutput(output *s3.DeleteObjectsOutput) *s3types.DeleteResult {
	result := &s3types.DeleteResult{
		Deleted: make([]s3types.Object, 0, len(output.Deleted)),
	}

	for _, deleted := range output.Deleted {
		result.Deleted = append(result.Deleted, s3types.Object{
			Key: aws.ToString(deleted.Key),
		})
	}

	for _, failure := range output.Errors {
		result.Errors = append(result.Errors, s3types.DeleteError{
			Key:     aws.ToString(failure.Key),
			Version: aws.ToString(failure.VersionId),
			Code:    aws.ToString(failure.Code),
			Message: aws.ToString(failure.Message),
		})
	}

	return result
}
