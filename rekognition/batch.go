package rekognition

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ecastroth/awskit/internal/parallel"
)

// ItemError records one failed key in a batch detection call.
type ItemError struct {
	// Index is the position of the key in the input slice
	Index int

	// Key is the S3 object key that failed
	Key string

	// Err is what went wrong
	Err error
}

// BatchResult holds word detections for a batch of S3 objects.
type BatchResult struct {
	// Results is index-aligned with the input keys. An image with no text
	// yields an empty, non-nil slice; a failed key yields nil.
	Results [][]Word

	// Failed lists the keys whose detection failed
	Failed []ItemError
}

// LabelBatchResult holds label detections for a batch of S3 objects.
type LabelBatchResult struct {
	// Results is index-aligned with the input keys; a failed key yields nil
	Results [][]Label

	// Failed lists the keys whose detection failed
	Failed []ItemError
}

// DetectTextBatch runs DetectText over every key in parallel and returns
// the raw detections index-aligned with keys. The error slice is nil when
// every key succeeded; otherwise it carries one entry per key, nil for the
// ones that succeeded. A failed key never aborts its siblings.
func (c *Client) DetectTextBatch(
	ctx context.Context,
	bucket string,
	keys []string,
	opts ...DetectOption,
) ([]*TextDetections, []error) {
	config := c.resolveDetectOptions(opts)
	batchID := uuid.NewString()

	c.logBatch(ctx, "starting batch text detection",
		"batch_id", batchID,
		"bucket", bucket,
		"items", len(keys),
		"concurrency", config.concurrency)

	results, errs := parallel.Map(ctx, keys, config.concurrency,
		func(ctx context.Context, _ int, key string) (*TextDetections, error) {
			return c.DetectText(ctx, S3Image(bucket, key), opts...)
		})

	c.logBatch(ctx, "batch text detection finished",
		"batch_id", batchID,
		"bucket", bucket,
		"items", len(keys),
		"failed", countErrors(errs))

	return results, errs
}

// DetectWordsBatch runs word-level text detection over every key in
// parallel. Results are index-aligned with keys and per-key failures are
// collected in Failed instead of aborting the batch.
//
// Example:
//
//	result, err := client.DetectWordsBatch(ctx, "scans-bucket", keys,
//	    rekognition.WithDetectConcurrency(8),
//	)
func (c *Client) DetectWordsBatch(
	ctx context.Context,
	bucket string,
	keys []string,
	opts ...DetectOption,
) (*BatchResult, error) {
	if bucket == "" {
		return nil, errors.New("bucket name cannot be empty")
	}
	if len(keys) == 0 {
		return &BatchResult{}, nil
	}

	config := c.resolveDetectOptions(opts)
	batchID := uuid.NewString()

	c.logBatch(ctx, "starting batch word detection",
		"batch_id", batchID,
		"bucket", bucket,
		"items", len(keys),
		"concurrency", config.concurrency)

	results, errs := parallel.Map(ctx, keys, config.concurrency,
		func(ctx context.Context, _ int, key string) ([]Word, error) {
			return c.DetectWords(ctx, S3Image(bucket, key), opts...)
		})

	batch := &BatchResult{Results: results}
	for i, err := range errs {
		if err != nil {
			batch.Failed = append(batch.Failed, ItemError{Index: i, Key: keys[i], Err: err})
		}
	}

	c.logBatch(ctx, "batch word detection finished",
		"batch_id", batchID,
		"bucket", bucket,
		"items", len(keys),
		"failed", len(batch.Failed))

	return batch, nil
}

// DetectLabelsBatch runs label detection over every key in parallel.
// Results are index-aligned with keys and per-key failures are collected
// in Failed instead of aborting the batch.
func (c *Client) DetectLabelsBatch(
	ctx context.Context,
	bucket string,
	keys []string,
	opts ...DetectOption,
) (*LabelBatchResult, error) {
	if bucket == "" {
		return nil, errors.New("bucket name cannot be empty")
	}
	if len(keys) == 0 {
		return &LabelBatchResult{}, nil
	}

	config := c.resolveDetectOptions(opts)
	batchID := uuid.NewString()

	c.logBatch(ctx, "starting batch label detection",
		"batch_id", batchID,
		"bucket", bucket,
		"items", len(keys),
		"concurrency", config.concurrency)

	results, errs := parallel.Map(ctx, keys, config.concurrency,
		func(ctx context.Context, _ int, key string) ([]Label, error) {
			return c.DetectLabels(ctx, S3Image(bucket, key), opts...)
		})

	batch := &LabelBatchResult{Results: results}
	for i, err := range errs {
		if err != nil {
			batch.Failed = append(batch.Failed, ItemError{Index: i, Key: keys[i], Err: err})
		}
	}

	c.logBatch(ctx, "batch label detection finished",
		"batch_id", batchID,
		"bucket", bucket,
		"items", len(keys),
		"failed", len(batch.Failed))

	return batch, nil
}

// logBatch emits a batch lifecycle log line when logging is enabled.
func (c *Client) logBatch(ctx context.Context, msg string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.InfoContext(ctx, msg, args...)
}

// countErrors returns how many entries in errs are non-nil.
func countErrors(errs []error) int {
	count := 0
	for _, err := range errs {
		if err != nil {
			count++
		}
	}
	return count
}
