package s3

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ecastroth/awskit/internal/parallel"
	s3errors "github.com/ecastroth/awskit/s3/errors"
	del "github.com/ecastroth/awskit/s3/internal/operations/delete"
	"github.com/ecastroth/awskit/s3/s3types"
)

// transferOutcome is the per-item result inside a batch transfer.
type transferOutcome struct {
	moved bool
	bytes int64
}

// resolveBatchConfig applies client defaults and the per-call options.
func (b *Bucket) resolveBatchConfig(opts []s3types.BatchOption) *s3types.BatchOptionConfig {
	config := &s3types.BatchOptionConfig{
		Concurrency: b.client.getClientConfig().Concurrency,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}
	return config
}

// poolOptions translates batch options into worker pool options.
func poolOptions(config *s3types.BatchOptionConfig) []parallel.Option {
	if config.RateLimit <= 0 {
		return nil
	}
	burst := int(config.RateLimit)
	if burst < 1 {
		burst = 1
	}
	return []parallel.Option{
		parallel.WithLimiter(rate.NewLimiter(rate.Limit(config.RateLimit), burst)),
	}
}

// logBatch emits a structured log record when the client has a logger.
func (b *Bucket) logBatch(ctx context.Context, msg string, attrs ...slog.Attr) {
	logger := b.client.log()
	if logger == nil {
		return
	}
	logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// UploadFiles uploads a set of local files to this bucket in parallel.
// Each pair is probed first and skipped when the key already exists, so
// re-running a batch never re-uploads finished items.
//
// The batch never aborts on a per-item failure: every pair is attempted
// and failures are collected in BatchResult.Failed with the item's input
// index. The counts always satisfy
// Transferred + Skipped + len(Failed) == len(pairs).
//
// Returns:
//   - *BatchResult: Per-batch counters and the per-item failures
//   - error: Only for invalid input or a cancelled context, never for
//     individual item failures
//
// Example:
//
//	pairs := []s3types.TransferPair{
//	    {Key: "data/a.csv", Path: "/tmp/a.csv"},
//	    {Key: "data/b.csv", Path: "/tmp/b.csv"},
//	}
//	result, err := bucket.UploadFiles(ctx, pairs,
//	    s3.WithBatchConcurrency(8),
//	    s3.WithBatchRateLimit(50),
//	)
func (b *Bucket) UploadFiles(
	ctx context.Context,
	pairs []s3types.TransferPair,
	opts ...s3types.BatchOption,
) (*s3types.BatchResult, error) {
	startTime := time.Now()
	if len(pairs) == 0 {
		return &s3types.BatchResult{}, nil
	}
	for _, pair := range pairs {
		if pair.Key == "" || pair.Path == "" {
			return nil, s3errors.NewError("uploadFiles", s3errors.ErrInvalidInput).
				WithBucket(b.name).
				WithMessage("transfer pair has an empty key or path")
		}
	}

	config := b.resolveBatchConfig(opts)
	batchID := uuid.NewString()
	b.logBatch(ctx, "starting batch upload",
		slog.String("batch_id", batchID),
		slog.String("bucket", b.name),
		slog.String("description", config.Description),
		slog.Int("items", len(pairs)),
		slog.Int("concurrency", config.Concurrency),
	)

	var done atomic.Int64
	total := int64(len(pairs))

	outcomes, errs := parallel.Map(ctx, pairs, config.Concurrency,
		func(ctx context.Context, _ int, pair s3types.TransferPair) (transferOutcome, error) {
			defer func() {
				if config.ProgressTracker != nil {
					config.ProgressTracker.Update(done.Add(1), total)
				}
			}()

			exists, err := b.client.Exists(ctx, b.name, pair.Key)
			if err != nil {
				return transferOutcome{}, err
			}
			if exists {
				return transferOutcome{moved: false}, nil
			}

			res, err := b.client.UploadFile(ctx, b.name, pair.Key, pair.Path)
			if err != nil {
				return transferOutcome{}, err
			}
			return transferOutcome{moved: true, bytes: res.Size}, nil
		},
		poolOptions(config)...,
	)

	result := collectTransferResult(pairs, outcomes, errs)
	result.Duration = time.Since(startTime)
	if config.ProgressTracker != nil {
		config.ProgressTracker.Complete()
	}

	b.logBatch(ctx, "batch upload finished",
		slog.String("batch_id", batchID),
		slog.String("bucket", b.name),
		slog.Int("transferred", result.Transferred),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", len(result.Failed)),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// DownloadFiles downloads a set of objects from this bucket to local
// files in parallel. A pair whose local file already exists is skipped,
// making interrupted batches cheap to resume.
//
// Semantics mirror UploadFiles: per-item failures land in
// BatchResult.Failed and never abort the batch, and
// Transferred + Skipped + len(Failed) == len(pairs).
//
// Example:
//
//	result, err := bucket.DownloadFiles(ctx, pairs,
//	    s3.WithBatchConcurrency(8),
//	)
func (b *Bucket) DownloadFiles(
	ctx context.Context,
	pairs []s3types.TransferPair,
	opts ...s3types.BatchOption,
) (*s3types.BatchResult, error) {
	startTime := time.Now()
	if len(pairs) == 0 {
		return &s3types.BatchResult{}, nil
	}
	for _, pair := range pairs {
		if pair.Key == "" || pair.Path == "" {
			return nil, s3errors.NewError("downloadFiles", s3errors.ErrInvalidInput).
				WithBucket(b.name).
				WithMessage("transfer pair has an empty key or path")
		}
	}

	config := b.resolveBatchConfig(opts)
	batchID := uuid.NewString()
	b.logBatch(ctx, "starting batch download",
		slog.String("batch_id", batchID),
		slog.String("bucket", b.name),
		slog.String("description", config.Description),
		slog.Int("items", len(pairs)),
		slog.Int("concurrency", config.Concurrency),
	)

	var done atomic.Int64
	total := int64(len(pairs))

	outcomes, errs := parallel.Map(ctx, pairs, config.Concurrency,
		func(ctx context.Context, _ int, pair s3types.TransferPair) (transferOutcome, error) {
			defer func() {
				if config.ProgressTracker != nil {
					config.ProgressTracker.Update(done.Add(1), total)
				}
			}()

			exists, err := b.client.fs.Exists(pair.Path)
			if err != nil {
				return transferOutcome{}, err
			}
			if exists {
				return transferOutcome{moved: false}, nil
			}

			res, err := b.client.DownloadFile(ctx, b.name, pair.Key, pair.Path)
			if err != nil {
				return transferOutcome{}, err
			}
			return transferOutcome{moved: true, bytes: res.Size}, nil
		},
		poolOptions(config)...,
	)

	result := collectTransferResult(pairs, outcomes, errs)
	result.Duration = time.Since(startTime)
	if config.ProgressTracker != nil {
		config.ProgressTracker.Complete()
	}

	b.logBatch(ctx, "batch download finished",
		slog.String("batch_id", batchID),
		slog.String("bucket", b.name),
		slog.Int("transferred", result.Transferred),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", len(result.Failed)),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// DeleteObjects deletes the given keys from this bucket.
// Keys are chunked into DeleteObjects requests of at most 1000 keys and
// the chunks are issued in parallel. Per-key failures reported by S3
// land in BatchResult.Failed; Transferred counts the deleted keys.
//
// Example:
//
//	result, err := bucket.DeleteObjects(ctx, keys)
//	fmt.Printf("deleted %d of %d\n", result.Transferred, len(keys))
func (b *Bucket) DeleteObjects(
	ctx context.Context,
	keys []string,
	opts ...s3types.BatchOption,
) (*s3types.BatchResult, error) {
	startTime := time.Now()
	if len(keys) == 0 {
		return &s3types.BatchResult{}, nil
	}
	for _, key := range keys {
		if key == "" {
			return nil, s3errors.NewError("deleteObjects", s3errors.ErrInvalidInput).
				WithBucket(b.name).
				WithMessage("empty key in keys slice")
		}
	}

	config := b.resolveBatchConfig(opts)
	batchID := uuid.NewString()
	b.logBatch(ctx, "starting batch delete",
		slog.String("batch_id", batchID),
		slog.String("bucket", b.name),
		slog.String("description", config.Description),
		slog.Int("items", len(keys)),
		slog.Int("concurrency", config.Concurrency),
	)

	// First input index of every key, to report failures against the
	// caller's slice.
	keyIndex := make(map[string]int, len(keys))
	for i, key := range keys {
		if _, seen := keyIndex[key]; !seen {
			keyIndex[key] = i
		}
	}

	deleter := b.client.newDeleter()
	chunks := parallel.Chunk(keys, del.MaxKeysPerRequest)

	var done atomic.Int64
	total := int64(len(keys))

	chunkResults, errs := parallel.Map(ctx, chunks, config.Concurrency,
		func(ctx context.Context, _ int, chunk []string) (*s3types.DeleteResult, error) {
			res, err := deleter.DeleteChunk(ctx, b.name, chunk)
			if config.ProgressTracker != nil {
				config.ProgressTracker.Update(done.Add(int64(len(chunk))), total)
			}
			return res, err
		},
		poolOptions(config)...,
	)

	result := &s3types.BatchResult{}
	for i, chunkResult := range chunkResults {
		if errs != nil && errs[i] != nil {
			// The whole chunk failed as one request.
			for _, key := range chunks[i] {
				result.Failed = append(result.Failed, s3types.BatchError{
					Index: keyIndex[key],
					Key:   key,
					Err:   s3errors.MapAWS(errs[i]),
				})
			}
			continue
		}
		result.Transferred += len(chunkResult.Deleted)
		for _, delErr := range chunkResult.Errors {
			cause := s3errors.MapAWS(&smithy.GenericAPIError{
				Code:    delErr.Code,
				Message: delErr.Message,
			})
			result.Failed = append(result.Failed, s3types.BatchError{
				Index: keyIndex[delErr.Key],
				Key:   delErr.Key,
				Err: s3errors.NewError("deleteObjects", cause).
					WithBucket(b.name).
					WithKey(delErr.Key).
					WithMessage(delErr.Code + ": " + delErr.Message),
			})
		}
	}
	result.Duration = time.Since(startTime)
	if config.ProgressTracker != nil {
		config.ProgressTracker.Complete()
	}

	b.logBatch(ctx, "batch delete finished",
		slog.String("batch_id", batchID),
		slog.String("bucket", b.name),
		slog.Int("deleted", result.Transferred),
		slog.Int("failed", len(result.Failed)),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// ListAllKeys returns every object key in this bucket, following
// pagination to the end. Options such as WithPrefix narrow the listing.
//
// Example:
//
//	keys, err := bucket.ListAllKeys(ctx, s3.WithPrefix("logs/2024/"))
func (b *Bucket) ListAllKeys(ctx context.Context, opts ...s3types.ListOption) ([]string, error) {
	keys := make([]string, 0)

	objects, errs := b.client.ListAll(ctx, b.name, opts...)
	for obj := range objects {
		keys = append(keys, obj.Key)
	}
	if err := <-errs; err != nil {
		return nil, err
	}

	return keys, nil
}

// collectTransferResult folds per-item outcomes into a BatchResult.
func collectTransferResult(
	pairs []s3types.TransferPair,
	outcomes []transferOutcome,
	errs []error,
) *s3types.BatchResult {
	result := &s3types.BatchResult{}

	for i := range pairs {
		if errs != nil && errs[i] != nil {
			result.Failed = append(result.Failed, s3types.BatchError{
				Index: i,
				Key:   pairs[i].Key,
				Path:  pairs[i].Path,
				Err:   errs[i],
			})
			continue
		}
		if outcomes[i].moved {
			result.Transferred++
			result.BytesTransferred += outcomes[i].bytes
		} else {
			result.Skipped++
		}
	}

	return result
}
