package executor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/ecastroth/awskit/internal/parallel"
	del "github.com/ecastroth/awskit/s3/internal/operations/delete"
	"github.com/ecastroth/awskit/s3/internal/operations/download"
	"github.com/ecastroth/awskit/s3/internal/operations/upload"
	"github.com/ecastroth/awskit/s3/internal/s3api"
	"github.com/ecastroth/awskit/s3/internal/sync/planner"
	"github.com/ecastroth/awskit/s3/s3types"
)

// defaultConcurrency bounds parallel transfers when the caller does not
// configure a limit.
const defaultConcurrency = 5

// Executor runs a planned operation list against S3 and the local
// filesystem with bounded parallelism.
type Executor struct {
	client      s3api.S3API
	filesystem  fs.Filesystem
	uploader    *upload.Uploader
	downloader  *download.Downloader
	deleter     *del.Deleter
	concurrency int
	owner       string
	tracker     s3types.ProgressTracker
}

// New creates an executor over the given S3 client and filesystem.
func New(client s3api.S3API, filesystem fs.Filesystem, concurrency int) *Executor {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Executor{
		client:      client,
		filesystem:  filesystem,
		uploader:    upload.New(client),
		downloader:  download.New(client, filesystem),
		deleter:     del.New(client, ""),
		concurrency: concurrency,
	}
}

// WithProgressTracker reports operation completion through the tracker.
func (e *Executor) WithProgressTracker(tracker s3types.ProgressTracker) *Executor {
	e.tracker = tracker
	return e
}

// WithBucketOwner stamps every request with the expected bucket owner.
func (e *Executor) WithBucketOwner(owner string) *Executor {
	e.owner = owner
	e.deleter = del.New(e.client, owner)
	return e
}

// Result aggregates what one execution actually did.
type Result struct {
	// FilesUploaded is the number of files uploaded
	FilesUploaded int

	// FilesDownloaded is the number of objects downloaded
	FilesDownloaded int

	// FilesSkipped is the number of operations skipped as unchanged
	FilesSkipped int

	// FilesDeleted is the number of extra files removed
	FilesDeleted int

	// BytesUploaded is the total bytes uploaded
	BytesUploaded int64

	// BytesDownloaded is the total bytes downloaded
	BytesDownloaded int64

	// Errors holds the per-item failures; a failure never stops the
	// remaining operations
	Errors []s3types.SyncError

	// Duration is how long the execution took
	Duration time.Duration
}

// Run executes the plan: transfers first with bounded parallelism, then
// deletes. Per-item failures are collected in the result, so every
// operation gets its attempt even when siblings fail.
func (e *Executor) Run(
	ctx context.Context,
	bucket string,
	operations []*planner.Operation,
) (*Result, error) {
	startTime := time.Now()
	result := &Result{}

	var transfers []*planner.Operation
	var remoteDeletes []string
	var localDeletes []*planner.Operation

	for _, op := range operations {
		switch op.Type {
		case planner.OperationUpload, planner.OperationDownload:
			transfers = append(transfers, op)
		case planner.OperationDelete:
			if op.LocalPath != "" {
				localDeletes = append(localDeletes, op)
			} else {
				remoteDeletes = append(remoteDeletes, op.RemoteKey)
			}
		case planner.OperationSkip:
			result.FilesSkipped++
		}
	}

	e.runTransfers(ctx, bucket, transfers, result)
	e.runRemoteDeletes(ctx, bucket, remoteDeletes, result)
	e.runLocalDeletes(localDeletes, result)

	if e.tracker != nil {
		e.tracker.Complete()
	}

	result.Duration = time.Since(startTime)
	return result, nil
}

// runTransfers uploads and downloads through the worker pool in plan
// order, so the planner's smallest-first ordering is preserved.
func (e *Executor) runTransfers(
	ctx context.Context,
	bucket string,
	transfers []*planner.Operation,
	result *Result,
) {
	if len(transfers) == 0 {
		return
	}

	var done atomic.Int64
	total := int64(len(transfers))

	moved, errs := parallel.Map(ctx, transfers, e.concurrency,
		func(ctx context.Context, _ int, op *planner.Operation) (int64, error) {
			defer func() {
				if e.tracker != nil {
					e.tracker.Update(done.Add(1), total)
				}
			}()

			if op.Type == planner.OperationUpload {
				return e.uploadOne(ctx, bucket, op)
			}
			return e.downloadOne(ctx, bucket, op)
		})

	for i, op := range transfers {
		if errs != nil && errs[i] != nil {
			result.Errors = append(result.Errors, s3types.SyncError{
				Path:    transferErrorPath(op),
				Code:    string(op.Type),
				Message: errs[i].Error(),
			})
			continue
		}
		if op.Type == planner.OperationUpload {
			result.FilesUploaded++
			result.BytesUploaded += moved[i]
		} else {
			result.FilesDownloaded++
			result.BytesDownloaded += moved[i]
		}
	}
}

// uploadOne sends one local file to the bucket and returns the bytes
// written.
func (e *Executor) uploadOne(ctx context.Context, bucket string, op *planner.Operation) (int64, error) {
	file, err := e.filesystem.Open(op.LocalPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	config := &s3types.UploadConfig{ExpectedBucketOwner: e.owner}
	uploaded, err := e.uploader.UploadFile(ctx, bucket, op.RemoteKey, file, op.Size, config, time.Now())
	if err != nil {
		return 0, err
	}
	return uploaded.Size, nil
}

// downloadOne fetches one object into its local path, creating parent
// directories as needed.
func (e *Executor) downloadOne(ctx context.Context, bucket string, op *planner.Operation) (int64, error) {
	config := &s3types.DownloadConfig{ExpectedBucketOwner: e.owner}
	downloaded, err := e.downloader.DownloadFile(ctx, bucket, op.RemoteKey, op.LocalPath, config, time.Now())
	if err != nil {
		return 0, err
	}
	return downloaded.Size, nil
}

// runRemoteDeletes drains extra object keys through chunked
// DeleteObjects requests.
func (e *Executor) runRemoteDeletes(
	ctx context.Context,
	bucket string,
	keys []string,
	result *Result,
) {
	if len(keys) == 0 {
		return
	}

	deleted, err := e.deleter.DeleteAll(ctx, bucket, keys, e.concurrency)
	if err != nil {
		for _, key := range keys {
			result.Errors = append(result.Errors, s3types.SyncError{
				Path:    key,
				Code:    string(planner.OperationDelete),
				Message: err.Error(),
			})
		}
		return
	}

	result.FilesDeleted += len(deleted.Deleted)
	for _, failure := range deleted.Errors {
		result.Errors = append(result.Errors, s3types.SyncError{
			Path:    failure.Key,
			Code:    string(planner.OperationDelete),
			Message: failure.Message,
		})
	}
}

// runLocalDeletes removes extra local files one by one. Unlinks are
// cheap, so no pool here.
func (e *Executor) runLocalDeletes(operations []*planner.Operation, result *Result) {
	for _, op := range operations {
		if err := e.filesystem.Remove(op.LocalPath); err != nil {
			result.Errors = append(result.Errors, s3types.SyncError{
				Path:    op.LocalPath,
				Code:    string(planner.OperationDelete),
				Message: err.Error(),
			})
			continue
		}
		result.FilesDeleted++
	}
}

// transferErrorPath picks the most useful identifier for an error
// report: the local path for uploads, the object key for downloads.
func transferErrorPath(op *planner.Operation) string {
	if op.Type == planner.OperationUpload {
		return op.LocalPath
	}
	return op.RemoteKey
}
