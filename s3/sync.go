package s3

import (
	"context"
	"hash"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	s3errors "github.com/ecastroth/awskit/s3/errors"
	"github.com/ecastroth/awskit/s3/internal/sync/comparator"
	"github.com/ecastroth/awskit/s3/internal/sync/executor"
	"github.com/ecastroth/awskit/s3/internal/sync/planner"
	"github.com/ecastroth/awskit/s3/internal/sync/scanner"
	"github.com/ecastroth/awskit/s3/internal/sync/sync"
	"github.com/ecastroth/awskit/s3/s3types"
)

// SyncToRemote mirrors a local directory into an S3 prefix.
//
// The sync runs in three phases: both sides are scanned into
// inventories, the inventories are diffed into a plan of uploads,
// deletes and skips, and the plan is executed with bounded parallelism.
// Unchanged files are detected by size, then by MD5 against single-part
// ETags, then by modification time; WithSyncComparator swaps in another
// strategy. By default nothing is removed from the bucket; use
// WithSyncDeleteExtra to delete objects with no local counterpart.
//
// Per-file failures do not abort the sync. They are reported in
// SyncResult.Errors while the remaining files get their attempt.
//
// Returns:
//   - *SyncResult: Counts, per-file errors and, for dry runs, the plan
//   - error: Returns an error if scanning or planning fails
//
// Errors:
//   - ErrInvalidInput: If localPath or bucket is empty, a pattern is
//     malformed, or localPath does not exist
//   - ErrBucketNotFound: If the bucket doesn't exist
//   - ErrAccessDenied: If credentials lack permission to list
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	result, err := client.SyncToRemote(ctx, "/var/reports", "my-bucket", "reports/",
//	    s3.WithSyncExcludePattern("*.tmp"),
//	    s3.WithSyncDeleteExtra(true),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("uploaded %d, skipped %d, deleted %d\n",
//	    result.FilesUploaded, result.FilesSkipped, result.FilesDeleted)
func (c *Client) SyncToRemote(
	ctx context.Context,
	localPath, bucket, prefix string,
	opts ...s3types.SyncOption,
) (*s3types.SyncResult, error) {
	return c.runSync(ctx, planner.DirectionToRemote, localPath, bucket, prefix, opts)
}

// SyncFromRemote mirrors an S3 prefix into a local directory.
//
// The direction is the mirror image of SyncToRemote: new and changed
// objects are downloaded, unchanged files are skipped, and with
// WithSyncDeleteExtra local files with no remote counterpart are
// removed. A localPath that does not exist yet is created by the first
// download.
//
// Returns:
//   - *SyncResult: Counts, per-file errors and, for dry runs, the plan
//   - error: Returns an error if scanning or planning fails
//
// Errors:
//   - ErrInvalidInput: If localPath or bucket is empty or a pattern is
//     malformed
//   - ErrBucketNotFound: If the bucket doesn't exist
//   - ErrAccessDenied: If credentials lack permission to list
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	result, err := client.SyncFromRemote(ctx, "my-bucket", "reports/", "/var/reports",
//	    s3.WithSyncIncludePattern("**/*.csv"),
//	)
func (c *Client) SyncFromRemote(
	ctx context.Context,
	bucket, prefix, localPath string,
	opts ...s3types.SyncOption,
) (*s3types.SyncResult, error) {
	return c.runSync(ctx, planner.DirectionFromRemote, localPath, bucket, prefix, opts)
}

// runSync is the shared body of both sync directions.
func (c *Client) runSync(
	ctx context.Context,
	direction planner.Direction,
	localPath, bucket, prefix string,
	opts []s3types.SyncOption,
) (*s3types.SyncResult, error) {
	cfg := &s3types.SyncOptionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if localPath == "" {
		return nil, s3errors.NewError("sync", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("local path cannot be empty")
	}
	if bucket == "" {
		return nil, s3errors.NewError("sync", s3errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}

	patterns := append(append([]string{}, cfg.IncludePatterns...), cfg.ExcludePatterns...)
	if errs := scanner.NewPatternMatcher().ValidatePatterns(patterns); len(errs) > 0 {
		return nil, s3errors.NewError("sync", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage(errs[0].Error())
	}

	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	absPath, err := filepath.Abs(localPath)
	if err != nil {
		return nil, s3errors.NewError("sync", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("resolve local path: " + err.Error())
	}

	// Uploading from a directory that does not exist is a caller bug;
	// downloading into one is how a fresh mirror starts.
	if direction == planner.DirectionToRemote {
		exists, err := c.fs.Exists(absPath)
		if err != nil {
			return nil, s3errors.NewError("sync", s3errors.MapAWS(err)).WithBucket(bucket)
		}
		if !exists {
			return nil, s3errors.NewError("sync", s3errors.ErrInvalidInput).
				WithBucket(bucket).
				WithMessage("local path does not exist: " + absPath)
		}
	}

	clientCfg := c.getClientConfig()

	comp := cfg.Comparator
	if comp == nil {
		comp = comparator.NewSmart(c.fs)
	}

	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = clientCfg.Concurrency
	}

	ex := executor.New(c.s3Client, c.fs, parallelism).
		WithBucketOwner(clientCfg.ExpectedBucketOwner)
	if cfg.ProgressTracker != nil {
		ex = ex.WithProgressTracker(cfg.ProgressTracker)
	}

	manager := sync.NewManager(
		scanner.New(c.s3Client, c.fs),
		planner.New(comp),
		ex,
	)

	syncID := uuid.NewString()
	c.logSync(ctx, "starting sync",
		slog.String("sync_id", syncID),
		slog.String("direction", string(direction)),
		slog.String("bucket", bucket),
		slog.String("prefix", prefix),
		slog.String("local_path", absPath),
		slog.Bool("dry_run", cfg.DryRun),
		slog.Int("parallelism", parallelism),
	)

	result, err := manager.Run(ctx, &sync.Config{
		Direction:       direction,
		LocalPath:       absPath,
		Bucket:          bucket,
		Prefix:          prefix,
		IncludePatterns: cfg.IncludePatterns,
		ExcludePatterns: cfg.ExcludePatterns,
		DeleteExtra:     cfg.DeleteExtra,
		DryRun:          cfg.DryRun,
	})
	if err != nil {
		return nil, s3errors.NewError("sync", s3errors.MapAWS(err)).WithBucket(bucket)
	}

	public := &s3types.SyncResult{
		FilesUploaded:   result.FilesUploaded,
		FilesDownloaded: result.FilesDownloaded,
		FilesSkipped:    result.FilesSkipped,
		FilesDeleted:    result.FilesDeleted,
		BytesUploaded:   result.BytesUploaded,
		BytesDownloaded: result.BytesDownloaded,
		Errors:          result.Errors,
		Planned:         plannedOperations(result.Planned),
		Duration:        result.Duration,
	}

	c.logSync(ctx, "sync finished",
		slog.String("sync_id", syncID),
		slog.String("direction", string(direction)),
		slog.String("bucket", bucket),
		slog.Int("uploaded", public.FilesUploaded),
		slog.Int("downloaded", public.FilesDownloaded),
		slog.Int("skipped", public.FilesSkipped),
		slog.Int("deleted", public.FilesDeleted),
		slog.Int("failed", len(public.Errors)),
		slog.Duration("duration", public.Duration),
	)

	return public, nil
}

// logSync emits a structured log record when the client has a logger.
func (c *Client) logSync(ctx context.Context, msg string, attrs ...slog.Attr) {
	logger := c.log()
	if logger == nil {
		return
	}
	logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// plannedOperations converts a dry-run plan to its public form. Skips
// are reported through FilesSkipped, not as planned actions.
func plannedOperations(operations []*planner.Operation) []s3types.PlannedOperation {
	if len(operations) == 0 {
		return nil
	}

	planned := make([]s3types.PlannedOperation, 0, len(operations))
	for _, op := range operations {
		if op.Type == planner.OperationSkip {
			continue
		}
		planned = append(planned, s3types.PlannedOperation{
			Action: string(op.Type),
			Path:   op.LocalPath,
			Key:    op.RemoteKey,
			Size:   op.Size,
			Reason: op.Reason,
		})
	}
	return planned
}

// NewSmartComparator returns the default sync comparator: size first,
// MD5 against single-part ETags second, modification time last. Pass
// the filesystem the client reads from, normally the same value given
// to WithFilesystem.
func NewSmartComparator(filesystem fs.Filesystem) s3types.FileComparator {
	return comparator.NewSmart(filesystem)
}

// NewSizeOnlyComparator returns a sync comparator that only compares
// file sizes. Fast, but edits that keep the size are missed.
func NewSizeOnlyComparator() s3types.FileComparator {
	return comparator.NewSizeOnly()
}

// NewModTimeComparator returns a sync comparator that compares
// modification times within the given tolerance. A non-positive
// tolerance uses the default of two seconds.
func NewModTimeComparator(tolerance time.Duration) s3types.FileComparator {
	return comparator.NewModTime(tolerance)
}

// NewChecksumComparator returns a sync comparator that always hashes
// local content and compares it against single-part ETags. The most
// accurate strategy, at the cost of reading every candidate file.
func NewChecksumComparator(filesystem fs.Filesystem) s3types.FileComparator {
	return comparator.NewChecksum(filesystem)
}

// NewChecksumComparatorWithHash is NewChecksumComparator with a custom
// hash constructor, for callers that maintain non-MD5 content hashes.
func NewChecksumComparatorWithHash(filesystem fs.Filesystem, hashFunc func() hash.Hash) s3types.FileComparator {
	return comparator.NewChecksumWithHash(filesystem, hashFunc)
}
