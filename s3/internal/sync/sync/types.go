package sync

import (
	"time"

	"github.com/ecastroth/awskit/s3/internal/sync/planner"
	"github.com/ecastroth/awskit/s3/s3types"
)

// Config holds the parameters for one sync run.
type Config struct {
	// Direction selects which side is mirrored onto the other
	Direction planner.Direction

	// LocalPath is the local directory side of the sync
	LocalPath string

	// Bucket is the S3 bucket side of the sync
	Bucket string

	// Prefix narrows the remote side to one key prefix
	Prefix string

	// IncludePatterns are glob patterns files must match
	IncludePatterns []string

	// ExcludePatterns are glob patterns that filter files out
	ExcludePatterns []string

	// DeleteExtra removes destination files absent from the source
	DeleteExtra bool

	// DryRun plans without transferring or deleting anything
	DryRun bool
}

// Result reports what a sync run did, or for a dry run, what it would
// have done.
type Result struct {
	// FilesUploaded is the number of files uploaded
	FilesUploaded int

	// FilesDownloaded is the number of objects downloaded
	FilesDownloaded int

	// FilesSkipped is the number of files already in sync
	FilesSkipped int

	// FilesDeleted is the number of extra files removed
	FilesDeleted int

	// BytesUploaded is the total bytes uploaded
	BytesUploaded int64

	// BytesDownloaded is the total bytes downloaded
	BytesDownloaded int64

	// Errors holds per-file failures; the run continues past them
	Errors []s3types.SyncError

	// Planned carries the full plan when DryRun was set
	Planned []*planner.Operation

	// Duration is how long the run took
	Duration time.Duration
}
