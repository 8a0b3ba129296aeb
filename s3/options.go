// Package s3 provides functional options for configuring S3 client behavior.
// These options follow the functional options pattern for clean, composable configuration.
package s3

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/ecastroth/awskit/s3/s3types"
)

// WithRegion sets the AWS region for S3 operations.
// If not specified, uses the default AWS region from the credential chain.
func WithRegion(region string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Region = region
	}
}

// WithProfile selects a named profile from the shared AWS config files.
// Leave unset to use the default credential chain.
func WithProfile(profile string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Profile = profile
	}
}

// WithStaticCredentials sets explicit AWS credentials instead of the
// default chain. The session token may be empty for long-lived keys.
func WithStaticCredentials(accessKeyID, secretAccessKey, sessionToken string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.StaticCredentials = &s3types.StaticCredentials{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
			SessionToken:    sessionToken,
		}
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithMaxRetries sets the maximum number of retry attempts for failed operations.
// Default is 3 retries. Set to 0 to disable retries.
func WithMaxRetries(maxRetries int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the timeout for individual S3 operations.
// Default is no timeout (0). Values should be positive durations.
func WithTimeout(timeout time.Duration) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithConcurrency sets the default number of parallel workers for batch
// operations and multipart transfers. Default is 5.
func WithConcurrency(concurrency int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithPartSize sets the part size for multipart uploads.
// Default is 8MB. Must be at least 5MB for S3 multipart uploads.
func WithPartSize(partSize int64) s3types.Option {
	return func(c *s3types.ClientConfig) {
		if partSize > 0 {
			c.PartSize = partSize
		}
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
// Default is false (uses virtual-hosted style).
func WithForcePathStyle(forcePathStyle bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
// Use this when you need fine-grained control over AWS SDK configuration.
func WithAWSConfig(config *aws.Config) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts and proxies.
func WithHTTPClient(client *http.Client) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.HTTPClient = client
	}
}

// WithExpectedBucketOwner pins object-level requests to the given AWS
// account ID. Requests against buckets owned by anyone else fail with
// access denied. Pair with ResolveCallerAccount to pin to the caller.
func WithExpectedBucketOwner(accountID string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.ExpectedBucketOwner = accountID
	}
}

// WithFilesystem sets a custom filesystem implementation for file operations.
// This allows using in-memory filesystems for testing or virtual filesystems.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithLogger sets the structured logger used by batch and bucket
// operations. A nil logger (the default) disables logging.
func WithLogger(logger *slog.Logger) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Logger = logger
	}
}

// WithContentType sets the content type for upload operations.
func WithContentType(contentType string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.ContentType = contentType
	}
}

// WithMetadata sets metadata for upload operations.
func WithMetadata(metadata map[string]string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
	}
}

// WithStorageClass sets the storage class for upload operations.
func WithStorageClass(storageClass s3types.StorageClass) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.StorageClass = storageClass
	}
}

// WithServerSideEncryption sets server-side encryption configuration for upload operations.
func WithServerSideEncryption(sse *s3types.SSEConfig) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.SSE = sse
	}
}

// WithACL sets the canned ACL for upload operations.
func WithACL(acl s3types.ObjectACL) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.ACL = acl
	}
}

// WithProgress sets a progress tracker for upload operations.
func WithProgress(tracker s3types.ProgressTracker) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.ProgressTracker = tracker
	}
}

// WithUploadPartSize sets the part size for multipart uploads in upload operations.
// This overrides the client-level default for this specific upload.
func WithUploadPartSize(partSize int64) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if partSize > 0 {
			c.PartSize = partSize
		}
	}
}

// WithUploadConcurrency sets the concurrency level for multipart uploads in upload operations.
// This overrides the client-level default for this specific upload.
func WithUploadConcurrency(concurrency int) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithDownloadProgress sets a progress tracker for download operations.
func WithDownloadProgress(tracker s3types.ProgressTracker) s3types.DownloadOption {
	return func(c *s3types.DownloadOptionConfig) {
		c.ProgressTracker = tracker
	}
}

// WithRange requests a byte range in the HTTP Range header format,
// e.g. "bytes=0-1023".
func WithRange(rangeSpec string) s3types.DownloadOption {
	return func(c *s3types.DownloadOptionConfig) {
		c.RangeSpec = rangeSpec
	}
}

// WithPrefix filters list results to keys with the given prefix.
func WithPrefix(prefix string) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		c.Prefix = prefix
	}
}

// WithDelimiter groups list results by the given delimiter,
// typically "/" for directory-style listings.
func WithDelimiter(delimiter string) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		c.Delimiter = delimiter
	}
}

// WithMaxKeys caps the number of keys returned per list page (1-1000).
func WithMaxKeys(maxKeys int32) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		if maxKeys > 0 {
			c.MaxKeys = maxKeys
		}
	}
}

// WithStartAfter starts listing after the given key.
func WithStartAfter(key string) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		c.StartAfter = key
	}
}

// WithContinuationToken resumes listing from a previous page's
// NextContinuationToken.
func WithContinuationToken(token string) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		c.ContinuationToken = token
	}
}

// WithBucketRegion sets the region a new bucket is created in.
func WithBucketRegion(region string) s3types.BucketOption {
	return func(c *s3types.BucketOptionConfig) {
		c.Region = region
	}
}

// WithEmptyBucket drains all objects from the bucket before deleting it.
// Without this option, deleting a non-empty bucket fails with
// ErrBucketNotEmpty.
func WithEmptyBucket() s3types.DeleteBucketOption {
	return func(c *s3types.DeleteBucketOptionConfig) {
		c.EmptyFirst = true
	}
}

// WithBatchConcurrency overrides the client-level worker count for a
// single batch operation.
func WithBatchConcurrency(concurrency int) s3types.BatchOption {
	return func(c *s3types.BatchOptionConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithBatchRateLimit paces a batch operation to at most rps SDK calls
// per second across all workers. Zero (the default) means unlimited.
func WithBatchRateLimit(rps float64) s3types.BatchOption {
	return func(c *s3types.BatchOptionConfig) {
		if rps > 0 {
			c.RateLimit = rps
		}
	}
}

// WithBatchProgress sets a progress tracker that receives one update per
// completed batch item.
func WithBatchProgress(tracker s3types.ProgressTracker) s3types.BatchOption {
	return func(c *s3types.BatchOptionConfig) {
		c.ProgressTracker = tracker
	}
}

// WithBatchDescription labels the batch in log output.
func WithBatchDescription(description string) s3types.BatchOption {
	return func(c *s3types.BatchOptionConfig) {
		c.Description = description
	}
}

// WithSyncDryRun plans the sync without executing any transfer or delete.
func WithSyncDryRun(dryRun bool) s3types.SyncOption {
	return func(c *s3types.SyncOptionConfig) {
		c.DryRun = dryRun
	}
}

// WithSyncIncludePattern adds a glob pattern; when any include pattern is
// set, only matching files take part in the sync.
func WithSyncIncludePattern(pattern string) s3types.SyncOption {
	return func(c *s3types.SyncOptionConfig) {
		c.IncludePatterns = append(c.IncludePatterns, pattern)
	}
}

// WithSyncExcludePattern adds a glob pattern; matching files are left out
// of the sync. Excludes take precedence over includes.
func WithSyncExcludePattern(pattern string) s3types.SyncOption {
	return func(c *s3types.SyncOptionConfig) {
		c.ExcludePatterns = append(c.ExcludePatterns, pattern)
	}
}

// WithSyncDeleteExtra removes files on the destination side that no
// longer exist on the source side.
func WithSyncDeleteExtra(deleteExtra bool) s3types.SyncOption {
	return func(c *s3types.SyncOptionConfig) {
		c.DeleteExtra = deleteExtra
	}
}

// WithSyncParallelism overrides the client-level worker count for a
// single sync operation.
func WithSyncParallelism(parallelism int) s3types.SyncOption {
	return func(c *s3types.SyncOptionConfig) {
		if parallelism > 0 {
			c.Parallelism = parallelism
		}
	}
}

// WithSyncProgressTracker sets a progress tracker for sync transfers.
func WithSyncProgressTracker(tracker s3types.ProgressTracker) s3types.SyncOption {
	return func(c *s3types.SyncOptionConfig) {
		c.ProgressTracker = tracker
	}
}

// WithSyncComparator overrides the change-detection strategy used to
// decide whether a file needs transferring.
func WithSyncComparator(comp s3types.FileComparator) s3types.SyncOption {
	return func(c *s3types.SyncOptionConfig) {
		c.Comparator = comp
	}
}
