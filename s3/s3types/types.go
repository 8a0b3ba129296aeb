// Package s3types provides shared type definitions for the S3 package.
package s3types

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// StorageClass represents the S3 storage class for objects.
type StorageClass string

// Predefined S3 storage classes
const (
	// StorageClassStandard is the default S3 storage class
	StorageClassStandard StorageClass = "STANDARD"

	// StorageClassReducedRedundancy provides reduced redundancy storage
	StorageClassReducedRedundancy StorageClass = "REDUCED_REDUNDANCY"

	// StorageClassStandardIA provides infrequent access storage
	StorageClassStandardIA StorageClass = "STANDARD_IA"

	// StorageClassOneZoneIA provides one zone infrequent access storage
	StorageClassOneZoneIA StorageClass = "ONEZONE_IA"

	// StorageClassIntelligentTiering provides intelligent tiering storage
	StorageClassIntelligentTiering StorageClass = "INTELLIGENT_TIERING"

	// StorageClassGlacier provides Glacier archival storage
	StorageClassGlacier StorageClass = "GLACIER"

	// StorageClassDeepArchive provides Deep Archive storage
	StorageClassDeepArchive StorageClass = "DEEP_ARCHIVE"

	// StorageClassGlacierIR provides Glacier Instant Retrieval storage
	StorageClassGlacierIR StorageClass = "GLACIER_IR"
)

// SSEType represents the server-side encryption type for objects.
type SSEType string

// Predefined server-side encryption types
const (
	// SSES3 uses S3-managed encryption keys
	SSES3 SSEType = "AES256"

	// SSEKMS uses AWS KMS-managed encryption keys
	SSEKMS SSEType = "aws:kms"
)

// ObjectACL represents the access control list for S3 objects.
type ObjectACL string

// Predefined object ACLs
const (
	// ACLPrivate grants private access (default)
	ACLPrivate ObjectACL = "private"

	// ACLPublicRead grants public read access
	ACLPublicRead ObjectACL = "public-read"

	// ACLPublicReadWrite grants public read and write access
	ACLPublicReadWrite ObjectACL = "public-read-write"

	// ACLAuthenticatedRead grants authenticated users read access
	ACLAuthenticatedRead ObjectACL = "authenticated-read"

	// ACLOwnerRead grants bucket owner read access
	ACLOwnerRead ObjectACL = "bucket-owner-read"

	// ACLOwnerFullControl grants bucket owner full control
	ACLOwnerFullControl ObjectACL = "bucket-owner-full-control"
)

// Object represents an S3 object with its basic metadata.
type Object struct {
	// Key is the S3 object key
	Key string

	// Size is the object size in bytes
	Size int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the S3 entity tag for the object
	ETag string

	// StorageClass is the S3 storage class
	StorageClass string
}

// ObjectMetadata contains detailed metadata about an S3 object.
type ObjectMetadata struct {
	// ContentType is the MIME type of the object
	ContentType string

	// ContentLength is the size of the object in bytes
	ContentLength int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the S3 entity tag for the object
	ETag string

	// Metadata contains user-defined metadata
	Metadata map[string]string
}

// BucketInfo describes a bucket returned by ListBuckets.
type BucketInfo struct {
	// Name is the bucket name
	Name string

	// CreatedAt is when the bucket was created
	CreatedAt time.Time
}

// TransferPair binds a local file path to an S3 object key for batch
// upload and download operations.
type TransferPair struct {
	// Key is the S3 object key
	Key string

	// Path is the local file path
	Path string
}

// BatchError records a single failed item within a batch operation.
type BatchError struct {
	// Index is the item's position in the batch input
	Index int

	// Key is the S3 object key involved, if any
	Key string

	// Path is the local file path involved, if any
	Path string

	// Err is the error that failed the item
	Err error
}

// BatchResult summarizes a batch operation. The counts always satisfy
// Transferred + Skipped + len(Failed) == number of input items.
type BatchResult struct {
	// Transferred is the number of items transferred (or deleted)
	Transferred int

	// Skipped is the number of items skipped because the target already existed
	Skipped int

	// Failed holds the per-item errors; successful items never appear here
	Failed []BatchError

	// BytesTransferred is the total payload bytes moved
	BytesTransferred int64

	// Duration is how long the batch took
	Duration time.Duration
}

// ProgressTracker is the interface for observing transfer progress.
// Implementations receive updates during uploads and downloads.
type ProgressTracker interface {
	// Update is called periodically with transfer progress
	Update(bytesTransferred, totalBytes int64)

	// Complete is called when the transfer completes successfully
	Complete()

	// Error is called when the transfer fails
	Error(err error)
}

// FileComparator decides whether a local file differs from its remote
// counterpart during sync operations.
type FileComparator interface {
	// HasChanged reports whether local and remote differ
	HasChanged(local *LocalFile, remote *RemoteFile) (bool, error)
}

// LocalFile represents a file on the local filesystem during sync operations.
type LocalFile struct {
	// Path is the local file path
	Path string

	// Size is the file size in bytes
	Size int64

	// ModTime is the file modification time
	ModTime time.Time
}

// RemoteFile represents an S3 object during sync operations.
type RemoteFile struct {
	// Key is the S3 object key
	Key string

	// Size is the object size in bytes
	Size int64

	// LastModified is when the object was last modified
	LastModified time.Time

	// ETag is the S3 entity tag, without surrounding quotes
	ETag string
}

// SSEConfig contains server-side encryption configuration.
type SSEConfig struct {
	// Type is the encryption type (S3-managed or KMS)
	Type SSEType

	// KMSKeyID is the KMS key ID, required for SSE-KMS
	KMSKeyID string
}

// UploadConfig carries resolved upload settings into the transfer layer.
type UploadConfig struct {
	ContentType         string
	Metadata            map[string]string
	StorageClass        StorageClass
	SSE                 *SSEConfig
	ACL                 ObjectACL
	ProgressTracker     ProgressTracker
	PartSize            int64
	Concurrency         int
	ExpectedBucketOwner string
}

// DownloadConfig carries resolved download settings into the transfer layer.
type DownloadConfig struct {
	ProgressTracker     ProgressTracker
	RangeSpec           string
	ExpectedBucketOwner string
}

// CopyOptionConfig carries resolved copy settings into the transfer layer.
type CopyOptionConfig struct {
	// Metadata replaces the object metadata when ReplaceMetadata is set
	Metadata map[string]string

	// ReplaceMetadata controls the metadata directive for the copy
	ReplaceMetadata bool

	// StorageClass is the storage class for the destination object
	StorageClass StorageClass

	// SSE is the server-side encryption for the destination object
	SSE *SSEConfig

	// ACL is the access control list for the destination object
	ACL ObjectACL
}

// UploadResult contains the result of an upload operation.
type UploadResult struct {
	// Key is the S3 object key that was uploaded
	Key string

	// Size is the size of the uploaded object in bytes
	Size int64

	// ETag is the S3 entity tag for the uploaded object
	ETag string

	// VersionID is the version ID if versioning is enabled
	VersionID string

	// Duration is how long the upload took
	Duration time.Duration
}

// DownloadResult contains the result of a download operation.
type DownloadResult struct {
	// Key is the S3 object key that was downloaded
	Key string

	// Size is the size of the downloaded object in bytes
	Size int64

	// ETag is the S3 entity tag for the downloaded object
	ETag string

	// VersionID is the version ID if versioning is enabled
	VersionID string

	// Duration is how long the download took
	Duration time.Duration
}

// DeleteResult contains the result of a multi-object delete.
type DeleteResult struct {
	// Deleted contains successfully deleted objects
	Deleted []Object

	// Errors contains per-key failures reported by S3
	Errors []DeleteError

	// Duration is how long the operation took
	Duration time.Duration
}

// DeleteError represents a per-key failure in a multi-object delete.
type DeleteError struct {
	// Key is the S3 object key that failed to delete
	Key string

	// Version is the version ID if specified
	Version string

	// Code is the S3 error code
	Code string

	// Message is the S3 error message
	Message string
}

// ListResult contains a single page of a list operation.
type ListResult struct {
	// Objects contains the listed objects
	Objects []Object

	// CommonPrefixes contains the grouped prefixes when a delimiter was set
	CommonPrefixes []string

	// IsTruncated indicates more results are available
	IsTruncated bool

	// NextContinuationToken fetches the next page when IsTruncated is true
	NextContinuationToken string

	// Duration is how long the operation took
	Duration time.Duration
}

// SyncResult contains the result of a sync operation.
type SyncResult struct {
	// FilesUploaded is the number of files uploaded
	FilesUploaded int

	// FilesDownloaded is the number of files downloaded
	FilesDownloaded int

	// FilesSkipped is the number of files skipped as unchanged
	FilesSkipped int

	// FilesDeleted is the number of extra files deleted
	FilesDeleted int

	// BytesUploaded is the total bytes uploaded
	BytesUploaded int64

	// BytesDownloaded is the total bytes downloaded
	BytesDownloaded int64

	// Errors contains any per-file errors that occurred during sync
	Errors []SyncError

	// Planned lists the operations the sync decided on. Populated only
	// for dry runs; a real run reports counts instead.
	Planned []PlannedOperation

	// Duration is how long the sync operation took
	Duration time.Duration
}

// SyncError represents a per-file error during a sync operation.
type SyncError struct {
	// Path is the file path or object key that caused the error
	Path string

	// Code classifies the failure (e.g. "upload", "download", "delete")
	Code string

	// Message is the error message
	Message string
}

// PlannedOperation describes one action a dry-run sync would perform.
type PlannedOperation struct {
	// Action is the operation kind: "upload", "download" or "delete"
	Action string

	// Path is the local file path involved, if any
	Path string

	// Key is the S3 object key involved
	Key string

	// Size is the number of bytes the operation would transfer
	Size int64

	// Reason explains why the operation was planned
	Reason string
}

// StaticCredentials holds explicit AWS credentials for WithStaticCredentials.
type StaticCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Configuration types for functional options

// ClientConfig holds configuration for the S3 client.
type ClientConfig struct {
	Region              string
	Profile             string
	Endpoint            string
	MaxRetries          int
	Timeout             time.Duration
	Concurrency         int
	PartSize            int64
	ForcePathStyle      bool
	ExpectedBucketOwner string
	StaticCredentials   *StaticCredentials
	CustomAWSConfig     *aws.Config
	HTTPClient          *http.Client
	Filesystem          fs.Filesystem
	Logger              *slog.Logger
}

// UploadOptionConfig holds per-call upload settings.
type UploadOptionConfig struct {
	ContentType     string
	Metadata        map[string]string
	StorageClass    StorageClass
	SSE             *SSEConfig
	ACL             ObjectACL
	ProgressTracker ProgressTracker
	PartSize        int64
	Concurrency     int
}

// DownloadOptionConfig holds per-call download settings.
type DownloadOptionConfig struct {
	ProgressTracker ProgressTracker
	RangeSpec       string
}

// ListOptionConfig holds per-call list settings.
type ListOptionConfig struct {
	Prefix            string
	Delimiter         string
	MaxKeys           int32
	StartAfter        string
	ContinuationToken string
}

// BucketOptionConfig holds per-call bucket creation settings.
type BucketOptionConfig struct {
	Region string
}

// DeleteBucketOptionConfig holds per-call bucket deletion settings.
type DeleteBucketOptionConfig struct {
	EmptyFirst bool
}

// BatchOptionConfig holds per-call batch operation settings.
type BatchOptionConfig struct {
	Concurrency     int
	RateLimit       float64
	ProgressTracker ProgressTracker
	Description     string
}

// SyncOptionConfig holds per-call sync settings.
type SyncOptionConfig struct {
	DryRun          bool
	ExcludePatterns []string
	IncludePatterns []string
	ProgressTracker ProgressTracker
	Parallelism     int
	Comparator      FileComparator
	DeleteExtra     bool
}

// Option is a functional option for configuring the S3 client.
type (
	Option func(*ClientConfig)
	// UploadOption configures a single upload operation.
	UploadOption func(*UploadOptionConfig)
	// DownloadOption configures a single download operation.
	DownloadOption func(*DownloadOptionConfig)
	// ListOption configures a single list operation.
	ListOption func(*ListOptionConfig)
	// BucketOption configures bucket creation.
	BucketOption func(*BucketOptionConfig)
	// DeleteBucketOption configures bucket deletion.
	DeleteBucketOption func(*DeleteBucketOptionConfig)
	// BatchOption configures a batch operation.
	BatchOption func(*BatchOptionConfig)
	// SyncOption configures a sync operation.
	SyncOption func(*SyncOptionConfig)
)
