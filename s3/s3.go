// Package s3 provides the main S3 client and core operations.
package s3

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"

	s3errors "github.com/ecastroth/awskit/s3/errors"
	"github.com/ecastroth/awskit/s3/internal/operations/copy"
	del "github.com/ecastroth/awskit/s3/internal/operations/delete"
	"github.com/ecastroth/awskit/s3/internal/operations/download"
	"github.com/ecastroth/awskit/s3/internal/operations/list"
	"github.com/ecastroth/awskit/s3/internal/operations/upload"
	"github.com/ecastroth/awskit/s3/internal/validation"
	"github.com/ecastroth/awskit/s3/s3types"
)

const (
	// DefaultContentType is the default content type used when content type detection fails
	DefaultContentType = "application/octet-stream"
)

// newUploadConfig builds the per-call upload configuration with client
// defaults applied, then runs the option functions over it.
func (c *Client) newUploadConfig(opts []s3types.UploadOption) *s3types.UploadOptionConfig {
	clientCfg := c.getClientConfig()
	config := &s3types.UploadOptionConfig{
		ContentType:  DefaultContentType,
		StorageClass: s3types.StorageClassStandard,
		Metadata:     make(map[string]string),
		PartSize:     clientCfg.PartSize,
		Concurrency:  clientCfg.Concurrency,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// toInternalUploadConfig converts the per-call options into the transfer
// layer config, stamping the client-level expected bucket owner.
func (c *Client) toInternalUploadConfig(config *s3types.UploadOptionConfig) *s3types.UploadConfig {
	return &s3types.UploadConfig{
		ContentType:         config.ContentType,
		Metadata:            validation.SanitizeMetadata(config.Metadata),
		StorageClass:        config.StorageClass,
		SSE:                 config.SSE,
		ACL:                 config.ACL,
		ProgressTracker:     config.ProgressTracker,
		PartSize:            config.PartSize,
		Concurrency:         config.Concurrency,
		ExpectedBucketOwner: c.getClientConfig().ExpectedBucketOwner,
	}
}

// Upload uploads data from an io.Reader to S3.
// It automatically detects when to use multipart upload based on size thresholds.
// Progress tracking and other options can be configured via UploadOption parameters.
//
// Returns:
//   - *UploadResult: Contains the uploaded object's metadata including ETag and duration
//   - error: Returns an error if the upload fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty, key is invalid, or reader is nil
//   - ErrAccessDenied: If the credentials lack permission to upload
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	file, err := os.Open("data.txt")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	result, err := client.Upload(ctx, "my-bucket", "data.txt", file,
//	    s3.WithContentType("text/plain"),
//	    s3.WithStorageClass(s3types.StorageClassStandardIA),
//	)
func (c *Client) Upload(
	ctx context.Context,
	bucket, key string,
	reader io.Reader,
	opts ...s3types.UploadOption,
) (*s3types.UploadResult, error) {
	if bucket == "" {
		return nil, s3errors.NewError("upload", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("upload", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if reader == nil {
		return nil, s3errors.NewError("upload", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("reader cannot be nil")
	}

	config := c.newUploadConfig(opts)

	// Determine content type if not explicitly set
	if config.ContentType == DefaultContentType {
		config.ContentType = c.detectContentType(key)
	}

	startTime := time.Now()

	uploader := upload.New(c.s3Client)
	result, err := uploader.Upload(ctx, bucket, key, reader, c.toInternalUploadConfig(config), startTime)
	if err != nil {
		return nil, s3errors.NewError("upload", s3errors.MapAWS(err)).WithBucket(bucket).WithKey(key)
	}

	return result, nil
}

// UploadFile uploads a file from the local filesystem to S3.
// It automatically detects when to use multipart upload based on file size.
//
// This is a convenience method that handles file opening and content type detection.
// Large files are uploaded through the SDK transfer manager with concurrent parts.
//
// Returns:
//   - *UploadResult: Contains the uploaded object's metadata including ETag and duration
//   - error: Returns an error if the upload fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty, key is invalid, or localPath is empty/directory
//   - ErrAccessDenied: If the credentials lack permission to upload
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - File system errors if the file cannot be read
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	result, err := client.UploadFile(ctx, "my-bucket", "docs/report.pdf", "/path/to/report.pdf",
//	    s3.WithProgress(progressTracker),
//	    s3.WithMetadata(map[string]string{"Author": "Jane"}),
//	)
func (c *Client) UploadFile(
	ctx context.Context,
	bucket, key, localPath string,
	opts ...s3types.UploadOption,
) (*s3types.UploadResult, error) {
	if bucket == "" {
		return nil, s3errors.NewError("uploadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("uploadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if localPath == "" {
		return nil, s3errors.NewError("uploadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("localPath cannot be empty")
	}

	// Check if file exists and get its info
	info, err := c.fs.Stat(localPath)
	if err != nil {
		return nil, s3errors.NewError("uploadFile", err).WithBucket(bucket).WithKey(key)
	}
	if info.IsDir() {
		return nil, s3errors.NewError("uploadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("localPath points to a directory, not a file")
	}

	config := c.newUploadConfig(opts)

	// Prefer sniffing the file content over guessing from the key
	if config.ContentType == DefaultContentType {
		config.ContentType = c.detectContentType(localPath)
	}

	file, err := c.fs.Open(localPath)
	if err != nil {
		return nil, s3errors.NewError("uploadFile", err).WithBucket(bucket).WithKey(key)
	}
	defer file.Close()

	size := info.Size()
	startTime := time.Now()

	uploader := upload.New(c.s3Client)
	result, err := uploader.UploadFile(ctx, bucket, key, file, size, c.toInternalUploadConfig(config), startTime)
	if err != nil {
		return nil, s3errors.NewError("uploadFile", s3errors.MapAWS(err)).WithBucket(bucket).WithKey(key)
	}

	return result, nil
}

// UploadFileIfAbsent uploads a local file only when the object key does
// not already exist in the bucket. It probes with a HEAD request first
// and skips the upload when the key is present.
//
// Returns:
//   - bool: true when an upload happened, false when the key already existed
//   - error: Returns an error if the probe or the upload fails
//
// Probe errors other than not-found propagate; a missing bucket is not
// treated as an absent key.
//
// Example:
//
//	uploaded, err := client.UploadFileIfAbsent(ctx, "my-bucket", "data/a.csv", "/tmp/a.csv")
//	if err != nil {
//	    return err
//	}
//	if !uploaded {
//	    log.Println("already present, skipped")
//	}
func (c *Client) UploadFileIfAbsent(
	ctx context.Context,
	bucket, key, localPath string,
	opts ...s3types.UploadOption,
) (bool, error) {
	exists, err := c.Exists(ctx, bucket, key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if _, err := c.UploadFile(ctx, bucket, key, localPath, opts...); err != nil {
		return false, err
	}
	return true, nil
}

// Put uploads byte data to S3.
// This is a convenience method for small amounts of data that fit in memory.
//
// Returns:
//   - error: Returns nil on success, or an error if the upload fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrAccessDenied: If the credentials lack permission to upload
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	data := []byte(`{"config": "value"}`)
//	err := client.Put(ctx, "my-bucket", "config.json", data,
//	    s3.WithContentType("application/json"),
//	)
func (c *Client) Put(ctx context.Context, bucket, key string, data []byte, opts ...s3types.UploadOption) error {
	if bucket == "" {
		return s3errors.NewError("put", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return s3errors.NewError("put", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	config := c.newUploadConfig(opts)

	if config.ContentType == DefaultContentType {
		config.ContentType = c.detectContentType(key)
	}

	startTime := time.Now()

	uploader := upload.New(c.s3Client)
	_, err := uploader.UploadSimple(ctx, bucket, key, data, c.toInternalUploadConfig(config), startTime)
	if err != nil {
		return s3errors.NewError("put", s3errors.MapAWS(err)).WithBucket(bucket).WithKey(key)
	}

	return nil
}

// Download downloads an object from S3 and writes it to an io.Writer.
// It provides stream-based downloading with memory-efficient handling of large files.
// Progress tracking and range requests can be configured via DownloadOption parameters.
//
// Returns:
//   - *DownloadResult: Contains the downloaded object's metadata and duration
//   - error: Returns an error if the download fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty, key is invalid, or writer is nil
//   - ErrObjectNotFound: If the specified object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to download
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - ErrInvalidRange: If the specified range is invalid
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	file, err := os.Create("downloaded.txt")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	result, err := client.Download(ctx, "my-bucket", "data.txt", file,
//	    s3.WithDownloadProgress(progressTracker),
//	)
func (c *Client) Download(
	ctx context.Context,
	bucket, key string,
	writer io.Writer,
	opts ...s3types.DownloadOption,
) (*s3types.DownloadResult, error) {
	if bucket == "" {
		return nil, s3errors.NewError("download", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("download", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if writer == nil {
		return nil, s3errors.NewError("download", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("writer cannot be nil")
	}

	config := &s3types.DownloadOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	startTime := time.Now()

	downloader := download.New(c.s3Client, c.fs)
	result, err := downloader.Download(ctx, bucket, key, writer, c.toInternalDownloadConfig(config), startTime)
	if err != nil {
		return nil, s3errors.NewError("download", s3errors.MapAWS(err)).WithBucket(bucket).WithKey(key)
	}

	return result, nil
}

// toInternalDownloadConfig converts per-call download options into the
// transfer layer config.
func (c *Client) toInternalDownloadConfig(config *s3types.DownloadOptionConfig) *s3types.DownloadConfig {
	return &s3types.DownloadConfig{
		ProgressTracker:     config.ProgressTracker,
		RangeSpec:           config.RangeSpec,
		ExpectedBucketOwner: c.getClientConfig().ExpectedBucketOwner,
	}
}

// DownloadFile downloads an object from S3 to a local file.
// The file will be created if it doesn't exist, or truncated if it does.
// Missing parent directories are created.
//
// Returns:
//   - *DownloadResult: Contains the downloaded object's metadata and duration
//   - error: Returns an error if the download fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty, key is invalid, or localPath is empty
//   - ErrObjectNotFound: If the specified object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to download
//   - File system errors if the file cannot be created or written
//   - Network errors or AWS SDK errors wrapped in Error type
func (c *Client) DownloadFile(
	ctx context.Context,
	bucket, key, localPath string,
	opts ...s3types.DownloadOption,
) (*s3types.DownloadResult, error) {
	if bucket == "" {
		return nil, s3errors.NewError("downloadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("downloadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if localPath == "" {
		return nil, s3errors.NewError("downloadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("localPath cannot be empty")
	}

	config := &s3types.DownloadOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	startTime := time.Now()

	downloader := download.New(c.s3Client, c.fs)
	result, err := downloader.DownloadFile(ctx, bucket, key, localPath, c.toInternalDownloadConfig(config), startTime)
	if err != nil {
		return nil, s3errors.NewError("downloadFile", s3errors.MapAWS(err)).WithBucket(bucket).WithKey(key)
	}

	return result, nil
}

// DownloadFileIfAbsent downloads an object to a local file only when the
// file does not already exist on the local filesystem.
//
// Returns:
//   - bool: true when a download happened, false when the local file existed
//   - error: Returns an error if the existence check or the download fails
//
// Example:
//
//	fetched, err := client.DownloadFileIfAbsent(ctx, "my-bucket", "img/cat.png", "./cache/cat.png")
func (c *Client) DownloadFileIfAbsent(
	ctx context.Context,
	bucket, key, localPath string,
	opts ...s3types.DownloadOption,
) (bool, error) {
	if localPath == "" {
		return false, s3errors.NewError("downloadFileIfAbsent", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("localPath cannot be empty")
	}

	exists, err := c.fs.Exists(localPath)
	if err != nil {
		return false, s3errors.NewError("downloadFileIfAbsent", err).WithBucket(bucket).WithKey(key)
	}
	if exists {
		return false, nil
	}

	if _, err := c.DownloadFile(ctx, bucket, key, localPath, opts...); err != nil {
		return false, err
	}
	return true, nil
}

// Get downloads an entire object from S3 and returns it as a byte slice.
// This is a convenience method for small objects that can fit in memory.
// For large objects, use Download or DownloadFile instead.
//
// Returns:
//   - []byte: The object's contents as a byte slice
//   - error: Returns an error if the download fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrObjectNotFound: If the specified object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to download
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	data, err := client.Get(ctx, "my-bucket", "config.json")
//	if err != nil {
//	    return err
//	}
//	var config Config
//	if err := json.Unmarshal(data, &config); err != nil {
//	    return err
//	}
func (c *Client) Get(ctx context.Context, bucket, key string, opts ...s3types.DownloadOption) ([]byte, error) {
	if bucket == "" {
		return nil, s3errors.NewError("get", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("get", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	config := &s3types.DownloadOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	startTime := time.Now()

	downloader := download.New(c.s3Client, c.fs)
	data, err := downloader.Get(ctx, bucket, key, c.toInternalDownloadConfig(config), startTime)
	if err != nil {
		return nil, s3errors.NewError("get", s3errors.MapAWS(err)).WithBucket(bucket).WithKey(key)
	}

	return data, nil
}

// List lists objects in an S3 bucket with support for pagination and filtering.
// It returns a ListResult containing objects and pagination information.
// Use opts to specify prefix, delimiter, max keys, and pagination options.
//
// Returns:
//   - *ListResult: Contains the objects, common prefixes, and pagination state
//   - error: Returns an error if the listing fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty
//   - ErrAccessDenied: If the credentials lack permission to list
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	result, err := client.List(ctx, "my-bucket",
//	    s3.WithPrefix("photos/"),
//	    s3.WithMaxKeys(100),
//	)
//	if err != nil {
//	    return err
//	}
//	for _, obj := range result.Objects {
//	    fmt.Printf("Object: %s, Size: %d\n", obj.Key, obj.Size)
//	}
//	if result.IsTruncated {
//	    // Continue with s3.WithContinuationToken(result.NextContinuationToken)
//	}
func (c *Client) List(
	ctx context.Context,
	bucket string,
	opts ...s3types.ListOption,
) (*s3types.ListResult, error) {
	if bucket == "" {
		return nil, s3errors.NewError("list", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("bucket name cannot be empty")
	}

	config := &s3types.ListOptionConfig{
		MaxKeys: 1000, // Default max keys
	}
	for _, opt := range opts {
		opt(config)
	}

	startTime := time.Now()

	page, err := list.New(c.s3Client).ListPage(ctx, &list.Config{
		Bucket:            bucket,
		Prefix:            config.Prefix,
		Delimiter:         config.Delimiter,
		MaxKeys:           config.MaxKeys,
		StartAfter:        config.StartAfter,
		ContinuationToken: config.ContinuationToken,
	})
	if err != nil {
		return nil, s3errors.NewError("list", s3errors.MapAWS(err)).WithBucket(bucket)
	}

	return &s3types.ListResult{
		Objects:               page.Objects,
		CommonPrefixes:        page.CommonPrefixes,
		IsTruncated:           page.IsTruncated,
		NextContinuationToken: page.NextContinuationToken,
		Duration:              time.Since(startTime),
	}, nil
}

// ListAll lists all objects in an S3 bucket using channel-based streaming.
// It automatically handles pagination and streams objects through the
// first channel. The second channel delivers at most one error before
// both channels close.
//
// Always consume both channels or cancel the context to avoid goroutine leaks.
//
// Returns:
//   - <-chan Object: Receives objects as pages arrive
//   - <-chan error: Receives the terminal error, if any
//
// Example:
//
//	objects, errs := client.ListAll(ctx, "my-bucket", s3.WithPrefix("photos/"))
//	for obj := range objects {
//	    fmt.Printf("Processing: %s (%d bytes)\n", obj.Key, obj.Size)
//	}
//	if err := <-errs; err != nil {
//	    return err
//	}
func (c *Client) ListAll(ctx context.Context, bucket string, opts ...s3types.ListOption) (<-chan s3types.Object, <-chan error) {
	config := &s3types.ListOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	objectChan := make(chan s3types.Object, 100) // Buffered channel for performance
	errChan := make(chan error, 1)

	go func() {
		defer close(objectChan)
		defer close(errChan)

		pages := list.New(c.s3Client).Pages(&list.Config{
			Bucket: bucket,
			Prefix: config.Prefix,
		})

		for pages.HasMorePages() {
			select {
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			default:
			}

			page, err := pages.NextPage(ctx)
			if err != nil {
				errChan <- s3errors.NewError("listAll", s3errors.MapAWS(err)).WithBucket(bucket)
				return
			}

			for _, object := range page.Objects {
				select {
				case objectChan <- object:
				case <-ctx.Done():
					errChan <- ctx.Err()
					return
				}
			}
		}
	}()

	return objectChan, errChan
}

// Delete deletes a single object from S3.
// Returns an error if the operation fails.
//
// This operation is idempotent - deleting a non-existent object doesn't return an error.
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrAccessDenied: If the credentials lack permission to delete
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	err := client.Delete(ctx, "my-bucket", "old-file.txt")
func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	if bucket == "" {
		return s3errors.NewError("delete", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return s3errors.NewError("delete", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if owner := c.getClientConfig().ExpectedBucketOwner; owner != "" {
		input.ExpectedBucketOwner = aws.String(owner)
	}

	if _, err := c.s3Client.DeleteObject(ctx, input); err != nil {
		return s3errors.NewError("delete", s3errors.MapAWS(err)).WithBucket(bucket).WithKey(key)
	}

	return nil
}

// DeleteMany deletes multiple objects from S3 in a single batch operation.
// This method uses S3's DeleteObjects API which can delete up to 1000 objects at once.
// Returns a DeleteResult containing information about successful and failed deletions.
//
// Each object deletion succeeds or fails independently; inspect
// DeleteResult.Errors for per-key failures.
//
// Returns:
//   - *DeleteResult: Contains lists of successfully deleted objects and any errors
//   - error: Returns an error if the request itself fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty, keys is empty, or >1000 keys provided
//   - ErrAccessDenied: If the credentials lack permission to delete
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	result, err := client.DeleteMany(ctx, "my-bucket", []string{"a.txt", "b.txt"})
//	if err != nil {
//	    return err
//	}
//	for _, e := range result.Errors {
//	    fmt.Printf("failed to delete %s: %s\n", e.Key, e.Message)
//	}
func (c *Client) DeleteMany(ctx context.Context, bucket string, keys []string) (*s3types.DeleteResult, error) {
	if bucket == "" {
		return nil, s3errors.NewError("deleteMany", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("bucket name cannot be empty")
	}
	if len(keys) == 0 {
		return nil, s3errors.NewError("deleteMany", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("keys cannot be empty")
	}

	// S3 allows up to 1000 objects per delete request
	const maxKeysPerRequest = 1000
	if len(keys) > maxKeysPerRequest {
		return nil, s3errors.NewError("deleteMany", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("too many keys: maximum is 1000 per request")
	}

	for _, key := range keys {
		if key == "" {
			return nil, s3errors.NewError("deleteMany", s3errors.ErrInvalidInput).
				WithBucket(bucket).
				WithMessage("empty key in keys slice")
		}
	}

	startTime := time.Now()

	deleter := c.newDeleter()
	result, err := deleter.DeleteChunk(ctx, bucket, keys)
	if err != nil {
		return nil, s3errors.NewError("deleteMany", s3errors.MapAWS(err)).WithBucket(bucket)
	}

	result.Duration = time.Since(startTime)
	return result, nil
}

// Exists checks if an object exists in S3 using a HEAD request.
// Returns true if the object exists, false if it doesn't exist.
// Returns an error for other types of failures (network issues, permissions, etc.).
//
// Returns:
//   - bool: true if object exists, false otherwise
//   - error: Returns nil for success/not-found, or error for other failures
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrAccessDenied: If the credentials lack permission to access
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	exists, err := client.Exists(ctx, "my-bucket", "data.txt")
//	if err != nil {
//	    return err
//	}
func (c *Client) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if bucket == "" {
		return false, s3errors.NewError("exists", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return false, s3errors.NewError("exists", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if owner := c.getClientConfig().ExpectedBucketOwner; owner != "" {
		input.ExpectedBucketOwner = aws.String(owner)
	}

	if _, err := c.s3Client.HeadObject(ctx, input); err != nil {
		if s3errors.IsNotFoundAPIError(err) {
			return false, nil
		}
		return false, s3errors.NewError("exists", s3errors.MapAWS(err)).WithBucket(bucket).WithKey(key)
	}

	return true, nil
}

// GetMetadata retrieves metadata for an S3 object without downloading the content.
// This is more efficient than Get() for metadata-only operations.
//
// Returns:
//   - *ObjectMetadata: The object's metadata information
//   - error: Returns an error if the operation fails
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrObjectNotFound: If the specified object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to access
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	metadata, err := client.GetMetadata(ctx, "my-bucket", "document.pdf")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Content-Type: %s\n", metadata.ContentType)
func (c *Client) GetMetadata(ctx context.Context, bucket, key string) (*s3types.ObjectMetadata, error) {
	if bucket == "" {
		return nil, s3errors.NewError("getMetadata", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, s3errors.NewError("getMetadata", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if owner := c.getClientConfig().ExpectedBucketOwner; owner != "" {
		input.ExpectedBucketOwner = aws.String(owner)
	}

	result, err := c.s3Client.HeadObject(ctx, input)
	if err != nil {
		return nil, s3errors.NewError("getMetadata", s3errors.MapAWS(err)).WithBucket(bucket).WithKey(key)
	}

	metadata := &s3types.ObjectMetadata{
		ContentType:   aws.ToString(result.ContentType),
		ContentLength: aws.ToInt64(result.ContentLength),
		LastModified:  aws.ToTime(result.LastModified),
		ETag:          aws.ToString(result.ETag),
	}

	if result.Metadata != nil {
		metadata.Metadata = make(map[string]string, len(result.Metadata))
		for k, v := range result.Metadata {
			metadata.Metadata[k] = v
		}
	}

	return metadata, nil
}

// Copy copies an object from one location to another within S3.
// This is a server-side copy operation that doesn't require downloading the data.
// For large objects, this automatically uses multipart copy operations.
//
// Returns:
//   - error: Returns nil on success, or an error if the copy fails
//
// Errors:
//   - ErrInvalidInput: If any bucket/key parameters are empty or invalid
//   - ErrObjectNotFound: If the source object doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to copy
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	err := client.Copy(ctx, "source-bucket", "old/path.txt",
//	                  "dest-bucket", "new/path.txt")
func (c *Client) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string, opts ...s3types.UploadOption) error {
	if err := c.validateCopyArgs(srcBucket, srcKey, dstBucket, dstKey, "copy"); err != nil {
		return err
	}

	var config *s3types.CopyOptionConfig
	if len(opts) > 0 {
		uploadCfg := &s3types.UploadOptionConfig{}
		for _, opt := range opts {
			opt(uploadCfg)
		}
		config = &s3types.CopyOptionConfig{
			Metadata:        uploadCfg.Metadata,
			ReplaceMetadata: len(uploadCfg.Metadata) > 0,
			StorageClass:    uploadCfg.StorageClass,
			SSE:             uploadCfg.SSE,
			ACL:             uploadCfg.ACL,
		}
	}

	copier := copy.NewCopier(c.s3Client)
	if err := copier.Copy(ctx, srcBucket, srcKey, dstBucket, dstKey, config); err != nil {
		return s3errors.NewError("copy", s3errors.MapAWS(err)).
			WithBucket(dstBucket).
			WithKey(dstKey).
			WithMessage("failed to copy from " + srcBucket + "/" + srcKey)
	}
	return nil
}

// Move moves an object from one location to another by copying it and then deleting the original.
// This operation is atomic for the destination but not for the source (copy-then-delete pattern).
//
// If the copy succeeds but the delete fails, the object will exist in both locations.
//
// Returns:
//   - error: Returns nil on success, or an error if the move fails
//
// Example:
//
//	err := client.Move(ctx, "source-bucket", "temp/file.txt",
//	                  "archive-bucket", "2024/file.txt")
func (c *Client) Move(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string, opts ...s3types.UploadOption) error {
	if err := c.validateCopyArgs(srcBucket, srcKey, dstBucket, dstKey, "move"); err != nil {
		return err
	}

	if err := c.Copy(ctx, srcBucket, srcKey, dstBucket, dstKey, opts...); err != nil {
		return s3errors.NewError("move", err).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage("failed to copy object during move")
	}

	if err := c.Delete(ctx, srcBucket, srcKey); err != nil {
		return s3errors.NewError("move", err).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage("failed to delete original object after copy")
	}

	return nil
}

// validateCopyArgs validates the bucket/key pairs shared by Copy and Move.
func (c *Client) validateCopyArgs(srcBucket, srcKey, dstBucket, dstKey, op string) error {
	if srcBucket == "" {
		return s3errors.NewError(op, s3errors.ErrInvalidInput).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage("source bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(srcKey); err != nil {
		return s3errors.NewError(op, s3errors.ErrInvalidInput).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage(err.Error())
	}
	if dstBucket == "" {
		return s3errors.NewError(op, s3errors.ErrInvalidInput).
			WithBucket(dstBucket).
			WithKey(dstKey).
			WithMessage("destination bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(dstKey); err != nil {
		return s3errors.NewError(op, s3errors.ErrInvalidInput).
			WithBucket(dstBucket).
			WithKey(dstKey).
			WithMessage(err.Error())
	}
	if srcBucket == dstBucket && srcKey == dstKey {
		return s3errors.NewError(op, s3errors.ErrInvalidInput).
			WithBucket(srcBucket).
			WithKey(srcKey).
			WithMessage("cannot " + op + " object to itself")
	}
	return nil
}

// PresignGet generates a presigned URL that grants time-limited read
// access to an object without AWS credentials.
//
// Returns:
//   - string: The presigned URL
//   - error: Returns an error if the client lacks a presigner or signing fails
//
// Example:
//
//	url, err := client.PresignGet(ctx, "my-bucket", "report.pdf", 15*time.Minute)
func (c *Client) PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if c.presigner == nil {
		return "", s3errors.NewError("presignGet", s3errors.ErrInvalidInput).
			WithMessage("client was constructed without an AWS config")
	}
	if bucket == "" {
		return "", s3errors.NewError("presignGet", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return "", s3errors.NewError("presignGet", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", s3errors.NewError("presignGet", err).WithBucket(bucket).WithKey(key)
	}

	return req.URL, nil
}

// PresignPut generates a presigned URL that grants time-limited write
// access for uploading an object without AWS credentials.
//
// Returns:
//   - string: The presigned URL
//   - error: Returns an error if the client lacks a presigner or signing fails
func (c *Client) PresignPut(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if c.presigner == nil {
		return "", s3errors.NewError("presignPut", s3errors.ErrInvalidInput).
			WithMessage("client was constructed without an AWS config")
	}
	if bucket == "" {
		return "", s3errors.NewError("presignPut", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return "", s3errors.NewError("presignPut", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}

	req, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", s3errors.NewError("presignPut", err).WithBucket(bucket).WithKey(key)
	}

	return req.URL, nil
}

// newDeleter builds the batch deleter with the client's expected bucket owner.
func (c *Client) newDeleter() *del.Deleter {
	return del.New(c.s3Client, c.getClientConfig().ExpectedBucketOwner)
}

// detectContentType determines the content type using mimetype where possible,
// falling back to extension-based lookup when the path is not a local file.
func (c *Client) detectContentType(path string) string {
	// If the path points to an existing local file, prefer sniffing its content.
	info, err := c.fs.Stat(path)
	if err != nil || info.IsDir() {
		return c.detectContentTypeFromExtension(path)
	}

	file, err := c.fs.Open(path)
	if err != nil {
		return c.detectContentTypeFromExtension(path)
	}
	defer file.Close()

	// Read first 512 bytes for content detection
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if n > 0 {
		if mt := mimetype.Detect(buf[:n]); mt != nil {
			return mt.String()
		}
	}

	return c.detectContentTypeFromExtension(path)
}

// detectContentTypeFromExtension detects content type from file extension
func (c *Client) detectContentTypeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	return DefaultContentType
}
