// Package upload handles S3 object upload operations.
// Small payloads go through a single PutObject call, larger ones are
// handed to the SDK transfer manager for concurrent multipart uploads.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ecastroth/awskit/s3/internal/s3api"
	"github.com/ecastroth/awskit/s3/s3types"
)

const (
	// MinPartSize is the minimum part size S3 accepts for multipart uploads (5MB)
	MinPartSize = 5 * 1024 * 1024

	// DefaultPartSize is used when the caller does not configure one (8MB)
	DefaultPartSize = 8 * 1024 * 1024

	// DefaultConcurrency is the number of parts uploaded in parallel
	DefaultConcurrency = 5
)

// Uploader handles S3 upload operations with automatic multipart detection.
type Uploader struct {
	s3Client s3api.S3API
}

// New creates a new Uploader instance.
func New(s3Client s3api.S3API) *Uploader {
	return &Uploader{
		s3Client: s3Client,
	}
}

// Upload uploads data from an io.Reader to S3.
// It buffers up to one part in memory to decide between a single
// PutObject and a managed multipart upload, so readers of unknown
// length stream without being loaded fully.
func (u *Uploader) Upload(
	ctx context.Context,
	bucket, key string,
	reader io.Reader,
	config *s3types.UploadConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	partSize := normalizePartSize(config.PartSize)

	// Peek one part plus a byte. If everything fits in a single part the
	// simple path avoids the multipart bookkeeping entirely.
	peek, err := io.ReadAll(io.LimitReader(reader, partSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload data: %w", err)
	}

	if int64(len(peek)) <= partSize {
		return u.UploadSimple(ctx, bucket, key, peek, config, startTime)
	}

	combined := io.MultiReader(bytes.NewReader(peek), reader)
	return u.uploadManaged(ctx, bucket, key, combined, -1, config, startTime)
}

// UploadFile uploads file content of a known size.
// Files that fit in a single part use PutObject, larger files go
// through the transfer manager.
func (u *Uploader) UploadFile(
	ctx context.Context,
	bucket, key string,
	file io.Reader,
	size int64,
	config *s3types.UploadConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	partSize := normalizePartSize(config.PartSize)

	if size <= partSize {
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return u.UploadSimple(ctx, bucket, key, data, config, startTime)
	}

	return u.uploadManaged(ctx, bucket, key, file, size, config, startTime)
}

// UploadSimple uploads a byte slice with a single PutObject call.
func (u *Uploader) UploadSimple(
	ctx context.Context,
	bucket, key string,
	data []byte,
	config *s3types.UploadConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	input := u.buildPutObjectInput(bucket, key, config)
	input.Body = bytes.NewReader(data)
	input.ContentLength = aws.Int64(int64(len(data)))

	if config.ProgressTracker != nil {
		config.ProgressTracker.Update(0, int64(len(data)))
	}

	output, err := u.s3Client.PutObject(ctx, input)
	if err != nil {
		if config.ProgressTracker != nil {
			config.ProgressTracker.Error(err)
		}
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	if config.ProgressTracker != nil {
		config.ProgressTracker.Update(int64(len(data)), int64(len(data)))
		config.ProgressTracker.Complete()
	}

	return &s3types.UploadResult{
		Key:       key,
		Size:      int64(len(data)),
		ETag:      cleanETag(aws.ToString(output.ETag)),
		VersionID: aws.ToString(output.VersionId),
		Duration:  time.Since(startTime),
	}, nil
}

// uploadManaged runs a multipart upload through the SDK transfer manager.
// A negative totalSize means the size is unknown; progress updates then
// report a zero total.
func (u *Uploader) uploadManaged(
	ctx context.Context,
	bucket, key string,
	reader io.Reader,
	totalSize int64,
	config *s3types.UploadConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	partSize := normalizePartSize(config.PartSize)
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := totalSize
	if total < 0 {
		total = 0
	}
	body := &progressReader{reader: reader, tracker: config.ProgressTracker, total: total}

	uploader := manager.NewUploader(u.s3Client, func(d *manager.Uploader) {
		d.PartSize = partSize
		d.Concurrency = concurrency
		d.LeavePartsOnError = false
	})

	input := u.buildPutObjectInput(bucket, key, config)
	input.Body = body

	output, err := uploader.Upload(ctx, input)
	if err != nil {
		if config.ProgressTracker != nil {
			config.ProgressTracker.Error(err)
		}
		return nil, fmt.Errorf("failed to upload multipart object: %w", err)
	}

	if config.ProgressTracker != nil {
		config.ProgressTracker.Complete()
	}

	return &s3types.UploadResult{
		Key:       key,
		Size:      body.bytesRead(),
		ETag:      cleanETag(aws.ToString(output.ETag)),
		VersionID: aws.ToString(output.VersionID),
		Duration:  time.Since(startTime),
	}, nil
}

// buildPutObjectInput assembles the request fields shared by both upload paths.
func (u *Uploader) buildPutObjectInput(bucket, key string, config *s3types.UploadConfig) *s3.PutObjectInput {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	if config.ContentType != "" {
		input.ContentType = aws.String(config.ContentType)
	}
	if len(config.Metadata) > 0 {
		input.Metadata = config.Metadata
	}
	if config.StorageClass != "" {
		input.StorageClass = awstypes.StorageClass(config.StorageClass)
	}
	if config.ACL != "" {
		input.ACL = awstypes.ObjectCannedACL(config.ACL)
	}
	if config.ExpectedBucketOwner != "" {
		input.ExpectedBucketOwner = aws.String(config.ExpectedBucketOwner)
	}

	if config.SSE != nil {
		switch config.SSE.Type {
		case s3types.SSES3:
			input.ServerSideEncryption = awstypes.ServerSideEncryptionAes256
		case s3types.SSEKMS:
			input.ServerSideEncryption = awstypes.ServerSideEncryptionAwsKms
			if config.SSE.KMSKeyID != "" {
				input.SSEKMSKeyId = aws.String(config.SSE.KMSKeyID)
			}
		}
	}

	return input
}

// normalizePartSize clamps the configured part size into the valid range.
func normalizePartSize(partSize int64) int64 {
	if partSize <= 0 {
		return DefaultPartSize
	}
	if partSize < MinPartSize {
		return MinPartSize
	}
	return partSize
}

// cleanETag strips the surrounding quotes S3 puts on entity tags.
func cleanETag(etag string) string {
	return strings.Trim(etag, `"`)
}

// progressReader counts the bytes the transfer manager consumes and
// reports them to the tracker when one is set.
type progressReader struct {
	reader  io.Reader
	tracker s3types.ProgressTracker
	total   int64
	read    int64
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.read += int64(n)
		if pr.tracker != nil {
			pr.tracker.Update(pr.read, pr.total)
		}
	}
	return n, err
}

func (pr *progressReader) bytesRead() int64 {
	return pr.read
}
