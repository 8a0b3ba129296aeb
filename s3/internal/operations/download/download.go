// Package download handles S3 object download operations.
// This includes stream-based downloads, file downloads, and range requests.
//
// The package provides memory-efficient streaming for large files and
// supports progress tracking during download operations.
package download

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/ecastroth/awskit/s3/internal/pool"
	"github.com/ecastroth/awskit/s3/internal/s3api"
	"github.com/ecastroth/awskit/s3/s3types"
)

// Downloader handles S3 download operations with progress tracking support.
type Downloader struct {
	s3Client s3api.S3API
	fs       fs.Filesystem
}

// New creates a new Downloader instance.
func New(s3Client s3api.S3API, filesystem fs.Filesystem) *Downloader {
	return &Downloader{
		s3Client: s3Client,
		fs:       filesystem,
	}
}

// Download downloads an object from S3 and writes it to an io.Writer.
// This provides stream-based downloading with memory-efficient handling of large files.
func (d *Downloader) Download(
	ctx context.Context,
	bucket, key string,
	writer io.Writer,
	config *s3types.DownloadConfig,
	startTime time.Time,
) (*s3types.DownloadResult, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if config.RangeSpec != "" {
		input.Range = aws.String(config.RangeSpec)
	}
	if config.ExpectedBucketOwner != "" {
		input.ExpectedBucketOwner = aws.String(config.ExpectedBucketOwner)
	}

	result, err := d.s3Client.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer result.Body.Close()

	totalBytes := aws.ToInt64(result.ContentLength)

	var reader io.Reader = result.Body
	if config.ProgressTracker != nil {
		reader = &progressReader{
			reader:  result.Body,
			tracker: config.ProgressTracker,
			total:   totalBytes,
		}
	}

	// Stream through a pooled buffer to avoid per-download allocations.
	buf := pool.GetBuffer(pool.MediumBufferSize)
	written, err := io.CopyBuffer(writer, reader, buf)
	pool.PutBuffer(buf)
	if err != nil {
		if config.ProgressTracker != nil {
			config.ProgressTracker.Error(err)
		}
		return nil, fmt.Errorf("failed to stream object body: %w", err)
	}

	if config.ProgressTracker != nil {
		config.ProgressTracker.Complete()
	}

	return &s3types.DownloadResult{
		Key:       key,
		Size:      written,
		ETag:      aws.ToString(result.ETag),
		VersionID: aws.ToString(result.VersionId),
		Duration:  time.Since(startTime),
	}, nil
}

// DownloadFile downloads an object from S3 to a local file.
// Missing parent directories are created; a partial file left behind by
// a failed download is removed.
func (d *Downloader) DownloadFile(
	ctx context.Context,
	bucket, key, localPath string,
	config *s3types.DownloadConfig,
	startTime time.Time,
) (*s3types.DownloadResult, error) {
	if dir := filepath.Dir(localPath); dir != "" && dir != "." {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := d.fs.Create(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", localPath, err)
	}

	result, err := d.Download(ctx, bucket, key, file, config, startTime)
	closeErr := file.Close()
	if err != nil {
		// Best effort cleanup of the partial file.
		_ = d.fs.Remove(localPath)
		return nil, err
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close file %s: %w", localPath, closeErr)
	}

	return result, nil
}

// Get downloads an entire object and returns it as a byte slice.
// Intended for small objects that fit comfortably in memory.
func (d *Downloader) Get(
	ctx context.Context,
	bucket, key string,
	config *s3types.DownloadConfig,
	startTime time.Time,
) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.Download(ctx, bucket, key, &buf, config, startTime); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// progressReader wraps an io.Reader to report download progress.
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
		pr.tracker.Update(pr.read, pr.total)
	}
	return n, err
}
