// Package copy handles S3 object copy and move operations.
// This includes server-side copying between buckets and multipart copy
// operations for large objects.
//
// Copy operations use S3's server-side copy so the data never transits
// the client.
package copy

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ecastroth/awskit/internal/parallel"
	"github.com/ecastroth/awskit/s3/internal/s3api"
	"github.com/ecastroth/awskit/s3/s3types"
)

const (
	// maxSimpleCopySize is the AWS limit for a single CopyObject call (5GB)
	maxSimpleCopySize = 5 * 1024 * 1024 * 1024

	// multipartCopyThreshold is where copies switch to multipart (100MB)
	multipartCopyThreshold = 100 * 1024 * 1024

	// copyPartSize is the byte range copied per UploadPartCopy call (8MB)
	copyPartSize = 8 * 1024 * 1024

	// copyConcurrency bounds concurrent part copies
	copyConcurrency = 5
)

// Copier handles copy operations with automatic multipart support.
type Copier struct {
	s3Client s3api.S3API
}

// NewCopier creates a new copy operation handler.
func NewCopier(s3Client s3api.S3API) *Copier {
	return &Copier{
		s3Client: s3Client,
	}
}

// Copy performs a copy operation, automatically choosing between simple
// and multipart copy based on the source object size.
func (c *Copier) Copy(
	ctx context.Context,
	srcBucket, srcKey, dstBucket, dstKey string,
	config *s3types.CopyOptionConfig,
) error {
	// Size decides the strategy, so probe the source first.
	srcMetadata, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(srcBucket),
		Key:    aws.String(srcKey),
	})
	if err != nil {
		return fmt.Errorf("failed to get source object metadata: %w", err)
	}

	objectSize := aws.ToInt64(srcMetadata.ContentLength)

	if objectSize > maxSimpleCopySize || objectSize > multipartCopyThreshold {
		return c.multipartCopy(ctx, srcBucket, srcKey, dstBucket, dstKey, objectSize, config)
	}

	return c.simpleCopy(ctx, srcBucket, srcKey, dstBucket, dstKey, config)
}

// simpleCopy performs a single CopyObject call.
func (c *Copier) simpleCopy(
	ctx context.Context,
	srcBucket, srcKey, dstBucket, dstKey string,
	config *s3types.CopyOptionConfig,
) error {
	copySource := srcBucket + "/" + srcKey

	input := &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(copySource),
	}

	c.applyCopyOptions(input, config)

	if _, err := c.s3Client.CopyObject(ctx, input); err != nil {
		return fmt.Errorf("failed to copy from %s: %w", copySource, err)
	}

	return nil
}

// applyCopyOptions applies configuration options to the copy input.
func (c *Copier) applyCopyOptions(input *s3.CopyObjectInput, config *s3types.CopyOptionConfig) {
	if config == nil {
		return
	}

	if config.Metadata != nil {
		input.Metadata = config.Metadata
		if config.ReplaceMetadata {
			input.MetadataDirective = awstypes.MetadataDirectiveReplace
		} else {
			input.MetadataDirective = awstypes.MetadataDirectiveCopy
		}
	}

	if config.StorageClass != "" {
		input.StorageClass = awstypes.StorageClass(config.StorageClass)
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

	if config.ACL != "" {
		input.ACL = awstypes.ObjectCannedACL(config.ACL)
	}
}

// multipartCopy copies a large object as a series of ranged part copies.
func (c *Copier) multipartCopy(
	ctx context.Context,
	srcBucket, srcKey, dstBucket, dstKey string,
	objectSize int64,
	config *s3types.CopyOptionConfig,
) error {
	numParts := int((objectSize + copyPartSize - 1) / copyPartSize)
	if numParts == 0 {
		numParts = 1
	}

	uploadID, err := c.createMultipartUpload(ctx, dstBucket, dstKey, config)
	if err != nil {
		return err
	}

	parts, err := c.copyParts(ctx, srcBucket, srcKey, dstBucket, dstKey, uploadID, objectSize, numParts)
	if err != nil {
		c.abortMultipartUpload(ctx, dstBucket, dstKey, uploadID)
		return err
	}

	return c.completeMultipartUpload(ctx, dstBucket, dstKey, uploadID, parts)
}

// createMultipartUpload starts the multipart upload at the destination.
func (c *Copier) createMultipartUpload(
	ctx context.Context,
	bucket, key string,
	config *s3types.CopyOptionConfig,
) (string, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	if config != nil {
		if config.StorageClass != "" {
			input.StorageClass = awstypes.StorageClass(config.StorageClass)
		}
		if config.Metadata != nil {
			input.Metadata = config.Metadata
		}
		if config.ACL != "" {
			input.ACL = awstypes.ObjectCannedACL(config.ACL)
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
	}

	output, err := c.s3Client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart upload: %w", err)
	}

	return aws.ToString(output.UploadId), nil
}

// copyParts copies all byte ranges concurrently and returns the completed
// parts in part-number order.
func (c *Copier) copyParts(
	ctx context.Context,
	srcBucket, srcKey, dstBucket, dstKey, uploadID string,
	objectSize int64,
	numParts int,
) ([]awstypes.CompletedPart, error) {
	partNumbers := make([]int32, numParts)
	for i := range partNumbers {
		partNumbers[i] = int32(i + 1)
	}

	parts, errs := parallel.Map(ctx, partNumbers, copyConcurrency,
		func(ctx context.Context, _ int, partNumber int32) (awstypes.CompletedPart, error) {
			etag, err := c.copyPart(ctx, srcBucket, srcKey, dstBucket, dstKey, uploadID, objectSize, partNumber)
			if err != nil {
				return awstypes.CompletedPart{}, err
			}
			return awstypes.CompletedPart{
				ETag:       aws.String(etag),
				PartNumber: aws.Int32(partNumber),
			}, nil
		})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return parts, nil
}

// copyPart copies a single byte range from source to destination.
func (c *Copier) copyPart(
	ctx context.Context,
	srcBucket, srcKey, dstBucket, dstKey, uploadID string,
	objectSize int64,
	partNumber int32,
) (string, error) {
	offset := int64(partNumber-1) * copyPartSize
	size := int64(copyPartSize)
	if offset+size > objectSize {
		size = objectSize - offset
	}

	copySource := fmt.Sprintf("%s/%s", srcBucket, srcKey)
	copySourceRange := fmt.Sprintf("bytes=%d-%d", offset, offset+size-1)

	output, err := c.s3Client.UploadPartCopy(ctx, &s3.UploadPartCopyInput{
		Bucket:          aws.String(dstBucket),
		Key:             aws.String(dstKey),
		CopySource:      aws.String(copySource),
		CopySourceRange: aws.String(copySourceRange),
		UploadId:        aws.String(uploadID),
		PartNumber:      aws.Int32(partNumber),
	})
	if err != nil {
		return "", fmt.Errorf("failed to copy part %d: %w", partNumber, err)
	}

	return aws.ToString(output.CopyPartResult.ETag), nil
}

// completeMultipartUpload finishes the multipart copy.
func (c *Copier) completeMultipartUpload(
	ctx context.Context,
	bucket, key, uploadID string,
	parts []awstypes.CompletedPart,
) error {
	input := &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &awstypes.CompletedMultipartUpload{
			Parts: parts,
		},
	}

	if _, err := c.s3Client.CompleteMultipartUpload(ctx, input); err != nil {
		c.abortMultipartUpload(ctx, bucket, key, uploadID)
		return fmt.Errorf("failed to complete multipart copy: %w", err)
	}

	return nil
}

// abortMultipartUpload cleans up a failed multipart copy.
func (c *Copier) abortMultipartUpload(ctx context.Context, bucket, key, uploadID string) {
	input := &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	}
	// Ignore errors during cleanup
	_, _ = c.s3Client.AbortMultipartUpload(ctx, input)
}
