// Package s3 provides tests for parallel batch operations on a bucket handle.
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/ecastroth/awskit/s3/errors"
	"github.com/ecastroth/awskit/s3/internal/testutil"
	"github.com/ecastroth/awskit/s3/s3types"
)

// newTestBucket builds a verified bucket handle over the mock client.
func newTestBucket(t *testing.T, mockClient *testutil.MockS3Client, memFS *billy.FS) *Bucket {
	t.Helper()

	client := NewWithClient(mockClient)
	if memFS != nil {
		client.SetFilesystem(memFS)
	}

	bucket, err := client.Bucket(context.Background(), "batch-bucket")
	require.NoError(t, err)
	return bucket
}

// TestBucket_UploadFiles tests parallel batch uploads with mocked S3 client.
func TestBucket_UploadFiles(t *testing.T) {
	t.Run("uploads every new file", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.WriteFile("/in/a.csv", []byte("aaaaa"), 0o644))
		require.NoError(t, memFS.WriteFile("/in/b.csv", []byte("bbbbbbb"), 0o644))
		require.NoError(t, memFS.WriteFile("/in/c.csv", []byte("ccccccccc"), 0o644))

		var mu sync.Mutex
		uploadedKeys := make(map[string]bool)

		mockClient := &testutil.MockS3Client{
			HeadObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
				return nil, &types.NotFound{}
			},
			PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				mu.Lock()
				uploadedKeys[aws.ToString(params.Key)] = true
				mu.Unlock()
				return &s3.PutObjectOutput{ETag: aws.String("etag")}, nil
			},
		}

		bucket := newTestBucket(t, mockClient, memFS)
		pairs := []s3types.TransferPair{
			{Key: "data/a.csv", Path: "/in/a.csv"},
			{Key: "data/b.csv", Path: "/in/b.csv"},
			{Key: "data/c.csv", Path: "/in/c.csv"},
		}

		result, err := bucket.UploadFiles(context.Background(), pairs)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, 3, result.Transferred)
		assert.Equal(t, 0, result.Skipped)
		assert.Empty(t, result.Failed)
		assert.Equal(t, int64(5+7+9), result.BytesTransferred)
		assert.Len(t, uploadedKeys, 3)
		assert.True(t, uploadedKeys["data/a.csv"])
	})

	t.Run("skips keys that already exist", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.WriteFile("/in/a.csv", []byte("aaaaa"), 0o644))
		require.NoError(t, memFS.WriteFile("/in/b.csv", []byte("bbbbb"), 0o644))

		mockClient := &testutil.MockS3Client{
			HeadObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
				if aws.ToString(params.Key) == "data/a.csv" {
					return &s3.HeadObjectOutput{}, nil
				}
				return nil, &types.NotFound{}
			},
			PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				assert.Equal(t, "data/b.csv", aws.ToString(params.Key))
				return &s3.PutObjectOutput{}, nil
			},
		}

		bucket := newTestBucket(t, mockClient, memFS)
		pairs := []s3types.TransferPair{
			{Key: "data/a.csv", Path: "/in/a.csv"},
			{Key: "data/b.csv", Path: "/in/b.csv"},
		}

		result, err := bucket.UploadFiles(context.Background(), pairs)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Transferred)
		assert.Equal(t, 1, result.Skipped)
		assert.Empty(t, result.Failed)
	})

	t.Run("collects per-item failures without aborting", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.WriteFile("/in/a.csv", []byte("aaaaa"), 0o644))
		require.NoError(t, memFS.WriteFile("/in/c.csv", []byte("ccccc"), 0o644))

		mockClient := &testutil.MockS3Client{
			HeadObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
				return nil, &types.NotFound{}
			},
			PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				return &s3.PutObjectOutput{}, nil
			},
		}

		bucket := newTestBucket(t, mockClient, memFS)
		pairs := []s3types.TransferPair{
			{Key: "data/a.csv", Path: "/in/a.csv"},
			{Key: "data/missing.csv", Path: "/in/missing.csv"},
			{Key: "data/c.csv", Path: "/in/c.csv"},
		}

		result, err := bucket.UploadFiles(context.Background(), pairs)

		require.NoError(t, err, "per-item failures must not abort the batch")
		assert.Equal(t, 2, result.Transferred)
		assert.Equal(t, 0, result.Skipped)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, 1, result.Failed[0].Index)
		assert.Equal(t, "data/missing.csv", result.Failed[0].Key)
		assert.Equal(t, "/in/missing.csv", result.Failed[0].Path)
		assert.Contains(t, result.Failed[0].Err.Error(), "file does not exist")

		// The counts always cover every input item
		assert.Equal(t, len(pairs), result.Transferred+result.Skipped+len(result.Failed))
	})

	t.Run("empty batch returns zero result", func(t *testing.T) {
		bucket := newTestBucket(t, &testutil.MockS3Client{}, nil)

		result, err := bucket.UploadFiles(context.Background(), nil)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Zero(t, result.Transferred)
		assert.Zero(t, result.Skipped)
		assert.Empty(t, result.Failed)
	})

	t.Run("rejects blank pairs", func(t *testing.T) {
		bucket := newTestBucket(t, &testutil.MockS3Client{}, nil)

		pairs := []s3types.TransferPair{
			{Key: "data/a.csv", Path: ""},
		}
		result, err := bucket.UploadFiles(context.Background(), pairs)

		require.Error(t, err)
		assert.ErrorIs(t, err, s3errors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "transfer pair has an empty key or path")
		assert.Nil(t, result)
	})

	t.Run("reports item progress", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.WriteFile("/in/a.csv", []byte("aaaaa"), 0o644))
		require.NoError(t, memFS.WriteFile("/in/b.csv", []byte("bbbbb"), 0o644))
		require.NoError(t, memFS.WriteFile("/in/c.csv", []byte("ccccc"), 0o644))

		tracker := &testutil.MockProgressTracker{}
		mockClient := &testutil.MockS3Client{
			HeadObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
				return nil, &types.NotFound{}
			},
		}

		bucket := newTestBucket(t, mockClient, memFS)
		pairs := []s3types.TransferPair{
			{Key: "data/a.csv", Path: "/in/a.csv"},
			{Key: "data/b.csv", Path: "/in/b.csv"},
			{Key: "data/c.csv", Path: "/in/c.csv"},
		}

		_, err := bucket.UploadFiles(context.Background(), pairs, WithBatchProgress(tracker))

		require.NoError(t, err)
		snapshot := tracker.Snapshot()
		assert.Len(t, snapshot, 3, "one update per item")
		assert.True(t, tracker.CompleteCalled)
		assert.Equal(t, int64(3), tracker.TotalBytes, "batch trackers count items, not bytes")
	})
}

// TestBucket_DownloadFiles tests parallel batch downloads with mocked S3 client.
func TestBucket_DownloadFiles(t *testing.T) {
	t.Run("downloads missing files and skips existing ones", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.MkdirAll("/dl", 0o755))
		require.NoError(t, memFS.WriteFile("/dl/existing.txt", []byte("local copy"), 0o644))

		mockClient := &testutil.MockS3Client{
			GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
				assert.Equal(t, "data/new.txt", aws.ToString(params.Key))
				return &s3.GetObjectOutput{
					Body:          io.NopCloser(strings.NewReader("remote")),
					ContentLength: aws.Int64(6),
				}, nil
			},
		}

		bucket := newTestBucket(t, mockClient, memFS)
		pairs := []s3types.TransferPair{
			{Key: "data/existing.txt", Path: "/dl/existing.txt"},
			{Key: "data/new.txt", Path: "/dl/new.txt"},
		}

		result, err := bucket.DownloadFiles(context.Background(), pairs)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Transferred)
		assert.Equal(t, 1, result.Skipped)
		assert.Empty(t, result.Failed)
		assert.Equal(t, int64(6), result.BytesTransferred)

		data, err := memFS.ReadFile("/dl/new.txt")
		require.NoError(t, err)
		assert.Equal(t, "remote", string(data))

		// The existing file is left alone
		data, err = memFS.ReadFile("/dl/existing.txt")
		require.NoError(t, err)
		assert.Equal(t, "local copy", string(data))
	})

	t.Run("collects download failures without aborting", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()

		mockClient := &testutil.MockS3Client{
			GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
				if aws.ToString(params.Key) == "data/gone.txt" {
					return nil, &types.NoSuchKey{}
				}
				return &s3.GetObjectOutput{
					Body:          io.NopCloser(strings.NewReader("remote")),
					ContentLength: aws.Int64(6),
				}, nil
			},
		}

		bucket := newTestBucket(t, mockClient, memFS)
		pairs := []s3types.TransferPair{
			{Key: "data/ok.txt", Path: "/dl/ok.txt"},
			{Key: "data/gone.txt", Path: "/dl/gone.txt"},
		}

		result, err := bucket.DownloadFiles(context.Background(), pairs)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Transferred)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, 1, result.Failed[0].Index)
		assert.Equal(t, "data/gone.txt", result.Failed[0].Key)
		assert.ErrorIs(t, result.Failed[0].Err, s3errors.ErrObjectNotFound)
		assert.Equal(t, len(pairs), result.Transferred+result.Skipped+len(result.Failed))
	})

	t.Run("rejects blank pairs", func(t *testing.T) {
		bucket := newTestBucket(t, &testutil.MockS3Client{}, nil)

		pairs := []s3types.TransferPair{
			{Key: "", Path: "/dl/a.txt"},
		}
		result, err := bucket.DownloadFiles(context.Background(), pairs)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "transfer pair has an empty key or path")
		assert.Nil(t, result)
	})
}

// TestBucket_DeleteObjects tests chunked parallel deletes with mocked S3 client.
func TestBucket_DeleteObjects(t *testing.T) {
	t.Run("deletes keys in one chunk", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{
			DeleteObjectsFunc: func(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
				deleted := make([]types.DeletedObject, 0, len(params.Delete.Objects))
				for _, obj := range params.Delete.Objects {
					deleted = append(deleted, types.DeletedObject{Key: obj.Key})
				}
				return &s3.DeleteObjectsOutput{Deleted: deleted}, nil
			},
		}

		bucket := newTestBucket(t, mockClient, nil)
		result, err := bucket.DeleteObjects(context.Background(), []string{"a", "b", "c"})

		require.NoError(t, err)
		assert.Equal(t, 3, result.Transferred)
		assert.Empty(t, result.Failed)
	})

	t.Run("splits large batches into chunks of 1000", func(t *testing.T) {
		var mu sync.Mutex
		var chunkSizes []int

		mockClient := &testutil.MockS3Client{
			DeleteObjectsFunc: func(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
				mu.Lock()
				chunkSizes = append(chunkSizes, len(params.Delete.Objects))
				mu.Unlock()

				deleted := make([]types.DeletedObject, 0, len(params.Delete.Objects))
				for _, obj := range params.Delete.Objects {
					deleted = append(deleted, types.DeletedObject{Key: obj.Key})
				}
				return &s3.DeleteObjectsOutput{Deleted: deleted}, nil
			},
		}

		keys := make([]string, 1500)
		for i := range keys {
			keys[i] = fmt.Sprintf("obj-%04d", i)
		}

		bucket := newTestBucket(t, mockClient, nil)
		result, err := bucket.DeleteObjects(context.Background(), keys)

		require.NoError(t, err)
		assert.Equal(t, 1500, result.Transferred)
		assert.Empty(t, result.Failed)
		assert.ElementsMatch(t, []int{1000, 500}, chunkSizes)
	})

	t.Run("reports per-key failures with the input index", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{
			DeleteObjectsFunc: func(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
				return &s3.DeleteObjectsOutput{
					Deleted: []types.DeletedObject{
						{Key: aws.String("a")},
						{Key: aws.String("c")},
					},
					Errors: []types.Error{
						{
							Key:     aws.String("b"),
							Code:    aws.String("AccessDenied"),
							Message: aws.String("object locked"),
						},
					},
				}, nil
			},
		}

		bucket := newTestBucket(t, mockClient, nil)
		result, err := bucket.DeleteObjects(context.Background(), []string{"a", "b", "c"})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Transferred)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, 1, result.Failed[0].Index)
		assert.Equal(t, "b", result.Failed[0].Key)
		assert.ErrorIs(t, result.Failed[0].Err, s3errors.ErrAccessDenied)
		assert.Contains(t, result.Failed[0].Err.Error(), "object locked")
	})

	t.Run("marks the whole chunk failed when the request fails", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{
			DeleteObjectsFunc: func(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
				return nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "access denied"}
			},
		}

		bucket := newTestBucket(t, mockClient, nil)
		keys := []string{"a", "b", "c"}
		result, err := bucket.DeleteObjects(context.Background(), keys)

		require.NoError(t, err)
		assert.Zero(t, result.Transferred)
		require.Len(t, result.Failed, len(keys))
		for i, failed := range result.Failed {
			assert.Equal(t, i, failed.Index)
			assert.Equal(t, keys[i], failed.Key)
			assert.ErrorIs(t, failed.Err, s3errors.ErrAccessDenied)
		}
	})

	t.Run("empty keys return zero result", func(t *testing.T) {
		bucket := newTestBucket(t, &testutil.MockS3Client{}, nil)

		result, err := bucket.DeleteObjects(context.Background(), nil)

		require.NoError(t, err)
		assert.Zero(t, result.Transferred)
		assert.Empty(t, result.Failed)
	})

	t.Run("rejects blank keys", func(t *testing.T) {
		bucket := newTestBucket(t, &testutil.MockS3Client{}, nil)

		result, err := bucket.DeleteObjects(context.Background(), []string{"a", ""})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty key in keys slice")
		assert.Nil(t, result)
	})
}

// TestBucket_ListAllKeys tests full-listing key collection.
func TestBucket_ListAllKeys(t *testing.T) {
	t.Run("collects keys across the listing", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{
			ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
				return testutil.MakeListOutput(testutil.MakeObjectList(3, "logs/"), false), nil
			},
		}

		bucket := newTestBucket(t, mockClient, nil)
		keys, err := bucket.ListAllKeys(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{
			"logs/object-0000.txt",
			"logs/object-0001.txt",
			"logs/object-0002.txt",
		}, keys)
	})

	t.Run("applies prefix options", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{
			ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
				assert.Equal(t, "logs/2024/", aws.ToString(params.Prefix))
				return testutil.MakeListOutput(nil, false), nil
			},
		}

		bucket := newTestBucket(t, mockClient, nil)
		keys, err := bucket.ListAllKeys(context.Background(), WithPrefix("logs/2024/"))

		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("propagates listing errors", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{
			ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
				return nil, &types.NoSuchBucket{}
			},
		}

		bucket := newTestBucket(t, mockClient, nil)
		keys, err := bucket.ListAllKeys(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, s3errors.ErrBucketNotFound)
		assert.Nil(t, keys)
	})
}
