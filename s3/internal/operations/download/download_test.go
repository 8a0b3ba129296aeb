// Package download provides unit tests for S3 download operations.
package download

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecastroth/awskit/s3/internal/testutil"
	"github.com/ecastroth/awskit/s3/s3types"
)

// failingReader errors after yielding its prefix, simulating a stream
// that breaks mid-download.
type failingReader struct {
	prefix io.Reader
	err    error
	done   bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.done {
		n, err := r.prefix.Read(p)
		if errors.Is(err, io.EOF) {
			r.done = true
			return n, nil
		}
		return n, err
	}
	return 0, r.err
}

func TestDownloader_Download_Stream(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		content     string
		config      *s3types.DownloadConfig
		mockFunc    func(*testutil.MockS3Client)
		wantErr     bool
		errContains string
	}{
		{
			name:    "successful stream download",
			key:     "test-key",
			content: "Hello, World!",
			config:  &s3types.DownloadConfig{},
			mockFunc: func(m *testutil.MockS3Client) {
				m.GetObjectFunc = func(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					assert.Equal(t, "test-bucket", aws.ToString(input.Bucket))
					assert.Equal(t, "test-key", aws.ToString(input.Key))

					return &s3.GetObjectOutput{
						Body:          io.NopCloser(strings.NewReader("Hello, World!")),
						ContentLength: aws.Int64(int64(len("Hello, World!"))),
						ETag:          aws.String("test-etag"),
					}, nil
				}
			},
		},
		{
			name:    "download with progress tracking",
			key:     "test-key",
			content: "test content",
			config: &s3types.DownloadConfig{
				ProgressTracker: &testutil.MockProgressTracker{},
			},
			mockFunc: func(m *testutil.MockS3Client) {
				m.GetObjectFunc = func(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					return &s3.GetObjectOutput{
						Body:          io.NopCloser(strings.NewReader("test content")),
						ContentLength: aws.Int64(int64(len("test content"))),
						ETag:          aws.String("test-etag"),
					}, nil
				}
			},
		},
		{
			name:    "download with range and owner",
			key:     "test-key",
			content: "Hello",
			config: &s3types.DownloadConfig{
				RangeSpec:           "bytes=0-4",
				ExpectedBucketOwner: "123456789012",
			},
			mockFunc: func(m *testutil.MockS3Client) {
				m.GetObjectFunc = func(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					assert.Equal(t, "bytes=0-4", aws.ToString(input.Range))
					assert.Equal(t, "123456789012", aws.ToString(input.ExpectedBucketOwner))
					return &s3.GetObjectOutput{
						Body:          io.NopCloser(strings.NewReader("Hello")),
						ContentLength: aws.Int64(5),
						ETag:          aws.String("test-etag"),
					}, nil
				}
			},
		},
		{
			name:    "request failure",
			key:     "non-existent-key",
			content: "",
			config:  &s3types.DownloadConfig{},
			mockFunc: func(m *testutil.MockS3Client) {
				m.GetObjectFunc = func(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					return nil, errors.New("NoSuchKey: The specified key does not exist")
				}
			},
			wantErr:     true,
			errContains: "failed to get object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &testutil.MockS3Client{}
			if tt.mockFunc != nil {
				tt.mockFunc(mockClient)
			}

			downloader := New(mockClient, billy.NewInMemoryFS())

			var buf bytes.Buffer
			result, err := downloader.Download(context.Background(), "test-bucket", tt.key, &buf, tt.config, time.Now())

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, result)
			assert.Equal(t, tt.key, result.Key)
			assert.Equal(t, int64(len(tt.content)), result.Size)
			assert.Equal(t, tt.content, buf.String())

			if tt.config.ProgressTracker != nil {
				tracker := tt.config.ProgressTracker.(*testutil.MockProgressTracker)
				assert.True(t, tracker.CompleteCalled)
				assert.NotEmpty(t, tracker.Snapshot())
			}
		})
	}
}

func TestDownloader_DownloadFile(t *testing.T) {
	t.Run("writes the object and creates parent directories", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{}
		mockClient.GetObjectFunc = func(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return &s3.GetObjectOutput{
				Body:          io.NopCloser(strings.NewReader("Hello, World!")),
				ContentLength: aws.Int64(int64(len("Hello, World!"))),
				ETag:          aws.String("test-etag"),
			}, nil
		}

		memFS := billy.NewInMemoryFS()
		downloader := New(mockClient, memFS)

		result, err := downloader.DownloadFile(
			context.Background(),
			"test-bucket",
			"test-key",
			"/data/nested/download.txt",
			&s3types.DownloadConfig{},
			time.Now(),
		)

		require.NoError(t, err)
		assert.Equal(t, "test-key", result.Key)

		content, err := memFS.ReadFile("/data/nested/download.txt")
		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", string(content))
	})

	t.Run("removes the partial file when the stream breaks", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{}
		mockClient.GetObjectFunc = func(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return &s3.GetObjectOutput{
				Body: io.NopCloser(&failingReader{
					prefix: strings.NewReader("partial"),
					err:    errors.New("connection reset"),
				}),
				ContentLength: aws.Int64(100),
			}, nil
		}

		memFS := billy.NewInMemoryFS()
		downloader := New(mockClient, memFS)

		_, err := downloader.DownloadFile(
			context.Background(),
			"test-bucket",
			"test-key",
			"/data/broken.txt",
			&s3types.DownloadConfig{},
			time.Now(),
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stream object body")

		exists, err := memFS.Exists("/data/broken.txt")
		require.NoError(t, err)
		assert.False(t, exists, "partial downloads should be cleaned up")
	})

	t.Run("reports stream errors to the tracker", func(t *testing.T) {
		tracker := &testutil.MockProgressTracker{}

		mockClient := &testutil.MockS3Client{}
		mockClient.GetObjectFunc = func(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return &s3.GetObjectOutput{
				Body: io.NopCloser(&failingReader{
					prefix: strings.NewReader("partial"),
					err:    errors.New("connection reset"),
				}),
				ContentLength: aws.Int64(100),
			}, nil
		}

		downloader := New(mockClient, billy.NewInMemoryFS())

		_, err := downloader.DownloadFile(
			context.Background(),
			"test-bucket",
			"test-key",
			"/data/tracked.txt",
			&s3types.DownloadConfig{ProgressTracker: tracker},
			time.Now(),
		)

		require.Error(t, err)
		assert.True(t, tracker.ErrorCalled)
		assert.False(t, tracker.CompleteCalled)
	})
}

func TestDownloader_Get(t *testing.T) {
	t.Run("returns the object bytes", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{}
		mockClient.GetObjectFunc = func(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return &s3.GetObjectOutput{
				Body:          io.NopCloser(strings.NewReader("Hello, World!")),
				ContentLength: aws.Int64(int64(len("Hello, World!"))),
				ETag:          aws.String("test-etag"),
			}, nil
		}

		downloader := New(mockClient, billy.NewInMemoryFS())

		data, err := downloader.Get(context.Background(), "test-bucket", "test-key", &s3types.DownloadConfig{}, time.Now())

		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", string(data))
	})

	t.Run("propagates request failures", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{}
		mockClient.GetObjectFunc = func(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return nil, errors.New("NoSuchKey: The specified key does not exist")
		}

		downloader := New(mockClient, billy.NewInMemoryFS())

		data, err := downloader.Get(context.Background(), "test-bucket", "missing", &s3types.DownloadConfig{}, time.Now())

		require.Error(t, err)
		assert.Nil(t, data)
	})
}
