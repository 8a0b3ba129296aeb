package list

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagingClient serves a fixed number of objects page by page and records
// the inputs it was called with.
type pagingClient struct {
	totalObjects int
	objectsSent  int
	calls        []*s3.ListObjectsV2Input
	err          error
}

func (m *pagingClient) ListObjectsV2(
	_ context.Context,
	input *s3.ListObjectsV2Input,
	_ ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	m.calls = append(m.calls, input)
	if m.err != nil {
		return nil, m.err
	}

	pageSize := int(aws.ToInt32(input.MaxKeys))
	remaining := m.totalObjects - m.objectsSent
	count := pageSize
	if count > remaining {
		count = remaining
	}

	contents := make([]types.Object, count)
	for i := 0; i < count; i++ {
		contents[i] = types.Object{
			Key:          aws.String(fmt.Sprintf("object-%04d", m.objectsSent+i)),
			Size:         aws.Int64(1024),
			LastModified: aws.Time(time.Now()),
			ETag:         aws.String(`"abc123"`),
		}
	}
	m.objectsSent += count

	output := &s3.ListObjectsV2Output{
		Contents:    contents,
		IsTruncated: aws.Bool(m.objectsSent < m.totalObjects),
	}
	if m.objectsSent < m.totalObjects {
		output.NextContinuationToken = aws.String(fmt.Sprintf("token-%d", m.objectsSent))
	}
	return output, nil
}

func TestListPage(t *testing.T) {
	t.Run("maps config to request fields", func(t *testing.T) {
		client := &pagingClient{totalObjects: 3}
		lister := New(client)

		result, err := lister.ListPage(context.Background(), &Config{
			Bucket:    "test-bucket",
			Prefix:    "photos/",
			Delimiter: "/",
			MaxKeys:   10,
		})
		require.NoError(t, err)

		require.Len(t, client.calls, 1)
		input := client.calls[0]
		assert.Equal(t, "test-bucket", aws.ToString(input.Bucket))
		assert.Equal(t, "photos/", aws.ToString(input.Prefix))
		assert.Equal(t, "/", aws.ToString(input.Delimiter))
		assert.Equal(t, int32(10), aws.ToInt32(input.MaxKeys))

		assert.Len(t, result.Objects, 3)
		assert.False(t, result.IsTruncated)
		assert.Equal(t, "object-0000", result.Objects[0].Key)
		assert.Equal(t, `"abc123"`, result.Objects[0].ETag)
	})

	t.Run("clamps page size to the service maximum", func(t *testing.T) {
		client := &pagingClient{totalObjects: 1}
		lister := New(client)

		_, err := lister.ListPage(context.Background(), &Config{
			Bucket:  "test-bucket",
			MaxKeys: 5000,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(maxPageSize), aws.ToInt32(client.calls[0].MaxKeys))

		_, err = lister.ListPage(context.Background(), &Config{Bucket: "test-bucket"})
		require.NoError(t, err)
		assert.Equal(t, int32(maxPageSize), aws.ToInt32(client.calls[1].MaxKeys))
	})

	t.Run("continuation token wins over start-after", func(t *testing.T) {
		client := &pagingClient{totalObjects: 1}
		lister := New(client)

		_, err := lister.ListPage(context.Background(), &Config{
			Bucket:            "test-bucket",
			StartAfter:        "object-0500",
			ContinuationToken: "token-42",
		})
		require.NoError(t, err)

		input := client.calls[0]
		assert.Equal(t, "token-42", aws.ToString(input.ContinuationToken))
		assert.Nil(t, input.StartAfter)
	})

	t.Run("reports truncation with next token", func(t *testing.T) {
		client := &pagingClient{totalObjects: 25}
		lister := New(client)

		result, err := lister.ListPage(context.Background(), &Config{
			Bucket:  "test-bucket",
			MaxKeys: 10,
		})
		require.NoError(t, err)
		assert.True(t, result.IsTruncated)
		assert.Equal(t, "token-10", result.NextContinuationToken)
		assert.Len(t, result.Objects, 10)
	})

	t.Run("wraps SDK errors", func(t *testing.T) {
		client := &pagingClient{err: errors.New("access denied")}
		lister := New(client)

		_, err := lister.ListPage(context.Background(), &Config{Bucket: "test-bucket"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})
}

func TestPaginator(t *testing.T) {
	t.Run("walks every page", func(t *testing.T) {
		client := &pagingClient{totalObjects: 25}
		lister := New(client)

		pages := lister.Pages(&Config{Bucket: "test-bucket", MaxKeys: 10})

		var total int
		var pageCount int
		for pages.HasMorePages() {
			page, err := pages.NextPage(context.Background())
			require.NoError(t, err)
			total += len(page.Objects)
			pageCount++
		}

		assert.Equal(t, 25, total)
		assert.Equal(t, 3, pageCount)
		assert.False(t, pages.HasMorePages())

		// Second call carries the first page's token.
		require.Len(t, client.calls, 3)
		assert.Equal(t, "token-10", aws.ToString(client.calls[1].ContinuationToken))
	})

	t.Run("empty bucket yields one empty page", func(t *testing.T) {
		client := &pagingClient{totalObjects: 0}
		lister := New(client)

		pages := lister.Pages(&Config{Bucket: "test-bucket"})
		require.True(t, pages.HasMorePages())

		page, err := pages.NextPage(context.Background())
		require.NoError(t, err)
		assert.Empty(t, page.Objects)
		assert.False(t, pages.HasMorePages())
	})

	t.Run("resumes from a seed token", func(t *testing.T) {
		client := &pagingClient{totalObjects: 5, objectsSent: 3}
		lister := New(client)

		pages := lister.Pages(&Config{
			Bucket:            "test-bucket",
			ContinuationToken: "token-3",
		})

		page, err := pages.NextPage(context.Background())
		require.NoError(t, err)
		assert.Len(t, page.Objects, 2)
		assert.Equal(t, "token-3", aws.ToString(client.calls[0].ContinuationToken))
	})

	t.Run("propagates page errors", func(t *testing.T) {
		client := &pagingClient{err: errors.New("throttled")}
		lister := New(client)

		pages := lister.Pages(&Config{Bucket: "test-bucket"})
		_, err := pages.NextPage(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "throttled")
	})
}

func BenchmarkPaginator(b *testing.B) {
	for i := 0; i < b.N; i++ {
		client := &pagingClient{totalObjects: 10000}
		pages := New(client).Pages(&Config{Bucket: "bench-bucket"})

		total := 0
		for pages.HasMorePages() {
			page, err := pages.NextPage(context.Background())
			if err != nil {
				b.Fatal(err)
			}
			total += len(page.Objects)
		}
		if total != 10000 {
			b.Fatalf("expected 10000 objects, got %d", total)
		}
	}
}
