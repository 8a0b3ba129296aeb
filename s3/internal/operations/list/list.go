package list

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ecastroth/awskit/s3/s3types"
)

// maxPageSize is the largest page S3 serves per ListObjectsV2 call.
const maxPageSize = 1000

// ListAPI is the single SDK call the lister needs.
type ListAPI interface {
	ListObjectsV2(
		ctx context.Context,
		input *s3.ListObjectsV2Input,
		opts ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)
}

// Lister lists S3 objects page by page.
type Lister struct {
	client ListAPI
}

// New creates a new Lister.
func New(client ListAPI) *Lister {
	return &Lister{
		client: client,
	}
}

// Config holds configuration for list operations.
type Config struct {
	Bucket            string
	Prefix            string
	Delimiter         string
	MaxKeys           int32
	StartAfter        string
	ContinuationToken string
}

// Result is one page of listing output.
type Result struct {
	Objects               []s3types.Object
	CommonPrefixes        []string
	IsTruncated           bool
	NextContinuationToken string
}

// ListPage fetches a single page of objects.
func (l *Lister) ListPage(ctx context.Context, config *Config) (*Result, error) {
	output, err := l.client.ListObjectsV2(ctx, buildInput(config))
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	return convertOutput(output), nil
}

// Pages returns a paginator over every page matching the config.
// The config's ContinuationToken seeds the paginator, so resuming a
// listing mid-way works the same as starting fresh.
func (l *Lister) Pages(config *Config) *Paginator {
	return &Paginator{
		client:    l.client,
		config:    config,
		token:     config.ContinuationToken,
		firstPage: true,
	}
}

// Paginator steps through list pages. Not safe for concurrent use.
type Paginator struct {
	client    ListAPI
	config    *Config
	token     string
	firstPage bool
	truncated bool
}

// HasMorePages reports whether another page remains.
func (p *Paginator) HasMorePages() bool {
	return p.firstPage || p.truncated
}

// NextPage fetches the next page of results.
func (p *Paginator) NextPage(ctx context.Context) (*Result, error) {
	cfg := *p.config
	cfg.ContinuationToken = p.token

	output, err := p.client.ListObjectsV2(ctx, buildInput(&cfg))
	if err != nil {
		return nil, fmt.Errorf("list objects page: %w", err)
	}

	p.firstPage = false
	p.truncated = aws.ToBool(output.IsTruncated)
	p.token = aws.ToString(output.NextContinuationToken)

	return convertOutput(output), nil
}

func buildInput(config *Config) *s3.ListObjectsV2Input {
	pageSize := config.MaxKeys
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(config.Bucket),
		MaxKeys: aws.Int32(pageSize),
	}

	if config.Prefix != "" {
		input.Prefix = aws.String(config.Prefix)
	}
	if config.Delimiter != "" {
		input.Delimiter = aws.String(config.Delimiter)
	}
	if config.ContinuationToken != "" {
		input.ContinuationToken = aws.String(config.ContinuationToken)
	} else if config.StartAfter != "" {
		input.StartAfter = aws.String(config.StartAfter)
	}

	return input
}

func convertOutput(output *s3.ListObjectsV2Output) *Result {
	result := &Result{
		Objects:               make([]s3types.Object, 0, len(output.Contents)),
		IsTruncated:           aws.ToBool(output.IsTruncated),
		NextContinuationToken: aws.ToString(output.NextContinuationToken),
	}

	for _, obj := range output.Contents {
		result.Objects = append(result.Objects, s3types.Object{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         aws.ToString(obj.ETag),
			StorageClass: string(obj.StorageClass),
		})
	}

	for _, prefix := range output.CommonPrefixes {
		result.CommonPrefixes = append(result.CommonPrefixes, aws.ToString(prefix.Prefix))
	}

	return result
}
