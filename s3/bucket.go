package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	s3errors "github.com/ecastroth/awskit/s3/errors"
	"github.com/ecastroth/awskit/s3/internal/validation"
	"github.com/ecastroth/awskit/s3/s3types"
)

// CreateBucket creates a new S3 bucket.
// The bucket is created in the client's region unless WithBucketRegion
// overrides it. Outside us-east-1 a location constraint is required.
//
// Errors:
//   - ErrInvalidInput: If the bucket name is invalid
//   - ErrBucketAlreadyExists: If the bucket already exists
//   - ErrAccessDenied: If the credentials lack permission to create buckets
//
// Example:
//
//	err := client.CreateBucket(ctx, "my-new-bucket",
//	    s3.WithBucketRegion("eu-west-1"),
//	)
func (c *Client) CreateBucket(ctx context.Context, bucket string, opts ...s3types.BucketOption) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return s3errors.NewError("createBucket", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage(err.Error())
	}

	config := &s3types.BucketOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	region := config.Region
	if region == "" {
		region = c.resolveRegion()
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}
	// us-east-1 is the default and rejects an explicit location constraint.
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	if _, err := c.s3Client.CreateBucket(ctx, input); err != nil {
		return s3errors.NewError("createBucket", s3errors.MapAWS(err)).WithBucket(bucket)
	}

	return nil
}

// BucketExists checks whether a bucket exists and is accessible using a
// HEAD request.
//
// Returns:
//   - bool: true if the bucket exists and the caller can access it
//   - error: Returns nil for success/not-found, or error for other failures
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if bucket == "" {
		return false, s3errors.NewError("bucketExists", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("bucket name cannot be empty")
	}

	input := &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	}
	if owner := c.getClientConfig().ExpectedBucketOwner; owner != "" {
		input.ExpectedBucketOwner = aws.String(owner)
	}

	if _, err := c.s3Client.HeadBucket(ctx, input); err != nil {
		if s3errors.IsNotFoundAPIError(err) {
			return false, nil
		}
		mapped := s3errors.MapAWS(err)
		if s3errors.IsBucketNotFound(mapped) {
			return false, nil
		}
		return false, s3errors.NewError("bucketExists", mapped).WithBucket(bucket)
	}

	return true, nil
}

// ListBuckets lists the buckets owned by the caller's account.
//
// Example:
//
//	buckets, err := client.ListBuckets(ctx)
//	for _, b := range buckets {
//	    fmt.Printf("%s created %s\n", b.Name, b.CreatedAt)
//	}
func (c *Client) ListBuckets(ctx context.Context) ([]s3types.BucketInfo, error) {
	output, err := c.s3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, s3errors.NewError("listBuckets", s3errors.MapAWS(err))
	}

	buckets := make([]s3types.BucketInfo, 0, len(output.Buckets))
	for _, b := range output.Buckets {
		buckets = append(buckets, s3types.BucketInfo{
			Name:      aws.ToString(b.Name),
			CreatedAt: aws.ToTime(b.CreationDate),
		})
	}

	return buckets, nil
}

// BucketRegion resolves the region a bucket lives in.
// S3 reports buckets in us-east-1 with an empty location constraint.
func (c *Client) BucketRegion(ctx context.Context, bucket string) (string, error) {
	if bucket == "" {
		return "", s3errors.NewError("bucketRegion", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("bucket name cannot be empty")
	}

	output, err := c.s3Client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return "", s3errors.NewError("bucketRegion", s3errors.MapAWS(err)).WithBucket(bucket)
	}

	region := string(output.LocationConstraint)
	if region == "" {
		region = "us-east-1"
	}

	return region, nil
}

// DeleteBucket deletes an S3 bucket.
// S3 refuses to delete a non-empty bucket; pass WithEmptyBucket to drain
// all objects first.
//
// Errors:
//   - ErrInvalidInput: If the bucket name is empty
//   - ErrBucketNotFound: If the bucket doesn't exist
//   - ErrBucketNotEmpty: If the bucket still contains objects
//   - ErrAccessDenied: If the credentials lack permission to delete
//
// Example:
//
//	err := client.DeleteBucket(ctx, "old-bucket", s3.WithEmptyBucket())
func (c *Client) DeleteBucket(ctx context.Context, bucket string, opts ...s3types.DeleteBucketOption) error {
	if bucket == "" {
		return s3errors.NewError("deleteBucket", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("bucket name cannot be empty")
	}

	config := &s3types.DeleteBucketOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	if config.EmptyFirst {
		if err := c.emptyBucket(ctx, bucket); err != nil {
			return err
		}
	}

	if _, err := c.s3Client.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucket),
	}); err != nil {
		return s3errors.NewError("deleteBucket", s3errors.MapAWS(err)).WithBucket(bucket)
	}

	return nil
}

// emptyBucket drains every object from a bucket, page by page, so the
// delete requests stay bounded regardless of bucket size.
func (c *Client) emptyBucket(ctx context.Context, bucket string) error {
	deleter := c.newDeleter()

	for {
		page, err := c.List(ctx, bucket)
		if err != nil {
			return s3errors.NewError("emptyBucket", err).WithBucket(bucket)
		}
		if len(page.Objects) == 0 {
			return nil
		}

		keys := make([]string, 0, len(page.Objects))
		for _, obj := range page.Objects {
			keys = append(keys, obj.Key)
		}

		result, err := deleter.DeleteChunk(ctx, bucket, keys)
		if err != nil {
			return s3errors.NewError("emptyBucket", s3errors.MapAWS(err)).WithBucket(bucket)
		}
		if len(result.Errors) > 0 {
			first := result.Errors[0]
			return s3errors.NewError("emptyBucket", s3errors.ErrAccessDenied).
				WithBucket(bucket).
				WithKey(first.Key).
				WithMessage(first.Code + ": " + first.Message)
		}

		if !page.IsTruncated {
			return nil
		}
	}
}

// resolveRegion returns the effective region for bucket creation.
func (c *Client) resolveRegion() string {
	if region := c.getClientConfig().Region; region != "" {
		return region
	}
	return c.config.Region
}

// Bucket is a verified handle to a single S3 bucket. Construction checks
// that the bucket exists and resolves its region, so batch operations on
// the handle never target a bucket that was never there.
type Bucket struct {
	client *Client
	name   string
	region string
}

// Bucket verifies access to the named bucket and returns a handle bound
// to it. The handle carries the bucket's region, resolved once here.
//
// Errors:
//   - ErrInvalidInput: If the bucket name is invalid
//   - ErrBucketNotFound: If the bucket doesn't exist
//   - ErrAccessDenied: If the credentials cannot access the bucket
//
// Example:
//
//	bucket, err := client.Bucket(ctx, "data-lake")
//	if err != nil {
//	    return err
//	}
//	result, err := bucket.UploadFiles(ctx, pairs)
func (c *Client) Bucket(ctx context.Context, name string) (*Bucket, error) {
	if err := validation.ValidateBucketName(name); err != nil {
		return nil, s3errors.NewError("bucket", s3errors.ErrInvalidInput).
			WithBucket(name).
			WithMessage(err.Error())
	}

	input := &s3.HeadBucketInput{
		Bucket: aws.String(name),
	}
	if owner := c.getClientConfig().ExpectedBucketOwner; owner != "" {
		input.ExpectedBucketOwner = aws.String(owner)
	}

	if _, err := c.s3Client.HeadBucket(ctx, input); err != nil {
		mapped := s3errors.MapAWS(err)
		if s3errors.IsNotFoundAPIError(err) {
			mapped = s3errors.ErrBucketNotFound
		}
		return nil, s3errors.NewError("bucket", mapped).WithBucket(name)
	}

	region, err := c.BucketRegion(ctx, name)
	if err != nil {
		// The handle is still usable without a resolved region.
		region = ""
	}

	return &Bucket{
		client: c,
		name:   name,
		region: region,
	}, nil
}

// Name returns the bucket name the handle is bound to.
func (b *Bucket) Name() string {
	return b.name
}

// Region returns the bucket's region resolved at construction, or an
// empty string when the lookup was not permitted.
func (b *Bucket) Region() string {
	return b.region
}
