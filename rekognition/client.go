// Package rekognition provides client initialization and configuration.
//
// The Client wraps the AWS Rekognition service for image analysis:
// text detection, label detection, and face detection, with batch
// variants that fan calls out over a bounded worker pool.
package rekognition

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/ecastroth/awskit/rekognition/internal/rekapi"
)

const (
	// DefaultMaxRetries is the retry budget applied when none is configured
	DefaultMaxRetries = 3

	// DefaultConcurrency is the parallelism applied to batch detection
	// calls when none is configured
	DefaultConcurrency = 5

	// DefaultMaxLabels is how many labels DetectLabels returns when no cap
	// is configured
	DefaultMaxLabels = int32(10)

	// DefaultMinConfidence is the label confidence threshold (percent)
	// applied when none is configured
	DefaultMinConfidence = float32(80)
)

// bucketLocationAPI is the subset of the S3 client used to resolve a
// bucket's region during NewForBucket.
type bucketLocationAPI interface {
	GetBucketLocation(
		ctx context.Context,
		params *s3.GetBucketLocationInput,
		optFns ...func(*s3.Options),
	) (*s3.GetBucketLocationOutput, error)
}

// Client is a Rekognition client with configurable concurrency for batch
// detection. It is safe for concurrent use.
type Client struct {
	api         rekapi.RekognitionAPI
	config      aws.Config
	concurrency int
	logger      *slog.Logger
}

// New creates a Rekognition client with the provided options, loading AWS
// credentials through the default chain.
//
// Example:
//
//	client, err := rekognition.New(
//	    rekognition.WithRegion("us-east-1"),
//	    rekognition.WithConcurrency(8),
//	)
func New(opts ...Option) (*Client, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	cfg, err := loadAWSConfig(options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	return &Client{
		api:         rekognition.NewFromConfig(cfg),
		config:      cfg,
		concurrency: options.concurrency,
		logger:      options.logger,
	}, nil
}

// NewForBucket creates a Rekognition client pinned to the region of the
// given S3 bucket. Detection calls that reference objects in the bucket
// must run in the bucket's own region, so the bucket location is resolved
// first and overrides any configured region.
//
// Example:
//
//	client, err := rekognition.NewForBucket(ctx, "scans-bucket",
//	    rekognition.WithProfile("analytics"),
//	)
func NewForBucket(ctx context.Context, bucket string, opts ...Option) (*Client, error) {
	if bucket == "" {
		return nil, errors.New("bucket name cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	cfg, err := loadAWSConfig(options)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	region, err := resolveBucketRegion(ctx, s3.NewFromConfig(cfg), bucket)
	if err != nil {
		return nil, err
	}
	cfg.Region = region

	client := &Client{
		api:         rekognition.NewFromConfig(cfg),
		config:      cfg,
		concurrency: options.concurrency,
		logger:      options.logger,
	}

	if client.logger != nil {
		client.logger.InfoContext(ctx, "pinned rekognition client to bucket region",
			"bucket", bucket,
			"region", region)
	}

	return client, nil
}

// NewWithClient creates a Client backed by a custom RekognitionAPI
// implementation. This is primarily used for testing with mocked clients.
func NewWithClient(api rekapi.RekognitionAPI) *Client {
	return &Client{
		api:         api,
		config:      aws.Config{},
		concurrency: DefaultConcurrency,
	}
}

// resolveBucketRegion looks up the region a bucket lives in. Buckets in
// us-east-1 report an empty location constraint.
func resolveBucketRegion(ctx context.Context, api bucketLocationAPI, bucket string) (string, error) {
	out, err := api.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve region for bucket %s", bucket)
	}

	region := string(out.LocationConstraint)
	if region == "" {
		region = "us-east-1"
	}
	return region, nil
}

// loadAWSConfig resolves the AWS configuration from the client options,
// honoring profiles and static credentials.
func loadAWSConfig(options *clientOptions) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error

	if options.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(options.profile))
	}
	if options.staticCredentials != nil {
		sc := options.staticCredentials
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(sc.accessKeyID, sc.secretAccessKey, sc.sessionToken),
		))
	}
	if options.httpClient != nil {
		loadOpts = append(loadOpts, config.WithHTTPClient(options.httpClient))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return aws.Config{}, err
	}

	if options.region != "" {
		cfg.Region = options.region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	if options.maxRetries > 0 {
		cfg.RetryMaxAttempts = options.maxRetries
	}

	return cfg, nil
}
