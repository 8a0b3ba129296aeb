// Package s3 provides client initialization and configuration.
//
// The Client provides a high-level interface for interacting with Amazon S3,
// supporting operations like upload, download, list, copy, and delete with
// configurable options for performance tuning and error handling.
package s3

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/ecastroth/awskit/s3/errors"
	"github.com/ecastroth/awskit/s3/internal/s3api"
	"github.com/ecastroth/awskit/s3/s3types"
)

const (
	// DefaultMaxRetries is the retry budget applied when none is configured
	DefaultMaxRetries = 3

	// DefaultConcurrency is the parallelism applied to transfers and
	// batch operations when none is configured
	DefaultConcurrency = 5

	// DefaultPartSize is the multipart chunk size applied when none is
	// configured (8MB)
	DefaultPartSize = 8 * 1024 * 1024
)

// presignAPI is the subset of the SDK presign client used by PresignGet
// and PresignPut.
type presignAPI interface {
	PresignGetObject(
		ctx context.Context,
		params *s3.GetObjectInput,
		optFns ...func(*s3.PresignOptions),
	) (*v4.PresignedHTTPRequest, error)
	PresignPutObject(
		ctx context.Context,
		params *s3.PutObjectInput,
		optFns ...func(*s3.PresignOptions),
	) (*v4.PresignedHTTPRequest, error)
}

// stsAPI is the subset of the STS client used by ResolveCallerAccount.
type stsAPI interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// Client represents an S3 client with configurable options.
// It provides thread-safe access to S3 operations with built-in
// retry logic, concurrency control, and progress tracking.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// presigner generates presigned URLs; nil when the client was built
	// without an AWS config (NewWithClient)
	presigner presignAPI

	// stsClient resolves the caller identity; nil under NewWithClient
	stsClient stsAPI

	// config holds the AWS configuration
	config aws.Config

	// clientCfg holds the resolved functional options
	clientCfg s3types.ClientConfig

	// mu protects concurrent access to client configuration
	mu sync.RWMutex

	// fs is the filesystem abstraction for file operations
	fs fs.Filesystem

	// logger is optional; nil disables logging
	logger *slog.Logger
}

// New creates a new S3 client with the provided options.
// It loads AWS credentials using the default credential chain
// and applies the specified configuration options.
//
// Example:
//
//	client, err := s3.New(
//	    s3.WithRegion("us-west-2"),
//	    s3.WithMaxRetries(3),
//	)
func New(opts ...s3types.Option) (*Client, error) {
	// Apply functional options first to check for custom config
	clientCfg := &s3types.ClientConfig{
		MaxRetries:     DefaultMaxRetries,
		Timeout:        0, // No timeout by default
		Concurrency:    DefaultConcurrency,
		PartSize:       DefaultPartSize,
		ForcePathStyle: false,
	}

	for _, opt := range opts {
		opt(clientCfg)
	}

	cfg, err := loadAWSConfig(clientCfg)
	if err != nil {
		return nil, errors.NewError("client initialization", err)
	}

	// Create S3 client with options
	var s3Opts []func(*s3.Options)

	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	// Handle per-operation timeout through a dedicated HTTP client unless
	// the caller already supplied one.
	if clientCfg.Timeout > 0 && clientCfg.HTTPClient == nil {
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	s3Client := s3.NewFromConfig(cfg, s3Opts...)

	// Initialize filesystem - use provided one or default to OS filesystem
	var filesystem fs.Filesystem
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		// Default to OS filesystem rooted at /
		filesystem = billy.NewOSFS("/")
	}

	client := &Client{
		s3Client:  s3Client,
		presigner: s3.NewPresignClient(s3Client),
		stsClient: sts.NewFromConfig(cfg),
		config:    cfg,
		clientCfg: *clientCfg,
		fs:        filesystem,
		logger:    clientCfg.Logger,
	}

	return client, nil
}

// loadAWSConfig resolves the AWS configuration from the client options,
// honoring custom configs, profiles, and static credentials.
func loadAWSConfig(clientCfg *s3types.ClientConfig) (aws.Config, error) {
	var cfg aws.Config
	var err error

	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		var loadOpts []func(*config.LoadOptions) error

		if clientCfg.Profile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(clientCfg.Profile))
		}
		if clientCfg.StaticCredentials != nil {
			sc := clientCfg.StaticCredentials
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(sc.AccessKeyID, sc.SecretAccessKey, sc.SessionToken),
			))
		}
		if clientCfg.HTTPClient != nil {
			loadOpts = append(loadOpts, config.WithHTTPClient(clientCfg.HTTPClient))
		}

		cfg, err = config.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return aws.Config{}, err
		}
	}

	// Apply region from options if specified, otherwise ensure a region is set
	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	return cfg, nil
}

// NewWithClient creates a new S3 client with a custom S3API implementation.
// This is primarily used for testing with mocked clients. Presigned URL
// and caller-identity operations are unavailable on clients built this way.
func NewWithClient(s3Client s3api.S3API) *Client {
	return &Client{
		s3Client: s3Client,
		config:   aws.Config{},
		clientCfg: s3types.ClientConfig{
			MaxRetries:  DefaultMaxRetries,
			Concurrency: DefaultConcurrency,
			PartSize:    DefaultPartSize,
		},
		fs: billy.NewOSFS("/"), // Default to OS filesystem
	}
}

// getClientConfig returns a copy of the resolved client configuration.
func (c *Client) getClientConfig() s3types.ClientConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientCfg
}

// SetFilesystem sets the filesystem implementation for the client.
// This is useful for testing or when the filesystem needs to be changed after creation.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs = filesystem
}

// SetLogger sets the structured logger for the client. Passing nil
// disables logging.
func (c *Client) SetLogger(logger *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// log returns the configured logger, or nil when logging is disabled.
func (c *Client) log() *slog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// ResolveCallerAccount returns the AWS account ID of the current
// credentials via STS GetCallerIdentity. Use the result with
// WithExpectedBucketOwner to pin object operations to the caller's
// own buckets.
//
// Returns an error when the client was constructed with NewWithClient,
// since no STS client is available.
func (c *Client) ResolveCallerAccount(ctx context.Context) (string, error) {
	if c.stsClient == nil {
		return "", errors.NewError("resolveCallerAccount", errors.ErrInvalidInput).
			WithMessage("client was constructed without an AWS config")
	}

	out, err := c.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", errors.NewError("resolveCallerAccount", err)
	}

	return aws.ToString(out.Account), nil
}

// Close releases any resources held by the client.
// Currently a no-op but included for future extensibility.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return nil
}
