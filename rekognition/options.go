package rekognition

import (
	"log/slog"
	"net/http"
)

// clientOptions holds the resolved configuration for a Client.
type clientOptions struct {
	region            string
	profile           string
	staticCredentials *staticCredentials
	httpClient        *http.Client
	maxRetries        int
	concurrency       int
	logger            *slog.Logger
}

// staticCredentials holds explicit AWS credentials.
type staticCredentials struct {
	accessKeyID     string
	secretAccessKey string
	sessionToken    string
}

// Option is a functional option for configuring the Client.
type Option func(*clientOptions)

// WithRegion sets the AWS region for the Rekognition client.
func WithRegion(region string) Option {
	return func(opts *clientOptions) {
		opts.region = region
	}
}

// WithProfile sets the AWS shared config profile to load credentials from.
func WithProfile(profile string) Option {
	return func(opts *clientOptions) {
		opts.profile = profile
	}
}

// WithStaticCredentials sets explicit AWS credentials, bypassing the
// default credential chain.
func WithStaticCredentials(accessKeyID, secretAccessKey, sessionToken string) Option {
	return func(opts *clientOptions) {
		opts.staticCredentials = &staticCredentials{
			accessKeyID:     accessKeyID,
			secretAccessKey: secretAccessKey,
			sessionToken:    sessionToken,
		}
	}
}

// WithHTTPClient sets a custom HTTP client for SDK requests.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *clientOptions) {
		opts.httpClient = client
	}
}

// WithMaxRetries sets the retry budget for SDK requests.
func WithMaxRetries(maxRetries int) Option {
	return func(opts *clientOptions) {
		opts.maxRetries = maxRetries
	}
}

// WithConcurrency sets the default worker count for batch detection calls.
func WithConcurrency(concurrency int) Option {
	return func(opts *clientOptions) {
		opts.concurrency = concurrency
	}
}

// WithLogger configures the client with a structured logger. If logger is
// nil, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// defaultOptions returns the default client configuration.
func defaultOptions() *clientOptions {
	return &clientOptions{
		maxRetries:  DefaultMaxRetries,
		concurrency: DefaultConcurrency,
	}
}

// detectOptions holds the per-call configuration for detection operations.
type detectOptions struct {
	maxLabels     int32
	minConfidence float32
	concurrency   int
}

// DetectOption is a functional option for a single detection call.
type DetectOption func(*detectOptions)

// WithMaxLabels caps how many labels DetectLabels returns. Labels come back
// ordered by descending confidence.
func WithMaxLabels(maxLabels int32) DetectOption {
	return func(opts *detectOptions) {
		opts.maxLabels = maxLabels
	}
}

// WithMinConfidence drops labels whose confidence falls below the given
// percentage.
func WithMinConfidence(minConfidence float32) DetectOption {
	return func(opts *detectOptions) {
		opts.minConfidence = minConfidence
	}
}

// WithDetectConcurrency overrides the client's worker count for one batch
// call.
func WithDetectConcurrency(concurrency int) DetectOption {
	return func(opts *detectOptions) {
		opts.concurrency = concurrency
	}
}

// resolveDetectOptions applies the client defaults and the per-call options.
func (c *Client) resolveDetectOptions(opts []DetectOption) *detectOptions {
	config := &detectOptions{
		maxLabels:     DefaultMaxLabels,
		minConfidence: DefaultMinConfidence,
		concurrency:   c.concurrency,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.concurrency <= 0 {
		config.concurrency = DefaultConcurrency
	}
	return config
}
