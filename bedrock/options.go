package bedrock

import (
	"log/slog"
	"net/http"
)

// clientOptions holds the resolved configuration for a Client.
type clientOptions struct {
	region      string
	profile     string
	httpClient  *http.Client
	maxRetries  int
	concurrency int
	modelID     string
	logger      *slog.Logger
}

// Option is a functional option for configuring the Client.
type Option func(*clientOptions)

// WithRegion sets the AWS region for the Bedrock runtime client.
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

// WithModelID sets the default model for Invoke and InvokeBatch calls.
func WithModelID(modelID string) Option {
	return func(opts *clientOptions) {
		opts.modelID = modelID
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

// WithConcurrency sets the worker count for InvokeBatch calls.
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
		modelID:     DefaultModelID,
	}
}

// invokeOptions holds the per-call configuration for model invocation.
type invokeOptions struct {
	modelID     string
	maxTokens   int
	temperature float64
	topP        float64
}

// InvokeOption is a functional option for a single Invoke or InvokeBatch
// call.
type InvokeOption func(*invokeOptions)

// WithMaxTokens caps how many tokens the model may generate.
func WithMaxTokens(maxTokens int) InvokeOption {
	return func(opts *invokeOptions) {
		opts.maxTokens = maxTokens
	}
}

// WithTemperature sets the sampling temperature. Zero keeps the model
// deterministic.
func WithTemperature(temperature float64) InvokeOption {
	return func(opts *invokeOptions) {
		opts.temperature = temperature
	}
}

// WithTopP sets the nucleus sampling threshold.
func WithTopP(topP float64) InvokeOption {
	return func(opts *invokeOptions) {
		opts.topP = topP
	}
}

// WithInvokeModelID overrides the client's model for one call.
func WithInvokeModelID(modelID string) InvokeOption {
	return func(opts *invokeOptions) {
		opts.modelID = modelID
	}
}

// resolveInvokeOptions applies the client defaults and the per-call options.
func (c *Client) resolveInvokeOptions(opts []InvokeOption) *invokeOptions {
	config := &invokeOptions{
		modelID:     c.modelID,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		topP:        DefaultTopP,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}
