// Package bedrock provides client initialization and configuration.
//
// The Client wraps the AWS Bedrock runtime for text completion with
// Anthropic Claude models, with a batch variant that fans prompts out
// over a bounded worker pool.
package bedrock

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ecastroth/awskit/bedrock/internal/bedrockapi"
)

const (
	// DefaultModelID is the model used when none is configured
	DefaultModelID = "anthropic.claude-v2:1"

	// DefaultMaxTokens is the generation cap applied when none is configured
	DefaultMaxTokens = 4000

	// DefaultTemperature keeps sampling deterministic unless overridden
	DefaultTemperature = 0.0

	// DefaultTopP is the nucleus sampling threshold applied when none is
	// configured
	DefaultTopP = 0.9

	// DefaultMaxRetries is the retry budget applied when none is configured
	DefaultMaxRetries = 3

	// DefaultConcurrency is the parallelism applied to InvokeBatch when
	// none is configured
	DefaultConcurrency = 5
)

// Client is a Bedrock runtime client bound to a default model. It is safe
// for concurrent use.
type Client struct {
	api         bedrockapi.InvokeAPI
	config      aws.Config
	modelID     string
	concurrency int
	logger      *slog.Logger
}

// New creates a Bedrock client with the provided options, loading AWS
// credentials through the default chain.
//
// Example:
//
//	client, err := bedrock.New(
//	    bedrock.WithRegion("us-east-1"),
//	    bedrock.WithModelID("anthropic.claude-v2:1"),
//	)
func New(opts ...Option) (*Client, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	cfg, err := loadAWSConfig(options)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		api:         bedrockruntime.NewFromConfig(cfg),
		config:      cfg,
		modelID:     options.modelID,
		concurrency: options.concurrency,
		logger:      options.logger,
	}, nil
}

// NewWithClient creates a Client backed by a custom InvokeAPI
// implementation. This is primarily used for testing with mocked clients.
func NewWithClient(api bedrockapi.InvokeAPI) *Client {
	return &Client{
		api:         api,
		config:      aws.Config{},
		modelID:     DefaultModelID,
		concurrency: DefaultConcurrency,
	}
}

// loadAWSConfig resolves the AWS configuration from the client options.
func loadAWSConfig(options *clientOptions) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error

	if options.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(options.profile))
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
