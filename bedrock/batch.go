package bedrock

import (
	"context"

	"github.com/google/uuid"

	"github.com/ecastroth/awskit/internal/parallel"
)

// ItemError records one failed prompt in a batch invocation.
type ItemError struct {
	// Index is the position of the prompt in the input slice
	Index int

	// Err is what went wrong
	Err error
}

// BatchResult holds completions for a batch of prompts.
type BatchResult struct {
	// Completions is index-aligned with the input prompts; a failed
	// prompt yields nil
	Completions []*Completion

	// Failed lists the prompts whose invocation failed
	Failed []ItemError
}

// InvokeBatch sends every prompt to the model in parallel, one InvokeModel
// call per prompt. Completions are index-aligned with prompts and per-item
// failures are collected in Failed instead of aborting the batch.
//
// Example:
//
//	result, err := client.InvokeBatch(ctx, prompts,
//	    bedrock.WithMaxTokens(500),
//	)
func (c *Client) InvokeBatch(ctx context.Context, prompts []string, opts ...InvokeOption) (*BatchResult, error) {
	if len(prompts) == 0 {
		return &BatchResult{}, nil
	}

	config := c.resolveInvokeOptions(opts)
	batchID := uuid.NewString()

	if c.logger != nil {
		c.logger.InfoContext(ctx, "starting batch invocation",
			"batch_id", batchID,
			"model_id", config.modelID,
			"items", len(prompts),
			"concurrency", c.concurrency)
	}

	completions, errs := parallel.Map(ctx, prompts, c.concurrency,
		func(ctx context.Context, _ int, prompt string) (*Completion, error) {
			return c.Invoke(ctx, prompt, opts...)
		})

	batch := &BatchResult{Completions: completions}
	for i, err := range errs {
		if err != nil {
			batch.Failed = append(batch.Failed, ItemError{Index: i, Err: err})
		}
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "batch invocation finished",
			"batch_id", batchID,
			"model_id", config.modelID,
			"items", len(prompts),
			"failed", len(batch.Failed))
	}

	return batch, nil
}
