// Package bedrock provides a high-level client for AWS Bedrock text
// completion with Anthropic Claude models. It wraps the Bedrock runtime
// SDK to expose typed completions instead of raw JSON payloads.
//
// Key features:
//   - Deterministic defaults (temperature 0, top_p 0.9, 4000 token cap)
//   - Per-call overrides for model, temperature, and token budget
//   - Batch invocation that fans prompts out across a bounded worker pool
//   - Approximate token accounting for cost estimation
//
// Example usage:
//
//	client, err := bedrock.New(bedrock.WithRegion("us-east-1"))
//	if err != nil {
//	    return err
//	}
//
//	completion, err := client.Invoke(ctx, "Summarize this invoice: ...")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(completion.Text)
package bedrock
