package driven

import "context"

// LLMService is the hosted completion model used to answer questions.
//
// Implementations may include:
//   - OpenAI (and any OpenAI-compatible endpoint)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Complete produces a completion for the given system and user prompts.
	Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionOptions configures text generation behaviour.
type CompletionOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
