package interfaces

import (
	"context"
)

// LLMProvider is a hosted chat-completion model that turns a prompt into text.
// Implementations differ only in the vendor API they call and how they shape
// the request (model, temperature, token ceiling, system message).
type LLMProvider interface {
	// GetResponse submits a single prompt and returns the generated text.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - prompt: Fully constructed prompt text
	//
	// Returns:
	//   - string: Non-empty generated text
	//   - error: Provider-prefixed error if the call fails; never retried
	GetResponse(ctx context.Context, prompt string) (string, error)
}
