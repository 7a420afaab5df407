package llm

import (
	"context"
)

// LLMClient turns a prompt into generated text.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationOptions are the sampling knobs shared by every provider.
// Zero values leave the provider default in place.
type GenerationOptions struct {
	Temperature float32
	MaxTokens   int
}
