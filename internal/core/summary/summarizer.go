package summary

import (
	"context"
	"fmt"

	"github.com/agenthands/jai/internal/config"
	"github.com/agenthands/jai/internal/llm"
)

// Generator produces a summary of free text.
type Generator interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Summarizer is the LLM-backed Generator.
type Summarizer struct {
	LLM    llm.LLMClient
	Prompt string
}

// NewSummarizer uses prompt as a fmt template with one %s for the text; an
// empty prompt falls back to the default journaling prompt.
func NewSummarizer(llmClient llm.LLMClient, prompt string) *Summarizer {
	if prompt == "" {
		prompt = config.DefaultSummaryPrompt
	}
	return &Summarizer{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(s.Prompt, text)

	response, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	summary, err := extractSummary(response)
	if err != nil {
		return "", fmt.Errorf("failed to parse summary result: %w", err)
	}
	return summary, nil
}
