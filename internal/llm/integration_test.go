//go:build integration

package llm_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/jai/internal/config"
	"github.com/agenthands/jai/internal/core/summary"
	"github.com/agenthands/jai/internal/llm"
)

// TestLiveSummary talks to the provider configured by LLM_* (Ollama by
// default).
func TestLiveSummary(t *testing.T) {
	_ = godotenv.Load("../../.env")
	if os.Getenv("JAI_TEST_LLM") == "" {
		t.Skip("Skipping integration test: JAI_TEST_LLM not set")
	}

	cfg := config.Default()
	cfg.ApplyEnv(os.Getenv)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := llm.NewClient(ctx, cfg.LLM)
	require.NoError(t, err)

	s := summary.NewSummarizer(client, cfg.Summary.Entry)
	text, err := s.Summarize(ctx, "Spent the morning hiking with my sister. I was nervous about the climb but proud when we reached the top.")
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	t.Logf("summary: %s", text)
}
