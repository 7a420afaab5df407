package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/jai/internal/config"
)

func TestSummarize_ResponseShapes(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"json", `{"summary": "A hopeful day."}`, "A hopeful day."},
		{"fenced json", "```json\n{\"summary\": \" Calm evening. \"}\n```", "Calm evening."},
		{"plain text", "  You felt proud today.\n", "You felt proud today."},
		{"fenced plain", "```\nRestful weekend.\n```", "Restful weekend."},
		{"braces in prose", "It felt {odd} but fine.", "It felt {odd} but fine."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummarizer(&MockLLMClient{Response: tt.response}, "%s")
			got, err := s.Summarize(context.Background(), "entry")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize_EmptyResponse(t *testing.T) {
	s := NewSummarizer(&MockLLMClient{Response: "  \n "}, "%s")
	_, err := s.Summarize(context.Background(), "entry")
	assert.Error(t, err)
}

func TestSummarize_PromptTemplate(t *testing.T) {
	mock := &MockLLMClient{Response: "ok"}

	_, err := NewSummarizer(mock, "").Summarize(context.Background(), "Had a great day at the park")
	require.NoError(t, err)
	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "Journal entry:\nHad a great day at the park")
	assert.Equal(t, 1, mock.Calls())

	_, err = NewSummarizer(mock, "Summarize: %s").Summarize(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "Summarize: x", mock.Prompts[1])
}

func TestSummarize_LLMError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewSummarizer(&MockLLMClient{Err: boom}, config.DefaultSummaryPrompt).Summarize(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to generate summary")
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON[summaryResult]("noise {\"summary\": \"s\"} trailing")
	require.NoError(t, err)
	assert.Equal(t, "s", got.Summary)

	_, err = ParseJSON[summaryResult]("no json here")
	assert.Error(t, err)

	_, err = ParseJSON[summaryResult]("} backwards {")
	assert.Error(t, err)

	_, err = ParseJSON[summaryResult]("{not json}")
	assert.Error(t, err)
}
