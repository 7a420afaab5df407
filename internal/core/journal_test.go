package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/jai/internal/apperr"
	"github.com/agenthands/jai/internal/core/model"
	"github.com/agenthands/jai/internal/core/summary"
	"github.com/agenthands/jai/internal/store/memory"
	"github.com/agenthands/jai/internal/validation"
)

func newTestJournal(llm *summary.MockLLMClient) *Journal {
	s := memory.New()
	v := validation.New()
	orch := summary.NewOrchestrator(s, summary.NewSummarizer(llm, "%s"), v)
	return NewJournal(s, orch, v, nil)
}

func TestCreateEntry_Defaults(t *testing.T) {
	j := newTestJournal(&summary.MockLLMClient{})
	ctx := context.Background()

	e, err := j.CreateEntry(ctx, "u1", model.Fields{Content: "Had a great day at the park"})
	require.NoError(t, err)
	assert.Equal(t, "Untitled Entry", e.Title)
	assert.Equal(t, model.MoodNeutral, e.Mood)
	assert.Equal(t, []string{}, e.Tags)

	got, err := j.GetEntry(ctx, "u1", e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Had a great day at the park", got.Content)
	assert.Equal(t, model.MoodNeutral, got.Mood)
	assert.Equal(t, []string{}, got.Tags)
}

func TestCreateEntry_RoundTrip(t *testing.T) {
	j := newTestJournal(&summary.MockLLMClient{})
	ctx := context.Background()

	in := model.Fields{Title: "Monday", Content: "Busy", Mood: model.MoodAnxious, Tags: []string{"work", "q3"}}
	e, err := j.CreateEntry(ctx, "u1", in)
	require.NoError(t, err)

	got, err := j.GetEntry(ctx, "u1", e.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.Content, got.Content)
	assert.Equal(t, in.Mood, got.Mood)
	assert.Equal(t, in.Tags, got.Tags)
	assert.False(t, got.HasSummary)
}

func TestCreateEntry_Validation(t *testing.T) {
	j := newTestJournal(&summary.MockLLMClient{})

	_, err := j.CreateEntry(context.Background(), "u1", model.Fields{Content: ""})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = j.CreateEntry(context.Background(), "u1", model.Fields{Content: "x", Mood: "elated"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateEntry(t *testing.T) {
	j := newTestJournal(&summary.MockLLMClient{})
	ctx := context.Background()
	e, err := j.CreateEntry(ctx, "u1", model.Fields{Content: "draft"})
	require.NoError(t, err)

	content := "final"
	updated, err := j.UpdateEntry(ctx, "u1", e.ID, model.Patch{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	assert.NotNil(t, updated.UpdatedAt)

	blank := " "
	_, err = j.UpdateEntry(ctx, "u1", e.ID, model.Patch{Content: &blank})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	bad := model.Mood("meh")
	_, err = j.UpdateEntry(ctx, "u1", e.ID, model.Patch{Mood: &bad})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = j.UpdateEntry(ctx, "u2", e.ID, model.Patch{Content: &content})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateEntry_IgnoresSummary(t *testing.T) {
	j := newTestJournal(&summary.MockLLMClient{})
	ctx := context.Background()
	e, err := j.CreateEntry(ctx, "u1", model.Fields{Content: "x"})
	require.NoError(t, err)

	forged := "forged"
	updated, err := j.UpdateEntry(ctx, "u1", e.ID, model.Patch{Summary: &forged})
	require.NoError(t, err)
	assert.False(t, updated.HasSummary)
	assert.Empty(t, updated.Summary)
}

func TestDeleteEntry(t *testing.T) {
	j := newTestJournal(&summary.MockLLMClient{})
	ctx := context.Background()
	e, err := j.CreateEntry(ctx, "u1", model.Fields{Content: "x"})
	require.NoError(t, err)

	assert.ErrorIs(t, j.DeleteEntry(ctx, "u2", e.ID), apperr.ErrNotFound)
	require.NoError(t, j.DeleteEntry(ctx, "u1", e.ID))
	_, err = j.GetEntry(ctx, "u1", e.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSummarizeAndGetSummary(t *testing.T) {
	llm := &summary.MockLLMClient{Response: `{"summary": "You enjoyed the park."}`}
	j := newTestJournal(llm)
	ctx := context.Background()
	e, err := j.CreateEntry(ctx, "u1", model.Fields{Content: "Had a great day at the park"})
	require.NoError(t, err)

	_, err = j.GetSummary(ctx, "u1", e.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	res, err := j.Summarize(ctx, "u1", model.SummaryRequest{Text: e.Content, EntryID: e.ID})
	require.NoError(t, err)
	assert.Equal(t, "You enjoyed the park.", res.Summary)

	text, err := j.GetSummary(ctx, "u1", e.ID)
	require.NoError(t, err)
	assert.Equal(t, "You enjoyed the park.", text)

	got, err := j.GetEntry(ctx, "u1", e.ID)
	require.NoError(t, err)
	assert.True(t, got.HasSummary)

	_, err = j.Summarize(ctx, "u2", model.SummaryRequest{Text: "x", EntryID: e.ID})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 1, llm.Calls())
}

func TestListEntries(t *testing.T) {
	j := newTestJournal(&summary.MockLLMClient{})
	ctx := context.Background()
	for _, mood := range []model.Mood{model.MoodHappy, model.MoodSad, model.MoodHappy} {
		_, err := j.CreateEntry(ctx, "u1", model.Fields{Content: "x", Mood: mood})
		require.NoError(t, err)
	}

	page, err := j.ListEntries(ctx, "u1", model.Criteria{Mood: model.MoodHappy, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	for _, e := range page.Entries {
		assert.Equal(t, model.MoodHappy, e.Mood)
	}
}
