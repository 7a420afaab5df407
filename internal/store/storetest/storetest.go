// Package storetest is a behavioural suite every EntryStore backend runs.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/jai/internal/apperr"
	"github.com/agenthands/jai/internal/core/model"
	"github.com/agenthands/jai/internal/store"
)

// Factory opens an empty store whose clock is driven by now.
type Factory func(t *testing.T, now func() time.Time) store.EntryStore

// clock hands out strictly increasing, millisecond-aligned timestamps so
// every backend can represent them exactly.
type clock struct {
	t time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func Run(t *testing.T, open Factory) {
	t.Run("CreateAppliesDefaults", func(t *testing.T) { testCreateDefaults(t, open) })
	t.Run("OwnerScoping", func(t *testing.T) { testOwnerScoping(t, open) })
	t.Run("UpdatePatch", func(t *testing.T) { testUpdate(t, open) })
	t.Run("Summary", func(t *testing.T) { testSummary(t, open) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, open) })
	t.Run("QueryFilters", func(t *testing.T) { testQueryFilters(t, open) })
	t.Run("QueryPaging", func(t *testing.T) { testQueryPaging(t, open) })
	t.Run("QueryFarDateBounds", func(t *testing.T) { testQueryFarDateBounds(t, open) })
	t.Run("QueryUnicodeText", func(t *testing.T) { testQueryUnicodeText(t, open) })
}

func testCreateDefaults(t *testing.T, open Factory) {
	ctx := context.Background()
	c := newClock()
	s := open(t, c.now)

	e, err := s.Create(ctx, "u1", model.Fields{Content: "Hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, model.DefaultTitle, e.Title)
	assert.Equal(t, model.MoodNeutral, e.Mood)
	assert.Equal(t, []string{}, e.Tags)
	assert.False(t, e.HasSummary)
	assert.Empty(t, e.Summary)
	assert.Nil(t, e.UpdatedAt)
	assert.False(t, e.CreatedAt.IsZero())

	got, err := s.Get(ctx, e.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "Hello", got.Content)
	assert.Equal(t, []string{}, got.Tags)
	assert.True(t, e.CreatedAt.Equal(got.CreatedAt))
}

func testOwnerScoping(t *testing.T, open Factory) {
	ctx := context.Background()
	c := newClock()
	s := open(t, c.now)

	e, err := s.Create(ctx, "alice", model.Fields{Content: "mine", Tags: []string{"x"}})
	require.NoError(t, err)

	_, err = s.Get(ctx, e.ID, "bob")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	content := "stolen"
	_, err = s.Update(ctx, e.ID, "bob", model.Patch{Content: &content})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, e.ID, "bob"), apperr.ErrNotFound)

	entries, total, err := s.Query(ctx, "bob", model.Predicate{}, model.OrderNewestFirst, 0, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)

	got, err := s.Get(ctx, e.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Content)

	_, err = s.Get(ctx, "does-not-exist", "alice")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func testUpdate(t *testing.T, open Factory) {
	ctx := context.Background()
	c := newClock()
	s := open(t, c.now)

	e, err := s.Create(ctx, "u1", model.Fields{Title: "T", Content: "C", Mood: model.MoodSad, Tags: []string{"a"}})
	require.NoError(t, err)

	mood := model.MoodHappy
	updated, err := s.Update(ctx, e.ID, "u1", model.Patch{Mood: &mood})
	require.NoError(t, err)
	assert.Equal(t, model.MoodHappy, updated.Mood)
	assert.Equal(t, "T", updated.Title)
	assert.Equal(t, "C", updated.Content)
	assert.Equal(t, []string{"a"}, updated.Tags)
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(e.CreatedAt))
	assert.True(t, e.CreatedAt.Equal(updated.CreatedAt))

	blank := "  "
	tags := []string{" b ", "b", "c"}
	updated, err = s.Update(ctx, e.ID, "u1", model.Patch{Title: &blank, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTitle, updated.Title)
	assert.Equal(t, []string{"b", "c"}, updated.Tags)

	got, err := s.Get(ctx, e.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, updated.Title, got.Title)
	assert.Equal(t, updated.Tags, got.Tags)
	assert.Equal(t, model.MoodHappy, got.Mood)
}

func testSummary(t *testing.T, open Factory) {
	ctx := context.Background()
	c := newClock()
	s := open(t, c.now)

	e, err := s.Create(ctx, "u1", model.Fields{Content: "long day"})
	require.NoError(t, err)

	summary := "A long day."
	updated, err := s.Update(ctx, e.ID, "u1", model.Patch{Summary: &summary})
	require.NoError(t, err)
	assert.True(t, updated.HasSummary)
	assert.Equal(t, summary, updated.Summary)

	got, err := s.Get(ctx, e.ID, "u1")
	require.NoError(t, err)
	assert.True(t, got.HasSummary)
	assert.Equal(t, summary, got.Summary)

	// Summary survives unrelated edits.
	content := "longer day"
	updated, err = s.Update(ctx, e.ID, "u1", model.Patch{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, summary, updated.Summary)
	assert.True(t, updated.HasSummary)
}

func testDelete(t *testing.T, open Factory) {
	ctx := context.Background()
	c := newClock()
	s := open(t, c.now)

	e, err := s.Create(ctx, "u1", model.Fields{Content: "bye"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, e.ID, "u1"))
	_, err = s.Get(ctx, e.ID, "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, e.ID, "u1"), apperr.ErrNotFound)

	content := "back"
	_, err = s.Update(ctx, e.ID, "u1", model.Patch{Content: &content})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func testQueryFilters(t *testing.T, open Factory) {
	ctx := context.Background()
	c := newClock()
	s := open(t, c.now)

	seed := []model.Fields{
		{Title: "Work stress", Content: "Deadline looming", Mood: model.MoodAnxious, Tags: []string{"work"}},
		{Title: "Park", Content: "Sunny walk with 100% joy", Mood: model.MoodHappy, Tags: []string{"personal", "outdoors"}},
		{Title: "Standup", Content: "Sprint_review went fine", Mood: model.MoodHappy, Tags: []string{"work"}},
		{Title: "Rain", Content: "Grey all day", Mood: model.MoodSad, Tags: []string{"personal"}},
	}
	var created []*model.Entry
	for _, f := range seed {
		e, err := s.Create(ctx, "u1", f)
		require.NoError(t, err)
		created = append(created, e)
	}
	_, err := s.Create(ctx, "u2", model.Fields{Content: "work work", Mood: model.MoodHappy, Tags: []string{"work"}})
	require.NoError(t, err)

	ids := func(p model.Predicate) []string {
		t.Helper()
		entries, total, err := s.Query(ctx, "u1", p, model.OrderNewestFirst, 0, 100)
		require.NoError(t, err)
		require.Len(t, entries, total)
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Equal(t, []string{created[3].ID, created[2].ID, created[1].ID, created[0].ID}, ids(model.Predicate{}))
	assert.Equal(t, []string{created[2].ID, created[1].ID}, ids(model.Predicate{Mood: model.MoodHappy}))
	assert.Equal(t, []string{created[2].ID}, ids(model.Predicate{Mood: model.MoodHappy, Tag: "work"}))
	assert.Equal(t, []string{created[3].ID, created[1].ID}, ids(model.Predicate{Tag: "personal"}))
	assert.Empty(t, ids(model.Predicate{Tag: "pers"}))
	assert.Equal(t, []string{created[0].ID}, ids(model.Predicate{Text: "deadline"}))
	assert.Equal(t, []string{created[1].ID}, ids(model.Predicate{Text: "park"}))
	// LIKE metacharacters are literal.
	assert.Equal(t, []string{created[1].ID}, ids(model.Predicate{Text: "100%"}))
	assert.Equal(t, []string{created[2].ID}, ids(model.Predicate{Text: "sprint_"}))
	assert.Empty(t, ids(model.Predicate{Text: "%z"}))
	assert.Empty(t, ids(model.Predicate{Mood: model.Mood("ecstatic")}))

	from := created[1].CreatedAt
	to := created[2].CreatedAt
	assert.Equal(t, []string{created[2].ID, created[1].ID}, ids(model.Predicate{From: &from, To: &to}))
	assert.Equal(t, []string{created[3].ID, created[2].ID, created[1].ID}, ids(model.Predicate{From: &from}))
	assert.Equal(t, []string{created[2].ID, created[1].ID, created[0].ID}, ids(model.Predicate{To: &to}))
}

func testQueryPaging(t *testing.T, open Factory) {
	ctx := context.Background()
	c := newClock()
	s := open(t, c.now)

	const n = 7
	var want []string
	for i := 0; i < n; i++ {
		e, err := s.Create(ctx, "u1", model.Fields{Content: fmt.Sprintf("entry %d", i)})
		require.NoError(t, err)
		want = append([]string{e.ID}, want...)
	}

	var got []string
	for offset := 0; offset < n; offset += 3 {
		entries, total, err := s.Query(ctx, "u1", model.Predicate{}, model.OrderNewestFirst, offset, 3)
		require.NoError(t, err)
		assert.Equal(t, n, total)
		for _, e := range entries {
			got = append(got, e.ID)
		}
	}
	assert.Equal(t, want, got)

	entries, total, err := s.Query(ctx, "u1", model.Predicate{}, model.OrderNewestFirst, 50, 3)
	require.NoError(t, err)
	assert.Equal(t, n, total)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func testQueryFarDateBounds(t *testing.T, open Factory) {
	ctx := context.Background()
	c := newClock()
	s := open(t, c.now)

	e, err := s.Create(ctx, "u1", model.Fields{Content: "timeless"})
	require.NoError(t, err)

	far := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	early := time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)

	total := func(p model.Predicate) int {
		t.Helper()
		_, n, err := s.Query(ctx, "u1", p, model.OrderNewestFirst, 0, 10)
		require.NoError(t, err)
		return n
	}

	assert.Equal(t, 1, total(model.Predicate{To: &far}))
	assert.Equal(t, 1, total(model.Predicate{From: &early}))
	assert.Equal(t, 1, total(model.Predicate{From: &early, To: &far}))
	assert.Zero(t, total(model.Predicate{From: &far}))
	assert.Zero(t, total(model.Predicate{To: &early}))

	created := e.CreatedAt
	assert.Equal(t, 1, total(model.Predicate{From: &created, To: &far}))
}

func testQueryUnicodeText(t *testing.T, open Factory) {
	ctx := context.Background()
	c := newClock()
	s := open(t, c.now)

	title, err := s.Create(ctx, "u1", model.Fields{Title: "ÉTÉ À PARIS", Content: "chaud"})
	require.NoError(t, err)
	content, err := s.Create(ctx, "u1", model.Fields{Content: "Straße nach ÜBERLINGEN"})
	require.NoError(t, err)

	ids := func(text string) []string {
		t.Helper()
		entries, _, err := s.Query(ctx, "u1", model.Predicate{Text: text}, model.OrderNewestFirst, 0, 10)
		require.NoError(t, err)
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Equal(t, []string{title.ID}, ids("été"))
	assert.Equal(t, []string{title.ID}, ids("à paris"))
	assert.Equal(t, []string{content.ID}, ids("überlingen"))
	assert.Equal(t, []string{content.ID}, ids("straße"))
}
