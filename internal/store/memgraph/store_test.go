package memgraph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/jai/internal/apperr"
	"github.com/agenthands/jai/internal/core/model"
)

var fixedNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestStore(d *MockDriver) *Store {
	return New(d,
		WithIDFunc(func() string { return "entry-1" }),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func TestCreate(t *testing.T) {
	d := &MockDriver{}
	s := newTestStore(d)

	e, err := s.Create(context.Background(), "u1", model.Fields{Content: "Hello", Tags: []string{"a", " a", ""}})
	require.NoError(t, err)
	assert.Equal(t, "entry-1", e.ID)
	assert.Equal(t, model.DefaultTitle, e.Title)

	require.Len(t, d.Calls, 1)
	c := d.last()
	assert.Equal(t, CreateEntryQuery, c.Query)
	assert.Equal(t, "u1", c.Params["owner_id"])
	assert.Equal(t, "untitled entry", c.Params["title_lc"])
	assert.Equal(t, "hello", c.Params["content_lc"])
	assert.Equal(t, "neutral", c.Params["mood"])
	assert.Equal(t, []string{"a"}, c.Params["tags"])
	assert.Equal(t, false, c.Params["has_summary"])
	assert.Equal(t, fixedNow.UnixNano(), c.Params["created_ts"])
}

func TestGet(t *testing.T) {
	d := &MockDriver{ResultQueue: []neo4j.EagerResult{
		result(entryRecord("e1", "u1", "T", "C", "happy", []interface{}{"x", "y"}, "S", fixedNow.UnixNano(), nil)),
	}}
	s := newTestStore(d)

	e, err := s.Get(context.Background(), "e1", "u1")
	require.NoError(t, err)
	assert.Equal(t, model.MoodHappy, e.Mood)
	assert.Equal(t, []string{"x", "y"}, e.Tags)
	assert.True(t, e.HasSummary)
	assert.True(t, fixedNow.Equal(e.CreatedAt))
	assert.Nil(t, e.UpdatedAt)
	assert.Equal(t, "u1", d.last().Params["owner_id"])
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(&MockDriver{})

	_, err := s.Get(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdate_SendsOnlyPatchedProps(t *testing.T) {
	updated := fixedNow.UnixNano()
	d := &MockDriver{ResultQueue: []neo4j.EagerResult{
		result(entryRecord("e1", "u1", model.DefaultTitle, "C", "sad", []interface{}{"b"}, "", 1, updated)),
	}}
	s := newTestStore(d)

	blank := " "
	mood := model.MoodSad
	tags := []string{"b", "b "}
	e, err := s.Update(context.Background(), "e1", "u1", model.Patch{Title: &blank, Mood: &mood, Tags: &tags})
	require.NoError(t, err)
	require.NotNil(t, e.UpdatedAt)
	assert.True(t, fixedNow.Equal(*e.UpdatedAt))

	props := d.last().Params["props"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{
		"title":      model.DefaultTitle,
		"title_lc":   "untitled entry",
		"mood":       "sad",
		"tags":       []string{"b"},
		"updated_ts": updated,
	}, props)
}

func TestUpdate_SummaryKeepsFlagInSync(t *testing.T) {
	assert.Equal(t, map[string]interface{}{
		"summary":     "",
		"has_summary": false,
		"updated_ts":  fixedNow.UnixNano(),
	}, patchProps(model.Patch{Summary: new(string)}, fixedNow))

	s := "short"
	props := patchProps(model.Patch{Summary: &s}, fixedNow)
	assert.Equal(t, true, props["has_summary"])
}

func TestUpdate_NotFound(t *testing.T) {
	s := newTestStore(&MockDriver{})

	content := "x"
	_, err := s.Update(context.Background(), "e1", "u2", model.Patch{Content: &content})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete(t *testing.T) {
	deleted := &neo4j.Record{Keys: []string{"deleted"}, Values: []interface{}{int64(1)}}
	none := &neo4j.Record{Keys: []string{"deleted"}, Values: []interface{}{int64(0)}}
	d := &MockDriver{ResultQueue: []neo4j.EagerResult{result(deleted), result(none)}}
	s := newTestStore(d)

	require.NoError(t, s.Delete(context.Background(), "e1", "u1"))
	assert.ErrorIs(t, s.Delete(context.Background(), "e1", "u1"), apperr.ErrNotFound)
}

func TestQuery_FiltersAndPaging(t *testing.T) {
	from := fixedNow.Add(-24 * time.Hour)
	total := &neo4j.Record{Keys: []string{"total"}, Values: []interface{}{int64(3)}}
	d := &MockDriver{ResultQueue: []neo4j.EagerResult{
		result(total),
		result(entryRecord("e2", "u1", "T", "walk", "happy", []interface{}{"work"}, "", 2, nil)),
	}}
	s := newTestStore(d)

	pred := model.Predicate{Mood: model.MoodHappy, Tag: "work", Text: "walk", From: &from}
	entries, n, err := s.Query(context.Background(), "u1", pred, model.OrderNewestFirst, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, entries, 1)
	assert.Equal(t, "e2", entries[0].ID)

	require.Len(t, d.Calls, 2)
	count := d.Calls[0]
	assert.Contains(t, count.Query, "e.owner_id = $owner_id AND e.mood = $mood AND $tag IN e.tags AND e.created_ts >= $from_ts")
	assert.Contains(t, count.Query, "e.content_lc CONTAINS $text")
	assert.Contains(t, count.Query, "count(e) AS total")
	assert.NotContains(t, count.Params, "skip")

	page := d.Calls[1]
	assert.Contains(t, page.Query, "ORDER BY e.created_ts DESC, e.id DESC")
	assert.Equal(t, int64(2), page.Params["skip"])
	assert.Equal(t, int64(2), page.Params["limit"])
	assert.Equal(t, "walk", page.Params["text"])
}

func TestPatchProps_FoldsText(t *testing.T) {
	title := "ÉTÉ À PARIS"
	content := "Straße"
	props := patchProps(model.Patch{Title: &title, Content: &content}, fixedNow)
	assert.Equal(t, "été à paris", props["title_lc"])
	assert.Equal(t, "straße", props["content_lc"])
}

func TestQuery_FarDateBounds(t *testing.T) {
	far := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	early := time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)

	d := &MockDriver{}
	s := newTestStore(d)
	entries, n, err := s.Query(context.Background(), "u1", model.Predicate{To: &early}, model.OrderNewestFirst, 0, 20)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NotNil(t, entries)
	assert.Empty(t, d.Calls)

	_, _, err = s.Query(context.Background(), "u1", model.Predicate{From: &early, To: &far}, model.OrderNewestFirst, 0, 20)
	require.NoError(t, err)
	require.Len(t, d.Calls, 1)
	assert.NotContains(t, d.Calls[0].Query, "created_ts")
	assert.NotContains(t, d.Calls[0].Params, "from_ts")
	assert.NotContains(t, d.Calls[0].Params, "to_ts")
}

func TestQuery_BeyondTotalSkipsPageQuery(t *testing.T) {
	total := &neo4j.Record{Keys: []string{"total"}, Values: []interface{}{int64(1)}}
	d := &MockDriver{ResultQueue: []neo4j.EagerResult{result(total)}}
	s := newTestStore(d)

	entries, n, err := s.Query(context.Background(), "u1", model.Predicate{}, model.OrderNewestFirst, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.Len(t, d.Calls, 1)
}

func TestDriverErrorsPropagate(t *testing.T) {
	s := newTestStore(&MockDriver{Err: errors.New("bolt down")})

	_, err := s.Get(context.Background(), "e1", "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bolt down")
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
}

func TestClose(t *testing.T) {
	d := &MockDriver{}
	require.NoError(t, newTestStore(d).Close())
	assert.True(t, d.Closed)
}
