// Package memgraph stores journal entries as (:Entry) nodes in Memgraph,
// reached over Bolt with the neo4j driver.
package memgraph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/jai/internal/core/model"
	"github.com/agenthands/jai/internal/store"
)

type Store struct {
	driver GraphDriver

	newID store.IDFunc
	now   func() time.Time
}

type Option func(*Store)

func WithIDFunc(f store.IDFunc) Option {
	return func(s *Store) { s.newID = f }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(driver GraphDriver, opts ...Option) *Store {
	s := &Store{
		driver: driver,
		newID:  store.NewID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Create(ctx context.Context, ownerID string, fields model.Fields) (*model.Entry, error) {
	e := model.NewEntry(s.newID(), ownerID, fields, s.now())

	_, err := s.driver.ExecuteQuery(ctx, CreateEntryQuery, map[string]interface{}{
		"id":          e.ID,
		"owner_id":    e.OwnerID,
		"title":       e.Title,
		"title_lc":    fold(e.Title),
		"content":     e.Content,
		"content_lc":  fold(e.Content),
		"mood":        string(e.Mood),
		"tags":        e.Tags,
		"summary":     e.Summary,
		"has_summary": e.HasSummary,
		"created_ts":  e.CreatedAt.UnixNano(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create entry node: %w", err)
	}
	return e, nil
}

func (s *Store) Get(ctx context.Context, id, ownerID string) (*model.Entry, error) {
	res, err := s.driver.ExecuteQuery(ctx, GetEntryQuery, map[string]interface{}{
		"id":       id,
		"owner_id": ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get entry node: %w", err)
	}
	if len(res.Records) == 0 {
		return nil, store.ErrNotFound
	}
	return recordToEntry(res.Records[0])
}

func (s *Store) Update(ctx context.Context, id, ownerID string, patch model.Patch) (*model.Entry, error) {
	res, err := s.driver.ExecuteQuery(ctx, UpdateEntryQuery, map[string]interface{}{
		"id":       id,
		"owner_id": ownerID,
		"props":    patchProps(patch, s.now()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update entry node: %w", err)
	}
	if len(res.Records) == 0 {
		return nil, store.ErrNotFound
	}
	return recordToEntry(res.Records[0])
}

// patchProps converts a patch into the node properties it changes.
func patchProps(p model.Patch, now time.Time) map[string]interface{} {
	props := map[string]interface{}{
		"updated_ts": now.UTC().UnixNano(),
	}
	if p.Title != nil {
		title := model.NormalizeTitle(*p.Title)
		props["title"] = title
		props["title_lc"] = fold(title)
	}
	if p.Content != nil {
		props["content"] = *p.Content
		props["content_lc"] = fold(*p.Content)
	}
	if p.Mood != nil {
		props["mood"] = string(*p.Mood)
	}
	if p.Tags != nil {
		props["tags"] = model.NormalizeTags(*p.Tags)
	}
	if p.Summary != nil {
		props["summary"] = *p.Summary
		props["has_summary"] = *p.Summary != ""
	}
	return props
}

func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	res, err := s.driver.ExecuteQuery(ctx, DeleteEntryQuery, map[string]interface{}{
		"id":       id,
		"owner_id": ownerID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete entry node: %w", err)
	}
	if len(res.Records) == 0 || asInt64(res.Records[0], "deleted") == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Query(ctx context.Context, ownerID string, pred model.Predicate, _ model.Order, offset, limit int) ([]*model.Entry, int, error) {
	pred, ok := pred.Bounded()
	if !ok {
		return []*model.Entry{}, 0, nil
	}

	where, params := filterClause(ownerID, pred)

	res, err := s.driver.ExecuteQuery(ctx, matchEntries+where+countEntriesReturn, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count entry nodes: %w", err)
	}
	total := 0
	if len(res.Records) > 0 {
		total = int(asInt64(res.Records[0], "total"))
	}

	entries := []*model.Entry{}
	if offset >= total || limit <= 0 {
		return entries, total, nil
	}

	params["skip"] = int64(offset)
	params["limit"] = int64(limit)
	res, err = s.driver.ExecuteQuery(ctx, matchEntries+where+pageEntriesReturn, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entry nodes: %w", err)
	}
	for _, rec := range res.Records {
		e, err := recordToEntry(rec)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, nil
}

func filterClause(ownerID string, p model.Predicate) (string, map[string]interface{}) {
	conds := []string{"e.owner_id = $owner_id"}
	params := map[string]interface{}{"owner_id": ownerID}

	if p.Mood != "" {
		conds = append(conds, "e.mood = $mood")
		params["mood"] = string(p.Mood)
	}
	if p.Tag != "" {
		conds = append(conds, "$tag IN e.tags")
		params["tag"] = p.Tag
	}
	if p.From != nil {
		conds = append(conds, "e.created_ts >= $from_ts")
		params["from_ts"] = p.From.UnixNano()
	}
	if p.To != nil {
		conds = append(conds, "e.created_ts <= $to_ts")
		params["to_ts"] = p.To.UnixNano()
	}
	if p.Text != "" {
		conds = append(conds, "(e.title_lc CONTAINS $text OR e.content_lc CONTAINS $text)")
		params["text"] = p.Text
	}
	return strings.Join(conds, " AND "), params
}

// fold is the case folding Predicate.Match applies. Memgraph's toLower
// only folds ASCII, so folded copies are stored for the text filter.
func fold(s string) string {
	return strings.ToLower(s)
}

func (s *Store) Close() error {
	return s.driver.Close(context.Background())
}

func recordToEntry(rec *neo4j.Record) (*model.Entry, error) {
	id := asString(rec, "id")
	if id == "" {
		return nil, fmt.Errorf("entry record without id")
	}
	e := &model.Entry{
		ID:         id,
		OwnerID:    asString(rec, "owner_id"),
		Title:      asString(rec, "title"),
		Content:    asString(rec, "content"),
		Mood:       model.Mood(asString(rec, "mood")),
		Tags:       asStrings(rec, "tags"),
		Summary:    asString(rec, "summary"),
		HasSummary: asBool(rec, "has_summary"),
		CreatedAt:  time.Unix(0, asInt64(rec, "created_ts")).UTC(),
	}
	if v, ok := rec.Get("updated_ts"); ok && v != nil {
		if ts, ok := v.(int64); ok {
			t := time.Unix(0, ts).UTC()
			e.UpdatedAt = &t
		}
	}
	return e, nil
}

func asString(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	s, _ := v.(string)
	return s
}

func asBool(rec *neo4j.Record, key string) bool {
	v, _ := rec.Get(key)
	b, _ := v.(bool)
	return b
}

func asInt64(rec *neo4j.Record, key string) int64 {
	v, _ := rec.Get(key)
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}

func asStrings(rec *neo4j.Record, key string) []string {
	out := []string{}
	v, _ := rec.Get(key)
	switch list := v.(type) {
	case []interface{}:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, list...)
	}
	return out
}
