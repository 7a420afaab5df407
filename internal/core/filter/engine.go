// Package filter turns listing criteria into an owner-scoped, ordered page
// of entries.
package filter

import (
	"context"
	"math"
	"strings"

	"github.com/agenthands/jai/internal/apperr"
	"github.com/agenthands/jai/internal/core/model"
)

// Querier is the part of the entry store the engine reads from.
type Querier interface {
	Query(ctx context.Context, ownerID string, pred model.Predicate, order model.Order, offset, limit int) ([]*model.Entry, int, error)
}

type Engine struct {
	store Querier
}

func NewEngine(store Querier) *Engine {
	return &Engine{store: store}
}

// List returns the requested page of ownerID's entries matching c, newest
// first, together with the size of the whole filtered set.
func (e *Engine) List(ctx context.Context, ownerID string, c model.Criteria) (*model.EntryPage, error) {
	page, limit := Clamp(c.Page, c.Limit)

	pred, ok := Compile(c).Bounded()
	if !ok {
		return &model.EntryPage{Entries: []*model.Entry{}, Page: page, Limit: limit}, nil
	}

	entries, total, err := e.store.Query(ctx, ownerID, pred, model.OrderNewestFirst, Offset(page, limit), limit)
	if err != nil {
		return nil, apperr.Internalize(err, "failed to list entries")
	}
	if entries == nil {
		entries = []*model.Entry{}
	}

	return &model.EntryPage{
		Entries: entries,
		Page:    page,
		Limit:   limit,
		Total:   total,
	}, nil
}

// Compile normalizes criteria into a predicate. Blank string criteria are
// treated as absent.
func Compile(c model.Criteria) model.Predicate {
	return model.Predicate{
		Mood: model.Mood(strings.TrimSpace(string(c.Mood))),
		Tag:  strings.TrimSpace(c.Tag),
		Text: strings.ToLower(strings.TrimSpace(c.FreeText)),
		From: c.From,
		To:   c.To,
	}
}

// Clamp raises page and limit to at least 1.
func Clamp(page, limit int) (int, int) {
	return max(page, 1), max(limit, 1)
}

// Offset is (page-1)*limit, saturating instead of overflowing.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}
