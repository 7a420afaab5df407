// Package memory is the in-memory reference EntryStore. Entries are copied
// on the way in and out so callers never share state with the store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/agenthands/jai/internal/core/model"
	"github.com/agenthands/jai/internal/store"
)

type Store struct {
	mu      sync.RWMutex
	entries map[string]*model.Entry

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

func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*model.Entry),
		newID:   store.NewID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Create(_ context.Context, ownerID string, fields model.Fields) (*model.Entry, error) {
	e := model.NewEntry(s.newID(), ownerID, fields, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e
	return e.Clone(), nil
}

func (s *Store) Get(_ context.Context, id, ownerID string) (*model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.lookup(id, ownerID)
	if !ok {
		return nil, store.ErrNotFound
	}
	return e.Clone(), nil
}

func (s *Store) Update(_ context.Context, id, ownerID string, patch model.Patch) (*model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id, ownerID)
	if !ok {
		return nil, store.ErrNotFound
	}
	// Apply to a copy so a reader never sees a half-written entry.
	next := e.Clone()
	patch.Apply(next, s.now())
	s.entries[id] = next
	return next.Clone(), nil
}

func (s *Store) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(id, ownerID); !ok {
		return store.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) Query(_ context.Context, ownerID string, pred model.Predicate, order model.Order, offset, limit int) ([]*model.Entry, int, error) {
	s.mu.RLock()
	matched := make([]*model.Entry, 0)
	for _, e := range s.entries {
		if e.OwnerID == ownerID && pred.Match(e) {
			matched = append(matched, e.Clone())
		}
	}
	s.mu.RUnlock()

	model.SortEntries(matched, order)

	total := len(matched)
	if offset >= total || limit <= 0 {
		return []*model.Entry{}, total, nil
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) lookup(id, ownerID string) (*model.Entry, bool) {
	e, ok := s.entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, false
	}
	return e, true
}
