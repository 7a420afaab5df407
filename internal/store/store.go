// Package store defines the EntryStore collaborator consumed by the journal
// core. Backends live in the subpackages.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/agenthands/jai/internal/apperr"
	"github.com/agenthands/jai/internal/core/model"
)

// EntryStore is durable, owner-scoped entry storage. Every method takes the
// owner and must behave as if entries of other owners do not exist.
// Single-record operations are atomic.
type EntryStore interface {
	// Create allocates the id, stamps CreatedAt and applies field defaults.
	Create(ctx context.Context, ownerID string, fields model.Fields) (*model.Entry, error)
	Get(ctx context.Context, id, ownerID string) (*model.Entry, error)
	// Update stamps UpdatedAt; nil patch fields are left unchanged.
	Update(ctx context.Context, id, ownerID string, patch model.Patch) (*model.Entry, error)
	Delete(ctx context.Context, id, ownerID string) error
	// Query returns the [offset, offset+limit) slice of the owner's entries
	// matching pred in the given order, and the count of all matches.
	Query(ctx context.Context, ownerID string, pred model.Predicate, order model.Order, offset, limit int) ([]*model.Entry, int, error)
	Close() error
}

// ErrNotFound is returned for absent entries and entries of other owners
// alike.
var ErrNotFound = apperr.NotFound("journal entry not found")

// IDFunc allocates entry ids.
type IDFunc func() string

func NewID() string {
	return uuid.New().String()
}
