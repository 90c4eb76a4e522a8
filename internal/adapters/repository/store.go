// Package repository defines the menu store interface and its in-memory implementation.
package repository

import (
	"context"

	"github.com/okian/warung/internal/domain/model"
)

// Guard runs under the store lock against the current record before a mutation.
// A non-nil error aborts the mutation and is returned unchanged.
type Guard func(current model.MenuItem) error

// Store provides read/write access to the menu collection.
type Store interface {
	// List returns all items in insertion order.
	List(ctx context.Context) []model.MenuItem

	// Get returns the item with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (model.MenuItem, error)

	// NextID returns the id the next Insert would assign.
	NextID(ctx context.Context) string

	// Insert appends item under a freshly assigned id. Any id on item is ignored.
	Insert(ctx context.Context, item model.MenuItem) model.MenuItem

	// Replace merges patch into the item with the given id, keeping its id and owner.
	Replace(ctx context.Context, id string, patch model.Patch, guard Guard) (model.MenuItem, error)

	// Remove deletes and returns the item with the given id.
	Remove(ctx context.Context, id string, guard Guard) (model.MenuItem, error)

	// Count returns the number of items held.
	Count(ctx context.Context) int
}
