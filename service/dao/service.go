package dao

import (
	"context"
)

// Service is the persistence collaborator used by the scheduler for every entity kind.
type Service[K comparable, T any] interface {
	// Save inserts or overwrites an entity.
	Save(ctx context.Context, t *T) error

	// SaveAll inserts or overwrites all entities.
	SaveAll(ctx context.Context, items []*T) error

	// Load returns an entity by key or ErrNotFound.
	Load(ctx context.Context, id K) (*T, error)

	// Update overwrites an existing entity or returns ErrNotFound.
	Update(ctx context.Context, t *T) error

	// Delete removes an entity by key or returns ErrNotFound.
	Delete(ctx context.Context, id K) error

	// DeleteAll removes every entity.
	DeleteAll(ctx context.Context) error

	// DeleteIf removes entities matching predicate and returns the number removed.
	DeleteIf(ctx context.Context, predicate func(*T) bool) (int, error)

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
