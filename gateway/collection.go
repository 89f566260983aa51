// Package gateway gives the rest of the service record-level access to the
// items, item-types, orders and users collections.
package gateway

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

// Collection is CRUD access to one record collection keyed by opaque string
// identifiers. The store stamps creation and update timestamps.
type Collection[T any] interface {
	// ListAll returns every record, newest created first.
	ListAll(ctx context.Context) ([]T, error)
	// GetByID returns ErrNotFound when no record has the identifier.
	GetByID(ctx context.Context, id string) (*T, error)
	// Create stores rec and returns its new identifier.
	Create(ctx context.Context, rec *T) (string, error)
	// Update applies a partial update keyed by column name.
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// Record is satisfied by pointers to the models stored in a collection.
type Record[T any] interface {
	*T
	GetID() string
}
