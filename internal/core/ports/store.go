// internal/core/ports/store.go
package ports

import (
	"context"
	"errors"
)

// Fixed logical keys for the persisted collections.
const (
	KeyProducts = "products"
	KeyClients  = "clients"
	KeySales    = "sales"
	KeyUsers    = "users"
	KeySession  = "session_user"
)

// ErrKeyNotFound is returned (wrapped in a domain.StorageError) when a
// collection key has never been written. Callers treat it as the empty
// collection.
var ErrKeyNotFound = errors.New("collection key not found")

// CollectionStore is the persistence port: whole JSON-serializable
// collections read and written under fixed keys. Every mutation rewrites the
// full affected collection; there are no partial writes.
type CollectionStore interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
