// internal/core/ports/repositories.go
package ports

import (
	"context"

	"github.com/dmercado/puntoventa/internal/core/domain"
)

// ProductRepository is the catalog contract the ledger consumes. FindByID
// returns (nil, nil) when the id does not resolve. SaveAll rewrites the
// whole product collection; the ledger uses it to publish stock deductions.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Save(ctx context.Context, product *domain.Product) error
	SaveAll(ctx context.Context, products []domain.Product) error
	Delete(ctx context.Context, id string) error
}

// ClientRepository is read-only from the ledger's point of view; the CRUD
// surface exists for the client management service.
type ClientRepository interface {
	List(ctx context.Context) ([]domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	Save(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) error
}

// SaleRepository is the append-only sale history. Sales are never updated or
// deleted once appended.
type SaleRepository interface {
	All(ctx context.Context) ([]domain.Sale, error)
	Append(ctx context.Context, sale domain.Sale) error
}

// UserRepository stores accounts and the persisted session.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	SaveSession(ctx context.Context, user *domain.User) error
	Session(ctx context.Context) (*domain.User, error)
	ClearSession(ctx context.Context) error
}
