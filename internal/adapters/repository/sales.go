// internal/adapters/repository/sales.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// SaleRepository keeps the append-only sale history as one collection in the
// backing store.
type SaleRepository struct {
	store ports.CollectionStore
}

// Statically assert that *SaleRepository implements the port.
var _ ports.SaleRepository = (*SaleRepository)(nil)

// NewSaleRepository creates a new sale repository.
func NewSaleRepository(store ports.CollectionStore) *SaleRepository {
	return &SaleRepository{store: store}
}

// All returns the full sale history, oldest first. A never-written collection
// reads as empty.
func (r *SaleRepository) All(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	if err := r.store.Get(ctx, ports.KeySales, &sales); err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return []domain.Sale{}, nil
		}
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return sales, nil
}

// Append adds a sale to the end of the history and rewrites the collection.
func (r *SaleRepository) Append(ctx context.Context, sale domain.Sale) error {
	sales, err := r.All(ctx)
	if err != nil {
		return err
	}

	sales = append(sales, sale)

	if err := r.store.Set(ctx, ports.KeySales, sales); err != nil {
		return fmt.Errorf("failed to save sales: %w", err)
	}
	return nil
}
