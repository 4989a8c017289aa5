// internal/adapters/repository/products.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// ProductRepository keeps the whole product catalog as one collection in the
// backing store.
type ProductRepository struct {
	store ports.CollectionStore
}

// Statically assert that *ProductRepository implements the port.
var _ ports.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new product repository.
func NewProductRepository(store ports.CollectionStore) *ProductRepository {
	return &ProductRepository{store: store}
}

// List returns every product. A never-written collection reads as empty.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.store.Get(ctx, ports.KeyProducts, &products); err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return []domain.Product{}, nil
		}
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// FindByID returns the product with the given id, or (nil, nil) when it does
// not exist.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, nil
}

// Save inserts or replaces a single product and rewrites the collection.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	products, err := r.List(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = *product
			replaced = true
			break
		}
	}
	if !replaced {
		products = append(products, *product)
	}

	return r.SaveAll(ctx, products)
}

// SaveAll rewrites the whole product collection.
func (r *ProductRepository) SaveAll(ctx context.Context, products []domain.Product) error {
	if err := r.store.Set(ctx, ports.KeyProducts, products); err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}

// Delete removes the product with the given id. Unknown ids are a no-op.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	products, err := r.List(ctx)
	if err != nil {
		return err
	}

	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	return r.SaveAll(ctx, kept)
}
