// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// Catalog handles product CRUD. The ledger never creates or deletes
// products; that all happens here.
type Catalog struct {
	products ports.ProductRepository
	ids      ports.IDGenerator
	logger   *slog.Logger
}

// NewCatalog creates a new catalog service.
func NewCatalog(products ports.ProductRepository, ids ports.IDGenerator, logger *slog.Logger) *Catalog {
	return &Catalog{
		products: products,
		ids:      ids,
		logger:   logger.With(slog.String("service", "catalog")),
	}
}

// Save creates the product when its ID is empty, otherwise updates the
// existing record.
func (c *Catalog) Save(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	if product.ID == "" {
		product.ID = c.ids.NewID()
	} else {
		existing, err := c.products.FindByID(ctx, product.ID)
		if err != nil {
			return fmt.Errorf("failed to look up product: %w", err)
		}
		if existing == nil {
			return &domain.NotFoundError{Entity: "product", ID: product.ID}
		}
		product.CreatedAt = existing.CreatedAt
	}

	product.PrepareForStorage()

	if err := c.products.Save(ctx, product); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	c.logger.InfoContext(ctx, "saved product",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name))

	return nil
}

// Get retrieves one product by id.
func (c *Catalog) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := c.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "product", ID: id}
	}
	return product, nil
}

// List returns the full catalog.
func (c *Catalog) List(ctx context.Context) ([]domain.Product, error) {
	products, err := c.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Delete removes a product from the catalog. Historical sales keep their
// name and price snapshots.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	existing, err := c.products.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up product: %w", err)
	}
	if existing == nil {
		return &domain.NotFoundError{Entity: "product", ID: id}
	}

	if err := c.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	c.logger.InfoContext(ctx, "deleted product", slog.String("product_id", id))
	return nil
}
