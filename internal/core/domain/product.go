// internal/core/domain/product.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one catalog entry with its live stock count. Stock is mutated
// only by a committed sale; everything else is edited through the catalog.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Stock       int             `json:"stock"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Image       string          `json:"image,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate performs domain validation on the product.
func (p *Product) Validate() error {
	if p.Name == "" {
		return &ValidationError{Reason: "product name is required"}
	}
	if p.Stock < 0 {
		return &ValidationError{Reason: "stock cannot be negative"}
	}
	if p.CostPrice.IsNegative() {
		return &ValidationError{Reason: "cost_price cannot be negative"}
	}
	if p.SalePrice.IsNegative() {
		return &ValidationError{Reason: "sale_price cannot be negative"}
	}
	return nil
}

// PrepareForStorage stamps timestamps before the product is persisted.
func (p *Product) PrepareForStorage() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
