// internal/core/ports/ledger.go
package ports

import (
	"context"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerService is the application port for the sale in progress and its
// commit. One ledger owns one cart.
type LedgerService interface {
	AddItem(ctx context.Context, productID string, qty int) error
	RemoveItem(index int)
	SetClient(clientID string)
	Items() []domain.SaleItem
	Total() decimal.Decimal
	Clear()
	Commit(ctx context.Context) (*domain.Sale, error)
	Refresh(ctx context.Context) error
	Report() domain.ReportSummary
}
