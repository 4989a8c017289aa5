// internal/core/services/ledger.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// Ledger owns the sale in progress and the rules for turning it into a
// committed sale. All operations run to completion synchronously; the cart is
// single-session state with no locking discipline.
type Ledger struct {
	products ports.ProductRepository
	clients  ports.ClientRepository
	sales    ports.SaleRepository
	ids      ports.IDGenerator
	now      func() time.Time
	logger   *slog.Logger

	cart   domain.Cart
	report domain.ReportSummary
}

// Statically assert that *Ledger implements the LedgerService interface.
var _ ports.LedgerService = (*Ledger)(nil)

// NewLedger creates a ledger over the given stores. Call Refresh once at
// startup to derive the report from the persisted history.
func NewLedger(
	products ports.ProductRepository,
	clients ports.ClientRepository,
	sales ports.SaleRepository,
	ids ports.IDGenerator,
	logger *slog.Logger,
) *Ledger {
	return &Ledger{
		products: products,
		clients:  clients,
		sales:    sales,
		ids:      ids,
		now:      time.Now,
		logger:   logger.With(slog.String("service", "ledger")),
	}
}

// AddItem validates and adds qty units of a product to the cart. If the
// product already has a line, its quantity is incremented and the subtotal
// recomputed; the unit price stays the one captured when the line was first
// added. The cumulative quantity for the product must not exceed its current
// stock.
func (l *Ledger) AddItem(ctx context.Context, productID string, qty int) error {
	if productID == "" || qty <= 0 {
		return &domain.ValidationError{Reason: "select a product and a positive quantity"}
	}

	product, err := l.products.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return &domain.NotFoundError{Entity: "product", ID: productID}
	}

	cumulative := qty
	if line := l.cart.Line(productID); line != nil {
		cumulative += line.Qty
	}
	if cumulative > product.Stock {
		return &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   cumulative,
			Available:   product.Stock,
		}
	}

	if line := l.cart.Line(productID); line != nil {
		line.Qty += qty
		line.Recalculate()
	} else {
		item := domain.SaleItem{
			ProductID: product.ID,
			Name:      product.Name,
			Qty:       qty,
			Price:     product.SalePrice,
		}
		item.Recalculate()
		l.cart.Items = append(l.cart.Items, item)
	}

	l.logger.DebugContext(ctx, "added cart line",
		slog.String("product_id", productID),
		slog.Int("qty", qty))

	return nil
}

// RemoveItem drops the cart line at index. Out-of-range indexes are a no-op.
func (l *Ledger) RemoveItem(index int) {
	l.cart.Remove(index)
}

// SetClient selects the client for the sale in progress. The id is resolved
// at commit time, not here.
func (l *Ledger) SetClient(clientID string) {
	l.cart.ClientID = clientID
}

// Items returns a copy of the current cart lines.
func (l *Ledger) Items() []domain.SaleItem {
	return l.cart.Snapshot()
}

// Total returns the running total of the cart.
func (l *Ledger) Total() decimal.Decimal {
	return l.cart.Total()
}

// Clear empties the cart and the client selection.
func (l *Ledger) Clear() {
	l.cart.Clear()
}

// Commit finalizes the sale in progress. Every cart line is re-validated
// against the product's current stock before any mutation begins, so a failed
// commit leaves the cart, the catalog and the history untouched. On success
// the stock deductions and the new sale record are persisted, the cart is
// cleared and the report recomputed.
func (l *Ledger) Commit(ctx context.Context) (*domain.Sale, error) {
	if l.cart.ClientID == "" {
		return nil, &domain.ValidationError{Reason: "no client selected"}
	}
	if l.cart.IsEmpty() {
		return nil, &domain.ValidationError{Reason: "cart is empty"}
	}

	client, err := l.clients.FindByID(ctx, l.cart.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}
	if client == nil {
		return nil, &domain.NotFoundError{Entity: "client", ID: l.cart.ClientID}
	}

	products, err := l.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product catalog: %w", err)
	}
	byID := make(map[string]int, len(products))
	for i := range products {
		byID[products[i].ID] = i
	}

	// Stock may have moved since the lines were added. Validate every line
	// before touching anything; stock must never go negative.
	for _, line := range l.cart.Items {
		idx, ok := byID[line.ProductID]
		if !ok {
			return nil, &domain.NotFoundError{Entity: "product", ID: line.ProductID}
		}
		if line.Qty > products[idx].Stock {
			return nil, &domain.InsufficientStockError{
				ProductID:   products[idx].ID,
				ProductName: products[idx].Name,
				Requested:   line.Qty,
				Available:   products[idx].Stock,
			}
		}
	}

	// Build the new catalog and the sale record fully before publishing
	// either.
	updated := make([]domain.Product, len(products))
	copy(updated, products)
	for _, line := range l.cart.Items {
		idx := byID[line.ProductID]
		updated[idx].Stock -= line.Qty
		updated[idx].UpdatedAt = l.now()
	}

	sale := domain.Sale{
		ID:         l.ids.NewID(),
		Date:       l.now(),
		ClientID:   client.ID,
		ClientName: client.Name,
		Items:      l.cart.Snapshot(),
		Total:      l.cart.Total(),
	}

	if err := l.products.SaveAll(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to persist stock deduction: %w", err)
	}
	if err := l.sales.Append(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to append sale: %w", err)
	}

	l.cart.Clear()

	if err := l.Refresh(ctx); err != nil {
		// The sale is committed; a stale report is recoverable.
		l.logger.WarnContext(ctx, "failed to recompute report after commit",
			slog.String("error", err.Error()))
	}

	l.logger.InfoContext(ctx, "committed sale",
		slog.String("sale_id", sale.ID),
		slog.String("client_id", sale.ClientID),
		slog.Int("lines", len(sale.Items)),
		slog.String("total", sale.Total.String()))

	return &sale, nil
}

// Refresh recomputes the aggregate report from the full persisted history.
// Full recomputation keeps the report consistent with the history even after
// a bulk import or an external correction.
func (l *Ledger) Refresh(ctx context.Context) error {
	history, err := l.sales.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sale history: %w", err)
	}
	l.report = domain.Summarize(history)
	return nil
}

// Report returns the report derived by the last Refresh or Commit.
func (l *Ledger) Report() domain.ReportSummary {
	return l.report
}
