// internal/core/domain/sale.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is one line of a cart or of a committed sale. Name and Price are
// snapshots taken when the line was first added, so later catalog edits do
// not rewrite history.
type SaleItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Recalculate resets the subtotal to qty x unit price. The subtotal is never
// settable on its own.
func (i *SaleItem) Recalculate() {
	i.Subtotal = i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// Sale is a committed, immutable sale record. Items are deep copies of the
// cart lines at commit time and ClientName is a snapshot of the client's name.
type Sale struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Items      []SaleItem      `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

// ItemCount returns the number of units across all lines.
func (s *Sale) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Qty
	}
	return n
}

// Cart is the sale in progress: an insertion-ordered list of lines plus the
// selected client. It is private, single-session state owned by the ledger.
type Cart struct {
	ClientID string     `json:"client_id,omitempty"`
	Items    []SaleItem `json:"items"`
}

// Line returns the cart line for a product, or nil if the product is not in
// the cart yet.
func (c *Cart) Line(productID string) *SaleItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Total sums the line subtotals. Pure; always consistent with the lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Remove drops the line at index. Out-of-range indexes are a no-op, which
// keeps the operation idempotent for a UI that races its own list state.
func (c *Cart) Remove(index int) {
	if index < 0 || index >= len(c.Items) {
		return
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
}

// Clear empties the cart and drops the client selection.
func (c *Cart) Clear() {
	c.ClientID = ""
	c.Items = nil
}

// Snapshot returns a deep copy of the cart lines, suitable for embedding in
// an immutable Sale.
func (c *Cart) Snapshot() []SaleItem {
	if len(c.Items) == 0 {
		return nil
	}
	items := make([]SaleItem, len(c.Items))
	copy(items, c.Items)
	return items
}
