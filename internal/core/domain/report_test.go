// internal/core/domain/report_test.go
package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmercado/puntoventa/internal/core/domain"
)

func sale(clientID, clientName string, items ...domain.SaleItem) domain.Sale {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return domain.Sale{
		ID:         "sale-" + clientID,
		Date:       time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
		ClientID:   clientID,
		ClientName: clientName,
		Items:      items,
		Total:      total,
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty_history", func(t *testing.T) {
		summary := domain.Summarize(nil)

		assert.Equal(t, 0, summary.TotalSales)
		assert.True(t, summary.TotalRevenue.IsZero())
		assert.Equal(t, 0, summary.TotalItems)
		assert.Nil(t, summary.TopClient)
		assert.Nil(t, summary.TopProduct)
	})

	t.Run("single_sale", func(t *testing.T) {
		history := []domain.Sale{
			sale("c1", "Maria", line("p1", 2, "9.99"), line("p2", 1, "1.95")),
		}

		summary := domain.Summarize(history)

		assert.Equal(t, 1, summary.TotalSales)
		assert.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("21.93")))
		assert.Equal(t, 3, summary.TotalItems)
		require.NotNil(t, summary.TopClient)
		assert.Equal(t, "Maria", summary.TopClient.Name)
		require.NotNil(t, summary.TopProduct)
		assert.Equal(t, "product p1", summary.TopProduct.Name)
		assert.Equal(t, 2, summary.TopProduct.Qty)
	})

	t.Run("accumulates_across_sales", func(t *testing.T) {
		history := []domain.Sale{
			sale("c1", "Maria", line("p1", 1, "10.00")),
			sale("c2", "Juan", line("p1", 2, "10.00")),
			sale("c1", "Maria", line("p2", 5, "2.00")),
		}

		summary := domain.Summarize(history)

		assert.Equal(t, 3, summary.TotalSales)
		assert.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("40.00")),
			"got %s", summary.TotalRevenue)
		assert.Equal(t, 8, summary.TotalItems)

		// Maria and Juan both total 20.00; first encountered wins the tie.
		require.NotNil(t, summary.TopClient)
		assert.Equal(t, "Maria", summary.TopClient.Name)
		assert.True(t, summary.TopClient.Amount.Equal(decimal.RequireFromString("20.00")))

		require.NotNil(t, summary.TopProduct)
		assert.Equal(t, "product p2", summary.TopProduct.Name)
		assert.Equal(t, 5, summary.TopProduct.Qty)
	})

	t.Run("client_tie_breaks_to_first_encountered", func(t *testing.T) {
		history := []domain.Sale{
			sale("c1", "Maria", line("p1", 1, "15.00")),
			sale("c2", "Juan", line("p1", 1, "15.00")),
		}

		summary := domain.Summarize(history)

		require.NotNil(t, summary.TopClient)
		assert.Equal(t, "Maria", summary.TopClient.Name)
	})

	t.Run("product_tie_breaks_to_first_encountered", func(t *testing.T) {
		history := []domain.Sale{
			sale("c1", "Maria", line("p1", 3, "1.00")),
			sale("c2", "Juan", line("p2", 3, "1.00")),
		}

		summary := domain.Summarize(history)

		require.NotNil(t, summary.TopProduct)
		assert.Equal(t, "product p1", summary.TopProduct.Name)
	})

	t.Run("strictly_greater_displaces_leader", func(t *testing.T) {
		history := []domain.Sale{
			sale("c1", "Maria", line("p1", 3, "1.00")),
			sale("c2", "Juan", line("p2", 4, "1.00")),
		}

		summary := domain.Summarize(history)

		require.NotNil(t, summary.TopProduct)
		assert.Equal(t, "product p2", summary.TopProduct.Name)
		require.NotNil(t, summary.TopClient)
		assert.Equal(t, "Juan", summary.TopClient.Name)
	})

	t.Run("client_name_shows_latest_snapshot", func(t *testing.T) {
		history := []domain.Sale{
			sale("c1", "Maria", line("p1", 1, "10.00")),
			sale("c1", "Maria Lopez", line("p1", 1, "10.00")),
		}

		summary := domain.Summarize(history)

		require.NotNil(t, summary.TopClient)
		assert.Equal(t, "Maria Lopez", summary.TopClient.Name)
	})

	t.Run("recomputing_same_history_is_stable", func(t *testing.T) {
		history := []domain.Sale{
			sale("c1", "Maria", line("p1", 2, "9.99")),
			sale("c2", "Juan", line("p2", 1, "1.95")),
			sale("c1", "Maria", line("p1", 1, "9.99")),
		}

		first := domain.Summarize(history)
		second := domain.Summarize(history)

		assert.Equal(t, first.TotalSales, second.TotalSales)
		assert.True(t, first.TotalRevenue.Equal(second.TotalRevenue))
		assert.Equal(t, first.TotalItems, second.TotalItems)
		assert.Equal(t, first.TopClient.Name, second.TopClient.Name)
		assert.Equal(t, first.TopProduct.Name, second.TopProduct.Name)
	})
}

func BenchmarkSummarize(b *testing.B) {
	history := make([]domain.Sale, 0, 1000)
	for i := 0; i < 1000; i++ {
		client := fmt.Sprintf("c%d", i%37)
		product := fmt.Sprintf("p%d", i%53)
		history = append(history, sale(client, "client "+client, line(product, 1+i%5, "9.99")))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = domain.Summarize(history)
	}
}
