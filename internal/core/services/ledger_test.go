// internal/core/services/ledger_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmercado/puntoventa/internal/adapters/repository"
	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
	"github.com/dmercado/puntoventa/internal/core/services"
	"github.com/dmercado/puntoventa/test/helpers"
)

type ledgerFixture struct {
	store    *helpers.MemoryStore
	products *repository.ProductRepository
	clients  *repository.ClientRepository
	sales    *repository.SaleRepository
	ledger   *services.Ledger
}

func newLedgerFixture(t *testing.T, products []domain.Product, clients []domain.Client) *ledgerFixture {
	t.Helper()
	ctx := context.Background()

	store := helpers.NewMemoryStore()
	productRepo := repository.NewProductRepository(store)
	clientRepo := repository.NewClientRepository(store)
	saleRepo := repository.NewSaleRepository(store)

	require.NoError(t, productRepo.SaveAll(ctx, products))
	for i := range clients {
		require.NoError(t, clientRepo.Save(ctx, &clients[i]))
	}

	ledger := services.NewLedger(productRepo, clientRepo, saleRepo, &helpers.SequentialIDs{}, helpers.TestLogger())
	require.NoError(t, ledger.Refresh(ctx))

	return &ledgerFixture{
		store:    store,
		products: productRepo,
		clients:  clientRepo,
		sales:    saleRepo,
		ledger:   ledger,
	}
}

func TestLedger_AddItem(t *testing.T) {
	coffee := helpers.CreateTestProduct(func(p *domain.Product) {
		p.ID = "p-coffee"
		p.Name = "Coffee 500g"
		p.Stock = 5
		p.SalePrice = decimal.RequireFromString("9.99")
	})

	t.Run("adds_line_with_price_snapshot", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, nil)

		require.NoError(t, f.ledger.AddItem(context.Background(), "p-coffee", 2))

		items := f.ledger.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "Coffee 500g", items[0].Name)
		assert.Equal(t, 2, items[0].Qty)
		assert.True(t, items[0].Subtotal.Equal(decimal.RequireFromString("19.98")))
		assert.True(t, f.ledger.Total().Equal(decimal.RequireFromString("19.98")))
	})

	t.Run("repeat_add_merges_into_one_line", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, nil)
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 2))
		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 3))

		items := f.ledger.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Qty)
		assert.True(t, items[0].Subtotal.Equal(decimal.RequireFromString("49.95")))
	})

	t.Run("cumulative_quantity_cannot_exceed_stock", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, nil)
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 3))

		err := f.ledger.AddItem(ctx, "p-coffee", 3)

		var stockErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 6, stockErr.Requested)
		assert.Equal(t, 5, stockErr.Available)

		// The failed add leaves the cart as it was.
		items := f.ledger.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Qty)
	})

	t.Run("adding_does_not_touch_stock", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, nil)
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 5))

		stored, err := f.products.FindByID(ctx, "p-coffee")
		require.NoError(t, err)
		assert.Equal(t, 5, stored.Stock)
	})

	t.Run("unknown_product", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, nil)

		err := f.ledger.AddItem(context.Background(), "p-missing", 1)

		var nfErr *domain.NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, "product", nfErr.Entity)
	})

	t.Run("rejects_bad_arguments", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, nil)
		ctx := context.Background()

		var vErr *domain.ValidationError
		assert.ErrorAs(t, f.ledger.AddItem(ctx, "", 1), &vErr)
		assert.ErrorAs(t, f.ledger.AddItem(ctx, "p-coffee", 0), &vErr)
		assert.ErrorAs(t, f.ledger.AddItem(ctx, "p-coffee", -2), &vErr)
	})

	t.Run("price_locked_at_first_add", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, nil)
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 1))

		repriced := coffee
		repriced.SalePrice = decimal.RequireFromString("12.50")
		require.NoError(t, f.products.Save(ctx, &repriced))

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 1))

		items := f.ledger.Items()
		require.Len(t, items, 1)
		assert.True(t, items[0].Price.Equal(decimal.RequireFromString("9.99")))
		assert.True(t, items[0].Subtotal.Equal(decimal.RequireFromString("19.98")))
	})
}

func TestLedger_RemoveItem(t *testing.T) {
	coffee := helpers.CreateTestProduct(func(p *domain.Product) {
		p.ID = "p-coffee"
		p.Stock = 10
	})
	f := newLedgerFixture(t, []domain.Product{coffee}, nil)
	ctx := context.Background()

	require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 2))

	// Out-of-range indexes are silent no-ops.
	f.ledger.RemoveItem(5)
	f.ledger.RemoveItem(-1)
	require.Len(t, f.ledger.Items(), 1)

	f.ledger.RemoveItem(0)
	assert.Empty(t, f.ledger.Items())
	assert.True(t, f.ledger.Total().IsZero())
}

func TestLedger_Commit(t *testing.T) {
	coffee := helpers.CreateTestProduct(func(p *domain.Product) {
		p.ID = "p-coffee"
		p.Name = "Coffee 500g"
		p.Stock = 5
		p.SalePrice = decimal.RequireFromString("9.99")
	})
	sugar := helpers.CreateTestProduct(func(p *domain.Product) {
		p.ID = "p-sugar"
		p.Name = "Sugar 1kg"
		p.Stock = 8
		p.SalePrice = decimal.RequireFromString("1.95")
	})
	maria := helpers.CreateTestClient(func(c *domain.Client) {
		c.ID = "c-maria"
		c.Name = "Maria Lopez"
	})

	t.Run("commits_and_publishes_everything", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee, sugar}, []domain.Client{maria})
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 2))
		require.NoError(t, f.ledger.AddItem(ctx, "p-sugar", 3))
		f.ledger.SetClient("c-maria")

		sale, err := f.ledger.Commit(ctx)
		require.NoError(t, err)
		require.NotNil(t, sale)

		assert.NotEmpty(t, sale.ID)
		assert.Equal(t, "c-maria", sale.ClientID)
		assert.Equal(t, "Maria Lopez", sale.ClientName)
		assert.Len(t, sale.Items, 2)
		assert.True(t, sale.Total.Equal(decimal.RequireFromString("25.83")),
			"got %s", sale.Total)

		// Stock deductions are persisted.
		storedCoffee, err := f.products.FindByID(ctx, "p-coffee")
		require.NoError(t, err)
		assert.Equal(t, 3, storedCoffee.Stock)
		storedSugar, err := f.products.FindByID(ctx, "p-sugar")
		require.NoError(t, err)
		assert.Equal(t, 5, storedSugar.Stock)

		// The sale is in the history and the cart is gone.
		history, err := f.sales.All(ctx)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, sale.ID, history[0].ID)
		assert.Empty(t, f.ledger.Items())

		// The report reflects the new sale.
		report := f.ledger.Report()
		assert.Equal(t, 1, report.TotalSales)
		assert.Equal(t, 5, report.TotalItems)
		require.NotNil(t, report.TopClient)
		assert.Equal(t, "Maria Lopez", report.TopClient.Name)
		require.NotNil(t, report.TopProduct)
		assert.Equal(t, "Sugar 1kg", report.TopProduct.Name)
	})

	t.Run("selling_out_leaves_zero_stock", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, []domain.Client{maria})
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 5))
		f.ledger.SetClient("c-maria")

		_, err := f.ledger.Commit(ctx)
		require.NoError(t, err)

		stored, err := f.products.FindByID(ctx, "p-coffee")
		require.NoError(t, err)
		assert.Equal(t, 0, stored.Stock)
	})

	t.Run("no_client_selected", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, []domain.Client{maria})
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 1))

		_, err := f.ledger.Commit(ctx)

		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)

		// The cart survives the failed commit.
		assert.Len(t, f.ledger.Items(), 1)
	})

	t.Run("empty_cart", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, []domain.Client{maria})

		f.ledger.SetClient("c-maria")
		_, err := f.ledger.Commit(context.Background())

		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("unknown_client", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, []domain.Client{maria})
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 1))
		f.ledger.SetClient("c-ghost")

		_, err := f.ledger.Commit(ctx)

		var nfErr *domain.NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, "client", nfErr.Entity)
	})

	t.Run("stock_shrank_after_add", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, []domain.Client{maria})
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 4))
		f.ledger.SetClient("c-maria")

		// Another terminal sold most of the stock in the meantime.
		drained := coffee
		drained.Stock = 2
		require.NoError(t, f.products.Save(ctx, &drained))

		_, err := f.ledger.Commit(ctx)

		var stockErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 4, stockErr.Requested)
		assert.Equal(t, 2, stockErr.Available)

		// Nothing moved: no sale, unchanged stock, cart intact.
		history, err := f.sales.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, history)
		stored, err := f.products.FindByID(ctx, "p-coffee")
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Stock)
		assert.Len(t, f.ledger.Items(), 1)
	})

	t.Run("product_deleted_after_add", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee, sugar}, []domain.Client{maria})
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 1))
		f.ledger.SetClient("c-maria")

		require.NoError(t, f.products.Delete(ctx, "p-coffee"))

		_, err := f.ledger.Commit(ctx)

		var nfErr *domain.NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, "product", nfErr.Entity)
	})

	t.Run("storage_failure_aborts_commit", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, []domain.Client{maria})
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 2))
		f.ledger.SetClient("c-maria")

		f.store.SetErr[ports.KeyProducts] = errors.New("disk full")

		_, err := f.ledger.Commit(ctx)
		require.Error(t, err)

		var storageErr *domain.StorageError
		assert.ErrorAs(t, err, &storageErr)

		// No sale was appended and the cart is still there for a retry.
		delete(f.store.SetErr, ports.KeyProducts)
		history, err := f.sales.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, history)
		assert.Len(t, f.ledger.Items(), 1)
	})

	t.Run("consecutive_sales_accumulate", func(t *testing.T) {
		f := newLedgerFixture(t, []domain.Product{coffee}, []domain.Client{maria})
		ctx := context.Background()

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 2))
		f.ledger.SetClient("c-maria")
		_, err := f.ledger.Commit(ctx)
		require.NoError(t, err)

		require.NoError(t, f.ledger.AddItem(ctx, "p-coffee", 3))
		f.ledger.SetClient("c-maria")
		_, err = f.ledger.Commit(ctx)
		require.NoError(t, err)

		stored, err := f.products.FindByID(ctx, "p-coffee")
		require.NoError(t, err)
		assert.Equal(t, 0, stored.Stock)

		report := f.ledger.Report()
		assert.Equal(t, 2, report.TotalSales)
		assert.Equal(t, 5, report.TotalItems)
	})
}

func TestLedger_Refresh(t *testing.T) {
	f := newLedgerFixture(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, f.sales.Append(ctx, helpers.CreateTestSale(func(s *domain.Sale) {
		s.ClientName = "Maria Lopez"
	})))
	require.NoError(t, f.sales.Append(ctx, helpers.CreateTestSale(func(s *domain.Sale) {
		s.ClientName = "Juan Torres"
	})))

	require.NoError(t, f.ledger.Refresh(ctx))

	report := f.ledger.Report()
	assert.Equal(t, 2, report.TotalSales)
	assert.Equal(t, 4, report.TotalItems)
}
