// cmd/pos/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/dmercado/puntoventa/internal/adapters/db"
	"github.com/dmercado/puntoventa/internal/adapters/identity"
	"github.com/dmercado/puntoventa/internal/adapters/kvstore"
	"github.com/dmercado/puntoventa/internal/adapters/repository"
	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
	"github.com/dmercado/puntoventa/internal/core/services"
	"github.com/dmercado/puntoventa/internal/pkg/config"
	"github.com/dmercado/puntoventa/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version = "dev"
)

const usage = `usage: pos <command> [flags]

commands:
  seed                       load a small demo catalog and client list
  products                   list the product catalog
  clients                    list the client book
  sell -client ID -items L   commit a sale; L is "productID:qty,productID:qty,..."
  report                     print the aggregate sales report
  export -out FILE           write the sale history to an xlsx workbook
  register -user U -pass P -store S   create an account and log it in
  login -user U -pass P      log in an existing account
  whoami                     print the logged-in account
  logout                     clear the persisted session
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	slogger := logger.SetupLogger(
		envOr("LOG_LEVEL", "info"),
		envOr("LOG_FORMAT", "text"),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx := context.Background()

	app, err := initializeApp(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.cleanup()

	if err := run(ctx, app, os.Args[1], os.Args[2:]); err != nil {
		slogger.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// app bundles the wired services plus the store handle for cleanup.
type app struct {
	store   ports.CollectionStore
	ledger  *services.Ledger
	catalog *services.Catalog
	clients *services.Clients
	auth    *services.Auth
	export  *services.Exporter
	logger  *slog.Logger
}

func (a *app) cleanup() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", slog.String("error", err.Error()))
	}
}

func initializeApp(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*app, error) {
	store, err := buildStore(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}

	products := repository.NewProductRepository(store)
	clients := repository.NewClientRepository(store)
	sales := repository.NewSaleRepository(store)
	users := repository.NewUserRepository(store)
	ids := identity.NewUUIDGenerator()

	ledger := services.NewLedger(products, clients, sales, ids, slogger)
	if err := ledger.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to derive report: %w", err)
	}

	return &app{
		store:   store,
		ledger:  ledger,
		catalog: services.NewCatalog(products, ids, slogger),
		clients: services.NewClients(clients, ids, slogger),
		auth:    services.NewAuth(users, ids, cfg.Security.BcryptCost, slogger),
		export:  services.NewExporter(sales, slogger),
		logger:  slogger,
	}, nil
}

func buildStore(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (ports.CollectionStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return kvstore.NewFileStore(cfg.Storage.DataDir, slogger)

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.GetRedisAddress(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return kvstore.NewRedisStore(client, slogger), nil

	case config.DriverPostgres:
		database, err := db.NewDatabase(ctx, &db.Config{
			Host:           cfg.Database.Host,
			Port:           cfg.Database.Port,
			User:           cfg.Database.User,
			Password:       cfg.Database.Password,
			Database:       cfg.Database.Name,
			SSLMode:        cfg.Database.SSLMode,
			MaxConnections: cfg.Database.MaxConnections,
			MinConnections: cfg.Database.MinConnections,
			ConnectTimeout: cfg.Database.ConnectTimeout,
		}, slogger)
		if err != nil {
			return nil, err
		}
		return db.NewCollectionStore(ctx, database, slogger)

	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

func run(ctx context.Context, a *app, command string, args []string) error {
	switch command {
	case "seed":
		return runSeed(ctx, a)
	case "products":
		return runProducts(ctx, a)
	case "clients":
		return runClients(ctx, a)
	case "sell":
		return runSell(ctx, a, args)
	case "report":
		return runReport(a)
	case "export":
		return runExport(ctx, a, args)
	case "register":
		return runRegister(ctx, a, args)
	case "login":
		return runLogin(ctx, a, args)
	case "whoami":
		return runWhoami(ctx, a)
	case "logout":
		return a.auth.Logout(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runSeed(ctx context.Context, a *app) error {
	for _, p := range demoProducts() {
		product := p
		if err := a.catalog.Save(ctx, &product); err != nil {
			return err
		}
	}
	for _, c := range demoClients() {
		client := c
		if err := a.clients.Save(ctx, &client); err != nil {
			return err
		}
	}
	fmt.Println("seeded demo catalog and clients")
	return nil
}

func runProducts(ctx context.Context, a *app) error {
	products, err := a.catalog.List(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("no products; run `pos seed` first")
		return nil
	}
	for _, p := range products {
		fmt.Printf("%s  %-24s stock=%-4d price=%s\n",
			p.ID, p.Name, p.Stock, p.SalePrice.StringFixed(2))
	}
	return nil
}

func runClients(ctx context.Context, a *app) error {
	clients, err := a.clients.List(ctx)
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		fmt.Println("no clients; run `pos seed` first")
		return nil
	}
	for _, c := range clients {
		fmt.Printf("%s  %-24s %s\n", c.ID, c.Name, c.Phone)
	}
	return nil
}

func runSell(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("sell", flag.ExitOnError)
	clientID := fs.String("client", "", "client id")
	items := fs.String("items", "", `cart lines as "productID:qty,productID:qty,..."`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.ledger.SetClient(*clientID)

	for _, part := range strings.Split(*items, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pid, qtyStr, found := strings.Cut(part, ":")
		if !found {
			return fmt.Errorf("malformed item %q, want productID:qty", part)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return fmt.Errorf("malformed quantity in %q: %w", part, err)
		}
		if err := a.ledger.AddItem(ctx, pid, qty); err != nil {
			return err
		}
	}

	sale, err := a.ledger.Commit(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("sale %s committed: %d lines, total %s\n",
		sale.ID, len(sale.Items), sale.Total.StringFixed(2))
	return nil
}

func runReport(a *app) error {
	report := a.ledger.Report()

	fmt.Printf("total sales:   %d\n", report.TotalSales)
	fmt.Printf("total revenue: %s\n", report.TotalRevenue.StringFixed(2))
	fmt.Printf("total items:   %d\n", report.TotalItems)
	if report.TopClient != nil {
		fmt.Printf("top client:    %s (%s)\n",
			report.TopClient.Name, report.TopClient.Amount.StringFixed(2))
	}
	if report.TopProduct != nil {
		fmt.Printf("top product:   %s (%d units)\n",
			report.TopProduct.Name, report.TopProduct.Qty)
	}
	return nil
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "sales.xlsx", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	defer f.Close()

	if err := a.export.Write(ctx, f); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", *out)
	return nil
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	user := fs.String("user", "", "username")
	pass := fs.String("pass", "", "password")
	store := fs.String("store", "", "store name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	account, err := a.auth.Register(ctx, services.RegisterParams{
		Username:  *user,
		Password:  *pass,
		StoreName: *store,
	})
	if err != nil {
		return err
	}

	fmt.Printf("registered %s (%s)\n", account.Username, account.StoreName)
	return nil
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("user", "", "username")
	pass := fs.String("pass", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	account, err := a.auth.Login(ctx, *user, *pass)
	if err != nil {
		return err
	}

	fmt.Printf("logged in as %s\n", account.Username)
	return nil
}

func runWhoami(ctx context.Context, a *app) error {
	account, err := a.auth.Current(ctx)
	if err != nil {
		return err
	}
	if account == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s (%s)\n", account.Username, account.StoreName)
	return nil
}

func demoProducts() []domain.Product {
	return []domain.Product{
		newDemoProduct("Coffee 500g", 40, "6.50", "9.99"),
		newDemoProduct("Sugar 1kg", 60, "1.10", "1.95"),
		newDemoProduct("Olive Oil 1L", 25, "4.80", "7.50"),
		newDemoProduct("Rice 1kg", 80, "0.90", "1.60"),
	}
}

func newDemoProduct(name string, stock int, cost, price string) domain.Product {
	return domain.Product{
		Name:      name,
		Stock:     stock,
		CostPrice: mustDecimal(cost),
		SalePrice: mustDecimal(price),
	}
}

func demoClients() []domain.Client {
	return []domain.Client{
		{Name: "Maria Lopez", Phone: "555-0101", Email: "maria@example.com"},
		{Name: "Juan Torres", Phone: "555-0102"},
		{Name: "Ana Castillo", Phone: "555-0103", Email: "ana@example.com"},
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
