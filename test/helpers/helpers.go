// test/helpers/helpers.go
package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dmercado/puntoventa/internal/adapters/db"
	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// TestDB represents a test database instance
type TestDB struct {
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_pos",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:           "localhost",
		Port:           resource.GetPort("5432/tcp"),
		User:           "test",
		Password:       "test",
		Database:       "test_pos",
		SSLMode:        "disable",
		MaxConnections: 5,
		MinConnections: 1,
		ConnectTimeout: time.Second * 10,
	}

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	t.Cleanup(database.Close)

	return &TestDB{
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates an in-process Redis for unit tests
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// MemoryStore is an in-memory CollectionStore for unit tests. Errors can be
// injected per key via GetErr and SetErr.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	GetErr map[string]error
	SetErr map[string]error
}

var _ ports.CollectionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[string][]byte),
		GetErr: make(map[string]error),
		SetErr: make(map[string]error),
	}
}

// Get reads and unmarshals the collection stored under key.
func (s *MemoryStore) Get(_ context.Context, key string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.GetErr[key]; err != nil {
		return &domain.StorageError{Op: "get", Key: key, Err: err}
	}

	data, ok := s.data[key]
	if !ok {
		return &domain.StorageError{Op: "get", Key: key, Err: ports.ErrKeyNotFound}
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &domain.StorageError{Op: "get", Key: key, Err: fmt.Errorf("unmarshal: %w", err)}
	}
	return nil
}

// Set marshals value and rewrites the collection stored under key.
func (s *MemoryStore) Set(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.SetErr[key]; err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: fmt.Errorf("marshal: %w", err)}
	}
	s.data[key] = data
	return nil
}

// Delete removes the collection stored under key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// SequentialIDs is a deterministic IDGenerator for tests.
type SequentialIDs struct {
	mu   sync.Mutex
	next int
}

var _ ports.IDGenerator = (*SequentialIDs)(nil)

// NewID returns "id-1", "id-2", ... in order.
func (g *SequentialIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}

// CreateTestProduct creates a test product
func CreateTestProduct(overrides ...func(*domain.Product)) domain.Product {
	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      "Test Coffee 500g",
		Stock:     10,
		CostPrice: decimal.NewFromFloat(6.50),
		SalePrice: decimal.NewFromFloat(9.99),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for _, override := range overrides {
		override(&product)
	}
	return product
}

// CreateTestClient creates a test client
func CreateTestClient(overrides ...func(*domain.Client)) domain.Client {
	client := domain.Client{
		ID:    uuid.NewString(),
		Name:  "Test Client",
		Phone: "555-0100",
		Email: "client@example.com",
	}
	for _, override := range overrides {
		override(&client)
	}
	return client
}

// CreateTestSale creates a committed test sale with one line
func CreateTestSale(overrides ...func(*domain.Sale)) domain.Sale {
	item := domain.SaleItem{
		ProductID: uuid.NewString(),
		Name:      "Test Coffee 500g",
		Qty:       2,
		Price:     decimal.NewFromFloat(9.99),
	}
	item.Recalculate()

	sale := domain.Sale{
		ID:         uuid.NewString(),
		Date:       time.Now(),
		ClientID:   uuid.NewString(),
		ClientName: "Test Client",
		Items:      []domain.SaleItem{item},
		Total:      item.Subtotal,
	}
	for _, override := range overrides {
		override(&sale)
	}
	return sale
}
