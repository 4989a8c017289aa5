// internal/adapters/db/collection_store.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

const createCollectionsTable = `
CREATE TABLE IF NOT EXISTS collections (
	key        TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// CollectionStore persists each collection as one JSONB document in a
// single collections table.
type CollectionStore struct {
	db      *Database
	builder sq.StatementBuilderType
	logger  *slog.Logger
}

// Statically assert that *CollectionStore implements the CollectionStore interface.
var _ ports.CollectionStore = (*CollectionStore)(nil)

// NewCollectionStore ensures the collections table exists and returns the
// store.
func NewCollectionStore(ctx context.Context, database *Database, logger *slog.Logger) (*CollectionStore, error) {
	if _, err := database.Exec(ctx, createCollectionsTable); err != nil {
		return nil, fmt.Errorf("failed to create collections table: %w", err)
	}
	return &CollectionStore{
		db:      database,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  logger.With(slog.String("store", "postgres")),
	}, nil
}

// Get reads and unmarshals the collection stored under key.
func (s *CollectionStore) Get(ctx context.Context, key string, dest any) error {
	query, args, err := s.builder.
		Select("doc").
		From("collections").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return &domain.StorageError{Op: "get", Key: key, Err: fmt.Errorf("build query: %w", err)}
	}

	var data []byte
	if err := s.db.QueryRow(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.StorageError{Op: "get", Key: key, Err: ports.ErrKeyNotFound}
		}
		return &domain.StorageError{Op: "get", Key: key, Err: err}
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return &domain.StorageError{Op: "get", Key: key, Err: fmt.Errorf("unmarshal: %w", err)}
	}

	s.logger.DebugContext(ctx, "collection read", slog.String("key", key))
	return nil
}

// Set marshals value and upserts the collection stored under key.
func (s *CollectionStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: fmt.Errorf("marshal: %w", err)}
	}

	query, args, err := s.builder.
		Insert("collections").
		Columns("key", "doc").
		Values(key, data).
		Suffix("ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()").
		ToSql()
	if err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: fmt.Errorf("build query: %w", err)}
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}

	s.logger.DebugContext(ctx, "collection written",
		slog.String("key", key),
		slog.Int("bytes", len(data)))

	return nil
}

// Delete removes the collection stored under key. Missing keys are a no-op.
func (s *CollectionStore) Delete(ctx context.Context, key string) error {
	query, args, err := s.builder.
		Delete("collections").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return &domain.StorageError{Op: "delete", Key: key, Err: fmt.Errorf("build query: %w", err)}
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return &domain.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Ping checks the database is reachable.
func (s *CollectionStore) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return &domain.StorageError{Op: "ping", Key: "", Err: err}
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *CollectionStore) Close() error {
	s.db.Close()
	return nil
}
