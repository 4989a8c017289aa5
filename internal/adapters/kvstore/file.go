// internal/adapters/kvstore/file.go
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// FileStore persists each collection as one JSON document in a data
// directory. Writes go through a temp file plus rename so a crash never
// leaves a half-written collection behind.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// Statically assert that *FileStore implements the CollectionStore interface.
var _ ports.CollectionStore = (*FileStore)(nil)

// NewFileStore creates the data directory if needed and returns the store.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &domain.StorageError{Op: "init", Key: dir, Err: err}
	}
	return &FileStore{
		dir:    dir,
		logger: logger.With(slog.String("store", "file")),
	}, nil
}

// Get reads and unmarshals the collection stored under key.
func (s *FileStore) Get(ctx context.Context, key string, dest any) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
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

// Set marshals value and rewrites the collection stored under key.
func (s *FileStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: fmt.Errorf("marshal: %w", err)}
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}

	s.logger.DebugContext(ctx, "collection written",
		slog.String("key", key),
		slog.Int("bytes", len(data)))

	return nil
}

// Delete removes the collection stored under key. Missing keys are a no-op.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return &domain.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Ping checks the data directory is still writable.
func (s *FileStore) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return &domain.StorageError{Op: "ping", Key: s.dir, Err: err}
	}
	if !info.IsDir() {
		return &domain.StorageError{Op: "ping", Key: s.dir, Err: fmt.Errorf("not a directory")}
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
