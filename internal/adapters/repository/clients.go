// internal/adapters/repository/clients.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// ClientRepository keeps the whole client list as one collection in the
// backing store.
type ClientRepository struct {
	store ports.CollectionStore
}

// Statically assert that *ClientRepository implements the port.
var _ ports.ClientRepository = (*ClientRepository)(nil)

// NewClientRepository creates a new client repository.
func NewClientRepository(store ports.CollectionStore) *ClientRepository {
	return &ClientRepository{store: store}
}

// List returns every client. A never-written collection reads as empty.
func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	if err := r.store.Get(ctx, ports.KeyClients, &clients); err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return []domain.Client{}, nil
		}
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	return clients, nil
}

// FindByID returns the client with the given id, or (nil, nil) when it does
// not exist.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	clients, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ID == id {
			return &clients[i], nil
		}
	}
	return nil, nil
}

// Save inserts or replaces a single client and rewrites the collection.
func (r *ClientRepository) Save(ctx context.Context, client *domain.Client) error {
	clients, err := r.List(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range clients {
		if clients[i].ID == client.ID {
			clients[i] = *client
			replaced = true
			break
		}
	}
	if !replaced {
		clients = append(clients, *client)
	}

	if err := r.store.Set(ctx, ports.KeyClients, clients); err != nil {
		return fmt.Errorf("failed to save clients: %w", err)
	}
	return nil
}

// Delete removes the client with the given id. Unknown ids are a no-op.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	clients, err := r.List(ctx)
	if err != nil {
		return err
	}

	kept := clients[:0]
	for _, c := range clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}

	if err := r.store.Set(ctx, ports.KeyClients, kept); err != nil {
		return fmt.Errorf("failed to save clients: %w", err)
	}
	return nil
}
