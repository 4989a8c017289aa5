// internal/core/services/clients.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// Clients handles client CRUD.
type Clients struct {
	clients  ports.ClientRepository
	ids      ports.IDGenerator
	validate *validator.Validate
	logger   *slog.Logger
}

// NewClients creates a new client service.
func NewClients(clients ports.ClientRepository, ids ports.IDGenerator, logger *slog.Logger) *Clients {
	return &Clients{
		clients:  clients,
		ids:      ids,
		validate: validator.New(),
		logger:   logger.With(slog.String("service", "clients")),
	}
}

// Save creates the client when its ID is empty, otherwise updates the
// existing record.
func (s *Clients) Save(ctx context.Context, client *domain.Client) error {
	if err := client.Validate(); err != nil {
		return err
	}
	if err := s.validate.Var(client.Email, "omitempty,email"); err != nil {
		return &domain.ValidationError{Reason: fmt.Sprintf("invalid email: %s", client.Email)}
	}

	if client.ID == "" {
		client.ID = s.ids.NewID()
	} else {
		existing, err := s.clients.FindByID(ctx, client.ID)
		if err != nil {
			return fmt.Errorf("failed to look up client: %w", err)
		}
		if existing == nil {
			return &domain.NotFoundError{Entity: "client", ID: client.ID}
		}
	}

	if err := s.clients.Save(ctx, client); err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}

	s.logger.InfoContext(ctx, "saved client",
		slog.String("client_id", client.ID),
		slog.String("name", client.Name))

	return nil
}

// Get retrieves one client by id.
func (s *Clients) Get(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if client == nil {
		return nil, &domain.NotFoundError{Entity: "client", ID: id}
	}
	return client, nil
}

// List returns all clients.
func (s *Clients) List(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// Delete removes a client. Committed sales keep the client name snapshot.
func (s *Clients) Delete(ctx context.Context, id string) error {
	existing, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up client: %w", err)
	}
	if existing == nil {
		return &domain.NotFoundError{Entity: "client", ID: id}
	}

	if err := s.clients.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.logger.InfoContext(ctx, "deleted client", slog.String("client_id", id))
	return nil
}
