// internal/adapters/repository/users.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// UserRepository keeps the account list plus the single persisted session in
// the backing store.
type UserRepository struct {
	store ports.CollectionStore
}

// Statically assert that *UserRepository implements the port.
var _ ports.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new user repository.
func NewUserRepository(store ports.CollectionStore) *UserRepository {
	return &UserRepository{store: store}
}

// List returns every account. A never-written collection reads as empty.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.store.Get(ctx, ports.KeyUsers, &users); err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return []domain.User{}, nil
		}
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// FindByUsername returns the account with the given username, or (nil, nil)
// when it does not exist.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, nil
}

// Save inserts or replaces a single account and rewrites the collection.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	users, err := r.List(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = *user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, *user)
	}

	if err := r.store.Set(ctx, ports.KeyUsers, users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

// SaveSession persists user as the current session.
func (r *UserRepository) SaveSession(ctx context.Context, user *domain.User) error {
	if err := r.store.Set(ctx, ports.KeySession, user); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Session returns the persisted session user, or (nil, nil) when nobody is
// logged in.
func (r *UserRepository) Session(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := r.store.Get(ctx, ports.KeySession, &user); err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

// ClearSession removes the persisted session.
func (r *UserRepository) ClearSession(ctx context.Context) error {
	if err := r.store.Delete(ctx, ports.KeySession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
