// internal/core/services/auth.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmercado/puntoventa/internal/core/domain"
	"github.com/dmercado/puntoventa/internal/core/ports"
)

// ErrInvalidCredentials is returned by Login for an unknown username or a
// wrong password. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterParams carries the register form.
type RegisterParams struct {
	Username   string `validate:"required,min=3"`
	Password   string `validate:"required,min=6"`
	StoreName  string `validate:"required"`
	StoreImage string
}

// Auth handles account registration and login. Passwords are stored as
// bcrypt hashes.
type Auth struct {
	users    ports.UserRepository
	ids      ports.IDGenerator
	validate *validator.Validate
	cost     int
	logger   *slog.Logger
}

// NewAuth creates a new auth service. cost is the bcrypt cost; pass 0 for
// the library default.
func NewAuth(users ports.UserRepository, ids ports.IDGenerator, cost int, logger *slog.Logger) *Auth {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Auth{
		users:    users,
		ids:      ids,
		validate: validator.New(),
		cost:     cost,
		logger:   logger.With(slog.String("service", "auth")),
	}
}

// Register creates a new account, leaves it logged in, and returns it.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	if err := a.validate.Struct(params); err != nil {
		return nil, &domain.ValidationError{Reason: "username, password and store name are required"}
	}

	existing, err := a.users.FindByUsername(ctx, params.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if existing != nil {
		return nil, &domain.ValidationError{Reason: fmt.Sprintf("username already taken: %s", params.Username)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           a.ids.NewID(),
		Username:     params.Username,
		PasswordHash: string(hash),
		StoreName:    params.StoreName,
		StoreImage:   params.StoreImage,
	}

	if err := a.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if err := a.users.SaveSession(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	a.logger.InfoContext(ctx, "registered user",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username))

	return user, nil
}

// Login checks the credentials and persists the session on success.
func (a *Auth) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := a.users.SaveSession(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	a.logger.InfoContext(ctx, "logged in", slog.String("username", username))
	return user, nil
}

// Current returns the persisted session user, or nil when nobody is logged
// in.
func (a *Auth) Current(ctx context.Context) (*domain.User, error) {
	user, err := a.users.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return user, nil
}

// Logout clears the persisted session.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.users.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
