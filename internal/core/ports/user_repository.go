package ports

import (
	"context"

	"github.com/pressroom/blog-api/internal/core/domain"
)

// UserRepository defines persistence for registered users.
// Emails are passed already normalized (trimmed, lower-cased).
type UserRepository interface {
	// Create inserts the user and returns it with its generated ID.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
