package ports

import (
	"context"

	"github.com/pressroom/blog-api/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login verifies credentials and returns a signed session token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
