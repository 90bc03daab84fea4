package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pressroom/blog-api/internal/core/domain"
	"github.com/pressroom/blog-api/internal/core/ports"
	"github.com/pressroom/blog-api/internal/pkg/metrics"
)

const minPasswordLength = 6

// AuthService implements registration, login and session lookup.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", domain.ErrValidation, minPasswordLength)
	}

	// The unique index still arbitrates concurrent registrations.
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login never tells an unknown email apart from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	s.log.Debug().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// CurrentUser resolves a token subject. A subject whose account is gone is
// treated as an invalid session.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: subject no longer exists", domain.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}
