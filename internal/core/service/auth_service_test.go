package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pressroom/blog-api/internal/core/domain"
	"github.com/pressroom/blog-api/internal/core/ports"
)

type stubUserRepo struct {
	users   map[string]*domain.User // keyed by email
	nextID  int
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[stored.Email] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func newTestAuthService(repo ports.UserRepository) (*AuthService, *TokenService) {
	tokens := NewTokenService("secret", time.Hour)
	return NewAuthService(repo, tokens, discardLogger), tokens
}

func register(t *testing.T, svc *AuthService, name, email, password string) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), ports.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	user := register(t, svc, "  Alice ", " Alice@Example.COM ", "pass123")

	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.Name != "Alice" || user.Email != "alice@example.com" {
		t.Fatalf("expected normalized name/email, got %q %q", user.Name, user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	cases := []ports.RegisterInput{
		{Name: "", Email: "a@example.com", Password: "secret1"},
		{Name: "A", Email: "   ", Password: "secret1"},
		{Name: "A", Email: "a@example.com", Password: ""},
		{Name: "A", Email: "a@example.com", Password: "12345"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	register(t, svc, "Bob", "bob@example.com", "secret1")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Bobby", Email: "BOB@example.com", Password: "secret2"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(repo.users))
	}
}

func TestAuthService_Register_RepoFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc, _ := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "C", Email: "c@example.com", Password: "secret1"})
	if err == nil || errors.Is(err, domain.ErrUserExists) || errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected wrapped infrastructure error, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, tokens := newTestAuthService(newStubUserRepo())
	created := register(t, svc, "Carol", "carol@example.com", "s3cret")

	token, user, err := svc.Login(context.Background(), "Carol@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.ID != created.ID || user.Name != "Carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	sub, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if sub != created.ID {
		t.Fatalf("expected subject %s, got %s", created.ID, sub)
	}
}

func TestAuthService_Login_DoesNotRevealAccountExistence(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())
	register(t, svc, "Dave", "dave@example.com", "goodpass")

	_, _, wrongPass := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, _, unknown := svc.Login(context.Background(), "ghost@example.com", "badpass")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("errors must be indistinguishable: %q vs %q", wrongPass, unknown)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, _, err := svc.Login(context.Background(), "", "x"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@example.com", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())
	created := register(t, svc, "Erin", "erin@example.com", "secret1")

	user, err := svc.CurrentUser(context.Background(), created.ID)
	if err != nil || user.Email != "erin@example.com" {
		t.Fatalf("unexpected result: %+v, %v", user, err)
	}

	if _, err := svc.CurrentUser(context.Background(), "user-404"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for vanished subject, got %v", err)
	}
}
