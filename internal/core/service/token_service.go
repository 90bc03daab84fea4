package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pressroom/blog-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService signs and verifies HS256 session tokens whose subject is the user id.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the validity window of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

func (s *TokenService) Issue(subjectID string) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("issue token: empty subject")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify returns the token subject. Expiry is reported separately from every
// other failure so callers can tell a stale session from a forged one.
func (s *TokenService) Verify(token string) (string, error) {
	if token == "" {
		return "", domain.ErrTokenMissing
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", domain.ErrTokenExpired
	case err != nil:
		return "", fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	case claims.Subject == "":
		return "", fmt.Errorf("%w: missing subject", domain.ErrTokenInvalid)
	}

	return claims.Subject, nil
}
