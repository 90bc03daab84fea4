package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-api/internal/core/ports"
)

const (
	// TokenCookie is the cookie carrying the session token.
	TokenCookie = "token"
	// UserIDKey is the echo context key holding the authenticated subject id.
	UserIDKey = "user_id"
)

// Auth verifies the session token and injects the subject id into the context.
// The token is read from the cookie first, then from an Authorization bearer
// header. Failures are returned as domain token errors for the central error
// handler to map.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := verifier.Verify(tokenFrom(c))
			if err != nil {
				return err
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

func tokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
