package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-api/internal/api/middleware"
	"github.com/pressroom/blog-api/internal/core/domain"
)

// ctxUserID returns the subject injected by the Auth middleware. An empty
// value means the route was mounted without the middleware; treat it as an
// unauthenticated request rather than trusting the payload.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	if userID == "" {
		return "", domain.ErrTokenMissing
	}
	return userID, nil
}
