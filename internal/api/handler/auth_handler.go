package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-api/internal/api/middleware"
	"github.com/pressroom/blog-api/internal/core/ports"
)

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	// Secure is false only for local development over plain HTTP.
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "User created successfully"})
}

// Login verifies credentials and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(token, int(h.cookie.MaxAge.Seconds())))
	return c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    toUserResponse(user),
	})
}

// Logout clears the session cookie. Tokens are stateless, so a copy of the
// token kept elsewhere stays valid until it expires.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  messageResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{User: toUserResponse(user)})
}

// sessionCookie builds the token cookie. A negative maxAge deletes it.
func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		cookie.Expires = time.Unix(0, 0)
	}
	return cookie
}
