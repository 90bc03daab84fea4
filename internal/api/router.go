package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/pressroom/blog-api/docs"
	"github.com/pressroom/blog-api/internal/api/handler"
	"github.com/pressroom/blog-api/internal/api/middleware"
	"github.com/pressroom/blog-api/internal/core/ports"
	"github.com/pressroom/blog-api/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Log    zerolog.Logger
	Auth   ports.AuthService
	Posts  ports.PostService
	Tokens ports.TokenVerifier
	Cookie handler.CookieConfig

	// Health reports dependency readiness. Nil always reports ready.
	Health *handlers.HealthDependenciesHandler

	// AuthRateLimit is the per-IP refill rate for register and login; zero disables it.
	AuthRateLimit float64
	AuthRateBurst int

	// IPExtractor resolves the client address. Nil uses the TCP peer and
	// ignores forwarding headers.
	IPExtractor echo.IPExtractor
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.IPExtractor = deps.IPExtractor
	if e.IPExtractor == nil {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLog(deps.Log))
	e.Use(middleware.Metrics())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookie)
	postHandler := handler.NewPostHandler(deps.Posts)
	requireAuth := middleware.Auth(deps.Tokens)
	authLimiter := middleware.RateLimit(deps.AuthRateLimit, deps.AuthRateBurst)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register, authLimiter)
	auth.POST("/login", authHandler.Login, authLimiter)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Post routes ---
	posts := e.Group("/posts")
	posts.GET("", postHandler.List)
	posts.POST("", postHandler.Create, requireAuth)
	posts.GET("/slug/:slug", postHandler.GetBySlug)
	posts.GET("/:id", postHandler.Get)
	posts.PUT("/:id", postHandler.Update, requireAuth)
	posts.DELETE("/:id", postHandler.Delete, requireAuth)

	// --- Health checks (no auth required) ---
	healthDeps := deps.Health
	if healthDeps == nil {
		healthDeps = handlers.NewHealthDependenciesHandler(nil)
	}
	e.GET("/health", handlers.NewHealthHandler().Liveness) // liveness  – is the process alive?
	e.GET("/health/ready", healthDeps.Readiness)           // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
