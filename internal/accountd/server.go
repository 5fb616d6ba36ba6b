// Package accountd is a development stand-in for the remote account
// service. It implements the same JSON/HTTP contract the client consumes,
// cookie sessions included, and deliberately emits the same free-text
// failure messages, so the classifier heuristics are exercised end to end.
package accountd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server holds the dependencies for the account service.
type Server struct {
	E     *echo.Echo
	Store *UserStore
}

// New creates a Server with routes registered. sessionSecret signs the
// session cookies.
func New(sessionSecret string) *Server {
	store := NewUserStore()
	handler := NewHandler(store)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	cookieStore := sessions.NewCookieStore([]byte(sessionSecret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
	}
	e.Use(session.Middleware(cookieStore))

	limiter := rateLimiter()

	e.POST("/register", handler.RegisterPost, limiter)
	e.POST("/login", handler.LoginPost, limiter)
	e.POST("/logout", handler.LogoutPost)
	e.GET("/me", handler.MeGet)
	e.PUT("/user/:id", handler.UserPut)
	e.DELETE("/user/:id", handler.UserDelete)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	return &Server{E: e, Store: store}
}

// Start runs the service until interrupted, then shuts down gracefully.
func (s *Server) Start(addr string) {
	go func() {
		if err := s.E.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("shutting down the account service", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.E.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
}

// rateLimiter guards the credential-bearing routes. In-memory store, per-IP,
// suitable for a single-instance development service.
func rateLimiter() echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(10), // 10 requests per second, burst 10
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Too many requests"})
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
