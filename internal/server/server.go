package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/taskflow-be/internal/auth"
	"github.com/hongminglow/taskflow-be/internal/config"
	"github.com/hongminglow/taskflow-be/internal/http/handlers"
	"github.com/hongminglow/taskflow-be/internal/middleware"
	"github.com/hongminglow/taskflow-be/internal/obs"
	"github.com/hongminglow/taskflow-be/internal/service"
	"github.com/hongminglow/taskflow-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, logger *slog.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the full routing tree: auth, users, projects, tasks,
// health and metrics behind logging and CORS.
func NewHandler(cfg config.Config, store storage.Store, logger *slog.Logger) http.Handler {
	metrics := obs.NewMetrics()
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	guard := middleware.NewGuard(tokens, logger)
	limiter := middleware.NewRateLimiter(cfg.AuthRatePerSec, cfg.AuthRateBurst, cfg.TrustedProxies)
	authService := service.NewAuthService(store, hasher, tokens, logger, metrics)

	var pinger handlers.Pinger
	if p, ok := store.(handlers.Pinger); ok {
		pinger = p
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), pinger).Register(mux)
	mux.Handle("GET /metrics", metrics.Handler())
	handlers.NewAuthHandler(authService, guard, limiter.Limit, logger).Register(mux)
	handlers.NewUsersHandler(store, hasher, guard, logger).Register(mux)
	handlers.NewProjectsHandler(store, guard, logger).Register(mux)
	handlers.NewTasksHandler(store, guard, logger).Register(mux)

	return middleware.Chain(mux,
		middleware.Logging(logger),
		middleware.CORS(cfg.CORSOrigins),
		metrics.Instrument,
	)
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
