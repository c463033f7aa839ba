package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/usersvc/apiserver/config"
	"github.com/usersvc/apiserver/internal/auth"
	"github.com/usersvc/apiserver/internal/db"
	"github.com/usersvc/apiserver/internal/events"
	"github.com/usersvc/apiserver/internal/handlers"
	"github.com/usersvc/apiserver/internal/services"
	"github.com/usersvc/apiserver/internal/store"
	"gorm.io/gorm"
)

const jwtSecretEnv = "JWT_SECRET"

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *gorm.DB
	events     *events.Publisher
	logger     *slog.Logger
}

// New connects to the database and event backend and builds the HTTP server.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dbConn, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	publisher, err := events.Open(ctx, cfg.Events)
	if err != nil {
		_ = db.Close(dbConn)
		return nil, fmt.Errorf("open events backend: %w", err)
	}

	// The secret is read again on every login; a missing value only fails logins.
	if strings.TrimSpace(os.Getenv(jwtSecretEnv)) == "" {
		logger.Warn("JWT_SECRET is not set; logins will fail until it is")
	}

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	issuer := auth.NewTokenIssuer(auth.EnvSecret(jwtSecretEnv), cfg.Auth.TokenTTL)
	userRepo := services.NewNotifyingRepository(
		store.NewUserRepository(dbConn, hasher, issuer),
		publisher,
		logger,
	)
	userService := services.NewUserService(userRepo)

	router := NewRouter(cfg, userService, issuer, logger)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     publisher,
		logger:     logger,
	}, nil
}

// NewRouter builds the chi router with middleware, CORS and the user routes.
func NewRouter(cfg config.Config, users *services.UserService, tokens handlers.TokenParser, logger *slog.Logger) *chi.Mux {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/user", func(r chi.Router) {
		handlers.UserRouter(r, users, tokens, logger)
	})
	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server. It returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the event backend and the database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.events != nil {
		if cerr := s.events.Close(); cerr != nil {
			s.logger.Warn("close events backend", "error", cerr)
		}
	}
	if s.db != nil {
		if cerr := db.Close(s.db); cerr != nil {
			s.logger.Warn("close database", "error", cerr)
		}
	}
	return err
}
