// Package httpapi serves the credential workflows as a JSON HTTP API for the
// web frontend. Tokens are handed out as HttpOnly cookies.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 5 * time.Second

// AuthService is the subset of services.AuthService the HTTP API needs.
type AuthService interface {
	Register(ctx context.Context, cmd services.RegisterCommand) (*services.RegisterResult, error)
	VerifyEmail(ctx context.Context, cmd services.VerifyEmailCommand) (*services.VerifyEmailResult, error)
	Login(ctx context.Context, cmd services.LoginCommand) (*services.LoginResult, error)
	RenewAccessToken(ctx context.Context, cmd services.RenewCommand) (*services.RenewResult, error)
}

// Options carries the transport settings that do not belong to the core.
type Options struct {
	AllowedOrigins []string
	CookieSecure   bool
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
}

type Server struct {
	address string
	auth    AuthService
	opts    Options
	logger  logging.Logger
}

func NewServer(addr string, l logging.Logger, as AuthService, opts Options) *Server {
	return &Server{
		address: addr,
		auth:    as,
		opts:    opts,
		logger:  l.With("module", "http_server"),
	}
}

// Handler builds the router with CORS and recovery middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	r.Post("/api/users", s.handleRegister)
	r.Post("/api/users/verification", s.handleVerifyEmail)
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/refresh", s.handleRefresh)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve handles requests on lis and shuts down gracefully once ctx is done.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
