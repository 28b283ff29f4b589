// Package ui provides the web catalog browser.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/omni"
	"github.com/leapstack-labs/omnicatalog/internal/ui/features/common"
	"github.com/leapstack-labs/omnicatalog/internal/ui/notifier"
	"github.com/leapstack-labs/omnicatalog/internal/ui/router"
)

// Server is the web UI server.
type Server struct {
	deps *common.Deps
	port int
}

// Config holds configuration for the UI server.
type Config struct {
	Catalog       *catalog.Service
	Models        common.ModelLister
	ListOptions   omni.ListOptions
	Port          int
	SessionSecret string
	// SessionIdle is how long an unused browser session keeps its bundle.
	// Zero means catalog.DefaultSessionIdle.
	SessionIdle time.Duration
	Logger      *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(int(catalog.DefaultSessionIdle / time.Second))
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		deps: &common.Deps{
			Catalog:      cfg.Catalog,
			Sessions:     catalog.NewSessions(cfg.Catalog, catalog.WithIdleTimeout(cfg.SessionIdle)),
			Models:       cfg.Models,
			ListOptions:  cfg.ListOptions,
			SessionStore: sessionStore,
			Notifier:     notifier.New(),
			Logger:       logger,
		},
		port: cfg.Port,
	}
}

// Handler returns the UI's routes behind the standard middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.deps); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Sessions returns the per-browser catalog sessions.
func (s *Server) Sessions() *catalog.Sessions {
	return s.deps.Sessions
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.deps.Logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		s.sweepSessions(egctx, min(s.deps.Sessions.IdleTimeout(), time.Minute))
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.deps.Logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// sweepSessions evicts idle browser sessions every interval until ctx ends.
func (s *Server) sweepSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.deps.Sessions.EvictIdle(); n > 0 {
				s.deps.Logger.Debug("evicted idle ui sessions", "count", n, "live", s.deps.Sessions.Len())
			}
		}
	}
}
