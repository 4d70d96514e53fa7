package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/molcraft/molcraft/internal/config"
	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/logging"
)

// Server wraps the standard HTTP server with configured timeouts and
// graceful shutdown.
type Server struct {
	srv *http.Server
	log logging.Logger
	cfg *config.ServerConfig
}

// NewServer builds a Server from the configured listen address and timeouts.
func NewServer(handler http.Handler, cfg *config.Config, log logging.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		log: log,
		cfg: &cfg.Server,
	}
}

// Start begins serving and blocks until the listener closes.  A clean
// shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("http server starting", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured grace period.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
