package http

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/fieldlink/locate-sla/internal/config"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/logging"
)

// Server wraps the HTTP server with graceful shutdown.
type Server struct {
	srv    *nethttp.Server
	logger logging.Logger
}

// NewServer builds the server from configuration.
func NewServer(cfg config.ServerConfig, handler nethttp.Handler, logger logging.Logger) *Server {
	return &Server{
		srv: &nethttp.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger.Named("http"),
	}
}

// Start listens and serves until Shutdown.  It returns nil after a graceful
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
