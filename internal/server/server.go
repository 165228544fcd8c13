package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/berea-app/berea/internal/config"
	"github.com/berea-app/berea/internal/study"
)

// Server is the proxy HTTP server around a study service.
type Server struct {
	logger *zap.Logger
	cfg    config.ServerConfig
	http   *http.Server
}

// New builds the server with its routes and timeouts.
func New(cfg config.ServerConfig, svc *study.Service, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	newHandlers(logger, svc, cfg.AllowedOrigin).register(mux)

	return &Server{
		logger: logger.Named("server"),
		cfg:    cfg,
		http: &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.cfg.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server",
		zap.Duration("grace", s.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
