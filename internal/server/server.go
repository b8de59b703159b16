// Package server wraps http.Server with graceful shutdown and
// errgroup-compatible lifecycle management.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
)

// ErrAlreadyRunning is returned when Start is called on a running server.
var ErrAlreadyRunning = errors.New("server: already running")

// Server wraps http.Server with graceful shutdown. Safe for concurrent use.
type Server struct {
	mu      sync.Mutex
	addr    string
	server  *http.Server
	log     *slog.Logger
	cfg     Config
	running bool
}

// New creates a server from configuration. A nil logger discards output.
func New(cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{addr: cfg.Addr(), log: log, cfg: cfg}
}

// Start runs the server and blocks until the context is canceled or the
// listener fails. Returns ctx.Err() on cancellation.
func (s *Server) Start(ctx context.Context, h http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.server = &http.Server{
		Addr:           s.addr,
		Handler:        h,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: s.cfg.MaxHeaderBytes,
	}
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "starting server", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop gracefully shuts down the server using the configured timeout.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.running = false
	if err != nil {
		s.log.Error("server shutdown error", "error", err)
		return err
	}

	s.log.Info("server shutdown complete")
	return nil
}

// Run returns a function suitable for errgroup.Go: it starts the server,
// waits for context cancellation, and shuts down gracefully.
func (s *Server) Run(ctx context.Context, h http.Handler) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- s.Start(ctx, h)
		}()

		select {
		case <-ctx.Done():
			if err := s.Stop(); err != nil {
				s.log.Error("failed to stop server", "error", err)
			}
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}
