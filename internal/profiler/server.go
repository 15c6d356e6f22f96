// Package profiler serves pprof and Prometheus metrics on a debug port.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/shoptoast/internal/core/logging"
)

// shutdownTimeout bounds the shutdown triggered by a canceled start context.
const shutdownTimeout = 5 * time.Second

// Server is the debug HTTP server.
type Server struct {
	httpServer *http.Server
	port       int
	log        zerolog.Logger

	mu       sync.Mutex
	listener net.Listener

	stopOnce sync.Once
	stopErr  error
}

// New creates a debug server listening on port. When metrics is non-nil it
// is mounted at /metrics.
func New(port int, metrics http.Handler) *Server {
	mux := http.NewServeMux()

	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &Server{
		httpServer: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		port: port,
		log:  logging.Component("profiler"),
	}
}

// Start listens on the configured port and serves in the background until
// Shutdown is called or ctx is canceled. Port 0 picks a free port; see Addr.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.log.Info().Str("addr", listener.Addr().String()).Msg("debug server listening")

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("debug server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server. Later calls return the first result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.log.Info().Msg("shutting down debug server")
		s.stopErr = s.httpServer.Shutdown(ctx)
	})
	return s.stopErr
}
