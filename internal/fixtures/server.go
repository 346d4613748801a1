package fixtures

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dionchettiar/pitchboard/pkg/logger"
)

// Paths the fixture server publishes the two sources under.
const (
	SourceAPath = "/sub_optimizer.csv"
	SourceBPath = "/performance.csv"
)

const readHeaderTimeout = 5 * time.Second

// Server publishes a fixture's CSVs over HTTP so the real fetch path can be
// exercised against local data.
type Server struct {
	fixture  *Fixture
	listener net.Listener
	srv      *http.Server
	logger   logger.Logger
}

// NewServer creates a fixture server for the given fixture.
func NewServer(fixture *Fixture, lg logger.Logger) *Server {
	return &Server{fixture: fixture, logger: lg}
}

// Start begins listening on addr; an empty addr picks a free port. It
// returns once the listener is accepting connections.
func (s *Server) Start(ctx context.Context, addr string) error {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc(SourceAPath, s.serveCSV(func() []byte { return s.fixture.SourceA }))
	mux.HandleFunc(SourceBPath, s.serveCSV(func() []byte { return s.fixture.SourceB }))

	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimeout}
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Error(ctx, "fixture server stopped", logger.Error(err))
			}
		}
	}()

	if s.logger != nil {
		s.logger.Info(ctx, "fixture server listening",
			logger.String("sourceA", s.SourceAURL()),
			logger.String("sourceB", s.SourceBURL()))
	}
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	return nil
}

// SourceAURL returns the URL the sub-optimizer CSV is served at.
func (s *Server) SourceAURL() string {
	return "http://" + s.listener.Addr().String() + SourceAPath
}

// SourceBURL returns the URL the performance CSV is served at.
func (s *Server) SourceBURL() string {
	return "http://" + s.listener.Addr().String() + SourceBPath
}

func (s *Server) serveCSV(body func() []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write(body())
	}
}
