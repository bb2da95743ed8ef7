package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/cinepick/internal/logger"
)

// Version is reported to clients during initialisation.
const Version = "0.1.0"

// Endpoint is the path the streamable HTTP transport is mounted on.
const Endpoint = "/mcp"

// DefaultInstructions tells the client model how to drive the tools.
const DefaultInstructions = `cinepick recommends one movie for a group.
Collect each participant's favourite movie, a favourite actor or character,
how fresh the movie should be and the mood they are in, plus how much time
the group has. Then call the recommend tool once. Pass titles recommended
earlier in the session as usedRecommendations to get a different pick.`

const shutdownTimeout = 10 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithInstructions replaces the instructions sent to clients.
func WithInstructions(text string) Option {
	return func(s *Server) { s.instructions = text }
}

// WithTraffic logs every JSON-RPC message when verbose logging is on.
func WithTraffic() Option {
	return func(s *Server) { s.traffic = true }
}

// Server exposes the recommendation service as MCP tools and resources.
type Server struct {
	ports        *Ports
	server       *mcp.Server
	instructions string
	traffic      bool
}

// NewServer creates a server for the given ports.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports, instructions: DefaultInstructions}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{Name: "cinepick", Version: Version},
		&mcp.ServerOptions{Instructions: s.instructions},
	)
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Instructions returns the text sent to clients on initialise.
func (s *Server) Instructions() string {
	return s.instructions
}

// Run serves a single client over stdio until ctx is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	var transport mcp.Transport = &mcp.StdioTransport{}
	if s.traffic && logger.IsVerbose() {
		rpcLog := logger.Logger().With().Str("component", "mcp").Logger()
		transport = &mcp.LoggingTransport{Transport: transport, Writer: &rpcLog}
	}
	return s.server.Run(ctx, transport)
}

// Handler returns the HTTP handler: the streamable transport on Endpoint
// and a liveness probe on /healthz.
func (s *Server) Handler() http.Handler {
	stream := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle(Endpoint, stream)
	return r
}

// RunHTTP serves Handler on addr until ctx is cancelled, then drains open
// sessions for up to shutdownTimeout.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutdown: %v", err)
		}
	}()

	logger.Info("mcp: listening on %s%s", addr, Endpoint)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("mcp: serve: %w", err)
	}
	return nil
}
