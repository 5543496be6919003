// Package mcpserver exposes the person-query tools over the Model Context
// Protocol, on stdio for local clients and streamable HTTP for remote ones.
package mcpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `Rolodex answers natural-language questions about people in its directory.

Use search_people for free-text queries ("who works at Tech Corp",
"find the person with email john@example.com"). Use get_person_details when
you already know the email and want the full profile. Use search_by_image to
check whether a stored image exists for an email. Use list_all_people to
browse the directory.`

// Server wraps the MCP server around the tool dispatcher.
type Server struct {
	mcp        *mcp.Server
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// New creates a Server with all person-query tools registered. A nil logger
// falls back to slog.Default.
func New(dispatcher *Dispatcher, lg *slog.Logger) *Server {
	if lg == nil {
		lg = slog.Default()
	}

	s := &Server{
		dispatcher: dispatcher,
		logger:     lg,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "rolodex",
			Title:   "Rolodex Person Query Server",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)

	s.registerTools()

	return s
}

// MCPServer returns the underlying MCP server for direct access (e.g., testing).
func (s *Server) MCPServer() *mcp.Server { return s.mcp }

// RunStdio runs the MCP server over stdio transport. This is the primary
// mode for desktop MCP clients; the process serves exactly one session.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns the streamable HTTP transport mounted behind bearer
// authentication, plus an unauthenticated /healthz probe.
func (s *Server) HTTPHandler(apiKeyHash string) http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return s.mcp },
		&mcp.StreamableHTTPOptions{Stateless: false},
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(apiKeyHash, s.logger))
		r.Handle("/mcp", streamable)
		r.Handle("/", streamable)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
