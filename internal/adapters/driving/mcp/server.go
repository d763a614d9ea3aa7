package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/parasol/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// shutdownTimeout bounds how long open HTTP sessions may drain.
const shutdownTimeout = 5 * time.Second

// Server exposes corpus analysis, migration planning and the published
// service trees to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "parasol",
		Title:   "Parasol corpus migration",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{Instructions: Instructions(ports)}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Instructions describes to clients what this server can do with the
// configured ports.
func Instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("Parasol inspects a services/capabilities/operations corpus of Markdown documents.\n")
	b.WriteString("Call analyze_corpus for shared use cases and sharing layers, ")
	b.WriteString("and plan_migration for the phased one use case per page plan. ")
	b.WriteString("Both tools are read-only; migrations run from the parasol CLI.\n")
	if ports.Root != "" {
		fmt.Fprintf(&b, "Tool calls without a root use %s.\n", ports.Root)
	} else {
		b.WriteString("Tool calls must name the corpus root.\n")
	}
	if ports.Tree != nil {
		b.WriteString("Published services are listed at " + uriScheme + "services; read " +
			uriScheme + "services/{serviceId}/tree for one service.\n")
	} else {
		b.WriteString("No record store is configured; run 'parasol publish' to browse service trees.\n")
	}
	return b.String()
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("MCP server listening on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler serving this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves MCP over HTTP on addr until ctx is cancelled.
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
			logger.Warn("MCP server shutdown: %v", err)
		}
	}()

	logger.Debug("MCP server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
