// Package server runs the tubenotes HTTP API and MCP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/auth/handlers"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/brizzai/tubenotes/internal/notes"
	"github.com/brizzai/tubenotes/internal/server/handler"
	"github.com/brizzai/tubenotes/internal/server/tool"
	"github.com/brizzai/tubenotes/internal/summary"
	"github.com/brizzai/tubenotes/internal/youtube"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 5 * time.Second

// Server serves the REST API, the OAuth routes and the MCP tools
type Server struct {
	config  *config.Config
	mcp     *mcpserver.MCPServer
	handler *handler.Handler
}

// NewServer creates a server over the given services. Outside HTTP mode no
// login route is served, so tools point at the login command instead.
func NewServer(cfg *config.Config, yt handler.YouTube, sum handler.Summarizer, notebook handler.Notebook, authClient *auth.Client) *Server {
	mcpServer := mcpserver.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		mcpserver.WithToolCapabilities(false),
	)

	var loginURL string
	if cfg.Server.Mode == config.ServerModeHTTP {
		loginURL = strings.TrimRight(cfg.OAuth.BaseURL, "/") + handlers.LoginPath
	}
	tool.NewHandler(yt, sum, notebook, authClient, loginURL).Register(mcpServer)

	return &Server{
		config:  cfg,
		mcp:     mcpServer,
		handler: handler.NewHandler(
			handlers.NewHandler(authClient),
			handler.NewAPI(yt, sum),
			handler.NewNotesAPI(notebook),
			cfg.Server.AllowOrigins,
		),
	}
}

// MCP exposes the underlying MCP server
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Handler returns the full HTTP surface including the MCP endpoint
func (s *Server) Handler() http.Handler {
	return s.handler.CreateHTTPHandler(mcpserver.NewStreamableHTTPServer(s.mcp))
}

// ServeHTTP listens on the configured address until ctx is done
func (s *Server) ServeHTTP(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("mode", string(config.ServerModeHTTP)),
			zap.String("address", ln.Addr().String()),
		)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		timeout := s.config.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		logger.Info("Shutting down server", zap.Duration("timeout", timeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		logger.Info("Server stopped")
		return nil

	case err := <-errChan:
		return err
	}
}

// ServeSTDIO serves the MCP tools over in and out
func (s *Server) ServeSTDIO(ctx context.Context, in io.Reader, out io.Writer) error {
	logger.Info("Starting STDIO server")
	stdioServer := mcpserver.NewStdioServer(s.mcp)
	return stdioServer.Listen(ctx, in, out)
}

// Start runs the server in the configured mode
func (s *Server) Start(ctx context.Context) error {
	logger.Info("Starting tubenotes",
		zap.String("mode", string(s.config.Server.Mode)),
		zap.String("version", s.config.Server.Version),
	)

	switch s.config.Server.Mode {
	case config.ServerModeHTTP:
		return s.ServeHTTP(ctx)
	case config.ServerModeSTDIO:
		return s.ServeSTDIO(ctx, os.Stdin, os.Stdout)
	default:
		return fmt.Errorf("unsupported server mode: %s", s.config.Server.Mode)
	}
}

func newServer(cfg *config.Config, yt *youtube.Client, sum *summary.Service, notebook *notes.Service, authClient *auth.Client) *Server {
	return NewServer(cfg, yt, sum, notebook, authClient)
}

// Module provides the server
var Module = fx.Module("server",
	fx.Provide(newServer),
)
