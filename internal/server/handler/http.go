// Package handler provides HTTP request handling for the tubenotes server.
package handler

import (
	"net/http"

	"github.com/brizzai/tubenotes/internal/auth/handlers"
	"github.com/brizzai/tubenotes/internal/auth/middleware"
	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/brizzai/tubenotes/internal/utils"
	"go.uber.org/zap"
)

// MCPPath serves the streamable MCP transport
const MCPPath = "/mcp"

// Handler assembles the HTTP surface
type Handler struct {
	auth    *handlers.Handler
	api     *API
	notes   *NotesAPI
	origins []string
}

// NewHandler creates a new HTTP handler.
func NewHandler(auth *handlers.Handler, api *API, notes *NotesAPI, origins []string) *Handler {
	return &Handler{
		auth:    auth,
		api:     api,
		notes:   notes,
		origins: origins,
	}
}

// CreateHTTPHandler creates the mux with auth, API, notes, health and optional
// MCP routes behind CORS and request logging.
func (h *Handler) CreateHTTPHandler(mcpHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	h.auth.RegisterRoutes(mux)
	h.api.RegisterRoutes(mux)
	h.notes.RegisterRoutes(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, map[string]string{"status": "ok"})
	})

	if mcpHandler != nil {
		mux.Handle(MCPPath, mcpHandler)
		logger.Info("Registered MCP endpoint", zap.String("path", MCPPath))
	}

	return middleware.Chain(mux,
		middleware.CORSWithOrigins(h.origins),
		middleware.Logging,
	)
}
