package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/auth/middleware"
	"github.com/brizzai/tubenotes/internal/auth/models"
	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/brizzai/tubenotes/internal/utils"
	"go.uber.org/zap"
)

// LoginPath starts the authorization flow
const LoginPath = "/auth/login"

// Authenticator is the part of auth.Client the handlers use
type Authenticator interface {
	AuthorizationURL(returnTo string) (string, error)
	CompleteAuthorization(ctx context.Context, query url.Values) (string, error)
	Logout(ctx context.Context) error
	Status(ctx context.Context) models.AuthStatus
}

// CompletionFunc observes the outcome of every callback
type CompletionFunc func(returnTo string, err error)

// Handler handles OAuth-related HTTP requests
type Handler struct {
	client     Authenticator
	onComplete CompletionFunc
}

// NewHandler creates a new Handler instance
func NewHandler(client Authenticator) *Handler {
	return &Handler{client: client}
}

// OnComplete registers a callback observer, used by the CLI login listener
func (h *Handler) OnComplete(fn CompletionFunc) {
	h.onComplete = fn
}

// RegisterRoutes registers the OAuth routes on mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET "+LoginPath, h.HandleLogin)
	mux.HandleFunc("GET /auth/callback", h.HandleCallback)
	mux.HandleFunc("POST /auth/logout", h.HandleLogout)
	mux.HandleFunc("GET /auth/status", h.HandleStatus)
}

// HandleLogin redirects to the consent page
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	returnTo := r.URL.Query().Get("return_to")
	if returnTo != "" && !middleware.IsLocalPath(returnTo) {
		utils.WriteError(w, "invalid_request", "return_to must be a relative path", http.StatusBadRequest)
		return
	}

	authURL, err := h.client.AuthorizationURL(returnTo)
	if err != nil {
		logger.Error("Failed to build authorization URL", zap.Error(err))
		utils.WriteError(w, "server_error", "could not start authorization", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback completes the authorization flow
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	returnTo, err := h.client.CompleteAuthorization(r.Context(), r.URL.Query())
	if h.onComplete != nil {
		h.onComplete(returnTo, err)
	}

	if err != nil {
		status, code := http.StatusInternalServerError, "server_error"
		var cbErr *auth.CallbackError
		switch {
		case errors.As(err, &cbErr):
			status, code = http.StatusBadRequest, cbErr.Reason
		case errors.Is(err, auth.ErrExchangeFailed) && errors.Is(err, auth.ErrTransient):
			status, code = http.StatusGatewayTimeout, "exchange_timeout"
		case errors.Is(err, auth.ErrExchangeFailed):
			status, code = http.StatusBadGateway, "exchange_failed"
		}
		logger.Warn("Authorization callback failed", zap.Error(err))
		utils.WriteJSONStatus(w, status, utils.ErrorResponse{
			Error:            code,
			ErrorDescription: err.Error(),
			LoginURL:         LoginPath,
		})
		return
	}

	if returnTo != "" && middleware.IsLocalPath(returnTo) {
		http.Redirect(w, r, returnTo, http.StatusFound)
		return
	}
	utils.WriteJSON(w, map[string]interface{}{
		"authenticated": true,
		"message":       "Signed in. You can close this window.",
	})
}

// HandleLogout revokes and clears the stored credential
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Logout(r.Context()); err != nil {
		logger.Error("Logout failed", zap.Error(err))
		utils.WriteError(w, "server_error", "failed to clear credentials", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStatus reports whether a credential is stored
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.client.Status(r.Context()))
}
