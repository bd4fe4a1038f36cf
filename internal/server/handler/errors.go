package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/brizzai/tubenotes/internal/auth"
	"github.com/brizzai/tubenotes/internal/auth/handlers"
	"github.com/brizzai/tubenotes/internal/logger"
	"github.com/brizzai/tubenotes/internal/notes"
	"github.com/brizzai/tubenotes/internal/summary"
	"github.com/brizzai/tubenotes/internal/utils"
	"github.com/brizzai/tubenotes/internal/youtube"
	"go.uber.org/zap"
)

// Classify maps a service error to an HTTP status and error code
func Classify(err error) (int, string) {
	var (
		apiErr *youtube.APIError
		gwErr  *summary.GatewayError
	)
	switch {
	case errors.Is(err, auth.ErrAuthenticationRequired):
		return http.StatusUnauthorized, "authentication_required"
	case errors.Is(err, youtube.ErrInvalidArgument), errors.Is(err, summary.ErrInvalidArgument), errors.Is(err, notes.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, notes.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, youtube.ErrCommentsUnavailable):
		return http.StatusForbidden, "comments_unavailable"
	case errors.Is(err, summary.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, summary.ErrCreditsDepleted):
		return http.StatusPaymentRequired, "credits_depleted"
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound, "not_found"
		}
		return http.StatusBadGateway, "youtube_error"
	case errors.As(err, &gwErr):
		return http.StatusBadGateway, "ai_error"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "server_error"
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := Classify(err)
	if status == http.StatusUnauthorized {
		utils.WriteAuthRequired(w, handlers.LoginPath+"?return_to="+url.QueryEscape(r.URL.Path))
		return
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	utils.WriteError(w, code, err.Error(), status)
}
