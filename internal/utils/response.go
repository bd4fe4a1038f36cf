package utils

import (
	"encoding/json"
	"net/http"

	"github.com/brizzai/tubenotes/internal/logger"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	LoginURL         string `json:"login_url,omitempty"`
}

// WriteJSON writes a 200 JSON response
func WriteJSON(w http.ResponseWriter, data interface{}) {
	WriteJSONStatus(w, http.StatusOK, data)
}

// WriteJSONStatus writes a JSON response with the given status
func WriteJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code, message string, status int) {
	WriteJSONStatus(w, status, ErrorResponse{Error: code, ErrorDescription: message})
}

// WriteAuthRequired writes a 401 pointing the caller at the login flow
func WriteAuthRequired(w http.ResponseWriter, loginURL string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="tubenotes", error="authentication_required"`)
	WriteJSONStatus(w, http.StatusUnauthorized, ErrorResponse{
		Error:            "authentication_required",
		ErrorDescription: "sign in with Google to access your YouTube data",
		LoginURL:         loginURL,
	})
}
