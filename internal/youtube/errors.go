package youtube

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrCommentsUnavailable = errors.New("comments unavailable: quota exceeded or comments disabled for this video")
)

// APIError is a non-2xx answer from the Data API
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("youtube %s: %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("youtube %s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

func newAPIError(op string, status int, body []byte) *APIError {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{Op: op, StatusCode: status}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Message = payload.Error.Message
	}
	return apiErr
}
