package auth

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/oauth2"
)

var (
	// ErrExchangeFailed indicates the authorization code could not be exchanged
	ErrExchangeFailed = fmt.Errorf("authorization code exchange failed")

	// ErrRefreshFailed indicates the refresh grant did not produce a token
	ErrRefreshFailed = fmt.Errorf("token refresh failed")

	// ErrAuthenticationRequired indicates no usable credential is stored
	ErrAuthenticationRequired = fmt.Errorf("authentication required")

	// ErrCallback indicates the authorization callback cannot be completed
	ErrCallback = fmt.Errorf("authorization callback error")

	// ErrTransient marks exchange or refresh failures caused by timeouts or the
	// network rather than by the issuer rejecting the request
	ErrTransient = fmt.Errorf("transient token endpoint failure")
)

// Callback failure reasons
const (
	ReasonMissingCode  = "missing_code"
	ReasonInvalidState = "invalid_state"
)

// CallbackError describes why an authorization callback was refused. Reason is
// the issuer's error parameter (for example access_denied) or one of the
// Reason constants.
type CallbackError struct {
	Reason      string
	Description string
}

func (e *CallbackError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization callback error: %s: %s", e.Reason, e.Description)
	}
	return fmt.Sprintf("authorization callback error: %s", e.Reason)
}

// Unwrap lets errors.Is match ErrCallback
func (e *CallbackError) Unwrap() error {
	return ErrCallback
}

// classify wraps a token endpoint error with kind, adding ErrTransient when the
// issuer never answered
func classify(kind, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		return fmt.Errorf("%w: issuer responded with status %d", kind, status)
	}
	if isTransient(err) {
		return fmt.Errorf("%w: %w: %v", kind, ErrTransient, err)
	}
	return fmt.Errorf("%w: %v", kind, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
