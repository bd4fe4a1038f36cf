package requester

import (
	"net/url"
	"time"
)

// Call describes one API call relative to a requester's base URL
type Call struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{} // JSON encoded when non-nil
	Auth    AuthManager // overrides the requester default when non-nil
}

// Get is shorthand for a GET call
func Get(path string, query url.Values) *Call {
	return &Call{Method: "GET", Path: path, Query: query}
}

// Post is shorthand for a POST call with a JSON body
func Post(path string, body interface{}) *Call {
	return &Call{Method: "POST", Path: path, Body: body}
}

// WithAuth sets the call's auth manager
func (c *Call) WithAuth(a AuthManager) *Call {
	c.Auth = a
	return c
}

// Options configures an HTTPRequester
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	Headers           map[string]string
	RequestsPerSecond float64 // zero disables pacing
	Burst             int
	Auth              AuthManager
}
