package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPRequestBuilder turns Calls into HTTP requests against a base URL
type HTTPRequestBuilder struct {
	baseURL string
	headers map[string]string
}

// NewHTTPRequestBuilder creates a new HTTPRequestBuilder
func NewHTTPRequestBuilder(baseURL string, headers map[string]string) *HTTPRequestBuilder {
	return &HTTPRequestBuilder{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
	}
}

// BuildRequest builds the request for call and applies authentication
func (b *HTTPRequestBuilder) BuildRequest(ctx context.Context, call *Call, authMgr AuthManager) (*Request, error) {
	if call == nil {
		return nil, fmt.Errorf("call is nil")
	}
	method := call.Method
	if method == "" {
		method = http.MethodGet
	}

	fullURL, err := b.buildURL(call.Path, call.Query)
	if err != nil {
		return nil, err
	}

	body, contentType, err := createRequestBody(call.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request body: %w", err)
	}

	headers := make(map[string]string, len(b.headers)+len(call.Headers))
	for k, v := range b.headers {
		headers[k] = v
	}
	for k, v := range call.Headers {
		headers[k] = v
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	if authMgr != nil {
		if err := authMgr.ApplyAuth(httpReq); err != nil {
			return nil, fmt.Errorf("failed to apply authentication: %w", err)
		}
	}

	return &Request{
		URL:         httpReq.URL.String(),
		Method:      method,
		Body:        body,
		Headers:     headers,
		ContentType: contentType,
		HttpRequest: httpReq,
	}, nil
}

func (b *HTTPRequestBuilder) buildURL(path string, query url.Values) (string, error) {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(b.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid request url: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for key, values := range query {
			for _, v := range values {
				if v != "" {
					q.Add(key, v)
				}
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func createRequestBody(body interface{}) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(jsonData), "application/json", nil
}
