package requester

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brizzai/tubenotes/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// HTTPRequester builds, paces and executes API calls
type HTTPRequester struct {
	client  *http.Client
	builder *HTTPRequestBuilder
	limiter *rate.Limiter
	authMgr AuthManager
}

// NewHTTPRequester creates a new HTTPRequester
func NewHTTPRequester(opts Options) *HTTPRequester {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	authMgr := opts.Auth
	if authMgr == nil {
		authMgr = NoAuth{}
	}

	return &HTTPRequester{
		client:  &http.Client{Timeout: timeout},
		builder: NewHTTPRequestBuilder(opts.BaseURL, opts.Headers),
		limiter: limiter,
		authMgr: authMgr,
	}
}

// SetTimeout sets the timeout for the HTTP client
func (r *HTTPRequester) SetTimeout(timeout time.Duration) {
	r.client.Timeout = timeout
}

// SetHTTPClient swaps the underlying client, keeping the configured timeout
func (r *HTTPRequester) SetHTTPClient(c *http.Client) {
	timeout := r.client.Timeout
	r.client = c
	if r.client.Timeout == 0 {
		r.client.Timeout = timeout
	}
}

// Execute runs call. Authentication errors are returned unchanged in the
// chain and no request is sent. Non-2xx statuses are not errors here.
func (r *HTTPRequester) Execute(ctx context.Context, call *Call) (*Response, error) {
	authMgr := r.authMgr
	if call != nil && call.Auth != nil {
		authMgr = call.Auth
	}

	req, err := r.builder.BuildRequest(ctx, call, authMgr)
	if err != nil {
		return nil, err
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	logger.Debug("request route", zap.String("method", req.Method), zap.String("path", req.HttpRequest.URL.Path))

	resp, err := r.execute(req)
	if err != nil {
		logger.Error("failed to execute request", zap.String("path", req.HttpRequest.URL.Path), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (r *HTTPRequester) execute(req *Request) (*Response, error) {
	resp, err := r.client.Do(req.HttpRequest)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Error("Failed to close response body", zap.Error(closeErr))
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       bodyBytes,
		Headers:    resp.Header,
	}, nil
}
