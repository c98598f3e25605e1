// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Configuration constants for the backend client.
const (
	// DefaultBaseURL matches a local backend development server.
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultTimeout bounds one request. The send endpoint waits for the LLM.
	DefaultTimeout = 120 * time.Second

	// DefaultRateLimit and DefaultBurst smooth bursts of list refreshes.
	DefaultRateLimit = 10
	DefaultBurst     = 20

	// MaxResponseSize caps response bodies read into memory.
	MaxResponseSize = 10 * 1024 * 1024

	// CSRFCookieName and CSRFHeaderName follow the backend's CSRF scheme.
	CSRFCookieName = "csrftoken"
	CSRFHeaderName = "X-CSRFToken"

	userAgent = "agentdesk/1.0"
)

// ModelsContract selects how the available-models payload is decoded.
type ModelsContract string

const (
	// ModelsMapping decodes {"id": {...}}, the shape the backend emits.
	ModelsMapping ModelsContract = "mapping"
	// ModelsArray decodes the legacy [{"id": ...}] or ["id"] payload.
	ModelsArray ModelsContract = "array"
)

// Options configures a Client. Zero values take the package defaults.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	RateLimit      float64
	Burst          int
	ModelsContract ModelsContract
	// HTTPClient overrides the transport; its Jar is replaced.
	HTTPClient *http.Client
	// Logger receives API_REQUEST records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the backend REST API. It is safe for concurrent use.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	jar            *cookiejar.Jar
	limiter        *rate.Limiter
	timeout        time.Duration
	modelsContract ModelsContract
	logger         *slog.Logger
}

// New creates a Client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimSuffix(base, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base URL %q", base)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid base URL %q: must be absolute", base)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cookie jar")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	} else {
		clone := *httpClient
		httpClient = &clone
	}
	httpClient.Jar = jar

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}
	contract := opts.ModelsContract
	if contract == "" {
		contract = ModelsMapping
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:        u,
		httpClient:     httpClient,
		jar:            jar,
		limiter:        rate.NewLimiter(rate.Limit(limit), burst),
		timeout:        timeout,
		modelsContract: contract,
		logger:         logger,
	}, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// endpoint joins path onto the API root. path must start with "/".
func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// do performs one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded 2xx response. Non-2xx responses become *Error.
func (c *Client) do(ctx context.Context, action, method, path string, body, out interface{}) error {
	raw, err := c.doRaw(ctx, action, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Action: action, Message: "unexpected response: " + err.Error()}
	}
	return nil
}

// doRaw is do without decoding; it returns the response body.
func (c *Client) doRaw(ctx context.Context, action, method, path string, body interface{}) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrapf(err, "%s: rate limiter", action)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: encode request", action)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: build request", action)
	}
	c.setHeaders(req, body != nil)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Warn("API_REQUEST", "method", method, "path", path, "error", err, "duration", duration)
		return nil, &Error{Action: action, Message: transportMessage(ctx, err)}
	}
	defer resp.Body.Close()

	c.logger.Info("API_REQUEST", "method", method, "path", path, "status", resp.StatusCode, "duration", duration)

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, &Error{Action: action, Status: resp.StatusCode, Message: "failed to read response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Action: action, Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}
	return data, nil
}

// setHeaders sets the JSON headers and, on unsafe methods, the CSRF token.
func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}

	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return
	}
	if token := c.csrfToken(); token != "" {
		req.Header.Set(CSRFHeaderName, token)
	}
	// The backend's CSRF check over HTTPS requires a same-origin Referer.
	if c.baseURL.Scheme == "https" {
		req.Header.Set("Referer", c.baseURL.Scheme+"://"+c.baseURL.Host+"/")
	}
}

func (c *Client) csrfToken() string {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == CSRFCookieName {
			return ck.Value
		}
	}
	return ""
}

func transportMessage(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "request timed out"
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return "request cancelled"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
