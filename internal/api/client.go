// Package api is the HTTP client for the quote/order backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"quotedesk/internal/logging"
)

var apiLog = logging.ForComponent(logging.CompAPI)

// SessionCookieName is the cookie carrying the backend admin session
const SessionCookieName = "session"

// maxBodyBytes bounds how much of a response is read
const maxBodyBytes = 8 << 20

// Options configure a Client. Zero values select defaults.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	Retries       int
	RetryBackoff  time.Duration
	RatePerSecond float64
	Burst         int
	SessionCookie string
	HTTPClient    *http.Client
}

// Client talks to the backend. Reads that are already in flight are shared
// between callers; a mutation refuses to start while the same action runs.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	retries int
	backoff time.Duration
	limiter *rate.Limiter
	session string

	reads singleflight.Group

	mu      sync.Mutex
	running map[string]struct{}
}

// New creates a client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", opts.BaseURL)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 500 * time.Millisecond
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL: base,
		http:    hc,
		retries: opts.Retries,
		backoff: opts.RetryBackoff,
		limiter: rate.NewLimiter(limit, opts.Burst),
		session: opts.SessionCookie,
		running: make(map[string]struct{}),
	}, nil
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string { return c.baseURL.String() }

// envelope is the common part of every JSON response
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// request describes one logical call
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	retry       bool
}

// response is what a successful attempt produced
type response struct {
	status int
	body   []byte
	url    *url.URL
	header http.Header
}

// read performs an idempotent JSON GET, sharing in-flight calls by key.
func (c *Client) read(ctx context.Context, path string, query url.Values, out any) error {
	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}
	v, err, shared := c.reads.Do(key, func() (any, error) {
		resp, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query, retry: true})
		if err != nil {
			return nil, err
		}
		return resp.body, nil
	})
	if shared {
		apiLog.Debug("read_shared", slog.String("key", key))
	}
	if err != nil {
		return err
	}
	return decode(v.([]byte), out)
}

// mutate runs a state-changing JSON call under the in-flight guard for action.
func (c *Client) mutate(ctx context.Context, action, method, path string, payload, out any) error {
	release, err := c.begin(action)
	if err != nil {
		return err
	}
	defer release()

	var body []byte
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s: %w", action, err)
		}
	}
	resp, err := c.do(ctx, request{method: method, path: path, body: body, contentType: "application/json"})
	if err != nil {
		return err
	}
	return decode(resp.body, out)
}

// begin marks action as running, or fails with ErrInFlight.
func (c *Client) begin(action string) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.running[action]; busy {
		return nil, fmt.Errorf("%s: %w", action, ErrInFlight)
	}
	c.running[action] = struct{}{}
	return func() {
		c.mu.Lock()
		delete(c.running, action)
		c.mu.Unlock()
	}, nil
}

// do sends req, retrying network failures and retryable statuses when
// req.retry is set. JSON envelopes with success=false become *APIError.
func (c *Client) do(ctx context.Context, req request) (*response, error) {
	attempts := 1
	if req.retry {
		attempts += c.retries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * c.backoff
			apiLog.Debug("retrying",
				slog.String("path", req.path),
				slog.Int("attempt", attempt+1),
				slog.Duration("wait", wait),
				slog.String("error", lastErr.Error()))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		resp, err := c.attempt(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, req request) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if c.session != "" {
		httpReq.AddCookie(&http.Cookie{Name: SessionCookieName, Value: c.session})
	}

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		apiLog.Warn("request_failed",
			slog.String("method", req.method),
			slog.String("path", req.path),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.path, err)
	}

	apiLog.Debug("request",
		slog.String("method", req.method),
		slog.String("path", req.path),
		slog.Int("status", httpResp.StatusCode),
		slog.String("request_id", requestID),
		slog.Duration("took", time.Since(start)))

	if err := checkStatus(httpResp, data); err != nil {
		return nil, err
	}
	return &response{status: httpResp.StatusCode, body: data, url: httpResp.Request.URL, header: httpResp.Header}, nil
}

// checkStatus turns HTTP errors and failed envelopes into *APIError
func checkStatus(resp *http.Response, data []byte) error {
	var env envelope
	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "json")
	if isJSON && len(data) > 0 {
		_ = json.Unmarshal(data, &env)
	}

	if resp.StatusCode >= 400 {
		msg := env.Error
		if resp.StatusCode == http.StatusUnauthorized && msg == "" {
			msg = "Authentication required"
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	return nil
}

func decode(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
