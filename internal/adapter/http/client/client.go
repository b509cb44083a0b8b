// Package client is the authenticated HTTP client for the Abrazar backend. It
// injects the stored bearer token, refreshes it once on 401 for all concurrent
// callers, and maps failures onto the domain error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/infrastructure/idgen"
	"github.com/iho/abrazar/internal/infrastructure/metrics"
	"github.com/iho/abrazar/internal/usecase"
)

// Backend auth endpoints, relative to the API base URL.
const (
	LoginPath   = "/auth/login"
	RefreshPath = "/auth/refresh"
	LogoutPath  = "/auth/logout"
	MePath      = "/auth/me"
)

const (
	// DefaultTimeout bounds every outbound request.
	DefaultTimeout = 10 * time.Second

	// IdempotencyKeyHeader carries the key that makes a replayed mutation safe.
	IdempotencyKeyHeader = "Idempotency-Key"

	maxResponseBytes = 4 << 20
	statisticsRoot   = "/statistics"
)

// Config holds the client's dependencies. Tokens is required.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	RefreshTimeout time.Duration
	HTTPClient     *http.Client

	Tokens   *usecase.TokenStore
	Sessions usecase.SessionRecorder
	IDs      usecase.IDGenerator
	Cache    *ResponseCache

	// QueryRetrier wraps GET helpers and MutationRetrier wraps the mutating
	// helpers. Nil means a single attempt.
	QueryRetrier    usecase.Retrier
	MutationRetrier usecase.Retrier

	// OnForcedLogout is called after a failed refresh has cleared the session.
	OnForcedLogout func(reason error)

	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// Request is one backend call. Path is relative to the API base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// IdempotencyKey is generated for mutating methods when empty.
	IdempotencyKey string

	// NoRefresh surfaces a 401 as is instead of refreshing.
	NoRefresh bool
}

// Response is a successful (2xx) backend response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unwraps the response envelope into v. See DecodeData.
func (r *Response) Decode(key string, v any) error {
	return DecodeData(r.Body, key, v)
}

func (r *Response) clone() *Response {
	out := &Response{Status: r.Status, Header: r.Header.Clone()}
	out.Body = append([]byte(nil), r.Body...)
	return out
}

// DecodeData decodes body into v, unwrapping {"data": {"<key>": ...}} first,
// then {"data": ...}, and falling back to the bare body.
func DecodeData(body []byte, key string, v any) error {
	raw := json.RawMessage(body)

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(body, &envelope) == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		raw = envelope.Data
		if key != "" {
			var inner map[string]json.RawMessage
			if json.Unmarshal(envelope.Data, &inner) == nil {
				if nested, ok := inner[key]; ok {
					raw = nested
				}
			}
		}
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Client talks to the backend on behalf of the stored session. It is safe for
// concurrent use; each instance owns its own refresh state.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration

	tokens          *usecase.TokenStore
	sessions        usecase.SessionRecorder
	ids             usecase.IDGenerator
	cache           *ResponseCache
	queryRetrier    usecase.Retrier
	mutationRetrier usecase.Retrier
	onForcedLogout  func(reason error)

	refresh *refresher
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// New creates a new Client.
func New(cfg Config) (*Client, error) {
	if cfg.Tokens == nil {
		return nil, errors.New("client: token store is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid base URL %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = cfg.Timeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Sessions == nil {
		cfg.Sessions = nopRecorder{}
	}
	if cfg.IDs == nil {
		cfg.IDs = idgen.NewULIDGenerator()
	}

	c := &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		http:            cfg.HTTPClient,
		timeout:         cfg.Timeout,
		tokens:          cfg.Tokens,
		sessions:        cfg.Sessions,
		ids:             cfg.IDs,
		cache:           cfg.Cache,
		queryRetrier:    cfg.QueryRetrier,
		mutationRetrier: cfg.MutationRetrier,
		onForcedLogout:  cfg.OnForcedLogout,
		logger:          cfg.Logger.With().Str("component", "api_client").Logger(),
		metrics:         cfg.Metrics,
	}
	c.refresh = &refresher{
		tokens:    cfg.Tokens,
		refresh:   c.performRefresh,
		onFailure: c.forceLogout,
		timeout:   cfg.RefreshTimeout,
		sessions:  cfg.Sessions,
		logger:    c.logger,
		metrics:   cfg.Metrics,
	}
	return c, nil
}

// Do sends req with the stored access token. A 401 on any request other than
// login starts (or joins) the single in-flight refresh and the request is then
// retried exactly once. If the refresh fails the session is cleared and the
// original 401 is returned.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if isMutating(req.Method) && req.IdempotencyKey == "" {
		req.IdempotencyKey = c.ids.Generate()
	}
	payload, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	token := c.tokens.AccessToken(ctx)
	resp, err := c.send(ctx, req, payload, token)
	if err == nil || !c.refreshable(req, err) {
		return resp, err
	}

	fresh, refreshErr := c.refresh.acquire(ctx, token)
	if refreshErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	resp, err = c.send(ctx, req, payload, fresh)
	if err != nil && IsAuthError(err) {
		c.sessions.LogAuthError(fmt.Sprintf("%s %s rejected after refresh", req.Method, req.Path))
	}
	return resp, err
}

// Get fetches path, serving from the response cache when fresh.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	key := cacheKey(path, query)
	if resp, ok := c.cache.Get(key); ok {
		return resp, nil
	}

	var resp *Response
	err := c.withRetry(ctx, c.queryRetrier, func() error {
		var err error
		resp, err = c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
		return err
	})
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, resp)
	return resp, nil
}

// Post sends a JSON body to path.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.mutate(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Patch sends a partial update to path.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.mutate(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Put replaces the resource at path.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.mutate(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.mutate(ctx, Request{Method: http.MethodDelete, Path: path})
}

// Refreshing reports whether a token refresh is in flight.
func (c *Client) Refreshing() bool {
	return c.refresh.inFlight()
}

// Cache returns the client's response cache, which may be nil.
func (c *Client) Cache() *ResponseCache {
	return c.cache
}

// mutate keeps one idempotency key across every attempt, then drops cached
// reads of the touched resource.
func (c *Client) mutate(ctx context.Context, req Request) (*Response, error) {
	req.IdempotencyKey = c.ids.Generate()

	var resp *Response
	err := c.withRetry(ctx, c.mutationRetrier, func() error {
		var err error
		resp, err = c.Do(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.cache.Invalidate(resourceRoot(req.Path))
	c.cache.Invalidate(statisticsRoot)
	return resp, nil
}

func (c *Client) withRetry(ctx context.Context, r usecase.Retrier, op func() error) error {
	if r == nil {
		return op()
	}
	return r.Retry(ctx, op)
}

func (c *Client) refreshable(req Request, err error) bool {
	if req.NoRefresh || req.Path == LoginPath || req.Path == RefreshPath {
		return false
	}
	return IsAuthError(err)
}

func (c *Client) send(ctx context.Context, req Request, payload []byte, token string) (*Response, error) {
	start := time.Now()
	resp, err := c.roundTrip(ctx, req, payload, token)
	c.metrics.ObserveClientRequest(req.Method, outcomeOf(err), time.Since(start))
	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, req Request, payload []byte, token string) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, c.endpoint(req), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if req.IdempotencyKey != "" {
		httpReq.Header.Set(IdempotencyKeyHeader, req.IdempotencyKey)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, req, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(ctx, req, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := newAPIError(req.Method, req.Path, httpResp.StatusCode, data, req.Path == LoginPath)
		if httpResp.StatusCode >= http.StatusInternalServerError {
			c.logger.Error().
				Str("method", req.Method).
				Str("path", req.Path).
				Int("status", httpResp.StatusCode).
				Str("backend_message", apiErr.BackendMessage).
				Msg("server error")
		}
		return nil, apiErr
	}

	return &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

func (c *Client) endpoint(req Request) string {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

// transportError classifies a failure to get any response. A caller that
// cancelled gets its own context error back.
func transportError(ctx context.Context, req Request, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrRequestTimeout, req.Method, req.Path, err)
	}
	return fmt.Errorf("%w: %s %s: %w", domain.ErrNetworkUnavailable, req.Method, req.Path, err)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrAuthExpired), errors.Is(err, domain.ErrCredentialsInvalid):
		return "unauthorized"
	case errors.Is(err, domain.ErrServerError):
		return "server_error"
	case errors.Is(err, domain.ErrClientError):
		return "client_error"
	case errors.Is(err, domain.ErrRequestTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrNetworkUnavailable):
		return "network"
	default:
		return "error"
	}
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return payload, nil
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func cacheKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// resourceRoot returns the first path segment, "/cases/42/assign" -> "/cases".
func resourceRoot(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return "/" + trimmed
}

type nopRecorder struct{}

var _ usecase.SessionRecorder = nopRecorder{}

func (nopRecorder) LogLogin(string)         {}
func (nopRecorder) LogLogout()              {}
func (nopRecorder) LogForcedLogout(string)  {}
func (nopRecorder) LogTokenExpired()        {}
func (nopRecorder) LogRefreshSuccess()      {}
func (nopRecorder) LogRefreshFailed(string) {}
func (nopRecorder) LogAuthError(string)     {}
