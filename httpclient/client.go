package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/cbarbera80/pulsenet/cache"
	"github.com/cbarbera80/pulsenet/logger"
	"github.com/cbarbera80/pulsenet/metrics"
	"github.com/cbarbera80/pulsenet/retry"
)

const (
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"
)

var allowedMethods = map[string]bool{
	nethttp.MethodGet:     true,
	nethttp.MethodPost:    true,
	nethttp.MethodPut:     true,
	nethttp.MethodPatch:   true,
	nethttp.MethodDelete:  true,
	nethttp.MethodHead:    true,
	nethttp.MethodOptions: true,
}

// client implements the Client interface
type client struct {
	httpClient *nethttp.Client
	logger     logger.Logger
	config     *Config
	policy     retry.Policy
	store      cache.Store
	cacheOn    bool
	limiter    *rate.Limiter
	group      *singleflight.Group
	collector  *metrics.Collector
	tracer     oteltrace.Tracer
	callCount  int64
}

// Get performs a GET request
func (c *client) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodGet, req)
}

// Post performs a POST request
func (c *client) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, req)
}

// Put performs a PUT request
func (c *client) Put(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPut, req)
}

// Patch performs a PATCH request
func (c *client) Patch(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPatch, req)
}

// Delete performs a DELETE request
func (c *client) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodDelete, req)
}

// Head performs a HEAD request
func (c *client) Head(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodHead, req)
}

// Options performs an OPTIONS request
func (c *client) Options(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodOptions, req)
}

// Do performs an HTTP request with the specified method: it resolves the
// URL, runs the interceptor chain, dispatches, and loops per the retry
// policy. Non-2xx responses are returned alongside their HTTP error so
// callers can inspect the served payload.
func (c *client) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	if err := c.validateRequest(method, req); err != nil {
		return nil, err
	}

	absURL, err := c.resolveURL(req.URL)
	if err != nil {
		return nil, err
	}

	if c.group != nil && method == nethttp.MethodGet {
		return c.coalesce(ctx, method, absURL, req)
	}
	return c.execute(ctx, method, absURL, req)
}

// flightResult carries a finished exchange through singleflight, which has
// no slot for a response accompanying an error.
type flightResult struct {
	resp *Response
	err  error
}

// coalesce funnels concurrent GETs for the same method and URL into a single
// dispatch. Joiners receive a copy of the winner's response; the first
// caller's context drives the shared exchange.
func (c *client) coalesce(ctx context.Context, method, absURL string, req *Request) (*Response, error) {
	v, _, shared := c.group.Do(cacheKey(method, absURL), func() (any, error) {
		resp, err := c.execute(ctx, method, absURL, req)
		return flightResult{resp: resp, err: err}, nil
	})

	fr := v.(flightResult)
	if shared {
		c.collector.RecordCoalesced(method, hostOf(absURL))
		return fr.resp.clone(), fr.err
	}
	return fr.resp, fr.err
}

// execute wraps one logical call with its span and metrics.
func (c *client) execute(ctx context.Context, method, absURL string, req *Request) (*Response, error) {
	start := time.Now()
	callCount := atomic.AddInt64(&c.callCount, 1)
	host := hostOf(absURL)

	ctx, span := c.tracer.Start(ctx, "HTTP "+method,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", absURL),
		))
	defer span.End()

	c.collector.RecordRequestStart(method, host)
	defer c.collector.RecordRequestEnd(method, host)

	resp, err := c.dispatchLoop(ctx, start, callCount, method, absURL, host, req)

	status := 0
	if resp != nil {
		status = resp.StatusCode
		span.SetAttributes(
			attribute.Int("http.response.status_code", resp.StatusCode),
			attribute.Int("http.request.resend_count", resp.Stats.Attempts-1),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(ErrorTypeOf(err)))
		c.collector.RecordError(string(ErrorTypeOf(err)), method, host)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	c.collector.RecordRequest(method, host, status, time.Since(start))

	return resp, err
}

// dispatchLoop runs attempts until one succeeds or the policy declines.
// The attempt counter is 1-based; the http.Request is rebuilt every pass so
// bodies re-send correctly.
func (c *client) dispatchLoop(ctx context.Context, start time.Time, callCount int64, method, absURL, host string, req *Request) (*Response, error) {
	timeout := c.timeoutFor(req)

	for attempt := 1; ; attempt++ {
		c.logRequest(method, absURL, req, attempt)

		httpReq, err := c.buildRequest(ctx, method, absURL, req)
		if err != nil {
			// URL and interceptor failures are fatal, never offered to the policy.
			return nil, err
		}

		httpResp, body, dispatchErr := c.dispatch(ctx, httpReq, timeout)

		var resp *Response
		var failure error
		switch {
		case dispatchErr != nil:
			if retry.IsTimeout(dispatchErr) {
				failure = NewTimeoutError("request timed out", timeout, dispatchErr)
			} else {
				failure = NewNetworkError("request dispatch failed", dispatchErr)
			}
		case httpResp == nil:
			failure = NewInvalidResponseError("transport returned neither response nor error")
		default:
			resp = &Response{
				StatusCode: httpResp.StatusCode,
				Body:       body,
				Headers:    httpResp.Header,
				Stats: Stats{
					ElapsedTime: time.Since(start),
					Attempts:    attempt,
					CallCount:   callCount,
				},
			}
			if !resp.IsSuccess() {
				failure = NewHTTPError(
					fmt.Sprintf("request failed with status %d", resp.StatusCode),
					resp.StatusCode,
					resp.Body,
				)
			}
		}

		if failure == nil {
			c.logResponse(resp)
			return resp, nil
		}

		// A dead caller context makes further attempts pointless even when
		// the policy would allow them.
		if ctx.Err() == nil && c.policy.ShouldRetry(failure, attempt) {
			delay := c.policy.Delay(attempt)
			c.logRetry(method, absURL, attempt, delay, failure)
			c.collector.RecordRetry(method, host)
			if !sleepContext(ctx, delay) {
				return nil, NewNetworkError("retry wait aborted", ctx.Err())
			}
			continue
		}

		if resp != nil {
			c.logResponse(resp)
			return resp, failure
		}
		return nil, failure
	}
}

// dispatch performs a single attempt bounded by the per-attempt timeout,
// reading the full body inside the bound so slow responses count against it.
// A nil response with nil error is passed through for the caller to classify.
func (c *client) dispatch(ctx context.Context, httpReq *nethttp.Request, timeout time.Duration) (*nethttp.Response, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, err
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpResp, err := c.httpClient.Do(httpReq.WithContext(attemptCtx))
	if err != nil {
		return nil, nil, err
	}
	if httpResp == nil {
		return nil, nil, nil
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, nil, err
	}
	return httpResp, body, nil
}

// validateRequest validates the request before sending
func (c *client) validateRequest(method string, req *Request) error {
	if req == nil {
		return NewValidationError("request cannot be nil", "request")
	}
	if req.URL == "" {
		return NewValidationError("URL cannot be empty", "url")
	}
	if !allowedMethods[method] {
		return NewValidationError(fmt.Sprintf("unsupported method %q", method), "method")
	}
	return nil
}

// resolveURL turns the request URL into an absolute one. Relative paths are
// appended to the configured base URL as path components; without a base
// the URL must already be absolute.
func (c *client) resolveURL(raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", NewInvalidURLError(raw, err)
	}
	if ref.IsAbs() {
		if ref.Host == "" {
			return "", NewInvalidURLError(raw, errors.New("URL has no host"))
		}
		return ref.String(), nil
	}

	if c.config.BaseURL == "" {
		return "", NewInvalidURLError(raw, errors.New("URL must be absolute when no base URL is configured"))
	}

	joined, err := url.JoinPath(c.config.BaseURL, ref.Path)
	if err != nil {
		return "", NewInvalidURLError(raw, err)
	}
	abs, err := url.Parse(joined)
	if err != nil {
		return "", NewInvalidURLError(raw, err)
	}
	abs.RawQuery = ref.RawQuery
	abs.Fragment = ref.Fragment
	return abs.String(), nil
}

// buildRequest constructs an *http.Request, applies headers/auth, and runs
// the interceptor chain.
func (c *client) buildRequest(ctx context.Context, method, absURL string, req *Request) (*nethttp.Request, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, absURL, body)
	if err != nil {
		return nil, NewInvalidURLError(absURL, err)
	}

	c.applyHeaders(httpReq, method, req)
	c.applyAuth(httpReq, req)

	if err := c.runInterceptors(ctx, httpReq); err != nil {
		return nil, NewInterceptorError("request interceptor failed", "request", err)
	}
	return httpReq, nil
}

// applyHeaders applies headers to the HTTP request
func (c *client) applyHeaders(httpReq *nethttp.Request, method string, req *Request) {
	// Apply default headers first
	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}

	// Apply request-specific headers (these override defaults)
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	// Body-carrying verbs default to JSON unless the caller chose a type
	if req.Body != nil && httpReq.Header.Get(contentTypeHeader) == "" && methodCarriesJSON(method) {
		httpReq.Header.Set(contentTypeHeader, contentTypeJSON)
	}
}

func methodCarriesJSON(method string) bool {
	switch method {
	case nethttp.MethodPost, nethttp.MethodPut, nethttp.MethodPatch:
		return true
	default:
		return false
	}
}

// applyAuth applies basic authentication to the HTTP request
func (c *client) applyAuth(httpReq *nethttp.Request, req *Request) {
	// Request-specific auth takes precedence
	auth := req.Auth
	if auth == nil {
		auth = c.config.BasicAuth
	}

	if auth != nil {
		httpReq.SetBasicAuth(auth.Username, auth.Password)
	}
}

// runInterceptors executes all request interceptors in configuration order
func (c *client) runInterceptors(ctx context.Context, req *nethttp.Request) error {
	for _, interceptor := range c.config.Interceptors {
		if err := interceptor(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (c *client) timeoutFor(req *Request) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	if c.config.Timeout > 0 {
		return c.config.Timeout
	}
	return DefaultTimeout
}

func (c *client) cacheEnabled() bool {
	return c.cacheOn
}

func (c *client) cacheTTL() time.Duration {
	if c.config.CacheTTL > 0 {
		return c.config.CacheTTL
	}
	return DefaultCacheTTL
}

// cacheFetch returns the cached payload for key. Misses surface as
// cache.ErrNotFound; anything else is a failing store.
func (c *client) cacheFetch(ctx context.Context, key, method, host string) ([]byte, error) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			c.collector.RecordCacheMiss(method, host)
			return nil, err
		}
		return nil, NewCacheError("cache read failed", err)
	}
	c.collector.RecordCacheHit(method, host)
	return raw, nil
}

// evictCorrupt removes an entry whose payload no longer decodes. Eviction
// failures are logged, not surfaced: the call still has the network path.
func (c *client) evictCorrupt(ctx context.Context, key string) {
	c.logger.Warn().Str("cache_key", key).Msg("evicting corrupt cache entry")
	if err := c.store.Remove(ctx, key); err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to evict corrupt cache entry")
	}
}

// cachePopulate writes a decoded response's raw payload back to the store.
// Write failures are logged, not surfaced: the caller already has its value.
func (c *client) cachePopulate(ctx context.Context, key string, body []byte) {
	if len(body) == 0 {
		return
	}
	if err := c.store.Set(ctx, key, body, c.cacheTTL()); err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to cache response")
	}
}

func hostOf(absURL string) string {
	if u, err := url.Parse(absURL); err == nil && u.Host != "" {
		return u.Host
	}
	return "unknown"
}

// sleepContext waits for d unless ctx ends first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
