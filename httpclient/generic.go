package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/cbarbera80/pulsenet/cache"
)

// RequestOption mutates a request before it is executed
type RequestOption func(*Request)

// WithHeader sets a single request header
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithHeaders merges headers into the request
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string, len(headers))
		}
		for key, value := range headers {
			r.Headers[key] = value
		}
	}
}

// WithTimeout overrides the per-attempt timeout for this request
func WithTimeout(timeout time.Duration) RequestOption {
	return func(r *Request) {
		r.Timeout = timeout
	}
}

// WithAuth sets basic authentication for this request, overriding any
// client-level credentials
func WithAuth(username, password string) RequestOption {
	return func(r *Request) {
		r.Auth = &BasicAuth{Username: username, Password: password}
	}
}

// Execute performs the request and decodes the JSON response body into T.
// An empty Method defaults to GET; an empty body decodes to the zero value.
//
// When the client was built with a cache, a fresh cached payload
// short-circuits dispatch entirely and the store is read once per call;
// retries always go to the network. Payloads decoded from the network are
// written back after a successful decode. Entries that no longer decode are
// evicted and the call falls through to the network.
func Execute[T any](ctx context.Context, c Client, req *Request) (T, error) {
	var zero T
	if c == nil {
		return zero, NewValidationError("client cannot be nil", "client")
	}
	if req == nil {
		return zero, NewValidationError("request cannot be nil", "request")
	}
	if req.Method == "" {
		req.Method = nethttp.MethodGet
	}

	// The cache lives behind the concrete client; foreign Client
	// implementations go straight to Do.
	impl, _ := c.(*client)

	var key string
	if impl != nil && impl.cacheEnabled() {
		if absURL, err := impl.resolveURL(req.URL); err == nil {
			key = cacheKey(req.Method, absURL)
			value, hit, err := lookupCached[T](ctx, impl, key, req.Method, hostOf(absURL))
			if err != nil {
				return zero, err
			}
			if hit {
				impl.logCacheHit(req.Method, absURL)
				return value, nil
			}
		}
	}

	resp, err := c.Do(ctx, req.Method, req)
	if err != nil {
		return zero, err
	}

	value, err := decodeBody[T](resp.Body)
	if err != nil {
		return zero, err
	}
	if impl != nil && key != "" {
		impl.cachePopulate(ctx, key, resp.Body)
	}
	return value, nil
}

// lookupCached returns the decoded entry for key when a fresh one exists.
// Misses report (zero, false, nil); corrupt entries are evicted and count as
// misses; a failing store surfaces as a cache error.
func lookupCached[T any](ctx context.Context, impl *client, key, method, host string) (T, bool, error) {
	var zero T
	raw, err := impl.cacheFetch(ctx, key, method, host)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return zero, false, nil
		}
		return zero, false, err
	}

	value, err := decodeBody[T](raw)
	if err != nil {
		impl.evictCorrupt(ctx, key)
		return zero, false, nil
	}
	return value, true, nil
}

// decodeBody unmarshals a JSON payload into T. An empty body yields the zero
// value: HEAD responses and 204s carry no payload.
func decodeBody[T any](body []byte) (T, error) {
	var value T
	if len(body) == 0 {
		return value, nil
	}
	if err := json.Unmarshal(body, &value); err != nil {
		return value, NewDecodingError("failed to decode response body", err)
	}
	return value, nil
}

// marshalBody turns a request body into raw bytes. Byte slices and
// json.RawMessage pass through untouched; anything else is JSON-encoded.
func marshalBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, NewEncodingError("failed to encode request body", err)
		}
		return raw, nil
	}
}

func newRequest(method, url string, body []byte, opts []RequestOption) *Request {
	req := &Request{
		Method: method,
		URL:    url,
		Body:   body,
	}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// Get performs a GET request and decodes the JSON response into T
func Get[T any](ctx context.Context, c Client, url string, opts ...RequestOption) (T, error) {
	return Execute[T](ctx, c, newRequest(nethttp.MethodGet, url, nil, opts))
}

// Post performs a POST request with the given body and decodes the JSON
// response into T
func Post[T any](ctx context.Context, c Client, url string, body any, opts ...RequestOption) (T, error) {
	raw, err := marshalBody(body)
	if err != nil {
		var zero T
		return zero, err
	}
	return Execute[T](ctx, c, newRequest(nethttp.MethodPost, url, raw, opts))
}

// Put performs a PUT request with the given body and decodes the JSON
// response into T
func Put[T any](ctx context.Context, c Client, url string, body any, opts ...RequestOption) (T, error) {
	raw, err := marshalBody(body)
	if err != nil {
		var zero T
		return zero, err
	}
	return Execute[T](ctx, c, newRequest(nethttp.MethodPut, url, raw, opts))
}

// Patch performs a PATCH request with the given body and decodes the JSON
// response into T
func Patch[T any](ctx context.Context, c Client, url string, body any, opts ...RequestOption) (T, error) {
	raw, err := marshalBody(body)
	if err != nil {
		var zero T
		return zero, err
	}
	return Execute[T](ctx, c, newRequest(nethttp.MethodPatch, url, raw, opts))
}

// Delete performs a DELETE request and decodes the JSON response into T
func Delete[T any](ctx context.Context, c Client, url string, opts ...RequestOption) (T, error) {
	return Execute[T](ctx, c, newRequest(nethttp.MethodDelete, url, nil, opts))
}

// Options performs an OPTIONS request and decodes the JSON response into T
func Options[T any](ctx context.Context, c Client, url string, opts ...RequestOption) (T, error) {
	return Execute[T](ctx, c, newRequest(nethttp.MethodOptions, url, nil, opts))
}

// Head performs a HEAD request. There is no body to decode, so the raw
// response is returned for header inspection.
func Head(ctx context.Context, c Client, url string, opts ...RequestOption) (*Response, error) {
	if c == nil {
		return nil, NewValidationError("client cannot be nil", "client")
	}
	return c.Do(ctx, nethttp.MethodHead, newRequest(nethttp.MethodHead, url, nil, opts))
}
