package httpclient

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/cbarbera80/pulsenet/trace"
)

const (
	// DefaultTimeout bounds each dispatch attempt unless the request
	// overrides it
	DefaultTimeout = 30 * time.Second

	// DefaultCacheTTL is the lifetime of cached responses unless configured
	// otherwise
	DefaultCacheTTL = 5 * time.Minute

	// DefaultMaxPayloadLogBytes caps the body bytes logged when payload
	// logging is enabled
	DefaultMaxPayloadLogBytes = 4096

	// HeaderXRequestID is the standard header name for request correlation
	HeaderXRequestID = trace.HeaderXRequestID
	// HeaderTraceParent is the W3C trace context header name
	HeaderTraceParent = trace.HeaderTraceParent
)

// Client defines the byte-level client interface. The typed entry points
// (Get, Post, Execute, ...) layer caching and JSON decoding on top of Do.
type Client interface {
	Get(ctx context.Context, req *Request) (*Response, error)
	Post(ctx context.Context, req *Request) (*Response, error)
	Put(ctx context.Context, req *Request) (*Response, error)
	Patch(ctx context.Context, req *Request) (*Response, error)
	Delete(ctx context.Context, req *Request) (*Response, error)
	Head(ctx context.Context, req *Request) (*Response, error)
	Options(ctx context.Context, req *Request) (*Response, error)
	Do(ctx context.Context, method string, req *Request) (*Response, error)
}

// Request represents a pending HTTP request. URL may be absolute or, when
// the client carries a base URL, a path appended to it. A zero Timeout
// falls back to the client's configured default.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration
	Auth    *BasicAuth
}

// CacheKey returns the cache identity of the request: the method and URL
// joined by an underscore. Two requests to the same method and URL share an
// entry regardless of headers or body. The format is stable and callers must
// treat the value as opaque.
func (r *Request) CacheKey() string {
	return cacheKey(r.Method, r.URL)
}

func cacheKey(method, absURL string) string {
	return method + "_" + absURL
}

// Response represents an HTTP response with tracking information.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// IsSuccess reports whether the response carries a 2xx status.
func (r *Response) IsSuccess() bool {
	return IsSuccessStatus(r.StatusCode)
}

// JSON decodes the response body into target. It returns a no-data error
// when the body is empty and a decoding error when the payload does not
// parse.
func (r *Response) JSON(target any) error {
	if len(r.Body) == 0 {
		return NewNoDataError("response body is empty")
	}
	if err := json.Unmarshal(r.Body, target); err != nil {
		return NewDecodingError("failed to decode response body", err)
	}
	return nil
}

func (r *Response) clone() *Response {
	if r == nil {
		return nil
	}
	out := *r
	out.Body = make([]byte, len(r.Body))
	copy(out.Body, r.Body)
	return &out
}

// Stats contains request execution statistics.
type Stats struct {
	// ElapsedTime covers the whole call including retries and their delays.
	ElapsedTime time.Duration
	// Attempts is the number of dispatches performed; 1 means no retry.
	Attempts int
	// CallCount is the client-wide sequence number of this call.
	CallCount int64
}

// BasicAuth contains basic authentication credentials.
type BasicAuth struct {
	Username string
	Password string
}

// RequestInterceptor transforms the transport-ready request before dispatch.
// Returning an error aborts the call immediately; interceptor failures are
// never offered to the retry policy.
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// TokenProvider supplies bearer tokens for the auth interceptor. An empty
// token with a nil error leaves the request unmodified.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenProviderFunc adapts a plain function to the TokenProvider interface.
type TokenProviderFunc func(ctx context.Context) (string, error)

// Token implements TokenProvider.
func (f TokenProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Config holds the client configuration assembled by the Builder.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	CacheTTL       time.Duration
	Interceptors   []RequestInterceptor
	BasicAuth      *BasicAuth
	DefaultHeaders map[string]string
	// LogPayloads enables debug-level logging of request and response bodies
	LogPayloads bool
	// MaxPayloadLogBytes caps the body bytes logged when LogPayloads is set
	MaxPayloadLogBytes int
}
