package httpclient

import (
	nethttp "net/http"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/cbarbera80/pulsenet/cache"
	"github.com/cbarbera80/pulsenet/logger"
	"github.com/cbarbera80/pulsenet/metrics"
	"github.com/cbarbera80/pulsenet/retry"
)

const tracerName = "github.com/cbarbera80/pulsenet/httpclient"

// NewClient creates a client with default configuration: 30s attempt
// timeout, no retries, caching disabled. A nil logger keeps it silent.
func NewClient(log logger.Logger) Client {
	return NewBuilder(log).Build()
}

// Builder provides a fluent interface for configuring the client.
// It is not safe for concurrent use; Build the client before sharing it.
type Builder struct {
	config     *Config
	logger     logger.Logger
	policy     retry.Policy
	store      cache.Store
	cacheOn    bool
	transport  nethttp.RoundTripper
	httpClient *nethttp.Client
	limiter    *rate.Limiter
	coalesce   bool
	collector  *metrics.Collector
}

// NewBuilder creates a new client builder. A nil logger keeps the client
// silent.
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		config: &Config{
			Timeout:        DefaultTimeout,
			CacheTTL:       DefaultCacheTTL,
			Interceptors:   []RequestInterceptor{},
			DefaultHeaders: make(map[string]string),
		},
		logger: log,
		policy: retry.None{},
		store:  cache.NewNoopStore(),
	}
}

// WithBaseURL sets the base URL that relative request paths are appended to
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.BaseURL = baseURL
	return b
}

// WithTimeout sets the per-attempt timeout for requests that don't carry
// their own
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithRetryPolicy sets the retry policy consulted after failed attempts.
// Passing nil restores the no-retry default.
func (b *Builder) WithRetryPolicy(policy retry.Policy) *Builder {
	if policy == nil {
		policy = retry.None{}
	}
	b.policy = policy
	return b
}

// WithCache enables response caching through the given store with the given
// entry TTL. A nil store disables caching again.
func (b *Builder) WithCache(store cache.Store, ttl time.Duration) *Builder {
	if store == nil {
		b.store = cache.NewNoopStore()
		b.cacheOn = false
		return b
	}
	b.store = store
	b.cacheOn = true
	if ttl > 0 {
		b.config.CacheTTL = ttl
	}
	return b
}

// WithMemoryCache enables response caching backed by a fresh in-memory store
func (b *Builder) WithMemoryCache(ttl time.Duration) *Builder {
	return b.WithCache(cache.NewMemoryStore(), ttl)
}

// WithCacheTTL adjusts the entry TTL without touching the store
func (b *Builder) WithCacheTTL(ttl time.Duration) *Builder {
	if ttl > 0 {
		b.config.CacheTTL = ttl
	}
	return b
}

// WithTransport sets the http.RoundTripper used for dispatch. Ignored when
// a full http.Client is supplied via WithHTTPClient.
func (b *Builder) WithTransport(transport nethttp.RoundTripper) *Builder {
	b.transport = transport
	return b
}

// WithHTTPClient supplies a pre-configured http.Client, taking precedence
// over WithTransport
func (b *Builder) WithHTTPClient(httpClient *nethttp.Client) *Builder {
	b.httpClient = httpClient
	return b
}

// WithRequestInterceptor appends a request interceptor; interceptors run in
// the order they were added
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.Interceptors = append(b.config.Interceptors, interceptor)
	return b
}

// WithDefaultHeader adds a header sent with every request unless the
// request overrides it
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithBasicAuth sets basic authentication credentials applied to every
// request that carries none of its own
func (b *Builder) WithBasicAuth(username, password string) *Builder {
	b.config.BasicAuth = &BasicAuth{
		Username: username,
		Password: password,
	}
	return b
}

// WithRateLimit throttles dispatch attempts to rps requests per second with
// the given burst. The wait honors the caller's context and precedes every
// attempt, retries included.
func (b *Builder) WithRateLimit(rps float64, burst int) *Builder {
	b.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return b
}

// WithRequestCoalescing makes concurrent GETs for the same method and URL
// share a single dispatch
func (b *Builder) WithRequestCoalescing() *Builder {
	b.coalesce = true
	return b
}

// WithMetrics records request, retry, and cache metrics through the
// collector
func (b *Builder) WithMetrics(collector *metrics.Collector) *Builder {
	b.collector = collector
	return b
}

// WithLogger replaces the logger the builder was created with. A nil
// logger keeps the client silent.
func (b *Builder) WithLogger(log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	b.logger = log
	return b
}

// WithPayloadLogging logs request and response bodies at debug level,
// truncated to maxBytes (0 uses the default cap). Sensitive headers are
// redacted.
func (b *Builder) WithPayloadLogging(maxBytes int) *Builder {
	b.config.LogPayloads = true
	b.config.MaxPayloadLogBytes = maxBytes
	return b
}

// Build creates the client with the configured options
func (b *Builder) Build() Client {
	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &nethttp.Client{}
		if b.transport != nil {
			httpClient.Transport = b.transport
		}
	}

	c := &client{
		httpClient: httpClient,
		logger:     b.logger,
		config:     b.config,
		policy:     b.policy,
		store:      b.store,
		cacheOn:    b.cacheOn,
		limiter:    b.limiter,
		collector:  b.collector,
		tracer:     otel.Tracer(tracerName),
	}
	if b.coalesce {
		c.group = &singleflight.Group{}
	}
	return c
}
