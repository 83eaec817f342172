package httpclient

import (
	"fmt"
	nethttp "net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbarbera80/pulsenet/cache"
	"github.com/cbarbera80/pulsenet/logger"
	"github.com/cbarbera80/pulsenet/metrics"
	"github.com/cbarbera80/pulsenet/retry"
)

func TestBuilder(t *testing.T) {
	log := createTestLogger()

	t.Run("default configuration", func(t *testing.T) {
		built := NewBuilder(log).Build()
		require.NotNil(t, built)

		clientImpl, ok := built.(*client)
		require.True(t, ok)
		assert.Equal(t, DefaultTimeout, clientImpl.config.Timeout)
		assert.Equal(t, DefaultCacheTTL, clientImpl.config.CacheTTL)
		assert.IsType(t, retry.None{}, clientImpl.policy)
		assert.IsType(t, &cache.NoopStore{}, clientImpl.store)
		assert.False(t, clientImpl.cacheOn)
		assert.Nil(t, clientImpl.limiter)
		assert.Nil(t, clientImpl.group)
		assert.NotNil(t, clientImpl.tracer)
	})

	t.Run("with base URL", func(t *testing.T) {
		built := NewBuilder(log).
			WithBaseURL("https://api.example.com").
			Build()

		clientImpl := built.(*client)
		assert.Equal(t, "https://api.example.com", clientImpl.config.BaseURL)
	})

	t.Run("with timeout", func(t *testing.T) {
		built := NewBuilder(log).
			WithTimeout(10 * time.Second).
			Build()

		clientImpl := built.(*client)
		assert.Equal(t, 10*time.Second, clientImpl.config.Timeout)
	})

	t.Run("with retry policy", func(t *testing.T) {
		policy := &retry.ExponentialBackoff{MaxRetries: 5}
		built := NewBuilder(log).
			WithRetryPolicy(policy).
			Build()

		clientImpl := built.(*client)
		assert.Equal(t, policy, clientImpl.policy)
	})

	t.Run("nil retry policy restores the default", func(t *testing.T) {
		built := NewBuilder(log).
			WithRetryPolicy(&retry.Simple{}).
			WithRetryPolicy(nil).
			Build()

		clientImpl := built.(*client)
		assert.IsType(t, retry.None{}, clientImpl.policy)
	})

	t.Run("with cache", func(t *testing.T) {
		store := cache.NewMemoryStore()
		built := NewBuilder(log).
			WithCache(store, time.Minute).
			Build()

		clientImpl := built.(*client)
		assert.True(t, clientImpl.cacheOn)
		assert.Equal(t, store, clientImpl.store)
		assert.Equal(t, time.Minute, clientImpl.config.CacheTTL)
	})

	t.Run("with cache keeps default TTL when zero", func(t *testing.T) {
		built := NewBuilder(log).
			WithCache(cache.NewMemoryStore(), 0).
			Build()

		clientImpl := built.(*client)
		assert.True(t, clientImpl.cacheOn)
		assert.Equal(t, DefaultCacheTTL, clientImpl.config.CacheTTL)
	})

	t.Run("nil cache store disables caching", func(t *testing.T) {
		built := NewBuilder(log).
			WithCache(cache.NewMemoryStore(), time.Minute).
			WithCache(nil, 0).
			Build()

		clientImpl := built.(*client)
		assert.False(t, clientImpl.cacheOn)
		assert.IsType(t, &cache.NoopStore{}, clientImpl.store)
	})

	t.Run("with memory cache", func(t *testing.T) {
		built := NewBuilder(log).
			WithMemoryCache(30 * time.Second).
			Build()

		clientImpl := built.(*client)
		assert.True(t, clientImpl.cacheOn)
		assert.IsType(t, &cache.MemoryStore{}, clientImpl.store)
		assert.Equal(t, 30*time.Second, clientImpl.config.CacheTTL)
	})

	t.Run("with cache TTL only", func(t *testing.T) {
		built := NewBuilder(log).
			WithCacheTTL(2 * time.Minute).
			Build()

		clientImpl := built.(*client)
		assert.Equal(t, 2*time.Minute, clientImpl.config.CacheTTL)
		assert.False(t, clientImpl.cacheOn)
	})

	t.Run("with custom transport", func(t *testing.T) {
		transport := roundTripperFunc(func(req *nethttp.Request) (*nethttp.Response, error) {
			return nil, fmt.Errorf("not implemented: %s", req.URL)
		})
		built := NewBuilder(log).
			WithTransport(transport).
			Build()

		clientImpl := built.(*client)
		assert.NotNil(t, clientImpl.httpClient.Transport)
	})

	t.Run("with custom http client takes precedence over transport", func(t *testing.T) {
		custom := &nethttp.Client{}
		built := NewBuilder(log).
			WithTransport(roundTripperFunc(func(*nethttp.Request) (*nethttp.Response, error) {
				return nil, fmt.Errorf("unused")
			})).
			WithHTTPClient(custom).
			Build()

		clientImpl := built.(*client)
		assert.Equal(t, custom, clientImpl.httpClient)
		assert.Nil(t, clientImpl.httpClient.Transport)
	})

	t.Run("with default headers", func(t *testing.T) {
		built := NewBuilder(log).
			WithDefaultHeader(testAPIKey, testAPIValue).
			WithDefaultHeader(testUserAgent, testAgentValue).
			Build()

		clientImpl := built.(*client)
		assert.Equal(t, testAPIValue, clientImpl.config.DefaultHeaders[testAPIKey])
		assert.Equal(t, testAgentValue, clientImpl.config.DefaultHeaders[testUserAgent])
	})

	t.Run("with basic auth", func(t *testing.T) {
		built := NewBuilder(log).
			WithBasicAuth("user", "pass").
			Build()

		clientImpl := built.(*client)
		require.NotNil(t, clientImpl.config.BasicAuth)
		assert.Equal(t, "user", clientImpl.config.BasicAuth.Username)
		assert.Equal(t, "pass", clientImpl.config.BasicAuth.Password)
	})

	t.Run("with rate limit", func(t *testing.T) {
		built := NewBuilder(log).
			WithRateLimit(10, 2).
			Build()

		clientImpl := built.(*client)
		require.NotNil(t, clientImpl.limiter)
		assert.Equal(t, float64(10), float64(clientImpl.limiter.Limit()))
		assert.Equal(t, 2, clientImpl.limiter.Burst())
	})

	t.Run("with request coalescing", func(t *testing.T) {
		built := NewBuilder(log).
			WithRequestCoalescing().
			Build()

		clientImpl := built.(*client)
		assert.NotNil(t, clientImpl.group)
	})

	t.Run("with metrics", func(t *testing.T) {
		collector := metrics.NewCollectorWithRegistry(prometheus.NewRegistry())
		built := NewBuilder(log).
			WithMetrics(collector).
			Build()

		clientImpl := built.(*client)
		assert.Equal(t, collector, clientImpl.collector)
	})

	t.Run("with logger", func(t *testing.T) {
		replacement := logger.New("error", false)
		built := NewBuilder(log).
			WithLogger(replacement).
			Build()

		clientImpl := built.(*client)
		assert.Equal(t, replacement, clientImpl.logger)
	})

	t.Run("nil logger keeps the client silent", func(t *testing.T) {
		built := NewBuilder(log).
			WithLogger(nil).
			Build()

		clientImpl := built.(*client)
		require.NotNil(t, clientImpl.logger)
	})

	t.Run("with payload logging", func(t *testing.T) {
		built := NewBuilder(log).
			WithPayloadLogging(128).
			Build()

		clientImpl := built.(*client)
		assert.True(t, clientImpl.config.LogPayloads)
		assert.Equal(t, 128, clientImpl.config.MaxPayloadLogBytes)
	})

	t.Run("with interceptors", func(t *testing.T) {
		built := NewBuilder(log).
			WithRequestInterceptor(NewHeaderInterceptor(map[string]string{testAPIKey: testAPIValue})).
			WithRequestInterceptor(NewTraceInterceptor()).
			Build()

		clientImpl := built.(*client)
		assert.Len(t, clientImpl.config.Interceptors, 2)
	})
}
