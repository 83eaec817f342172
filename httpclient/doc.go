// Package httpclient provides a configurable HTTP client with typed JSON
// decoding, request interceptors, pluggable retry policies, and response
// caching.
//
// Execution pipeline (typed entry points)
//   - Cache lookup first: a fresh entry decodes and returns with no dispatch;
//     a corrupt entry is evicted and the call falls through to the network.
//   - Interceptors run in configuration order on the transport-ready request;
//     the first failure aborts the call and is never retried.
//   - Non-2xx statuses become HTTP errors carrying status and raw body.
//   - Transport and HTTP failures are offered to the retry policy; codec and
//     interceptor failures are not.
//   - On decode success the raw body is written back to the cache.
//
// Retries
//   - Controlled via Builder.WithRetryPolicy; the default policy never
//     retries.
//   - The loop is iterative, waits the policy's delay between attempts, and
//     rebuilds the http.Request each time so bodies re-send correctly.
//   - The cache is consulted once per call; retries always hit the network.
//
// Notes
//   - Each dispatch attempt is bounded by the request timeout; there is no
//     cross-attempt deadline unless the caller's context carries one.
//   - Interceptor errors are surfaced immediately with the failing stage
//     recorded.
package httpclient
