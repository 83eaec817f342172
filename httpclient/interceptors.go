package httpclient

import (
	"context"
	nethttp "net/http"

	"github.com/cbarbera80/pulsenet/logger"
	"github.com/cbarbera80/pulsenet/trace"
)

const authorizationHeader = "Authorization"

// NewAuthInterceptor creates a request interceptor that attaches a bearer
// token from the provider. An empty token without an error leaves the
// request untouched; a provider error aborts the call before dispatch and is
// never retried.
func NewAuthInterceptor(provider TokenProvider) RequestInterceptor {
	return func(ctx context.Context, req *nethttp.Request) error {
		if provider == nil {
			return nil
		}
		token, err := provider.Token(ctx)
		if err != nil {
			return err
		}
		if token == "" {
			return nil
		}
		req.Header.Set(authorizationHeader, "Bearer "+token)
		return nil
	}
}

// NewHeaderInterceptor creates a request interceptor that sets fixed headers
// on every request, overwriting values already present
func NewHeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(_ context.Context, req *nethttp.Request) error {
		for key, value := range headers {
			req.Header.Set(key, value)
		}
		return nil
	}
}

// NewLoggingInterceptor creates a request interceptor that logs outgoing
// requests at debug level with sensitive headers redacted. It never fails
// the request.
func NewLoggingInterceptor(log logger.Logger) RequestInterceptor {
	return func(_ context.Context, req *nethttp.Request) error {
		if log == nil {
			return nil
		}
		headers := make(map[string]string, len(req.Header))
		for key := range req.Header {
			headers[key] = req.Header.Get(key)
		}
		log.Debug().
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Interface("headers", redactHeaders(headers)).
			Msg("Outgoing request")
		return nil
	}
}

// NewTraceInterceptor creates a request interceptor that propagates the
// request ID from the context, generating one when the context carries none.
// The header is only set when the request has none of its own.
func NewTraceInterceptor() RequestInterceptor {
	return NewTraceInterceptorFor(HeaderXRequestID)
}

// NewTraceInterceptorFor creates a trace interceptor that uses a custom
// header name
func NewTraceInterceptorFor(header string) RequestInterceptor {
	if header == "" {
		header = HeaderXRequestID
	}
	return func(ctx context.Context, req *nethttp.Request) error {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, trace.EnsureRequestID(ctx))
		}
		return nil
	}
}

// NewTraceParentInterceptor creates a request interceptor that propagates the
// W3C traceparent from the context, generating one when the context carries
// none. The header is only set when the request has none of its own.
func NewTraceParentInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *nethttp.Request) error {
		if req.Header.Get(HeaderTraceParent) == "" {
			req.Header.Set(HeaderTraceParent, trace.EnsureTraceParent(ctx))
		}
		return nil
	}
}
