package httpclient

import (
	"strings"
	"time"
)

const redactedValue = "[REDACTED]"

// sensitiveHeaders are replaced with redactedValue in logged header maps.
// Keys are lowercase; lookups normalize.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
}

func redactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for key, value := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			out[key] = redactedValue
		} else {
			out[key] = value
		}
	}
	return out
}

func truncatePayload(body []byte, limit int) []byte {
	if limit <= 0 || len(body) <= limit {
		return body
	}
	return body[:limit]
}

func (c *client) maxPayloadLogBytes() int {
	if c.config.MaxPayloadLogBytes > 0 {
		return c.config.MaxPayloadLogBytes
	}
	return DefaultMaxPayloadLogBytes
}

// logRequest logs the outgoing request
func (c *client) logRequest(method, absURL string, req *Request, attempt int) {
	event := c.logger.Debug().
		Str("direction", "outbound").
		Str("method", method).
		Str("url", absURL).
		Int("attempt", attempt)

	if c.config.LogPayloads {
		if len(req.Headers) > 0 {
			event = event.Interface("headers", redactHeaders(req.Headers))
		}
		if len(req.Body) > 0 {
			event = event.Bytes("body", truncatePayload(req.Body, c.maxPayloadLogBytes()))
		}
	}

	event.Msg("HTTP client request")
}

// logResponse logs the incoming response
func (c *client) logResponse(resp *Response) {
	event := c.logger.Debug().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int("attempts", resp.Stats.Attempts).
		Int64("call_count", resp.Stats.CallCount).
		Int("body_size", len(resp.Body))

	if c.config.LogPayloads && len(resp.Body) > 0 {
		event = event.Bytes("body", truncatePayload(resp.Body, c.maxPayloadLogBytes()))
	}

	event.Msg("HTTP client response")
}

// logRetry records a scheduled retry with its trigger
func (c *client) logRetry(method, absURL string, attempt int, delay time.Duration, failure error) {
	c.logger.Warn().
		Err(failure).
		Str("method", method).
		Str("url", absURL).
		Int("attempt", attempt).
		Dur("delay", delay).
		Msg("HTTP client retrying request")
}

// logCacheHit records a call served without dispatching
func (c *client) logCacheHit(method, absURL string) {
	c.logger.Debug().
		Str("method", method).
		Str("url", absURL).
		Msg("HTTP client cache hit")
}
