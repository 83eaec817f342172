package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// statusCoder matches any error exposing an HTTP status code, whichever
// package produced it.
type statusCoder interface {
	StatusCode() int
}

// StatusCode extracts an HTTP status code from err when some error in its
// tree exposes one. A false result means err is a transport-level failure
// rather than a served response.
func StatusCode(err error) (int, bool) {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode(), true
	}
	return 0, false
}

// IsTimeout reports whether err is a deadline or timeout failure: a context
// deadline, or any net.Error that flags itself as a timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// IsConnectionLost reports whether an established connection dropped before
// the exchange finished: a peer reset, a broken pipe, or an unexpected EOF
// mid-response.
func IsConnectionLost(err error) bool {
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return false
}

// IsUnreachable reports whether a connection could not be established at
// all: refused or unroutable endpoints, failed dials, and DNS resolution
// failures.
func IsUnreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return false
}
