// Package retry defines the retry policy contract consulted by the HTTP
// client after a failed dispatch, together with the built-in policies:
// exponential backoff, fixed-delay, and no-retry.
//
// A policy never performs the wait itself. The client asks ShouldRetry
// whether to go again and Delay how long to sleep first; both receive the
// 1-based number of the attempt that just failed.
package retry

import (
	"time"
)

// Default tuning for the built-in policies.
const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = 1 * time.Second
	DefaultMaxDelay     = 30 * time.Second
	DefaultMultiplier   = 2.0
)

// DefaultRetryableStatuses returns the HTTP status codes the exponential
// backoff policy retries by default: request timeout, too many requests,
// and the transient 5xx family.
func DefaultRetryableStatuses() map[int]bool {
	return map[int]bool{
		408: true,
		429: true,
		500: true,
		502: true,
		503: true,
		504: true,
	}
}

// Policy decides whether a failed attempt is retried and how long to wait
// before the next one. Implementations must be safe for concurrent use by
// multiple in-flight requests.
type Policy interface {
	// ShouldRetry reports whether another attempt should follow the given
	// failure. attempt is the 1-based number of the attempt that failed.
	ShouldRetry(err error, attempt int) bool

	// Delay returns how long to wait before the attempt following the given
	// one. The client only calls it after ShouldRetry returned true.
	Delay(attempt int) time.Duration
}

// ExponentialBackoff retries transient transport failures and a configurable
// set of HTTP status codes, doubling (by default) the delay between attempts
// up to MaxDelay. Zero-valued fields fall back to the package defaults, so
// both NewExponentialBackoff() and a partial literal work.
type ExponentialBackoff struct {
	// MaxRetries bounds the number of retries after the initial attempt.
	MaxRetries int
	// InitialDelay is the wait after the first failed attempt.
	InitialDelay time.Duration
	// MaxDelay caps the grown delay.
	MaxDelay time.Duration
	// Multiplier is the per-attempt growth factor.
	Multiplier float64
	// RetryableStatuses lists the HTTP status codes worth retrying.
	RetryableStatuses map[int]bool
}

// Ensure the built-in policies implement the interface
var (
	_ Policy = (*ExponentialBackoff)(nil)
	_ Policy = (*Simple)(nil)
	_ Policy = None{}
)

// NewExponentialBackoff creates an exponential backoff policy with the
// package defaults.
func NewExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		MaxRetries:        DefaultMaxRetries,
		InitialDelay:      DefaultInitialDelay,
		MaxDelay:          DefaultMaxDelay,
		Multiplier:        DefaultMultiplier,
		RetryableStatuses: DefaultRetryableStatuses(),
	}
}

// ShouldRetry retries transport timeouts, lost connections, and unreachable
// hosts, plus HTTP errors whose status is in RetryableStatuses, while the
// failed attempt number does not exceed MaxRetries.
func (p *ExponentialBackoff) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt > p.maxRetries() {
		return false
	}
	if status, ok := StatusCode(err); ok {
		return p.retryableStatuses()[status]
	}
	return IsTimeout(err) || IsConnectionLost(err) || IsUnreachable(err)
}

// Delay grows geometrically: InitialDelay for the first failed attempt,
// multiplied by Multiplier for each one after, capped at MaxDelay.
func (p *ExponentialBackoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	// Exponent is capped to keep the float math from overflowing; the cap
	// below clamps the result anyway.
	exp := attempt - 1
	if exp > 30 {
		exp = 30
	}

	maxDelay := p.maxDelay()
	delay := time.Duration(float64(p.initialDelay()) * pow(p.multiplier(), exp))
	if delay < 0 || delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (p *ExponentialBackoff) maxRetries() int {
	if p.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return p.MaxRetries
}

func (p *ExponentialBackoff) initialDelay() time.Duration {
	if p.InitialDelay <= 0 {
		return DefaultInitialDelay
	}
	return p.InitialDelay
}

func (p *ExponentialBackoff) maxDelay() time.Duration {
	if p.MaxDelay <= 0 {
		return DefaultMaxDelay
	}
	return p.MaxDelay
}

func (p *ExponentialBackoff) multiplier() float64 {
	if p.Multiplier <= 0 {
		return DefaultMultiplier
	}
	return p.Multiplier
}

func (p *ExponentialBackoff) retryableStatuses() map[int]bool {
	if p.RetryableStatuses == nil {
		return defaultStatuses
	}
	return p.RetryableStatuses
}

// Shared read-only default set, so zero-valued policies allocate nothing.
var defaultStatuses = DefaultRetryableStatuses()

// pow computes base^exponent by repeated multiplication. Exponents stay
// small enough that this beats pulling in math.Pow semantics for negative
// or fractional cases the policy never produces.
func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}

// Simple retries transport timeouts and lost connections a fixed number of
// times with a constant delay. HTTP error statuses are never retried: a
// server that answered is assumed to keep answering the same way.
// Zero-valued fields fall back to the package defaults.
type Simple struct {
	// MaxRetries bounds the number of retries after the initial attempt.
	MaxRetries int
	// RetryDelay is the constant wait between attempts.
	RetryDelay time.Duration
}

// NewSimple creates a fixed-delay policy with the package defaults.
func NewSimple() *Simple {
	return &Simple{
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultInitialDelay,
	}
}

// ShouldRetry retries only transport timeouts and lost connections, while
// the failed attempt number does not exceed MaxRetries.
func (p *Simple) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt > p.maxRetries() {
		return false
	}
	if _, ok := StatusCode(err); ok {
		return false
	}
	return IsTimeout(err) || IsConnectionLost(err)
}

// Delay returns the constant RetryDelay regardless of attempt.
func (p *Simple) Delay(int) time.Duration {
	if p.RetryDelay <= 0 {
		return DefaultInitialDelay
	}
	return p.RetryDelay
}

func (p *Simple) maxRetries() int {
	if p.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return p.MaxRetries
}

// None never retries. It is the default policy of a freshly built client.
type None struct{}

// ShouldRetry always reports false.
func (None) ShouldRetry(error, int) bool { return false }

// Delay always returns zero.
func (None) Delay(int) time.Duration { return 0 }
