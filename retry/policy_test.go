package retry

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// statusErr stands in for any error exposing an HTTP status code.
type statusErr struct {
	status int
}

func (e *statusErr) Error() string {
	return fmt.Sprintf("request failed with status %d", e.status)
}

func (e *statusErr) StatusCode() int {
	return e.status
}

// timeoutErr satisfies net.Error with Timeout() == true.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func connResetErr() error {
	return fmt.Errorf("dispatch: %w", os.NewSyscallError("read", syscall.ECONNRESET))
}

func connRefusedErr() error {
	return fmt.Errorf("dispatch: %w", os.NewSyscallError("connect", syscall.ECONNREFUSED))
}

func TestExponentialBackoffShouldRetry(t *testing.T) {
	policy := NewExponentialBackoff()

	tests := []struct {
		name    string
		err     error
		attempt int
		want    bool
	}{
		{name: "nil_error", err: nil, attempt: 1, want: false},
		{name: "retryable_status_500", err: &statusErr{500}, attempt: 1, want: true},
		{name: "retryable_status_429", err: &statusErr{429}, attempt: 2, want: true},
		{name: "retryable_status_408", err: &statusErr{408}, attempt: 3, want: true},
		{name: "non_retryable_status_400", err: &statusErr{400}, attempt: 1, want: false},
		{name: "non_retryable_status_404", err: &statusErr{404}, attempt: 1, want: false},
		{name: "non_retryable_status_501", err: &statusErr{501}, attempt: 1, want: false},
		{name: "wrapped_status", err: fmt.Errorf("call: %w", &statusErr{503}), attempt: 1, want: true},
		{name: "timeout", err: timeoutErr{}, attempt: 1, want: true},
		{name: "connection_reset", err: connResetErr(), attempt: 1, want: true},
		{name: "connection_refused", err: connRefusedErr(), attempt: 1, want: true},
		{name: "plain_error", err: errors.New("decode failed"), attempt: 1, want: false},
		{name: "attempt_at_limit", err: &statusErr{500}, attempt: 3, want: true},
		{name: "attempt_past_limit", err: &statusErr{500}, attempt: 4, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.ShouldRetry(tt.err, tt.attempt))
		})
	}
}

func TestExponentialBackoffCustomStatuses(t *testing.T) {
	policy := &ExponentialBackoff{RetryableStatuses: map[int]bool{418: true}}

	assert.True(t, policy.ShouldRetry(&statusErr{418}, 1))
	assert.False(t, policy.ShouldRetry(&statusErr{500}, 1))
}

func TestExponentialBackoffDelay(t *testing.T) {
	tests := []struct {
		name    string
		policy  *ExponentialBackoff
		attempt int
		want    time.Duration
	}{
		{name: "first_attempt", policy: NewExponentialBackoff(), attempt: 1, want: 1 * time.Second},
		{name: "second_attempt", policy: NewExponentialBackoff(), attempt: 2, want: 2 * time.Second},
		{name: "third_attempt", policy: NewExponentialBackoff(), attempt: 3, want: 4 * time.Second},
		{name: "fourth_attempt", policy: NewExponentialBackoff(), attempt: 4, want: 8 * time.Second},
		{name: "fifth_attempt", policy: NewExponentialBackoff(), attempt: 5, want: 16 * time.Second},
		{name: "capped_at_max", policy: NewExponentialBackoff(), attempt: 6, want: 30 * time.Second},
		{name: "far_past_cap", policy: NewExponentialBackoff(), attempt: 50, want: 30 * time.Second},
		{
			name:    "custom_cap",
			policy:  &ExponentialBackoff{MaxDelay: 10 * time.Second},
			attempt: 5,
			want:    10 * time.Second,
		},
		{
			name:    "custom_initial_and_multiplier",
			policy:  &ExponentialBackoff{InitialDelay: 100 * time.Millisecond, Multiplier: 3},
			attempt: 3,
			want:    900 * time.Millisecond,
		},
		{name: "zero_attempt_treated_as_first", policy: NewExponentialBackoff(), attempt: 0, want: 1 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Delay(tt.attempt))
		})
	}
}

func TestExponentialBackoffDelayNeverExceedsMax(t *testing.T) {
	policy := NewExponentialBackoff()
	for attempt := 1; attempt <= 100; attempt++ {
		delay := policy.Delay(attempt)
		assert.LessOrEqual(t, delay, policy.MaxDelay, "attempt %d", attempt)
		assert.Positive(t, delay, "attempt %d", attempt)
	}
}

func TestExponentialBackoffZeroValueDefaults(t *testing.T) {
	policy := &ExponentialBackoff{}

	assert.Equal(t, 1*time.Second, policy.Delay(1))
	assert.True(t, policy.ShouldRetry(&statusErr{500}, 3))
	assert.False(t, policy.ShouldRetry(&statusErr{500}, 4))
}

func TestSimpleShouldRetry(t *testing.T) {
	policy := NewSimple()

	tests := []struct {
		name    string
		err     error
		attempt int
		want    bool
	}{
		{name: "nil_error", err: nil, attempt: 1, want: false},
		{name: "timeout", err: timeoutErr{}, attempt: 1, want: true},
		{name: "connection_reset", err: connResetErr(), attempt: 1, want: true},
		// A served error status is never retried: the server is answering.
		{name: "status_500", err: &statusErr{500}, attempt: 1, want: false},
		{name: "status_503", err: &statusErr{503}, attempt: 1, want: false},
		// Unreachable hosts are not in scope either.
		{name: "connection_refused", err: connRefusedErr(), attempt: 1, want: false},
		{name: "plain_error", err: errors.New("decode failed"), attempt: 1, want: false},
		{name: "attempt_at_limit", err: timeoutErr{}, attempt: 3, want: true},
		{name: "attempt_past_limit", err: timeoutErr{}, attempt: 4, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.ShouldRetry(tt.err, tt.attempt))
		})
	}
}

func TestSimpleConstantDelay(t *testing.T) {
	policy := &Simple{RetryDelay: 250 * time.Millisecond}

	for attempt := 1; attempt <= 10; attempt++ {
		assert.Equal(t, 250*time.Millisecond, policy.Delay(attempt))
	}
}

func TestSimpleZeroValueDefaults(t *testing.T) {
	policy := &Simple{}

	assert.Equal(t, 1*time.Second, policy.Delay(1))
	assert.True(t, policy.ShouldRetry(timeoutErr{}, 3))
	assert.False(t, policy.ShouldRetry(timeoutErr{}, 4))
}

func TestNoneNeverRetries(t *testing.T) {
	policy := None{}

	errs := []error{
		timeoutErr{},
		&statusErr{500},
		connResetErr(),
		errors.New("anything"),
	}
	for _, err := range errs {
		assert.False(t, policy.ShouldRetry(err, 1))
	}
	assert.Equal(t, time.Duration(0), policy.Delay(1))
	assert.Equal(t, time.Duration(0), policy.Delay(99))
}
