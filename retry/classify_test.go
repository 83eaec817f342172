package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		status, ok := StatusCode(&statusErr{502})
		assert.True(t, ok)
		assert.Equal(t, 502, status)
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("call users: %w", &statusErr{404})
		status, ok := StatusCode(err)
		assert.True(t, ok)
		assert.Equal(t, 404, status)
	})

	t.Run("transport_error", func(t *testing.T) {
		_, ok := StatusCode(errors.New("connection reset"))
		assert.False(t, ok)
	})

	t.Run("nil", func(t *testing.T) {
		_, ok := StatusCode(nil)
		assert.False(t, ok)
	})
}

func TestIsTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "context_deadline", err: context.DeadlineExceeded, want: true},
		{name: "wrapped_context_deadline", err: fmt.Errorf("dispatch: %w", context.DeadlineExceeded), want: true},
		{name: "net_error_timeout", err: timeoutErr{}, want: true},
		{name: "dns_timeout", err: &net.DNSError{Err: "timeout", IsTimeout: true}, want: true},
		{name: "context_canceled", err: context.Canceled, want: false},
		{name: "plain_error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTimeout(tt.err))
		})
	}
}

func TestIsConnectionLost(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "econnreset", err: os.NewSyscallError("read", syscall.ECONNRESET), want: true},
		{name: "epipe", err: os.NewSyscallError("write", syscall.EPIPE), want: true},
		{name: "eof", err: io.EOF, want: true},
		{name: "unexpected_eof", err: io.ErrUnexpectedEOF, want: true},
		{
			name: "wrapped_in_op_error",
			err:  &net.OpError{Op: "read", Net: "tcp", Err: os.NewSyscallError("read", syscall.ECONNRESET)},
			want: true,
		},
		{name: "econnrefused", err: os.NewSyscallError("connect", syscall.ECONNREFUSED), want: false},
		{name: "plain_error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectionLost(tt.err))
		})
	}
}

func TestIsUnreachable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "econnrefused", err: os.NewSyscallError("connect", syscall.ECONNREFUSED), want: true},
		{name: "enetunreach", err: os.NewSyscallError("connect", syscall.ENETUNREACH), want: true},
		{name: "ehostunreach", err: os.NewSyscallError("connect", syscall.EHOSTUNREACH), want: true},
		{name: "dns_failure", err: &net.DNSError{Err: "no such host", Name: "api.example.com"}, want: true},
		{
			name: "failed_dial",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("no route")},
			want: true,
		},
		{name: "econnreset", err: os.NewSyscallError("read", syscall.ECONNRESET), want: false},
		{name: "plain_error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnreachable(tt.err))
		})
	}
}
