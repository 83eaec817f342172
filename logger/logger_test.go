package logger

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMessage = "test message"

func TestNew(t *testing.T) {
	// Capture original stdout to restore later
	originalStdout := os.Stdout

	tests := []struct {
		name          string
		level         string
		pretty        bool
		expectedLevel zerolog.Level
	}{
		{
			name:          "info_level_pretty",
			level:         "info",
			pretty:        true,
			expectedLevel: zerolog.InfoLevel,
		},
		{
			name:          "debug_level_not_pretty",
			level:         "debug",
			pretty:        false,
			expectedLevel: zerolog.DebugLevel,
		},
		{
			name:          "warn_level_not_pretty",
			level:         "warn",
			pretty:        false,
			expectedLevel: zerolog.WarnLevel,
		},
		{
			name:          "invalid_level_defaults_to_info",
			level:         "invalid_level",
			pretty:        false,
			expectedLevel: zerolog.InfoLevel,
		},
		{
			name:          "empty_level_uses_zerolog_default",
			level:         "",
			pretty:        true,
			expectedLevel: zerolog.NoLevel, // Empty string parses to NoLevel without error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			r, w, err := os.Pipe()
			require.NoError(t, err)
			os.Stdout = w

			logger := New(tt.level, tt.pretty)

			w.Close()
			os.Stdout = originalStdout

			_, err = io.Copy(&buf, r)
			require.NoError(t, err)

			require.NotNil(t, logger)
			require.NotNil(t, logger.zlog)
			assert.Equal(t, tt.expectedLevel, logger.zlog.GetLevel())

			var _ Logger = logger
		})
	}
}

func TestNopDiscardsEvents(t *testing.T) {
	logger := Nop()
	require.NotNil(t, logger)

	// Must not panic and must not write anywhere
	logger.Debug().Str("key", "value").Msg(testMessage)
	logger.Info().Int("count", 1).Msg(testMessage)
	logger.Warn().Err(errors.New("boom")).Msg(testMessage)
	logger.Error().Msgf("failed after %d attempts", 3)
}

func TestFromZerologEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	logger := FromZerolog(zl)

	logger.Info().
		Str("method", "GET").
		Int("status", 200).
		Int64("size", 42).
		Dur("elapsed", 1500*time.Millisecond).
		Bytes("body", []byte("ok")).
		Interface("meta", map[string]string{"k": "v"}).
		Msg(testMessage)

	out := buf.String()
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"size":42`)
	assert.Contains(t, out, `"body":"ok"`)
	assert.Contains(t, out, `"message":"`+testMessage+`"`)
}

func TestFromZerologErrField(t *testing.T) {
	var buf bytes.Buffer
	logger := FromZerolog(zerolog.New(&buf))

	logger.Error().Err(errors.New("connection refused")).Msg("dispatch failed")

	assert.Contains(t, buf.String(), `"error":"connection refused"`)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := FromZerolog(zerolog.New(&buf))

	derived := base.WithFields(map[string]any{"component": "httpclient"})
	derived.Info().Msg(testMessage)

	assert.Contains(t, buf.String(), `"component":"httpclient"`)
}

func TestWithContext(t *testing.T) {
	t.Run("non_context_value_returns_receiver", func(t *testing.T) {
		logger := Nop()
		assert.Same(t, Logger(logger), logger.WithContext("not a context"))
	})

	t.Run("context_without_logger_returns_receiver", func(t *testing.T) {
		logger := Nop()
		assert.Same(t, Logger(logger), logger.WithContext(context.Background()))
	})

	t.Run("context_with_logger_is_adopted", func(t *testing.T) {
		var buf bytes.Buffer
		zl := zerolog.New(&buf)
		ctx := zl.WithContext(context.Background())

		logger := Nop().WithContext(ctx)
		logger.Info().Msg(testMessage)

		assert.Contains(t, buf.String(), testMessage)
	})
}
