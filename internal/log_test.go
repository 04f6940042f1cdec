package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		ok   bool
	}{
		{"ERROR", LogLevelError, true},
		{"warn", LogLevelWarn, true},
		{" Debug ", LogLevelDebug, true},
		{"TRACE", LogLevelTrace, true},
		{"", LogLevelInfo, false},
		{"verbose", LogLevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLogLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelWarn, true)

	logger.Info("fitted %d models", 5)
	logger.Debug("details")
	assert.Empty(t, buf.String())

	logger.Warn("alpha %q invalid", "abc")
	assert.Contains(t, buf.String(), `alpha "abc" invalid`)
	assert.Equal(t, LogLevelWarn, logger.GetLevel())
}

func TestLogger_WithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelTrace, true).With("component", "engine")

	logger.Trace("sweep %d", 3)
	out := buf.String()
	assert.Contains(t, out, "sweep 3")
	assert.Contains(t, out, "component=engine")
	assert.NotNil(t, logger.Slog())
}
