package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewPrettyLogger(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{name: "info level hides debug", debug: false, wantDebug: false},
		{name: "debug level shows debug", debug: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewPrettyLogger(zapcore.AddSync(&buf), tt.debug).Named("bundler")

			log.Debug("debug line")
			log.Info("bundle sent", zap.String("bundle_id", "abc"))

			out := buf.String()
			assert.Contains(t, out, "[INFO]")
			assert.Contains(t, out, "bundler")
			assert.Contains(t, out, "bundle sent")
			assert.Contains(t, out, "abc")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
		})
	}
}

func TestShortenAddress(t *testing.T) {
	assert.Equal(t, "So11...1112", ShortenAddress("So11111111111111111111111111111111111111112"))
	assert.Equal(t, "short", ShortenAddress("short"))
}
