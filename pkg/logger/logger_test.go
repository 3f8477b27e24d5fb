package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordbyte/orderbot/pkg/config"
)

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bot.log")

	log := New(config.LogConfig{Level: "info", Format: "json", File: file}, false)
	require.NotNil(t, log)

	log.Info("logger ready", "component", "test")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "logger ready")
}

func TestNew_WithSentryFanout(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bot.log")

	log := New(config.LogConfig{Level: "info", Format: "text", File: file}, true)
	require.NotNil(t, log)

	log.Info("fanout configured")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fanout configured")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"error", "ERROR"},
		{"nonsense", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in).String())
		})
	}
}
