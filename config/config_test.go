package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mobile-next/gesturerec/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddress, cfg.Listen)
	assert.Equal(t, recorder.DefaultSwipeSpeed, cfg.Recorder.SwipeSpeed)
}

func TestLoad_AllSections(t *testing.T) {
	path := writeConfig(t, `
[recorder]
swipe_speed = 50
tap_duration_ms = 120

[server]
listen = 0.0.0.0:13000
cors = true

[sessions]
max_sessions = 4

[log]
file = /tmp/gesturerec.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50.0, cfg.Recorder.SwipeSpeed)
	assert.Equal(t, 120*time.Millisecond, cfg.Recorder.TapDuration)
	assert.Equal(t, "0.0.0.0:13000", cfg.Listen)
	assert.True(t, cfg.EnableCORS)
	assert.Equal(t, 4, cfg.MaxSessions)
	assert.Equal(t, "/tmp/gesturerec.log", cfg.LogFile)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"negative swipe speed", "[recorder]\nswipe_speed = -1\n", "swipe_speed"},
		{"tiny swipe speed", "[recorder]\nswipe_speed = 0.000000001\n", "must be at least 1"},
		{"non-numeric swipe speed", "[recorder]\nswipe_speed = fast\n", "swipe_speed"},
		{"zero tap duration", "[recorder]\ntap_duration_ms = 0\n", "tap_duration_ms"},
		{"zero sessions", "[sessions]\nmax_sessions = 0\n", "max_sessions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}
