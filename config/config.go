package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mobile-next/gesturerec/recorder"
	"gopkg.in/ini.v1"
)

const (
	DefaultListenAddress = "localhost:12000"
	DefaultMaxSessions   = 16
)

// Config is the on-disk configuration of gesturerec.
type Config struct {
	Recorder recorder.Config

	Listen     string
	EnableCORS bool

	MaxSessions int

	LogFile string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Recorder:    recorder.DefaultConfig(),
		Listen:      DefaultListenAddress,
		MaxSessions: DefaultMaxSessions,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gesturerec/config.ini, or the
// platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gesturerec", "config.ini")
}

// Load reads the INI file at path on top of the defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	rec := file.Section("recorder")
	if rec.HasKey("swipe_speed") {
		speed, err := rec.Key("swipe_speed").Float64()
		if err != nil || speed < recorder.MinSwipeSpeed {
			return cfg, fmt.Errorf("invalid recorder.swipe_speed %q: must be at least %g", rec.Key("swipe_speed").String(), recorder.MinSwipeSpeed)
		}
		cfg.Recorder.SwipeSpeed = speed
	}
	if rec.HasKey("tap_duration_ms") {
		ms, err := rec.Key("tap_duration_ms").Int()
		if err != nil || ms <= 0 {
			return cfg, fmt.Errorf("invalid recorder.tap_duration_ms %q: must be a positive integer", rec.Key("tap_duration_ms").String())
		}
		cfg.Recorder.TapDuration = time.Duration(ms) * time.Millisecond
	}

	srv := file.Section("server")
	cfg.Listen = srv.Key("listen").MustString(cfg.Listen)
	cfg.EnableCORS = srv.Key("cors").MustBool(cfg.EnableCORS)

	sessions := file.Section("sessions")
	if sessions.HasKey("max_sessions") {
		n, err := sessions.Key("max_sessions").Int()
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid sessions.max_sessions %q: must be a positive integer", sessions.Key("max_sessions").String())
		}
		cfg.MaxSessions = n
	}

	cfg.LogFile = file.Section("log").Key("file").String()

	return cfg, nil
}
