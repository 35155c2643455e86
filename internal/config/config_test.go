package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLoadWritesDefaultConfigWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	logger := zerolog.Nop()

	cfg, resolved, err := Load(&logger, path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
	assert.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "addr: \":9000\"\nroom_ttl: 90s\nlog_format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	t.Setenv("WIRECHESS_ROOM_TTL", "5m")
	t.Setenv("WIRECHESS_EVENT_BUFFER", "8")

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 5*time.Minute, cfg.RoomTTL)
	assert.Equal(t, 8, cfg.EventBuffer)
	assert.Equal(t, 30*time.Second, cfg.ReapInterval)

	cfg.UpdateFrom(Config{Addr: ":7000"})
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 5*time.Minute, cfg.RoomTTL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reap_interval: -1s\n"), 0o600))

	_, _, err := Load(nil, path)
	assert.ErrorContains(t, err, "reap_interval")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }, "addr"},
		{"zero ttl", func(c *Config) { c.RoomTTL = 0 }, "room_ttl"},
		{"zero buffer", func(c *Config) { c.EventBuffer = 0 }, "event_buffer"},
		{"negative rate", func(c *Config) { c.RateLimitPerMinute = -1 }, "rate_limit_per_minute"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestUpdateFromIgnoresZeroValues(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		override := Config{
			Addr:               rapid.SampledFrom([]string{"", ":1", ":2"}).Draw(t, "addr"),
			RoomTTL:            time.Duration(rapid.IntRange(0, 3).Draw(t, "ttl")) * time.Minute,
			RateLimitPerMinute: rapid.IntRange(0, 5).Draw(t, "rate"),
			LogLevel:           rapid.SampledFrom([]string{"", "debug"}).Draw(t, "level"),
		}

		cfg := Default()
		cfg.UpdateFrom(override)
		base := Default()

		if override.Addr == "" && cfg.Addr != base.Addr {
			t.Fatalf("empty addr overwrote %q", base.Addr)
		}
		if override.Addr != "" && cfg.Addr != override.Addr {
			t.Fatalf("addr %q not applied", override.Addr)
		}
		if override.RoomTTL == 0 && cfg.RoomTTL != base.RoomTTL {
			t.Fatalf("zero ttl overwrote %s", base.RoomTTL)
		}
		if override.RateLimitPerMinute != 0 && cfg.RateLimitPerMinute != override.RateLimitPerMinute {
			t.Fatalf("rate %d not applied", override.RateLimitPerMinute)
		}
		if cfg.EventBuffer != base.EventBuffer || cfg.MaxMessageBytes != base.MaxMessageBytes {
			t.Fatalf("untouched fields changed: %+v", cfg)
		}
	})
}
