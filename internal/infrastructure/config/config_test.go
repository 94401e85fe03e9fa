package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9090
nextpvr:
  base_url: " http://nextpvr.lan:8866 "
  session_id: abc
  timeout: 3s
  time_zone: Europe/Berlin
cache:
  recording_expiry: 0s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://nextpvr.lan:8866", cfg.NextPVR.BaseURL)
	assert.Equal(t, "abc", cfg.NextPVR.SessionID)
	assert.Equal(t, 3*time.Second, cfg.NextPVR.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Cache.RecordingExpiry)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "unset keys keep defaults")

	loc, err := cfg.NextPVR.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [1, 2"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"tls cert", func(c *Config) { c.Server.TLS.Enabled = true }, "TLS cert file"},
		{"base url empty", func(c *Config) { c.NextPVR.BaseURL = " " }, "base_url is required"},
		{"base url scheme", func(c *Config) { c.NextPVR.BaseURL = "ftp://nextpvr" }, "invalid NextPVR base_url"},
		{"timeout", func(c *Config) { c.NextPVR.Timeout = 0 }, "invalid NextPVR timeout"},
		{"zone", func(c *Config) { c.NextPVR.TimeZone = "Mars/Olympus" }, "invalid NextPVR time_zone"},
		{"admin pass", func(c *Config) { c.Auth.AdminPass = "" }, "admin password"},
		{"auth disabled skips creds", func(c *Config) {
			c.Auth.Enabled = false
			c.Auth.AdminPass = ""
		}, ""},
		{"local nets", func(c *Config) { c.Auth.LocalNets = []string{"192.168.0.0/33"} }, "local_nets"},
		{"cache", func(c *Config) { c.Cache.RecordingExpiry = -time.Second }, "recording_expiry"},
		{"rate requests", func(c *Config) { c.RateLimit.Requests = 0 }, "ratelimit.requests"},
		{"rate disabled", func(c *Config) {
			c.RateLimit.Enabled = false
			c.RateLimit.Requests = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	cfg := Default()
	cfg.NextPVR.SessionID = "sid-1"
	cfg.Auth.LocalNets = []string{"10.0.0.0/8"}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
