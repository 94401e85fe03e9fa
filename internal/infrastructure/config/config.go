package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"go.yaml.in/yaml/v4"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	NextPVR   NextPVRConfig   `yaml:"nextpvr"`
	Auth      AuthConfig      `yaml:"auth"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	TLS            TLSConfig     `yaml:"tls"`
}

// TLSConfig contains TLS settings
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// NextPVRConfig contains NextPVR web API settings
type NextPVRConfig struct {
	BaseURL   string        `yaml:"base_url"`
	SessionID string        `yaml:"session_id"`
	Timeout   time.Duration `yaml:"timeout"`
	// TimeZone names the zone for timestamps that carry no offset. Empty means UTC.
	TimeZone string `yaml:"time_zone"`
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	Enabled   bool     `yaml:"enabled"`
	AdminUser string   `yaml:"admin_user"`
	AdminPass string   `yaml:"admin_pass"`
	LocalNets []string `yaml:"local_nets"`
}

// CacheConfig contains caching settings
type CacheConfig struct {
	RecordingExpiry time.Duration `yaml:"recording_expiry"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// RateLimitConfig limits API requests per client IP
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		NextPVR: NextPVRConfig{
			BaseURL: "http://localhost:8866",
			Timeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			Enabled:   true,
			AdminUser: "admin",
			AdminPass: "admin",
			LocalNets: []string{},
		},
		Cache: CacheConfig{
			RecordingExpiry: 5 * time.Minute,
		},
		Log: LogConfig{
			Level:   "info",
			Service: "nextpvr-go",
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Requests: 120,
			Window:   time.Minute,
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, nil // Use defaults if file doesn't exist
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			return fmt.Errorf("TLS cert file is required when TLS is enabled")
		}
		if c.Server.TLS.KeyFile == "" {
			return fmt.Errorf("TLS key file is required when TLS is enabled")
		}
	}

	c.NextPVR.BaseURL = strings.TrimSpace(c.NextPVR.BaseURL)
	if c.NextPVR.BaseURL == "" {
		return fmt.Errorf("NextPVR base_url is required")
	}
	u, err := url.Parse(c.NextPVR.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid NextPVR base_url: %q", c.NextPVR.BaseURL)
	}

	if c.NextPVR.Timeout <= 0 {
		return fmt.Errorf("invalid NextPVR timeout: %s", c.NextPVR.Timeout)
	}

	if _, err := c.NextPVR.Location(); err != nil {
		return err
	}

	if c.Auth.Enabled {
		if c.Auth.AdminUser == "" {
			return fmt.Errorf("admin user is required when auth is enabled")
		}
		if c.Auth.AdminPass == "" {
			return fmt.Errorf("admin password is required when auth is enabled")
		}
	}

	for _, cidr := range c.Auth.LocalNets {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("invalid auth.local_nets entry %q: %w", cidr, err)
		}
	}

	if c.Cache.RecordingExpiry < 0 {
		return fmt.Errorf("invalid cache.recording_expiry: %s", c.Cache.RecordingExpiry)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid ratelimit.requests: %d", c.RateLimit.Requests)
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid ratelimit.window: %s", c.RateLimit.Window)
		}
	}

	return nil
}

// Location resolves TimeZone. An empty zone is UTC.
func (n NextPVRConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(n.TimeZone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(strings.TrimSpace(n.TimeZone))
	if err != nil {
		return nil, fmt.Errorf("invalid NextPVR time_zone %q: %w", n.TimeZone, err)
	}
	return loc, nil
}

// Save atomically replaces the YAML file at path with the configuration.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o600))
	if err != nil {
		return fmt.Errorf("failed to create pending config file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}

	return nil
}
