package global

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrConfigNotFound = errors.New("config file not found")

// Timeouts bounds every upstream operation of the gateway.
type Timeouts struct {
	Resolve           time.Duration `yaml:"resolve"`             // per hop, stream-resolve
	Proxy             time.Duration `yaml:"proxy"`               // per hop, stream-proxy
	Check             time.Duration `yaml:"check"`               // per hop, stream-check
	PlaylistRead      time.Duration `yaml:"playlist_read"`       // playlist body read
	CheckPlaylistRead time.Duration `yaml:"check_playlist_read"` // playlist body read while probing
	StreamIdle        time.Duration `yaml:"stream_idle"`         // max silence of a relayed stream
}

type Config struct {
	Listen             string   `yaml:"listen"`
	DataDir            string   `yaml:"datadir"`
	LogLevel           string   `yaml:"log_level"`
	ProxyURL           string   `yaml:"proxy_url"`
	Impersonate        string   `yaml:"impersonate"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify"`
	MaxRedirects       int      `yaml:"max_redirects"`
	PlaylistMaxBytes   int64    `yaml:"playlist_max_bytes"`
	Timeouts           Timeouts `yaml:"timeouts"`
}

// LoadConfig reads a yaml file on top of the defaults.
func LoadConfig(file string) (*Config, error) {
	cfg := DefaultConfig()
	if file == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, file)
		}
		return nil, err
	}
	if err = yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return cfg, nil
}

func (c *Config) Verify() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("max_redirects must not be negative, got %d", c.MaxRedirects)
	}
	if c.PlaylistMaxBytes <= 0 {
		return fmt.Errorf("playlist_max_bytes must be positive, got %d", c.PlaylistMaxBytes)
	}
	for name, d := range map[string]time.Duration{
		"resolve":             c.Timeouts.Resolve,
		"proxy":               c.Timeouts.Proxy,
		"check":               c.Timeouts.Check,
		"playlist_read":       c.Timeouts.PlaylistRead,
		"check_playlist_read": c.Timeouts.CheckPlaylistRead,
		"stream_idle":         c.Timeouts.StreamIdle,
	} {
		if d <= 0 {
			return fmt.Errorf("timeouts.%s must be positive, got %s", name, d)
		}
	}
	if c.ProxyURL != "" {
		u, err := url.Parse(c.ProxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid proxy_url %q", c.ProxyURL)
		}
	}
	switch strings.ToLower(c.Impersonate) {
	case "", "chrome", "firefox", "safari":
	default:
		return fmt.Errorf("unknown impersonate target %q", c.Impersonate)
	}
	return nil
}
