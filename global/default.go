package global

import (
	"time"
)

const (
	DefaultListen           = ":9000"
	DefaultMaxRedirects     = 5
	DefaultPlaylistMaxBytes = 1 << 20
)

var (
	// dial timeout of the upstream transport, the per-hop deadlines are enforced on top of it
	HttpClientTimeout = 10 * time.Second

	defaultTimeouts = Timeouts{
		Resolve:           10 * time.Second,
		Proxy:             15 * time.Second,
		Check:             5 * time.Second,
		PlaylistRead:      5 * time.Second,
		CheckPlaylistRead: 3 * time.Second,
		StreamIdle:        30 * time.Second,
	}
)

func DefaultConfig() *Config {
	return &Config{
		Listen:             DefaultListen,
		LogLevel:           "info",
		InsecureSkipVerify: true,
		MaxRedirects:       DefaultMaxRedirects,
		PlaylistMaxBytes:   DefaultPlaylistMaxBytes,
		Timeouts:           defaultTimeouts,
	}
}
