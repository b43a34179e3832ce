// Package config defines client configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, optional .env, optional YAML file and env vars.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config contains process configuration. The page-scoped values (EventMax,
// OwnUsername, Timezone) are read once at startup and never change after.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ServerURL is the websocket endpoint of the counter server, e.g. "ws://localhost:8000/socket".
	ServerURL string `koanf:"server_url"`

	// Cookie holds raw cookie text ("a=1; session=..."). CookieFile is read when Cookie is empty.
	Cookie     string `koanf:"cookie"`
	CookieFile string `koanf:"cookie_file"`

	// EventMax is the counter ceiling; values <= 0 mean no ceiling.
	EventMax int64 `koanf:"event_max"`

	// OwnUsername identifies this viewer for own-record highlighting.
	OwnUsername string `koanf:"own_username"`

	// Muted sets the initial state of the mute toggle.
	Muted bool `koanf:"muted"`

	// HistorySize bounds the history view in rows.
	HistorySize int `koanf:"history_size"`

	// HighlightDelayMS is how long a new record keeps its entrance highlight.
	HighlightDelayMS int `koanf:"highlight_delay_ms"`

	// Timezone renders record times; "Local" uses the host zone.
	Timezone string `koanf:"timezone"`

	// QueueSize bounds the inbound event queue.
	QueueSize int `koanf:"queue_size"`

	// MaxFrameBytes caps a single inbound websocket frame.
	MaxFrameBytes int64 `koanf:"max_frame_bytes"`

	// HandshakeTimeoutMS and WriteTimeoutMS bound websocket dialing and writes.
	HandshakeTimeoutMS int `koanf:"handshake_timeout_ms"`
	WriteTimeoutMS     int `koanf:"write_timeout_ms"`

	// Addr configures the local control API listen address; empty disables it.
	Addr string `koanf:"addr"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		ServerURL:          "ws://127.0.0.1:8000/socket",
		EventMax:           0,
		HistorySize:        20,
		HighlightDelayMS:   100,
		Timezone:           "Local",
		QueueSize:          1024,
		MaxFrameBytes:      4096,
		HandshakeTimeoutMS: 10_000,
		WriteTimeoutMS:     5_000,
		Addr:               "",
	}
}

// HighlightDelay returns the highlight delay as a duration.
func (c *Config) HighlightDelay() time.Duration {
	return time.Duration(c.HighlightDelayMS) * time.Millisecond
}

// HandshakeTimeout returns the websocket handshake timeout.
func (c *Config) HandshakeTimeout() time.Duration {
	return time.Duration(c.HandshakeTimeoutMS) * time.Millisecond
}

// WriteTimeout returns the websocket write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks the configuration for values the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	switch {
	case c.ServerURL == "":
		return fmt.Errorf("%w: server_url must not be empty", ErrInvalidConfig)
	case err != nil:
		return fmt.Errorf("%w: server_url: %v", ErrInvalidConfig, err)
	case u.Scheme != "ws" && u.Scheme != "wss":
		return fmt.Errorf("%w: server_url scheme must be ws or wss, got %q", ErrInvalidConfig, u.Scheme)
	case c.HistorySize <= 0:
		return fmt.Errorf("%w: history_size must be positive", ErrInvalidConfig)
	case c.HighlightDelayMS < 0:
		return fmt.Errorf("%w: highlight_delay_ms must not be negative", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.MaxFrameBytes <= 0:
		return fmt.Errorf("%w: max_frame_bytes must be positive", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
