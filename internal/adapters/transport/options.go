package transport

import (
	"net/http"
	"time"

	"github.com/okian/janus/pkg/logger"
)

// Option applies a configuration option to the Conn.
type Option func(*Conn)

// WithHandshakeTimeout bounds the websocket opening handshake.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Conn) {
		if d > 0 {
			c.handshakeTimeout = d
		}
	}
}

// WithWriteTimeout bounds each frame write.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Conn) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

// WithMaxFrameBytes caps the size of inbound frames.
func WithMaxFrameBytes(n int64) Option {
	return func(c *Conn) {
		if n > 0 {
			c.maxFrameBytes = n
		}
	}
}

// WithHeader adds request headers to the handshake (e.g. Origin or Cookie).
func WithHeader(h http.Header) Option {
	return func(c *Conn) {
		for k, vs := range h {
			for _, v := range vs {
				c.header.Add(k, v)
			}
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Conn) {
		if l != nil {
			c.logger = l
		}
	}
}
