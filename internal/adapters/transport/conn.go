// Package transport is the websocket channel to the counter server. Frames are
// JSON objects naming an event and carrying its payload.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/janus/pkg/logger"
	"github.com/okian/janus/pkg/metrics"
)

// Defaults for the connection.
const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultMaxFrameBytes    = 4096
)

// Handler receives each inbound frame in arrival order. A non-nil error stops
// the read pump.
type Handler func(ctx context.Context, f Frame) error

// Conn is an open channel. Emit is safe for concurrent use; Listen must run
// on a single goroutine.
type Conn struct {
	ws     *websocket.Conn
	logger logger.Logger
	header http.Header

	handshakeTimeout time.Duration
	writeTimeout     time.Duration
	maxFrameBytes    int64

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// Dial opens the channel at rawURL.
func Dial(ctx context.Context, rawURL string, opts ...Option) (*Conn, error) {
	c := &Conn{
		logger:           logger.Get().Named("transport"),
		header:           http.Header{},
		handshakeTimeout: DefaultHandshakeTimeout,
		writeTimeout:     DefaultWriteTimeout,
		maxFrameBytes:    DefaultMaxFrameBytes,
		closed:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.handshakeTimeout,
	}
	ws, resp, err := dialer.DialContext(ctx, rawURL, c.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDial, rawURL, err)
	}
	ws.SetReadLimit(c.maxFrameBytes)
	c.ws = ws

	metrics.UpdateTransportConnected(true)
	c.logger.Info(ctx, "channel open", logger.String("url", rawURL))
	return c, nil
}

// Emit sends payload as event.
func (c *Conn) Emit(ctx context.Context, event string, payload any) error {
	f, err := NewFrame(event, payload)
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	if err := c.ws.WriteJSON(f); err != nil {
		return fmt.Errorf("emit %s: %w", event, err)
	}

	metrics.RecordFrameSent(event)
	c.logger.Debug(ctx, "frame sent", logger.String("event", event))
	return nil
}

// Listen runs the read pump until the context is cancelled, the connection is
// closed or lost, or handler fails. Frames that cannot be decoded are logged
// and skipped. A lost connection returns ErrConnectionLost.
func (c *Conn) Listen(ctx context.Context, handler Handler) error {
	defer metrics.UpdateTransportConnected(false)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-stop:
		}
	}()

	for {
		kind, raw, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			select {
			case <-c.closed:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info(ctx, "server closed the channel")
			} else {
				c.logger.Warn(ctx, "read failed", logger.Error(err))
			}
			return fmt.Errorf("%w: %v", ErrConnectionLost, err)
		}
		if kind != websocket.TextMessage {
			continue
		}

		f, err := decodeFrame(raw)
		if err != nil {
			c.logger.Warn(ctx, "skipping undecodable frame", logger.Error(err))
			continue
		}
		metrics.RecordFrameReceived(f.Event)

		if err := handler(ctx, f); err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// Close sends a close frame and releases the connection. It is idempotent.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)

		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.writeMu.Unlock()

		err = c.ws.Close()
		metrics.UpdateTransportConnected(false)
	})
	return err
}
