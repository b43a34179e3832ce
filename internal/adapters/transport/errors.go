package transport

import "errors"

var (
	ErrDial           = errors.New("transport: dial failed")
	ErrClosed         = errors.New("transport: connection closed")
	ErrConnectionLost = errors.New("transport: connection lost")
	ErrEncodeFrame    = errors.New("transport: encode frame")
	ErrDecodeFrame    = errors.New("transport: decode frame")
)
