package model

import "errors"

// Sentinel kinds for payload decoding.
var (
	ErrFailureSentinel = errors.New("server reported failure")
	ErrMalformed       = errors.New("malformed payload")
)
