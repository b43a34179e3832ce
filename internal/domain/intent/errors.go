package intent

import "errors"

var (
	ErrIllegalIntent = errors.New("intent: delta must be +1 or -1")
	ErrNotSent       = errors.New("intent: not sent")
)
