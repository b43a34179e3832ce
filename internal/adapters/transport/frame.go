package transport

import (
	"encoding/json"
	"fmt"
)

// Frame is one named event on the channel.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewFrame encodes payload as the data of event.
func NewFrame(event string, payload any) (Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrEncodeFrame, err)
	}
	return Frame{Event: event, Data: data}, nil
}

func decodeFrame(raw []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrDecodeFrame, err)
	}
	if f.Event == "" {
		return Frame{}, fmt.Errorf("%w: missing event name", ErrDecodeFrame)
	}
	return f, nil
}
