package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Channel event names.
const (
	EventJoin   = "join"
	EventUpdate = "update"
)

// updateFields is the arity of an update broadcast tuple.
const updateFields = 4

var sentinel = []byte("false")

// IsFailureSentinel reports whether raw is the failure sentinel payload.
func IsFailureSentinel(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), sentinel)
}

// ParseUpdate decodes an update broadcast: [timestamp, user, value, change].
// Timestamps are epoch seconds and may carry a fraction.
func ParseUpdate(raw json.RawMessage) (UpdateRecord, error) {
	if IsFailureSentinel(raw) {
		return UpdateRecord{}, ErrFailureSentinel
	}

	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return UpdateRecord{}, fmt.Errorf("%w: not a tuple: %v", ErrMalformed, err)
	}
	if len(fields) != updateFields {
		return UpdateRecord{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformed, updateFields, len(fields))
	}

	for i, f := range fields {
		if bytes.Equal(bytes.TrimSpace(f), []byte("null")) {
			return UpdateRecord{}, fmt.Errorf("%w: field %d is null", ErrMalformed, i)
		}
	}

	var (
		rec UpdateRecord
		ts  float64
	)
	if err := json.Unmarshal(fields[0], &ts); err != nil || math.IsNaN(ts) || math.IsInf(ts, 0) {
		return UpdateRecord{}, fmt.Errorf("%w: timestamp %s", ErrMalformed, fields[0])
	}
	if err := json.Unmarshal(fields[1], &rec.User); err != nil {
		return UpdateRecord{}, fmt.Errorf("%w: user %s", ErrMalformed, fields[1])
	}
	value, err := parseInt(fields[2])
	if err != nil {
		return UpdateRecord{}, fmt.Errorf("%w: value %s", ErrMalformed, fields[2])
	}
	change, err := parseInt(fields[3])
	if err != nil {
		return UpdateRecord{}, fmt.Errorf("%w: change %s", ErrMalformed, fields[3])
	}

	sec, frac := math.Modf(ts)
	rec.Timestamp = time.Unix(int64(sec), int64(frac*float64(time.Second)))
	rec.Value = value
	rec.Change = change
	return rec, nil
}

// ParseJoin decodes a join acknowledgment: the current count or the failure sentinel.
func ParseJoin(raw json.RawMessage) (int64, error) {
	if IsFailureSentinel(raw) {
		return 0, ErrFailureSentinel
	}
	v, err := parseInt(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: join payload %s", ErrMalformed, raw)
	}
	return v, nil
}

// parseInt accepts a JSON number with no fractional part. Quoted numbers are rejected.
func parseInt(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, fmt.Errorf("not a number: %s", raw)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return 0, err
	}
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("not an integer: %s", n)
	}
	return int64(f), nil
}
