package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// RawEvent is one ingested bridge/RPC call record, exactly as delivered by
// the event source. Args is kept as an opaque JSON blob and only stringified
// on demand for display.
type RawEvent struct {
	ID     string          `json:"id"`
	Time   int64           `json:"time"` // epoch millis
	Type   string          `json:"type"`
	Module string          `json:"module,omitempty"`
	Method MethodValue     `json:"method,omitempty"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// When returns the event time as a time.Time.
func (e *RawEvent) When() time.Time {
	return time.UnixMilli(e.Time)
}

// EncodedSize returns the UTF-8 byte length of the event's JSON encoding,
// used for bandwidth accounting. A payload that cannot be re-encoded counts
// as the length of its args blob rather than failing.
func (e *RawEvent) EncodedSize() int {
	data, err := json.Marshal(e)
	if err != nil {
		return len(e.Args)
	}
	return len(data)
}

// MethodValue is a bridge method identifier. Sources emit it as either a
// JSON string or a number; it is always coerced to a string.
type MethodValue string

// String returns the string representation of the method.
func (m MethodValue) String() string {
	return string(m)
}

// UnmarshalJSON accepts a JSON string, number, or null.
func (m *MethodValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = MethodValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// Not a string or number; keep the raw text so a single odd
		// record never fails a whole batch.
		*m = MethodValue(string(data))
		return nil
	}
	*m = MethodValue(n.String())
	return nil
}

// MarshalJSON always emits the method as a JSON string.
func (m MethodValue) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, string(m)), nil
}
