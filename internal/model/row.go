package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Table column identifiers, in display order.
const (
	ColumnIndex  = "index"
	ColumnTime   = "time"
	ColumnType   = "type"
	ColumnModule = "module"
	ColumnMethod = "method"
	ColumnArgs   = "args"
)

// ColumnOrder lists the six fixed table columns in display order. Every
// ViewRow carries exactly these keys.
var ColumnOrder = []string{ColumnIndex, ColumnTime, ColumnType, ColumnModule, ColumnMethod, ColumnArgs}

// ColumnSpec describes one table column for rendering surfaces: display
// label, relative width hint, and whether the column participates in
// filtering.
type ColumnSpec struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Width      int    `json:"width"`
	Filterable bool   `json:"filterable"`
}

// ColumnSpecs returns the table schema in display order.
func ColumnSpecs() []ColumnSpec {
	return []ColumnSpec{
		{Name: ColumnIndex, Label: "ID", Width: 8},
		{Name: ColumnTime, Label: "Time", Width: 16},
		{Name: ColumnType, Label: "Type", Width: 8, Filterable: true},
		{Name: ColumnModule, Label: "Module", Width: 12, Filterable: true},
		{Name: ColumnMethod, Label: "Method", Width: 12, Filterable: true},
		{Name: ColumnArgs, Label: "Arguments", Width: 44},
	}
}

// timeLayout renders event timestamps with two-digit date parts, a 24h
// clock, and millisecond precision.
const timeLayout = "06-01-02 15:04:05.000"

// unserializable is the display sentinel for args blobs that are not valid
// JSON and cannot be stringified.
const unserializable = "[unserializable]"

// Cell is one table-facing column value. DisplayValue is always a string,
// never the raw structured value.
type Cell struct {
	DisplayValue string `json:"display_value"`
	Filterable   bool   `json:"filterable"`
}

// ViewRow is the normalized, column-addressable projection of a RawEvent.
// Immutable once created; the original event is retained in Payload for the
// detail inspector.
type ViewRow struct {
	Key       string          `json:"key"`
	Timestamp int64           `json:"timestamp"` // epoch millis, copied from the event
	Columns   map[string]Cell `json:"columns"`
	Payload   *RawEvent       `json:"payload"`
}

// Age returns how far in the past the row's event time lies relative to now.
func (r *ViewRow) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(r.Timestamp))
}

// NewViewRow projects a single event into a table row. It never fails: a
// missing module becomes an empty string, the method is string-coerced, and
// an args blob that is not valid JSON displays as a sentinel.
func NewViewRow(event *RawEvent) *ViewRow {
	return &ViewRow{
		Key:       event.ID,
		Timestamp: event.Time,
		Columns: map[string]Cell{
			ColumnIndex:  {DisplayValue: event.ID},
			ColumnTime:   {DisplayValue: time.UnixMilli(event.Time).Format(timeLayout)},
			ColumnType:   {DisplayValue: event.Type, Filterable: true},
			ColumnModule: {DisplayValue: event.Module, Filterable: true},
			ColumnMethod: {DisplayValue: event.Method.String(), Filterable: true},
			ColumnArgs:   {DisplayValue: stringifyArgs(event.Args)},
		},
		Payload: event,
	}
}

// NewViewRows projects a batch of events into rows, preserving batch order.
func NewViewRows(events ...*RawEvent) []*ViewRow {
	rows := make([]*ViewRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, NewViewRow(e))
	}
	return rows
}

// stringifyArgs returns the compacted JSON text of an args blob, an empty
// string when the blob is absent, or a sentinel when it is not serializable.
func stringifyArgs(args json.RawMessage) string {
	if len(args) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, args); err != nil {
		return unserializable
	}
	return buf.String()
}
