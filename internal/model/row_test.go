package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewViewRow_Columns(t *testing.T) {
	event := &RawEvent{
		ID:     "ev-1",
		Time:   time.Date(2026, 3, 4, 13, 5, 6, 789*int(time.Millisecond), time.Local).UnixMilli(),
		Type:   "call",
		Module: "Networking",
		Method: "sendRequest",
		Args:   json.RawMessage(`{ "url": "http://example.com", "retries": 3 }`),
	}

	row := NewViewRow(event)

	if row.Key != "ev-1" {
		t.Errorf("Key = %q, want %q", row.Key, "ev-1")
	}
	if row.Timestamp != event.Time {
		t.Errorf("Timestamp = %d, want %d", row.Timestamp, event.Time)
	}
	if row.Payload != event {
		t.Error("Payload does not retain the original event")
	}

	if len(row.Columns) != len(ColumnOrder) {
		t.Fatalf("got %d columns, want %d", len(row.Columns), len(ColumnOrder))
	}
	for _, name := range ColumnOrder {
		if _, ok := row.Columns[name]; !ok {
			t.Errorf("missing column %q", name)
		}
	}

	for _, tc := range []struct {
		column string
		want   string
	}{
		{ColumnIndex, "ev-1"},
		{ColumnTime, "26-03-04 13:05:06.789"},
		{ColumnType, "call"},
		{ColumnModule, "Networking"},
		{ColumnMethod, "sendRequest"},
		{ColumnArgs, `{"url":"http://example.com","retries":3}`},
	} {
		if got := row.Columns[tc.column].DisplayValue; got != tc.want {
			t.Errorf("Columns[%q] = %q, want %q", tc.column, got, tc.want)
		}
	}
}

func TestNewViewRow_Filterable(t *testing.T) {
	row := NewViewRow(&RawEvent{ID: "ev-2", Type: "call"})

	for _, tc := range []struct {
		column string
		want   bool
	}{
		{ColumnIndex, false},
		{ColumnTime, false},
		{ColumnType, true},
		{ColumnModule, true},
		{ColumnMethod, true},
		{ColumnArgs, false},
	} {
		if got := row.Columns[tc.column].Filterable; got != tc.want {
			t.Errorf("Columns[%q].Filterable = %v, want %v", tc.column, got, tc.want)
		}
	}
}

func TestNewViewRow_MalformedEvent(t *testing.T) {
	// Missing module, numeric method, args that is not valid JSON: the row
	// is still produced with safe defaults.
	event := &RawEvent{
		ID:     "ev-3",
		Time:   time.Now().UnixMilli(),
		Type:   "call",
		Method: "42",
		Args:   json.RawMessage(`{"broken":`),
	}

	row := NewViewRow(event)

	if got := row.Columns[ColumnModule].DisplayValue; got != "" {
		t.Errorf("module display = %q, want empty string", got)
	}
	if got := row.Columns[ColumnMethod].DisplayValue; got != "42" {
		t.Errorf("method display = %q, want %q", got, "42")
	}
	if got := row.Columns[ColumnArgs].DisplayValue; got != unserializable {
		t.Errorf("args display = %q, want %q", got, unserializable)
	}
}

func TestNewViewRow_AbsentArgs(t *testing.T) {
	row := NewViewRow(&RawEvent{ID: "ev-4"})
	if got := row.Columns[ColumnArgs].DisplayValue; got != "" {
		t.Errorf("args display = %q, want empty string", got)
	}
}

func TestNewViewRow_Idempotent(t *testing.T) {
	event := &RawEvent{
		ID:     "ev-5",
		Time:   time.Now().UnixMilli(),
		Type:   "call",
		Module: "Storage",
		Method: "get",
		Args:   json.RawMessage(`["a", 1, null]`),
	}

	first := NewViewRow(event)
	second := NewViewRow(event)

	for _, name := range ColumnOrder {
		if first.Columns[name].DisplayValue != second.Columns[name].DisplayValue {
			t.Errorf("column %q not idempotent: %q vs %q",
				name, first.Columns[name].DisplayValue, second.Columns[name].DisplayValue)
		}
	}
}

func TestNewViewRows_BatchOrder(t *testing.T) {
	events := []*RawEvent{
		{ID: "a", Type: "call"},
		{ID: "b", Type: "call"},
		{ID: "c", Type: "reply"},
	}

	rows := NewViewRows(events...)

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, want := range []string{"a", "b", "c"} {
		if rows[i].Key != want {
			t.Errorf("rows[%d].Key = %q, want %q", i, rows[i].Key, want)
		}
	}
}

func TestMethodValue_UnmarshalJSON(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want MethodValue
	}{
		{"String", `"sendRequest"`, "sendRequest"},
		{"Integer", `17`, "17"},
		{"Float", `3.5`, "3.5"},
		{"Null", `null`, ""},
		{"Bool", `true`, "true"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var m MethodValue
			if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tc.in, err)
			}
			if m != tc.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tc.in, m, tc.want)
			}
		})
	}
}

func TestRawEvent_EncodedSize(t *testing.T) {
	event := &RawEvent{ID: "ev-6", Time: 1000, Type: "call", Args: json.RawMessage(`{"n":1}`)}
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if got := event.EncodedSize(); got != len(data) {
		t.Errorf("EncodedSize() = %d, want %d", got, len(data))
	}
}
