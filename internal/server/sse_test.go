package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/calderost/bridgewatch/internal/events"
)

func TestSSEHub_BroadcastAndReceive(t *testing.T) {
	hub := newSSEHub()

	client := hub.subscribe(nil) // all topics
	defer hub.unsubscribe(client)

	hub.broadcast("bridge.calls.row", []byte(`{"id":"ev-1"}`))

	select {
	case evt := <-client.ch:
		if evt.Topic != "bridge.calls.row" {
			t.Fatalf("expected topic=%q, got %q", "bridge.calls.row", evt.Topic)
		}
		if string(evt.Data) != `{"id":"ev-1"}` {
			t.Fatalf("expected data=%q, got %q", `{"id":"ev-1"}`, string(evt.Data))
		}
		if evt.ID != 1 {
			t.Fatalf("expected id=1, got %d", evt.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSSEHub_TopicFiltering(t *testing.T) {
	hub := newSSEHub()

	// Client only wants row events.
	client := hub.subscribe([]string{"bridge.calls.row"})
	defer hub.unsubscribe(client)

	hub.broadcast("bridge.calls.metrics", []byte(`{"messages_per_second":1}`))
	hub.broadcast("bridge.calls.row", []byte(`{"id":"ev-1"}`))

	select {
	case evt := <-client.ch:
		if evt.Topic != "bridge.calls.row" {
			t.Fatalf("expected topic=%q, got %q", "bridge.calls.row", evt.Topic)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	// Ensure no more events (metrics should have been filtered).
	select {
	case evt := <-client.ch:
		t.Fatalf("unexpected event: topic=%q", evt.Topic)
	case <-time.After(50 * time.Millisecond):
		// Good - no extra events.
	}
}

func TestSSEHub_MultipleTopicFilters(t *testing.T) {
	hub := newSSEHub()

	client := hub.subscribe([]string{"bridge.calls.row", "bridge.calls.metrics"})
	defer hub.unsubscribe(client)

	hub.broadcast("bridge.calls.row", []byte(`{}`))
	hub.broadcast("bridge.calls.metrics", []byte(`{}`))
	hub.broadcast("bridge.calls.cleared", []byte(`{}`)) // should be filtered

	received := 0
	timeout := time.After(time.Second)
	for received < 2 {
		select {
		case <-client.ch:
			received++
		case <-timeout:
			t.Fatalf("expected 2 events, got %d", received)
		}
	}

	select {
	case <-client.ch:
		t.Fatal("unexpected third event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSSEHub_Unsubscribe(t *testing.T) {
	hub := newSSEHub()

	client := hub.subscribe(nil)
	hub.unsubscribe(client)

	hub.broadcast("bridge.calls.row", []byte(`{}`))

	select {
	case <-client.ch:
		t.Fatal("should not receive events after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSSEHub_EventsSince(t *testing.T) {
	hub := newSSEHub()

	// Broadcast 5 events.
	for i := range 5 {
		hub.broadcast("bridge.calls.row", []byte(`{"n":`+string(rune('0'+i))+`}`))
	}

	// Get events after ID 2 (should return IDs 3, 4, 5).
	evts := hub.eventsSince(2)
	if len(evts) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evts))
	}
	if evts[0].ID != 3 || evts[1].ID != 4 || evts[2].ID != 5 {
		t.Fatalf("expected IDs [3,4,5], got [%d,%d,%d]", evts[0].ID, evts[1].ID, evts[2].ID)
	}
}

func TestSSEHub_EventsSince_Empty(t *testing.T) {
	hub := newSSEHub()
	evts := hub.eventsSince(0)
	if len(evts) != 0 {
		t.Fatalf("expected 0 events, got %d", len(evts))
	}
}

func TestSSEHub_RingBufferWrap(t *testing.T) {
	hub := newSSEHub()

	// Fill the ring buffer and then some to force wrap.
	for range sseRingBufferSize + 100 {
		hub.broadcast("bridge.calls.row", []byte(`{}`))
	}

	// The oldest event in the buffer should have ID = 101 (100 were evicted).
	evts := hub.eventsSince(0)
	if len(evts) != sseRingBufferSize {
		t.Fatalf("expected %d events, got %d", sseRingBufferSize, len(evts))
	}
	if evts[0].ID != 101 {
		t.Fatalf("expected oldest event ID=101, got %d", evts[0].ID)
	}
}

func TestMatchTopicPattern(t *testing.T) {
	for _, tc := range []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"bridge.calls.row", "bridge.calls.row", true},
		{"bridge.calls.row", "bridge.calls.metrics", false},
		{"bridge.calls.*", "bridge.calls.row", true},
		{"bridge.calls.*", "bridge.calls.metrics", true},
		{"bridge.calls.*", "bridge.session.selected", false},
		{"bridge.>", "bridge.calls.row", true},
		{"bridge.>", "bridge.calls.cleared", true},
		{"bridge.>", "other.topic", false},
		{"*.*.*", "bridge.calls.row", true},
		{"*.*.*", "bridge.calls", false},
	} {
		t.Run(tc.pattern+"_"+tc.topic, func(t *testing.T) {
			got := matchTopicPattern(tc.pattern, tc.topic)
			if got != tc.want {
				t.Fatalf("matchTopicPattern(%q, %q) = %v, want %v", tc.pattern, tc.topic, got, tc.want)
			}
		})
	}
}

// TestHandleEventStream_SSE tests the full HTTP SSE endpoint.
func TestHandleEventStream_SSE(t *testing.T) {
	srv, handler := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest("GET", "/v1/events/stream", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(rec, req)
	}()

	// Give the handler time to register the subscription.
	time.Sleep(50 * time.Millisecond)

	srv.sseHub.broadcast("bridge.calls.row", []byte(`{"id":"ev-sse1"}`))

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected Content-Type=text/event-stream, got %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event:bridge.calls.row") {
		t.Fatalf("expected event:bridge.calls.row in body, got:\n%s", body)
	}
	if !strings.Contains(body, `data:{"id":"ev-sse1"}`) {
		t.Fatalf("expected data with ev-sse1 in body, got:\n%s", body)
	}
	if !strings.Contains(body, "id:") {
		t.Fatalf("expected id: field in body, got:\n%s", body)
	}
}

// TestHandleEventStream_TopicFilter tests the ?topics= query param.
func TestHandleEventStream_TopicFilter(t *testing.T) {
	srv, handler := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest("GET", "/v1/events/stream?topics=bridge.calls.metrics", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(rec, req)
	}()

	time.Sleep(50 * time.Millisecond)

	// Broadcast a row event (should be filtered) and a metrics event (should pass).
	srv.sseHub.broadcast("bridge.calls.row", []byte(`{"id":"ev-1"}`))
	srv.sseHub.broadcast("bridge.calls.metrics", []byte(`{"messages_per_second":2}`))

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if strings.Contains(body, "bridge.calls.row") {
		t.Fatalf("expected row event to be filtered out, got:\n%s", body)
	}
	if !strings.Contains(body, "bridge.calls.metrics") {
		t.Fatalf("expected metrics event in body, got:\n%s", body)
	}
}

// TestHandleEventStream_LastEventID tests reconnection with Last-Event-ID.
func TestHandleEventStream_LastEventID(t *testing.T) {
	srv, handler := newTestServer(t)

	// Pre-broadcast 3 events before connecting.
	srv.sseHub.broadcast("bridge.calls.row", []byte(`{"n":1}`))
	srv.sseHub.broadcast("bridge.calls.row", []byte(`{"n":2}`))
	srv.sseHub.broadcast("bridge.calls.cleared", []byte(`{"n":3}`))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest("GET", "/v1/events/stream", nil)
	req.Header.Set("Last-Event-ID", "1") // Should replay events 2 and 3.
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(rec, req)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if strings.Contains(body, `data:{"n":1}`) {
		t.Fatalf("expected event 1 to be skipped, got:\n%s", body)
	}
	if !strings.Contains(body, `data:{"n":2}`) {
		t.Fatalf("expected event 2 in body, got:\n%s", body)
	}
	if !strings.Contains(body, `data:{"n":3}`) {
		t.Fatalf("expected event 3 in body, got:\n%s", body)
	}
}

// TestHandleEventStream_IngestBroadcast verifies that an ingested batch is
// mirrored onto the SSE stream through the monitor's row observer.
func TestHandleEventStream_IngestBroadcast(t *testing.T) {
	_, handler := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest("GET", "/v1/events/stream", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(rec, req)
	}()

	time.Sleep(50 * time.Millisecond)

	doRequest(t, handler, "POST", "/v1/calls", []byte(`{"id":"ev-stream","type":"call"}`))

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event:"+events.TopicRowAppended) {
		t.Fatalf("expected SSE event from ingest, got:\n%s", body)
	}
	if !strings.Contains(body, "ev-stream") {
		t.Fatalf("expected ingested row key in body, got:\n%s", body)
	}
}

// TestHandleEventStream_MultipleClients verifies fan-out to multiple clients.
func TestHandleEventStream_MultipleClients(t *testing.T) {
	srv, handler := newTestServer(t)

	startClient := func() (*httptest.ResponseRecorder, context.CancelFunc, <-chan struct{}) {
		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest("GET", "/v1/events/stream", nil)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		done := make(chan struct{})
		go func() {
			defer close(done)
			handler.ServeHTTP(rec, req)
		}()
		return rec, cancel, done
	}

	rec1, cancel1, done1 := startClient()
	defer cancel1()
	rec2, cancel2, done2 := startClient()
	defer cancel2()

	time.Sleep(50 * time.Millisecond)

	srv.sseHub.broadcast("bridge.calls.row", []byte(`{"id":"ev-multi"}`))

	time.Sleep(50 * time.Millisecond)
	cancel1()
	cancel2()
	<-done1
	<-done2

	for i, rec := range []*httptest.ResponseRecorder{rec1, rec2} {
		body := rec.Body.String()
		if !strings.Contains(body, "bridge.calls.row") {
			t.Fatalf("client %d: expected row event, got:\n%s", i+1, body)
		}
	}
}

// TestSSEEventFormat verifies the exact SSE wire format.
func TestSSEEventFormat(t *testing.T) {
	srv, handler := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest("GET", "/v1/events/stream", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(rec, req)
	}()

	time.Sleep(50 * time.Millisecond)
	srv.sseHub.broadcast("bridge.calls.row", []byte(`{"id":"ev-fmt"}`))
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	scanner := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	var id, event, data string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "id:") {
			id = strings.TrimPrefix(line, "id:")
		} else if strings.HasPrefix(line, "event:") {
			event = strings.TrimPrefix(line, "event:")
		} else if strings.HasPrefix(line, "data:") {
			data = strings.TrimPrefix(line, "data:")
		}
	}

	if id == "" {
		t.Fatal("expected non-empty id field")
	}
	if event != "bridge.calls.row" {
		t.Fatalf("expected event=bridge.calls.row, got %q", event)
	}
	if !json.Valid([]byte(data)) {
		t.Fatalf("expected valid JSON data, got %q", data)
	}
	if data != `{"id":"ev-fmt"}` {
		t.Fatalf("expected data=%q, got %q", `{"id":"ev-fmt"}`, data)
	}
}
