package server

import (
	"context"
	"log/slog"

	"github.com/calderost/bridgewatch/internal/events"
	"github.com/calderost/bridgewatch/internal/model"
	"github.com/calderost/bridgewatch/internal/monitor"
	"github.com/calderost/bridgewatch/internal/sampler"
)

// CallServer exposes the bridge-call monitor over HTTP/JSON and SSE, and
// mirrors monitor mutations to the event bus.
type CallServer struct {
	mon       *monitor.Monitor
	publisher events.Publisher
	sseHub    *sseHub
}

// NewCallServer builds the monitor from cfg and wires its mutation
// observers to the SSE hub and the publisher. The caller owns the monitor
// lifecycle via Monitor().Mount / Unmount.
func NewCallServer(cfg monitor.Config, publisher events.Publisher) *CallServer {
	s := &CallServer{
		publisher: publisher,
		sseHub:    newSSEHub(),
	}

	cfg.OnRows = func(rows []*model.ViewRow) {
		s.publish(events.TopicRowAppended, events.RowAppended{Rows: rows})
	}
	cfg.OnMetrics = func(m sampler.Metrics) {
		s.publish(events.TopicMetricsSampled, events.MetricsSampled{
			MessagesPerSecond: m.MessagesPerSecond,
			BytesPerSecond:    m.BytesPerSecond,
		})
	}
	cfg.OnClear = func() {
		s.publish(events.TopicBufferCleared, events.BufferCleared{})
	}

	s.mon = monitor.New(cfg)
	return s
}

// Monitor returns the monitor owned by this server.
func (s *CallServer) Monitor() *monitor.Monitor {
	return s.mon
}

// publish mirrors a monitor mutation to the event bus and the SSE hub.
// Both are best-effort; failures are logged and never block the pipeline.
func (s *CallServer) publish(topic string, event any) {
	if err := s.publisher.Publish(context.Background(), topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
	s.broadcastEvent(topic, event)
}
