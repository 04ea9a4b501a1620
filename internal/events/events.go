package events

import (
	"context"

	"github.com/calderost/bridgewatch/internal/model"
)

// Event topic constants
const (
	// TopicRawCalls is the inbound subject sources publish RawEvent
	// payloads to (a single JSON object or an array).
	TopicRawCalls = "bridge.calls.raw"

	// Outbound subjects mirroring monitor mutations for downstream consumers.
	TopicRowAppended    = "bridge.calls.row"
	TopicMetricsSampled = "bridge.calls.metrics"
	TopicBufferCleared  = "bridge.calls.cleared"
)

// Event types

type RowAppended struct {
	Rows []*model.ViewRow `json:"rows"`
}

type MetricsSampled struct {
	MessagesPerSecond int64   `json:"messages_per_second"`
	BytesPerSecond    float64 `json:"bytes_per_second"`
}

type BufferCleared struct{}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
