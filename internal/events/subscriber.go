package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calderost/bridgewatch/internal/model"
)

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

// Consume listens for raw call payloads on TopicRawCalls and feeds decoded
// batches to the sink. Undecodable payloads are logged and skipped; a bad
// message never stops the consumer. Blocks until ctx is cancelled or the
// subscription channel closes.
func Consume(ctx context.Context, sub Subscriber, sink func(context.Context, []*model.RawEvent)) error {
	ch, cancel, err := sub.Subscribe(TopicRawCalls)
	if err != nil {
		return fmt.Errorf("events: subscribe: %w", err)
	}
	defer cancel()

	slog.Info("events: raw call consumer started", "topic", TopicRawCalls)

	for {
		select {
		case <-ctx.Done():
			slog.Info("events: raw call consumer stopping")
			return nil
		case raw, ok := <-ch:
			if !ok {
				slog.Info("events: subscription channel closed")
				return nil
			}

			batch, err := ParseRawEvents(raw)
			if err != nil {
				slog.Warn("events: bad raw call payload", "err", err)
				continue
			}
			if len(batch) > 0 {
				sink(ctx, batch)
			}
		}
	}
}
