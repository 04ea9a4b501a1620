package monitor

import (
	"time"

	"github.com/calderost/bridgewatch/internal/buffer"
	"github.com/calderost/bridgewatch/internal/model"
)

// Reduce is the pure form of the ingestion contract: given the previously
// persisted state, a named host event, and its payload, it returns the next
// persisted state without touching the input. Unknown event names return
// the state unchanged. Retention pruning follows the same rule as the live
// buffer: rows older than the window relative to now are dropped.
func Reduce(state *model.Snapshot, now time.Time, retention time.Duration, name string, events ...*model.RawEvent) *model.Snapshot {
	if name != EventNewRow {
		return state
	}
	if retention <= 0 {
		retention = buffer.DefaultRetention
	}

	var prior []*model.ViewRow
	if state != nil {
		prior = state.Rows
	}

	rows := append(append([]*model.ViewRow{}, prior...), model.NewViewRows(events...)...)

	cutoff := now.Add(-retention).UnixMilli()
	kept := rows[:0]
	for _, r := range rows {
		if r.Timestamp > cutoff {
			kept = append(kept, r)
		}
	}
	return &model.Snapshot{Rows: kept}
}
