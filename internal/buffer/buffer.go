// Package buffer holds the bounded recent history of bridge calls: an
// append-only row sequence bounded by a trailing time window, pruned lazily
// on each append.
package buffer

import (
	"sync"
	"time"

	"github.com/calderost/bridgewatch/internal/model"
)

// DefaultRetention is the trailing time bound for buffer membership.
const DefaultRetention = 5 * time.Minute

// Buffer is the retention buffer. It accepts all appended rows
// unconditionally; memory is bounded only by time-based eviction, which runs
// once per Append call. Rows that outlive the window stay resident until the
// next append detects them — eviction cost stays proportional to ingestion
// instead of needing a background timer.
//
// All methods are safe for concurrent use: the HTTP handlers, the event
// source consumer and the sampler tick each run on their own goroutine.
type Buffer struct {
	mu        sync.RWMutex
	retention time.Duration
	rows      []*model.ViewRow
}

// New returns an empty buffer with the given retention window.
// A non-positive retention falls back to DefaultRetention.
func New(retention time.Duration) *Buffer {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Buffer{retention: retention}
}

// Retention returns the configured retention window.
func (b *Buffer) Retention() time.Duration {
	return b.retention
}

// Append concatenates rows in batch order, then prunes every retained row
// whose event time is older than now minus the retention window. After
// Append returns, every remaining row satisfies the window bound relative
// to now.
func (b *Buffer) Append(now time.Time, rows ...*model.ViewRow) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rows = append(b.rows, rows...)

	cutoff := now.Add(-b.retention).UnixMilli()
	kept := b.rows[:0]
	for _, r := range b.rows {
		if r.Timestamp > cutoff {
			kept = append(kept, r)
		}
	}
	// Release references past the new length so evicted rows can be collected.
	for i := len(kept); i < len(b.rows); i++ {
		b.rows[i] = nil
	}
	b.rows = kept
}

// Clear empties the buffer. Selections referencing now-gone keys resolve to
// "no selection" on the next Lookup.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = nil
}

// Len returns the number of retained rows.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rows)
}

// Rows returns the retained rows in insertion order. The returned slice is a
// copy; the rows themselves are shared and immutable.
func (b *Buffer) Rows() []*model.ViewRow {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*model.ViewRow, len(b.rows))
	copy(out, b.rows)
	return out
}

// Since returns the retained rows whose event time lies within the trailing
// window ending at now. Used by the rate sampler for its sub-window reads.
func (b *Buffer) Since(now time.Time, window time.Duration) []*model.ViewRow {
	cutoff := now.Add(-window).UnixMilli()

	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*model.ViewRow
	for _, r := range b.rows {
		if r.Timestamp >= cutoff {
			out = append(out, r)
		}
	}
	return out
}

// Lookup returns the original payload of the first retained row with the
// given key, or nil when no such row exists (evicted, cleared, or never
// ingested).
func (b *Buffer) Lookup(key string) *model.RawEvent {
	if key == "" {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, r := range b.rows {
		if r.Key == key {
			return r.Payload
		}
	}
	return nil
}

// Snapshot returns the retained row sequence for the host persistence store.
func (b *Buffer) Snapshot() *model.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rows := make([]*model.ViewRow, len(b.rows))
	copy(rows, b.rows)
	return &model.Snapshot{Rows: rows}
}

// Restore replaces the retained sequence with a previously taken snapshot.
// A nil snapshot restores to empty.
func (b *Buffer) Restore(snap *model.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if snap == nil {
		b.rows = nil
		return
	}
	b.rows = make([]*model.ViewRow, len(snap.Rows))
	copy(b.rows, snap.Rows)
}
