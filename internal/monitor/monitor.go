// Package monitor wires the bridge-call pipeline together: ingestion into
// the retention buffer, the periodic rate sampler, the active filter set,
// and row selection for the detail inspector. It is the state-machine object
// the host drives through Mount/Unmount/OnEvent.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/calderost/bridgewatch/internal/buffer"
	"github.com/calderost/bridgewatch/internal/idgen"
	"github.com/calderost/bridgewatch/internal/model"
	"github.com/calderost/bridgewatch/internal/sampler"
	"github.com/calderost/bridgewatch/internal/store"
)

// EventNewRow is the named host event carrying a RawEvent or batch thereof.
const EventNewRow = "newRow"

// Config configures a Monitor. Zero durations fall back to the package
// defaults of buffer and sampler.
type Config struct {
	Retention      time.Duration
	SampleWindow   time.Duration
	SampleInterval time.Duration
	Combine        model.CombineMode

	// Now supplies the monitor's clock. Tests inject a fake.
	Now func() time.Time

	// Store receives a fresh snapshot after every mutation and supplies
	// the restore snapshot at mount. Defaults to an in-memory store.
	Store store.Store

	// OnRows is called with newly appended rows. OnMetrics is called with
	// every published sample. OnClear is called after the buffer is
	// cleared. All optional, all called outside the monitor's lock.
	OnRows    func([]*model.ViewRow)
	OnMetrics func(sampler.Metrics)
	OnClear   func()
}

// Monitor owns the retention buffer and the session state built around it.
type Monitor struct {
	cfg     Config
	buf     *buffer.Buffer
	sampler *sampler.Sampler
	store   store.Store

	mu          sync.RWMutex
	mounted     bool
	selectedKey string
}

// New returns an unmounted monitor.
func New(cfg Config) *Monitor {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}

	buf := buffer.New(cfg.Retention)
	m := &Monitor{
		cfg:   cfg,
		buf:   buf,
		store: cfg.Store,
	}
	m.sampler = sampler.New(buf, sampler.Config{
		Window:   cfg.SampleWindow,
		Interval: cfg.SampleInterval,
		Combine:  cfg.Combine,
		Now:      cfg.Now,
		OnSample: cfg.OnMetrics,
	})
	return m
}

// Mount restores the retained history from the persistence store and starts
// the sampler. Session state (selection, filters, metrics) starts fresh.
func (m *Monitor) Mount(ctx context.Context) error {
	snap, err := m.store.Load(ctx)
	if err != nil {
		// Degrade to an empty history rather than refusing to mount.
		slog.Warn("monitor: failed to load snapshot", "error", err)
	}
	m.buf.Restore(snap)

	m.mu.Lock()
	m.mounted = true
	m.selectedKey = ""
	m.mu.Unlock()

	m.sampler.Start()
	return nil
}

// Unmount stops the sampler ticker and discards the session state. The
// retained history stays in the persistence store for the next mount.
// Leaving the ticker running would keep a dangling callback mutating state
// after teardown.
func (m *Monitor) Unmount() {
	m.sampler.Stop()
	m.sampler.SetFilters(nil)

	m.mu.Lock()
	m.mounted = false
	m.selectedKey = ""
	m.mu.Unlock()
}

// Mounted reports whether the monitor is currently mounted.
func (m *Monitor) Mounted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mounted
}

// OnEvent is the host ingestion entry point. Only EventNewRow mutates
// state; unknown event names are ignored.
func (m *Monitor) OnEvent(ctx context.Context, name string, events ...*model.RawEvent) []*model.ViewRow {
	if name != EventNewRow {
		return nil
	}
	return m.Ingest(ctx, events...)
}

// Ingest appends a batch of raw events to the retention buffer and persists
// the new snapshot. Events without an id are assigned one. Returns the
// appended rows.
func (m *Monitor) Ingest(ctx context.Context, events ...*model.RawEvent) []*model.ViewRow {
	if len(events) == 0 {
		return nil
	}
	now := m.cfg.Now()
	for _, e := range events {
		if e.ID == "" {
			id, err := idgen.Generate()
			if err != nil {
				slog.Warn("monitor: id generation failed", "error", err)
			} else {
				e.ID = id
			}
		}
		if e.Time == 0 {
			e.Time = now.UnixMilli()
		}
	}

	rows := model.NewViewRows(events...)
	m.buf.Append(now, rows...)
	m.persist(ctx)

	if m.cfg.OnRows != nil {
		m.cfg.OnRows(rows)
	}
	return rows
}

// persist hands the current snapshot to the store. Best-effort; a failing
// store never blocks ingestion.
func (m *Monitor) persist(ctx context.Context) {
	if err := m.store.Save(ctx, m.buf.Snapshot()); err != nil {
		slog.Warn("monitor: failed to persist snapshot", "error", err)
	}
}

// OnHighlight records the first supplied key as the selected row. No keys
// leaves the selection unchanged.
func (m *Monitor) OnHighlight(keys ...string) {
	if len(keys) == 0 {
		return
	}
	m.mu.Lock()
	m.selectedKey = keys[0]
	m.mu.Unlock()
}

// SelectedKey returns the currently selected row key, or "".
func (m *Monitor) SelectedKey() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selectedKey
}

// SelectedPayload resolves the current selection to its original payload.
// Returns nil ("no selection") when nothing is selected or the selected row
// is gone (evicted or cleared).
func (m *Monitor) SelectedPayload() *model.RawEvent {
	return m.buf.Lookup(m.SelectedKey())
}

// Lookup returns the original payload for a row key, or nil.
func (m *Monitor) Lookup(key string) *model.RawEvent {
	return m.buf.Lookup(key)
}

// OnFilterChange replaces the active filter set. The live metrics are
// zeroed immediately; the next sampler tick recomputes them.
func (m *Monitor) OnFilterChange(filters []model.Filter) {
	m.sampler.SetFilters(filters)
}

// Filters returns the active filter set.
func (m *Monitor) Filters() []model.Filter {
	return m.sampler.Filters()
}

// Metrics returns the most recently published throughput sample.
func (m *Monitor) Metrics() sampler.Metrics {
	return m.sampler.Metrics()
}

// Combine returns the configured filter combination mode.
func (m *Monitor) Combine() model.CombineMode {
	return m.sampler.Combine()
}

// OnClear empties the retention buffer, resets the selection, and persists
// the now-empty snapshot.
func (m *Monitor) OnClear(ctx context.Context) {
	m.buf.Clear()

	m.mu.Lock()
	m.selectedKey = ""
	m.mu.Unlock()

	m.persist(ctx)
	if m.cfg.OnClear != nil {
		m.cfg.OnClear()
	}
}

// Rows returns the full retained history in insertion order.
func (m *Monitor) Rows() []*model.ViewRow {
	return m.buf.Rows()
}

// View returns the retained rows that pass the given filter set, in
// insertion order. A nil filter slice applies the active session filters.
// Limit > 0 keeps only the most recent rows.
func (m *Monitor) View(filters []model.Filter, mode model.CombineMode, limit int) []*model.ViewRow {
	if filters == nil {
		filters = m.sampler.Filters()
	}
	if !mode.IsValid() {
		mode = m.sampler.Combine()
	}

	all := m.buf.Rows()
	out := make([]*model.ViewRow, 0, len(all))
	for _, r := range all {
		if model.Matches(r, filters, mode) {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Sample forces one metrics recomputation outside the periodic schedule.
func (m *Monitor) Sample() {
	m.sampler.Sample()
}
