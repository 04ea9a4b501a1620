// Package sampler derives live throughput metrics from a short trailing
// sub-window of the retention buffer.
//
// A background goroutine re-samples on a fixed period while the monitor is
// mounted. Each tick reads the sub-window, applies the active filter set,
// and publishes messages/second and bytes/second. Changing the filter set
// zeroes the published metrics immediately so no stale-filter numbers are
// shown; the next tick recomputes them.
package sampler

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/calderost/bridgewatch/internal/buffer"
	"github.com/calderost/bridgewatch/internal/model"
)

const (
	// DefaultWindow is the trailing sub-window rates are derived from.
	DefaultWindow = 5 * time.Second

	// DefaultInterval is how often the sampler re-derives the rates.
	DefaultInterval = 5 * time.Second
)

// Metrics is one published throughput sample.
type Metrics struct {
	MessagesPerSecond int64   `json:"messages_per_second"`
	BytesPerSecond    float64 `json:"bytes_per_second"`
}

// Config configures a Sampler. Zero values fall back to defaults.
type Config struct {
	// Window is the trailing sub-window rates are computed over.
	Window time.Duration

	// Interval is the tick period.
	Interval time.Duration

	// Combine selects how multi-filter sets are evaluated.
	Combine model.CombineMode

	// Now supplies the sampler's clock. Tests inject a fake.
	Now func() time.Time

	// OnSample, when set, is called after every published sample,
	// including the zero sample published on a filter change. Called
	// outside the sampler's lock.
	OnSample func(Metrics)
}

// Sampler periodically recomputes throughput metrics from the buffer.
type Sampler struct {
	buf *buffer.Buffer
	cfg Config

	mu      sync.RWMutex
	filters []model.Filter
	metrics Metrics

	stop chan struct{}
	done chan struct{}
}

// New returns a sampler reading from the given buffer.
func New(buf *buffer.Buffer, cfg Config) *Sampler {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if !cfg.Combine.IsValid() {
		cfg.Combine = model.CombineFirst
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Sampler{buf: buf, cfg: cfg}
}

// Start launches the periodic sampling goroutine. Call Stop to shut it
// down; leaving it running after the owning monitor unmounts would leak the
// ticker and keep mutating discarded state.
func (s *Sampler) Start() {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop()
}

// Stop shuts down the sampling goroutine. Safe to call when not started.
func (s *Sampler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	s.done = nil
}

func (s *Sampler) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sample()
		}
	}
}

// Sample recomputes and publishes the metrics once. A panic during the
// computation is logged and swallowed so the next tick proceeds unaffected.
func (s *Sampler) Sample() {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("sampler: tick failed", "panic", r)
		}
	}()

	now := s.cfg.Now()
	rows := s.buf.Since(now, s.cfg.Window)

	s.mu.Lock()
	var matched int64
	var totalBytes int64
	for _, r := range rows {
		if model.Matches(r, s.filters, s.cfg.Combine) {
			matched++
			totalBytes += int64(r.Payload.EncodedSize())
		}
	}
	secs := s.cfg.Window.Seconds()
	m := Metrics{
		MessagesPerSecond: int64(math.Ceil(float64(matched) / secs)),
		BytesPerSecond:    float64(totalBytes) / secs,
	}
	s.metrics = m
	onSample := s.cfg.OnSample
	s.mu.Unlock()

	if onSample != nil {
		onSample(m)
	}
}

// Metrics returns the most recently published sample.
func (s *Sampler) Metrics() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// Filters returns a copy of the active filter set.
func (s *Sampler) Filters() []model.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Filter, len(s.filters))
	copy(out, s.filters)
	return out
}

// SetFilters replaces the active filter set and zeroes the published
// metrics immediately. The zeroed sample is pushed to OnSample; real
// numbers reappear on the next tick.
func (s *Sampler) SetFilters(filters []model.Filter) {
	s.mu.Lock()
	s.filters = make([]model.Filter, len(filters))
	copy(s.filters, filters)
	s.metrics = Metrics{}
	onSample := s.cfg.OnSample
	s.mu.Unlock()

	if onSample != nil {
		onSample(Metrics{})
	}
}

// Combine returns the configured filter combination mode.
func (s *Sampler) Combine() model.CombineMode {
	return s.cfg.Combine
}
