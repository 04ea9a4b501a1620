package config

import (
	"fmt"
	"os"
	"time"

	"github.com/calderost/bridgewatch/internal/model"
)

type Config struct {
	HTTPAddr  string // BRIDGEWATCH_HTTP_ADDR (default ":8080")
	NATSURL   string // BRIDGEWATCH_NATS_URL (optional, empty = no event bus)
	AuthToken string // BRIDGEWATCH_AUTH_TOKEN (optional, empty = auth disabled)

	// Pipeline settings
	Retention      time.Duration     // BRIDGEWATCH_RETENTION_WINDOW (default 5m)
	SampleWindow   time.Duration     // BRIDGEWATCH_SAMPLE_WINDOW (default 5s)
	SampleInterval time.Duration     // BRIDGEWATCH_SAMPLE_INTERVAL (default 5s)
	FilterCombine  model.CombineMode // BRIDGEWATCH_FILTER_COMBINE ("first" or "all", default "first")
}

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:  envOrDefault("BRIDGEWATCH_HTTP_ADDR", ":8080"),
		NATSURL:   os.Getenv("BRIDGEWATCH_NATS_URL"),
		AuthToken: os.Getenv("BRIDGEWATCH_AUTH_TOKEN"),
	}

	for _, d := range []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"BRIDGEWATCH_RETENTION_WINDOW", "5m", &c.Retention},
		{"BRIDGEWATCH_SAMPLE_WINDOW", "5s", &c.SampleWindow},
		{"BRIDGEWATCH_SAMPLE_INTERVAL", "5s", &c.SampleInterval},
	} {
		v, err := time.ParseDuration(envOrDefault(d.key, d.fallback))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.key, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("%s must be positive", d.key)
		}
		*d.dst = v
	}

	combine := model.CombineMode(envOrDefault("BRIDGEWATCH_FILTER_COMBINE", string(model.CombineFirst)))
	if !combine.IsValid() {
		return nil, fmt.Errorf("BRIDGEWATCH_FILTER_COMBINE: unknown mode %q (must be first or all)", combine)
	}
	c.FilterCombine = combine

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
