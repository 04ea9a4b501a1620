package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calderost/bridgewatch/internal/config"
	"github.com/calderost/bridgewatch/internal/events"
	"github.com/calderost/bridgewatch/internal/model"
	"github.com/calderost/bridgewatch/internal/monitor"
	"github.com/calderost/bridgewatch/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the bridgewatch server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create an HTTP client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (BRIDGEWATCH_NATS_URL not set)")
		}

		callServer := server.NewCallServer(monitor.Config{
			Retention:      cfg.Retention,
			SampleWindow:   cfg.SampleWindow,
			SampleInterval: cfg.SampleInterval,
			Combine:        cfg.FilterCombine,
		}, publisher)

		if err := callServer.Monitor().Mount(context.Background()); err != nil {
			publisher.Close()
			return err
		}

		// Start the raw-call subscriber if NATS is available.
		var ingestCancel context.CancelFunc
		if cfg.NATSURL != "" {
			sub, err := events.NewNATSSubscriber(cfg.NATSURL)
			if err != nil {
				logger.Error("failed to create raw-call subscriber", "err", err)
			} else {
				var ingestCtx context.Context
				ingestCtx, ingestCancel = context.WithCancel(context.Background())
				go func() {
					err := events.Consume(ingestCtx, sub, func(ctx context.Context, batch []*model.RawEvent) {
						callServer.Monitor().Ingest(ctx, batch...)
					})
					if err != nil {
						logger.Error("raw-call subscriber error", "err", err)
					}
					sub.Close()
				}()
				logger.Info("raw-call subscriber started", "topic", events.TopicRawCalls)
			}
		}

		// Start HTTP server.
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: callServer.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		logger.Info("bridgewatch server started",
			"http_addr", cfg.HTTPAddr,
			"retention", cfg.Retention,
			"sample_window", cfg.SampleWindow,
		)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if ingestCancel != nil {
			ingestCancel()
			logger.Info("raw-call subscriber stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		callServer.Monitor().Unmount()
		logger.Info("monitor unmounted")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
