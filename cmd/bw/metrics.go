package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:     "metrics",
	Short:   "Show the live message and byte rates",
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		interval, _ := cmd.Flags().GetDuration("interval")

		if !watch {
			m, err := monClient.GetMetrics(context.Background())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if jsonOutput {
				printJSON(m)
			} else {
				printMetrics(m)
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			m, err := monClient.GetMetrics(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if jsonOutput {
				printJSON(m)
			} else {
				fmt.Printf("%s  msgs/sec=%d  bytes/sec=%.1f\n",
					time.Now().Format("15:04:05"), m.MessagesPerSecond, m.BytesPerSecond)
			}

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}

func init() {
	metricsCmd.Flags().Bool("watch", false, "poll and print metrics until interrupted")
	metricsCmd.Flags().Duration("interval", 5*time.Second, "poll interval for --watch")
}
