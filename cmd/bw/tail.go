package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/calderost/bridgewatch/internal/client"
	"github.com/calderost/bridgewatch/internal/events"
	"github.com/calderost/bridgewatch/internal/model"
	"github.com/calderost/bridgewatch/internal/ui"
	"github.com/spf13/cobra"
)

var tailCmd = &cobra.Command{
	Use:     "tail",
	Short:   "Stream calls as they arrive",
	GroupID: "calls",
	Long: `Tail connects to the server's SSE endpoint (GET /v1/events/stream)
and prints each appended row as it arrives. Falls back to polling when the
stream cannot be established.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		withMetrics, _ := cmd.Flags().GetBool("metrics")
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := tailSSE(ctx, withMetrics); err != nil {
			fmt.Fprintf(os.Stderr, "stream unavailable (%v), polling every %s\n", err, interval)
			return tailPoll(ctx, interval)
		}
		return nil
	},
}

func init() {
	tailCmd.Flags().Bool("metrics", false, "also print metric samples")
	tailCmd.Flags().Duration("interval", 2*time.Second, "poll interval for the fallback mode")
}

// tailSSE connects to the SSE endpoint and prints events until the context
// is canceled. A connection error before the first event is returned so the
// caller can fall back to polling.
func tailSSE(ctx context.Context, withMetrics bool) error {
	topics := events.TopicRowAppended + "," + events.TopicBufferCleared
	if withMetrics {
		topics += "," + events.TopicMetricsSampled
	}

	sseURL := httpURL + "/v1/events/stream?topics=" + topics
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sseURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var topic, dataLine string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			topic = strings.TrimPrefix(line, "event:")
		case strings.HasPrefix(line, "data:"):
			dataLine = strings.TrimPrefix(line, "data:")
		case line == "" && dataLine != "":
			printTailEvent(topic, dataLine)
			topic, dataLine = "", ""
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	// Server closed the connection.
	return scanner.Err()
}

// printTailEvent renders one SSE payload as a line per row.
func printTailEvent(topic, data string) {
	switch topic {
	case events.TopicRowAppended:
		var evt events.RowAppended
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return
		}
		for _, row := range evt.Rows {
			printTailRow(row)
		}
	case events.TopicMetricsSampled:
		var evt events.MetricsSampled
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return
		}
		fmt.Println(ui.RenderMuted(fmt.Sprintf("-- msgs/sec=%d bytes/sec=%.1f",
			evt.MessagesPerSecond, evt.BytesPerSecond)))
	case events.TopicBufferCleared:
		fmt.Println(ui.RenderMuted("-- buffer cleared"))
	}
}

func printTailRow(row *model.ViewRow) {
	argsWidth := ui.TerminalWidth(120) - 60
	if argsWidth < 16 {
		argsWidth = 16
	}
	fmt.Printf("%s  %s  %-8s %-12s %-12s %s\n",
		ui.RenderValue(row.Columns[model.ColumnIndex].DisplayValue),
		ui.RenderMuted(row.Columns[model.ColumnTime].DisplayValue),
		ui.RenderType(row.Columns[model.ColumnType].DisplayValue),
		row.Columns[model.ColumnModule].DisplayValue,
		row.Columns[model.ColumnMethod].DisplayValue,
		ui.RenderValue(ui.Truncate(row.Columns[model.ColumnArgs].DisplayValue, argsWidth)),
	)
}

// tailPoll lists calls on an interval and prints rows not seen before.
func tailPoll(ctx context.Context, interval time.Duration) error {
	seen := make(map[string]bool)
	first := true

	for {
		resp, err := monClient.ListCalls(ctx, &client.ListCallsRequest{})
		if err == nil {
			for _, row := range resp.Calls {
				if seen[row.Key] {
					continue
				}
				seen[row.Key] = true
				// Skip the backlog on the first poll.
				if !first {
					printTailRow(row)
				}
			}
			first = false
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}
