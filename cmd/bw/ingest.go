package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/calderost/bridgewatch/internal/events"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:     "ingest [file]",
	Short:   "Ingest raw call events from a file or stdin",
	GroupID: "calls",
	Long: `Ingest reads a JSON object or array of raw call events and appends
them to the server's buffer. With no argument it reads from stdin:

  echo '{"id":"ev-1","type":"call","module":"Networking"}' | bw ingest`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		// Parse locally first so a malformed payload fails with a useful
		// message instead of a bare 400.
		batch, err := events.ParseRawEvents(data)
		if err != nil {
			return fmt.Errorf("parsing input: %w", err)
		}

		n, err := monClient.IngestCalls(context.Background(), batch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%d call(s) ingested\n", n)
		return nil
	},
}
