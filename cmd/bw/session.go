package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:     "select <id>",
	Short:   "Select a call as the session's inspected row",
	GroupID: "session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := monClient.SelectCall(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}
		if resp.Payload == nil {
			fmt.Printf("selected %s (row no longer buffered)\n", resp.Selected)
			return nil
		}
		printCallDetail(resp.Payload)
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:     "session",
	Short:   "Show the session's selection, filters, and live metrics",
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := monClient.GetSession(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}

		if resp.Payload != nil {
			printCallDetail(resp.Payload)
			fmt.Println()
		} else {
			fmt.Println("no call selected")
			fmt.Println()
		}
		printFilters(resp.Filters, resp.Combine)
		fmt.Println()
		printMetrics(&resp.Metrics)
		return nil
	},
}
