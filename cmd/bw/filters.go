package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/calderost/bridgewatch/internal/model"
	"github.com/spf13/cobra"
)

var filtersCmd = &cobra.Command{
	Use:     "filters",
	Short:   "Show or change the session's column filters",
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := monClient.GetFilters(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			printFilters(resp.Filters, resp.Combine)
		}
		return nil
	},
}

var filtersSetCmd = &cobra.Command{
	Use:   "set <column:value> [column:value ...]",
	Short: "Replace the session's filter set",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters := make([]model.Filter, 0, len(args))
		for _, a := range args {
			key, value, ok := strings.Cut(a, ":")
			if !ok || key == "" {
				fmt.Fprintf(os.Stderr, "Error: invalid filter %q (expected column:value)\n", a)
				os.Exit(1)
			}
			filters = append(filters, model.Filter{Key: key, Value: value})
		}

		if err := monClient.SetFilters(context.Background(), filters); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%d filter(s) set; metrics reset until next sample\n", len(filters))
		return nil
	},
}

var filtersClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all session filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := monClient.SetFilters(context.Background(), nil); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("filters cleared")
		return nil
	},
}

func init() {
	filtersCmd.AddCommand(filtersSetCmd)
	filtersCmd.AddCommand(filtersClearCmd)
}
