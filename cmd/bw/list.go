package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/calderost/bridgewatch/internal/client"
	"github.com/calderost/bridgewatch/internal/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List buffered calls",
	GroupID: "calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		filterFlags, _ := cmd.Flags().GetStringArray("filter")
		combine, _ := cmd.Flags().GetString("combine")
		limit, _ := cmd.Flags().GetInt("limit")

		req := &client.ListCallsRequest{
			Combine: model.CombineMode(combine),
			Limit:   limit,
		}
		for _, f := range filterFlags {
			key, value, ok := strings.Cut(f, ":")
			if !ok || key == "" {
				fmt.Fprintf(os.Stderr, "Error: invalid filter %q (expected column:value)\n", f)
				os.Exit(1)
			}
			req.Filters = append(req.Filters, model.Filter{Key: key, Value: value})
		}

		resp, err := monClient.ListCalls(context.Background(), req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(resp.Calls)
			return nil
		}

		// Mark the session selection in the table when there is one.
		selected := ""
		if session, err := monClient.GetSession(context.Background()); err == nil {
			selected = session.SelectedKey
		}
		printRowTable(resp.Calls, resp.Total, selected)
		return nil
	},
}

func init() {
	listCmd.Flags().StringArrayP("filter", "f", nil, "filter by column (column:value, repeatable)")
	listCmd.Flags().String("combine", "", "filter combine mode (first or all)")
	listCmd.Flags().Int("limit", 0, "maximum number of calls to return (0 = all)")
}
