package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var columnsCmd = &cobra.Command{
	Use:     "columns",
	Short:   "Show the call table schema",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		columns, err := monClient.GetColumns(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(columns)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLABEL\tWIDTH\tFILTERABLE")
		for _, c := range columns {
			fmt.Fprintf(w, "%s\t%s\t%d\t%v\n", c.Name, c.Label, c.Width, c.Filterable)
		}
		return w.Flush()
	},
}
