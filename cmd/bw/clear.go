package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Drop all buffered calls and reset the selection",
	GroupID: "session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := monClient.Clear(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("buffer cleared")
		return nil
	},
}
