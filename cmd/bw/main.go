package main

import (
	"os"

	"github.com/calderost/bridgewatch/internal/client"
	"github.com/calderost/bridgewatch/internal/ui"
	"github.com/spf13/cobra"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool

	monClient client.MonitorClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("BRIDGEWATCH_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("BRIDGEWATCH_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "bw <command>",
	Short: "CLI client for the bridgewatch call monitor",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		monClient = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if monClient != nil {
			monClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authenticated servers")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "calls", Title: "Calls:"},
		&cobra.Group{ID: "session", Title: "Session:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	// Calls
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(ingestCmd)

	// Session
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(filtersCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(clearCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
