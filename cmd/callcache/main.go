package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "callcache",
	Short: "Walkthrough and load harness for the callcache library",
	Long: `Run the library against a simulated slow backend.

"demo" walks through coalescing, throttling, refresh-ahead and invalidation
step by step; "bench" hammers one group with concurrent pollers and reports
how many backend calls the cache absorbed.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
