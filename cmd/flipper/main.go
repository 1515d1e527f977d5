package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flipper",
	Short: "Deploy and call owner-gated Flipper contracts",
	Long: `flipper hosts Flipper contracts: each instance stores one boolean that
only the account which deployed it can flip.

Configuration is read from FLIPPER_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
