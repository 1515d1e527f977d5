package main

import (
	"github.com/spf13/cobra"

	"github.com/icook/tiny-flipper/console"
	"github.com/icook/tiny-flipper/identity"
)

func init() {
	consoleCmd.Flags().StringVar(&consoleCaller, "caller", "alice", callerUsage())
	rootCmd.AddCommand(consoleCmd)
}

var consoleCaller string

var consoleCmd = &cobra.Command{
	Use:   "console ID",
	Short: "Open an interactive view of a contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := identity.ParseContractID(args[0])
		if err != nil {
			return err
		}
		caller, err := identity.ResolveAccount(consoleCaller)
		if err != nil {
			return err
		}
		rt, err := openLocalRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		return console.Run(cmd.Context(), rt.engine, id, caller)
	},
}
