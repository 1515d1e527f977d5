package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/icook/tiny-flipper/contract/flipper"
	"github.com/icook/tiny-flipper/identity"
)

var (
	callerFlag string
	initFlag   string
)

func init() {
	deployCmd.Flags().StringVar(&initFlag, "init", "", "initial value (true|false); omit for the default constructor")
	for _, c := range []*cobra.Command{deployCmd, flipCmd, getCmd} {
		c.Flags().StringVar(&callerFlag, "caller", "alice", callerUsage())
	}
	rootCmd.AddCommand(deployCmd, flipCmd, getCmd)
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a new Flipper owned by --caller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := identity.ResolveAccount(callerFlag)
		if err != nil {
			return err
		}
		var initValue *bool
		if initFlag != "" {
			b, err := strconv.ParseBool(initFlag)
			if err != nil {
				return errors.Wrap(err, "--init")
			}
			initValue = &b
		}

		rt, err := openLocalRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		id, err := rt.engine.Deploy(cmd.Context(), caller, initValue)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var flipCmd = &cobra.Command{
	Use:   "flip ID",
	Short: "Flip a contract's value as --caller",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, caller, err := callArgs(args[0])
		if err != nil {
			return err
		}
		rt, err := openLocalRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		value, err := rt.engine.Flip(cmd.Context(), id, caller)
		var rejected flipper.Error
		if errors.As(err, &rejected) {
			return errors.Errorf("call rejected: %s", rejected)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Print a contract's value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, caller, err := callArgs(args[0])
		if err != nil {
			return err
		}
		rt, err := openLocalRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		value, err := rt.engine.GetVal(cmd.Context(), id, caller)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func callerUsage() string {
	return "calling account: 0x-prefixed hex id or one of " + strings.Join(identity.DevAccountNames(), ", ")
}

func callArgs(rawID string) (identity.ContractID, identity.AccountID, error) {
	id, err := identity.ParseContractID(rawID)
	if err != nil {
		return identity.ContractID{}, identity.AccountID{}, errors.Wrap(err, "contract id")
	}
	caller, err := identity.ResolveAccount(callerFlag)
	if err != nil {
		return identity.ContractID{}, identity.AccountID{}, err
	}
	return id, caller, nil
}
