package cmd

import (
	"encoding/base64"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
	ammtypes "github.com/paw-chain/cpamm/x/amm/types"
)

const (
	flagLimit   = "limit"
	flagPageKey = "page-key"
)

// QueryCmd returns the read-only subcommands.
func QueryCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q"},
		Short:   "Querying subcommands",
	}
	cmd.AddCommand(
		CmdQueryPool(state),
		CmdQueryPoolBySeed(state),
		CmdQueryPools(state),
		CmdSimulateDeposit(state),
		CmdSimulateWithdraw(state),
		CmdSimulateSwap(state),
		CmdExport(state),
	)
	return cmd
}

// runQuery runs fn against the latest state and prints what it returns.
func runQuery(cmd *cobra.Command, state *rootState, fn func(ctx sdk.Context, qs ammtypes.QueryServer) (any, error)) error {
	return state.withApp(func(a *app.App) error {
		var res any
		if err := a.Query(func(ctx sdk.Context) error {
			var err error
			res, err = fn(ctx, a.QueryServer())
			return err
		}); err != nil {
			return err
		}
		return printJSON(cmd, res)
	})
}

// CmdQueryPool returns a command that shows a pool by config address.
func CmdQueryPool(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "pool [config]",
		Short: "Show a pool by its config address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := parseKey("config", args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, state, func(ctx sdk.Context, qs ammtypes.QueryServer) (any, error) {
				return qs.Pool(ctx, &ammtypes.QueryPoolRequest{Config: config})
			})
		},
	}
}

// CmdQueryPoolBySeed returns a command that shows the pool created with a seed.
func CmdQueryPoolBySeed(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "pool-by-seed [seed]",
		Short: "Show the pool created with seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := parseUint64("seed", args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, state, func(ctx sdk.Context, qs ammtypes.QueryServer) (any, error) {
				return qs.PoolBySeed(ctx, &ammtypes.QueryPoolBySeedRequest{Seed: seed})
			})
		},
	}
}

// CmdQueryPools returns a command that lists pools page by page.
func CmdQueryPools(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := cmd.Flags().GetUint64(flagLimit)
			if err != nil {
				return err
			}
			rawKey, err := cmd.Flags().GetString(flagPageKey)
			if err != nil {
				return err
			}
			key, err := base64.StdEncoding.DecodeString(rawKey)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", flagPageKey, err)
			}
			req := &ammtypes.QueryPoolsRequest{Pagination: &query.PageRequest{Key: key, Limit: limit, CountTotal: len(key) == 0}}
			return runQuery(cmd, state, func(ctx sdk.Context, qs ammtypes.QueryServer) (any, error) {
				return qs.Pools(ctx, req)
			})
		},
	}
	cmd.Flags().Uint64(flagLimit, 100, "maximum number of pools to return")
	cmd.Flags().String(flagPageKey, "", "base64 next_key of the previous page")
	return cmd
}

// CmdSimulateDeposit returns a command that prices a deposit.
func CmdSimulateDeposit(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate-deposit [config] [lp-amount] [max-x] [max-y]",
		Short: "Price a deposit without executing it",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := parseKey("config", args[0])
			if err != nil {
				return err
			}
			amounts, err := parseAmounts(args[1:], "lp-amount", "max-x", "max-y")
			if err != nil {
				return err
			}
			return runQuery(cmd, state, func(ctx sdk.Context, qs ammtypes.QueryServer) (any, error) {
				return qs.SimulateDeposit(ctx, &ammtypes.QuerySimulateDepositRequest{
					Config: config, Amount: amounts[0], MaxX: amounts[1], MaxY: amounts[2],
				})
			})
		},
	}
}

// CmdSimulateWithdraw returns a command that prices a withdrawal.
func CmdSimulateWithdraw(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate-withdraw [config] [lp-amount] [min-x] [min-y]",
		Short: "Price a withdrawal without executing it",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := parseKey("config", args[0])
			if err != nil {
				return err
			}
			amounts, err := parseAmounts(args[1:], "lp-amount", "min-x", "min-y")
			if err != nil {
				return err
			}
			return runQuery(cmd, state, func(ctx sdk.Context, qs ammtypes.QueryServer) (any, error) {
				return qs.SimulateWithdraw(ctx, &ammtypes.QuerySimulateWithdrawRequest{
					Config: config, Amount: amounts[0], MinX: amounts[1], MinY: amounts[2],
				})
			})
		},
	}
}

// CmdSimulateSwap returns a command that prices a swap.
func CmdSimulateSwap(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate-swap [config] [x|y] [amount] [min-out]",
		Short: "Price a swap without executing it",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := parseKey("config", args[0])
			if err != nil {
				return err
			}
			isX, err := parseSide(args[1])
			if err != nil {
				return err
			}
			amounts, err := parseAmounts(args[2:], "amount", "min-out")
			if err != nil {
				return err
			}
			return runQuery(cmd, state, func(ctx sdk.Context, qs ammtypes.QueryServer) (any, error) {
				return qs.SimulateSwap(ctx, &ammtypes.QuerySimulateSwapRequest{
					Config: config, IsX: isX, Amount: amounts[0], Min: amounts[1],
				})
			})
		},
	}
}

// CmdExport returns a command that prints the genesis state of every module.
func CmdExport(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the latest state as genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return state.withApp(func(a *app.App) error {
				genesis, err := a.ExportGenesis()
				if err != nil {
					return err
				}
				return printJSON(cmd, genesis)
			})
		},
	}
}
