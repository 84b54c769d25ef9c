package cmd

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
	ammtypes "github.com/paw-chain/cpamm/x/amm/types"
)

const flagAuthority = "authority"

// PoolCmd returns the pool instruction subcommands.
func PoolCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Pool instruction subcommands",
	}
	cmd.AddCommand(
		CmdInitializePool(state),
		CmdDeposit(state),
		CmdWithdraw(state),
		CmdSwap(state),
		CmdSetLocked(state, true),
		CmdSetLocked(state, false),
	)
	return cmd
}

// poolAccounts resolves every account of the pool at config.
func poolAccounts(ctx context.Context, a *app.App, config solana.PublicKey) (ammtypes.PoolAccounts, error) {
	res, err := a.QueryServer().Pool(ctx, &ammtypes.QueryPoolRequest{Config: config})
	if err != nil {
		return ammtypes.PoolAccounts{}, err
	}
	return ammtypes.NewPoolAccounts(res.Addresses, res.Pool.Config.MintX, res.Pool.Config.MintY), nil
}

// execute runs one instruction and prints its result.
func execute(cmd *cobra.Command, state *rootState, fn func(ctx sdk.Context, a *app.App) (any, error)) error {
	return state.withApp(func(a *app.App) error {
		var result any
		events, err := a.Execute(func(ctx sdk.Context) error {
			var err error
			result, err = fn(ctx, a)
			return err
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, instructionResult{Height: a.LastHeight(), Result: result, Events: events})
	})
}

// CmdInitializePool returns a command that creates a pool.
func CmdInitializePool(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [seed] [fee-bps] [mint-x] [mint-y]",
		Short: "Create a pool for two mints",
		Long: `Create a pool at the address derived from seed. The fee is in basis points
(0 to 10000). Without --authority the pool can never be locked.

Example:
  $ ammd pool init 1 30 <mint-x> <mint-y> --signer <key> --authority <key>`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := getSigner(cmd.Flags())
			if err != nil {
				return err
			}
			seed, err := parseUint64("seed", args[0])
			if err != nil {
				return err
			}
			fee, err := parseUint64("fee", args[1])
			if err != nil {
				return err
			}
			if fee > ammtypes.MaxFeeBps {
				return ammtypes.ErrInvalidFee.Wrapf("fee %d > %d", fee, ammtypes.MaxFeeBps)
			}
			mintX, err := parseKey("mint-x", args[2])
			if err != nil {
				return err
			}
			mintY, err := parseKey("mint-y", args[3])
			if err != nil {
				return err
			}

			var authority *solana.PublicKey
			if raw, _ := cmd.Flags().GetString(flagAuthority); raw != "" {
				key, err := parseKey(flagAuthority, raw)
				if err != nil {
					return err
				}
				authority = &key
			}

			msg, err := ammtypes.NewMsgInitialize(state.cfg.ProgramID, signer, seed, uint16(fee), authority, mintX, mintY)
			if err != nil {
				return err
			}
			return execute(cmd, state, func(ctx sdk.Context, a *app.App) (any, error) {
				return a.MsgServer().Initialize(ctx, msg)
			})
		},
	}
	addSignerFlag(cmd, "initializer")
	cmd.Flags().String(flagAuthority, "", "key allowed to lock and unlock the pool")
	return cmd
}

// CmdDeposit returns a command that adds liquidity.
func CmdDeposit(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [config] [lp-amount] [max-x] [max-y]",
		Short: "Deposit both assets for an exact amount of LP tokens",
		Long: `Mint lp-amount LP tokens to the signer, spending at most max-x and max-y.
On an empty pool the deposit spends exactly max-x and max-y and sets the price.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := getSigner(cmd.Flags())
			if err != nil {
				return err
			}
			config, err := parseKey("config", args[0])
			if err != nil {
				return err
			}
			amounts, err := parseAmounts(args[1:], "lp-amount", "max-x", "max-y")
			if err != nil {
				return err
			}
			return execute(cmd, state, func(ctx sdk.Context, a *app.App) (any, error) {
				pool, err := poolAccounts(ctx, a, config)
				if err != nil {
					return nil, err
				}
				msg, err := ammtypes.NewMsgDeposit(signer, pool, amounts[0], amounts[1], amounts[2])
				if err != nil {
					return nil, err
				}
				return a.MsgServer().Deposit(ctx, msg)
			})
		},
	}
	addSignerFlag(cmd, "depositor")
	return cmd
}

// CmdWithdraw returns a command that removes liquidity.
func CmdWithdraw(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [config] [lp-amount] [min-x] [min-y]",
		Short: "Burn LP tokens for at least min-x and min-y",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := getSigner(cmd.Flags())
			if err != nil {
				return err
			}
			config, err := parseKey("config", args[0])
			if err != nil {
				return err
			}
			amounts, err := parseAmounts(args[1:], "lp-amount", "min-x", "min-y")
			if err != nil {
				return err
			}
			return execute(cmd, state, func(ctx sdk.Context, a *app.App) (any, error) {
				pool, err := poolAccounts(ctx, a, config)
				if err != nil {
					return nil, err
				}
				msg, err := ammtypes.NewMsgWithdraw(signer, pool, amounts[0], amounts[1], amounts[2])
				if err != nil {
					return nil, err
				}
				return a.MsgServer().Withdraw(ctx, msg)
			})
		},
	}
	addSignerFlag(cmd, "withdrawer")
	return cmd
}

// CmdSwap returns a command that trades one asset for the other.
func CmdSwap(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap [config] [x|y] [amount] [min-out]",
		Short: "Sell amount of x or y for at least min-out of the other asset",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := getSigner(cmd.Flags())
			if err != nil {
				return err
			}
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
			return execute(cmd, state, func(ctx sdk.Context, a *app.App) (any, error) {
				pool, err := poolAccounts(ctx, a, config)
				if err != nil {
					return nil, err
				}
				msg, err := ammtypes.NewMsgSwap(signer, pool, isX, amounts[0], amounts[1])
				if err != nil {
					return nil, err
				}
				return a.MsgServer().Swap(ctx, msg)
			})
		},
	}
	addSignerFlag(cmd, "trader")
	return cmd
}

// CmdSetLocked returns the lock or the unlock command.
func CmdSetLocked(state *rootState, locked bool) *cobra.Command {
	use, short := "unlock [config]", "Resume deposits, withdrawals and swaps"
	if locked {
		use, short = "lock [config]", "Reject deposits, withdrawals and swaps"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := getSigner(cmd.Flags())
			if err != nil {
				return err
			}
			config, err := parseKey("config", args[0])
			if err != nil {
				return err
			}
			msg := &ammtypes.MsgSetLocked{Authority: signer, Config: config, Locked: locked}
			return execute(cmd, state, func(ctx sdk.Context, a *app.App) (any, error) {
				return a.MsgServer().SetLocked(ctx, msg)
			})
		},
	}
	addSignerFlag(cmd, "pool authority")
	return cmd
}

func parseAmounts(args []string, names ...string) ([]uint64, error) {
	amounts := make([]uint64, len(names))
	for i, name := range names {
		v, err := parseUint64(name, args[i])
		if err != nil {
			return nil, err
		}
		amounts[i] = v
	}
	return amounts, nil
}

func parseSide(raw string) (bool, error) {
	switch raw {
	case "x", "X":
		return true, nil
	case "y", "Y":
		return false, nil
	default:
		return false, fmt.Errorf("invalid side %q: expected x or y", raw)
	}
}
