package cmd

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
	tokentypes "github.com/paw-chain/cpamm/x/token/types"
)

const (
	flagDecimals = "decimals"
	flagFixed    = "fixed-supply"
)

// TokenCmd returns the token subcommands.
func TokenCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   tokentypes.ModuleName,
		Short: "Mint and token account subcommands",
	}
	cmd.AddCommand(
		CmdCreateMint(state),
		CmdMintTo(state),
		CmdTransfer(state),
		CmdBalance(state),
	)
	return cmd
}

// CmdCreateMint returns a command that registers a new mint.
func CmdCreateMint(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-mint [mint]",
		Short: "Create a mint controlled by the signer",
		Long: `Create a mint whose mint authority is the signer. A random mint address is
used when none is given.

Example:
  $ ammd token create-mint --signer <authority> --decimals 6`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := getSigner(cmd.Flags())
			if err != nil {
				return err
			}
			decimals, err := cmd.Flags().GetUint8(flagDecimals)
			if err != nil {
				return err
			}
			fixed, err := cmd.Flags().GetBool(flagFixed)
			if err != nil {
				return err
			}

			var mint solana.PublicKey
			if len(args) == 1 {
				if mint, err = parseKey("mint", args[0]); err != nil {
					return err
				}
			} else {
				priv, err := solana.NewRandomPrivateKey()
				if err != nil {
					return err
				}
				mint = priv.PublicKey()
			}

			authority := &signer
			if fixed {
				authority = nil
			}

			return state.withApp(func(a *app.App) error {
				events, err := a.Execute(func(ctx sdk.Context) error {
					return a.TokenKeeper.CreateMint(ctx, mint, authority, decimals)
				})
				if err != nil {
					return err
				}
				return printJSON(cmd, instructionResult{
					Height: a.LastHeight(),
					Result: map[string]string{"mint": mint.String()},
					Events: events,
				})
			})
		},
	}
	addSignerFlag(cmd, "mint authority")
	cmd.Flags().Uint8(flagDecimals, 6, "decimal precision of the mint")
	cmd.Flags().Bool(flagFixed, false, "create the mint without a mint authority")
	return cmd
}

// CmdMintTo returns a command that mints tokens into an owner's associated
// account, creating the account if needed.
func CmdMintTo(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint-to [mint] [owner] [amount]",
		Short: "Mint tokens to an owner",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := getSigner(cmd.Flags())
			if err != nil {
				return err
			}
			mint, err := parseKey("mint", args[0])
			if err != nil {
				return err
			}
			owner, err := parseKey("owner", args[1])
			if err != nil {
				return err
			}
			amount, err := parseUint64("amount", args[2])
			if err != nil {
				return err
			}

			return state.withApp(func(a *app.App) error {
				var account solana.PublicKey
				events, err := a.Execute(func(ctx sdk.Context) error {
					acc, err := a.TokenKeeper.GetOrCreateAccount(ctx, owner, mint)
					if err != nil {
						return err
					}
					account = acc.Address
					return a.TokenKeeper.MintTo(ctx, mint, acc.Address, signer, amount)
				})
				if err != nil {
					return err
				}
				return printJSON(cmd, instructionResult{
					Height: a.LastHeight(),
					Result: map[string]string{"account": account.String()},
					Events: events,
				})
			})
		},
	}
	addSignerFlag(cmd, "mint authority")
	return cmd
}

// CmdTransfer returns a command that moves tokens between associated accounts.
func CmdTransfer(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer [mint] [to-owner] [amount]",
		Short: "Transfer tokens from the signer to another owner",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := getSigner(cmd.Flags())
			if err != nil {
				return err
			}
			mint, err := parseKey("mint", args[0])
			if err != nil {
				return err
			}
			to, err := parseKey("to-owner", args[1])
			if err != nil {
				return err
			}
			amount, err := parseUint64("amount", args[2])
			if err != nil {
				return err
			}

			return state.withApp(func(a *app.App) error {
				events, err := a.Execute(func(ctx sdk.Context) error {
					from, err := a.TokenKeeper.AssociatedAddress(signer, mint)
					if err != nil {
						return err
					}
					dest, err := a.TokenKeeper.GetOrCreateAccount(ctx, to, mint)
					if err != nil {
						return err
					}
					return a.TokenKeeper.Transfer(ctx, from, dest.Address, signer, amount)
				})
				if err != nil {
					return err
				}
				return printJSON(cmd, instructionResult{Height: a.LastHeight(), Events: events})
			})
		},
	}
	addSignerFlag(cmd, "owner of the source account")
	return cmd
}

// CmdBalance returns a command that prints an owner's balance of a mint.
func CmdBalance(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [owner] [mint]",
		Short: "Show the balance of an owner's associated account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseKey("owner", args[0])
			if err != nil {
				return err
			}
			mint, err := parseKey("mint", args[1])
			if err != nil {
				return err
			}

			return state.withApp(func(a *app.App) error {
				account, err := a.TokenKeeper.AssociatedAddress(owner, mint)
				if err != nil {
					return err
				}
				var balance uint64
				if err := a.Query(func(ctx sdk.Context) error {
					_, found, err := a.TokenKeeper.GetMint(ctx, mint)
					if err != nil {
						return err
					}
					if !found {
						return fmt.Errorf("%w: %s", tokentypes.ErrMintNotFound, mint)
					}
					balance, err = a.TokenKeeper.Balance(ctx, account)
					return err
				}); err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{
					"account": account.String(),
					"owner":   owner.String(),
					"mint":    mint.String(),
					"amount":  balance,
				})
			})
		},
	}
}
