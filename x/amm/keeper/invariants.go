package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// AllInvariants runs all invariants of the amm module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := LedgerConservationInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PoolAddressInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return VaultBalanceInvariant(k)(ctx)
	}
}

// LedgerConservationInvariant checks that every ledger holds either both
// reserves and a positive LP supply, or nothing at all.
func LedgerConservationInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.PoolState) bool {
			if err := pool.Ledger.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %v\n", pool.Address, err)
			}
			return false
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("iterate pools: %v\n", err)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "ledger-conservation",
			fmt.Sprintf("found %d pools with unbalanced ledgers\n%s", count, msg),
		), broken
	}
}

// PoolAddressInvariant checks that every pool is stored at the address its
// seed and recorded bump derive.
func PoolAddressInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.PoolState) bool {
			addrs, err := pool.Config.Addresses(k.programID)
			if err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %v\n", pool.Address, err)
				return false
			}
			if !addrs.Config.Equals(pool.Address) {
				count++
				msg += fmt.Sprintf("pool %s: seed %d derives %s\n", pool.Address, pool.Config.Seed, addrs.Config)
			}
			return false
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("iterate pools: %v\n", err)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pool-address",
			fmt.Sprintf("found %d pools at underived addresses\n%s", count, msg),
		), broken
	}
}

// VaultBalanceInvariant checks that vault balances equal the ledger reserves
// and that the LP mint supply equals the ledger LP supply.
func VaultBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.PoolState) bool {
			addrs, err := pool.Config.Addresses(k.programID)
			if err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %v\n", pool.Address, err)
				return false
			}

			for _, vault := range []struct {
				name    string
				addr    solana.PublicKey
				reserve uint64
			}{
				{"x", addrs.VaultX, pool.Ledger.ReserveX},
				{"y", addrs.VaultY, pool.Ledger.ReserveY},
			} {
				balance, err := k.balanceOf(ctx, vault.addr)
				if err != nil {
					count++
					msg += fmt.Sprintf("pool %s: vault %s: %v\n", pool.Address, vault.name, err)
				} else if balance != vault.reserve {
					count++
					msg += fmt.Sprintf("pool %s: vault %s balance (%d) != reserve %s (%d)\n",
						pool.Address, vault.name, balance, vault.name, vault.reserve)
				}
			}

			mint, found, err := k.tokenKeeper.GetMint(ctx, addrs.MintLp)
			switch {
			case err != nil:
				count++
				msg += fmt.Sprintf("pool %s: lp mint: %v\n", pool.Address, err)
			case !found:
				count++
				msg += fmt.Sprintf("pool %s: lp mint %s missing\n", pool.Address, addrs.MintLp)
			case mint.Supply != pool.Ledger.LpSupply:
				count++
				msg += fmt.Sprintf("pool %s: lp mint supply (%d) != ledger lp supply (%d)\n",
					pool.Address, mint.Supply, pool.Ledger.LpSupply)
			}
			return false
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("iterate pools: %v\n", err)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "vault-balance",
			fmt.Sprintf("found %d vault mismatches\n%s", count, msg),
		), broken
	}
}
