package keeper_test

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	keepertest "github.com/paw-chain/cpamm/testutil/keeper"
	"github.com/paw-chain/cpamm/x/amm/types"
)

// TestRandomInstructionSequences drives a pool with random instructions from
// two users and checks after every step that the vaults back the ledger,
// that swaps never shrink k and that tokens are neither created nor lost.
func TestRandomInstructionSequences(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := keepertest.AmmKeeper(t)
		fee := rapid.Uint16Range(0, 500).Draw(rt, "fee")
		pool := f.NewPool(t, rapid.Uint64().Draw(rt, "seed"), fee, nil)

		const funding = 1_000_000_000
		users := []solana.PublicKey{keepertest.NewKey(t), keepertest.NewKey(t)}
		for _, u := range users {
			f.Fund(t, u, pool.MintX, funding)
			f.Fund(t, u, pool.MintY, funding)
		}
		total := func(mint solana.PublicKey) uint64 {
			sum := f.Balance(t, pool.Config, mint)
			for _, u := range users {
				sum += f.Balance(t, u, mint)
			}
			return sum
		}

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			user := users[rapid.IntRange(0, 1).Draw(rt, "user")]
			before := f.Ledger(t, pool)

			var err error
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				msg, merr := types.NewMsgDeposit(user, pool,
					rapid.Uint64Range(1, 1_000_000).Draw(rt, "lp"),
					rapid.Uint64Range(1, 100_000_000).Draw(rt, "maxX"),
					rapid.Uint64Range(1, 100_000_000).Draw(rt, "maxY"))
				require.NoError(rt, merr)
				_, err = f.MsgServer.Deposit(f.Ctx, msg)
			case 1:
				held := f.Balance(t, user, pool.MintLp)
				msg, merr := types.NewMsgWithdraw(user, pool,
					rapid.Uint64Range(1, held+1).Draw(rt, "burn"), 0, 0)
				require.NoError(rt, merr)
				_, err = f.MsgServer.Withdraw(f.Ctx, msg)
			case 2:
				msg, merr := types.NewMsgSwap(user, pool,
					rapid.Bool().Draw(rt, "isX"),
					rapid.Uint64Range(1, 10_000_000).Draw(rt, "amount"), 0)
				require.NoError(rt, merr)
				_, err = f.MsgServer.Swap(f.Ctx, msg)
				if err == nil {
					after := f.Ledger(t, pool)
					require.True(rt, after.K().GTE(before.K()), "k decreased from %s to %s", before.K(), after.K())
				}
			}

			if err != nil {
				var known bool
				for _, sentinel := range []error{
					types.ErrSlippageExceeded,
					types.ErrInsufficientLiquidity,
					types.ErrInsufficientFunds,
					types.ErrArithmeticOverflow,
				} {
					known = known || errors.Is(err, sentinel)
				}
				require.True(rt, known, "unexpected error: %v", err)
				require.Equal(rt, before, f.Ledger(t, pool))
			}

			msg, broken := f.Invariants()
			require.False(rt, broken, msg)
			require.Equal(rt, uint64(2*funding), total(pool.MintX))
			require.Equal(rt, uint64(2*funding), total(pool.MintY))
		}
	})
}
