package keeper_test

import (
	"context"
	"errors"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/cpamm/testutil/keeper"
	"github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/types"
)

func deposit(t *testing.T, f *keepertest.AmmFixture, user solana.PublicKey, pool types.PoolAccounts, lp, maxX, maxY uint64) (*types.MsgDepositResponse, error) {
	t.Helper()
	msg, err := types.NewMsgDeposit(user, pool, lp, maxX, maxY)
	require.NoError(t, err)
	return f.MsgServer.Deposit(f.Ctx, msg)
}

func withdraw(t *testing.T, f *keepertest.AmmFixture, user solana.PublicKey, pool types.PoolAccounts, lp, minX, minY uint64) (*types.MsgWithdrawResponse, error) {
	t.Helper()
	msg, err := types.NewMsgWithdraw(user, pool, lp, minX, minY)
	require.NoError(t, err)
	return f.MsgServer.Withdraw(f.Ctx, msg)
}

func swap(t *testing.T, f *keepertest.AmmFixture, user solana.PublicKey, pool types.PoolAccounts, isX bool, amount, min uint64) (*types.MsgSwapResponse, error) {
	t.Helper()
	msg, err := types.NewMsgSwap(user, pool, isX, amount, min)
	require.NoError(t, err)
	return f.MsgServer.Swap(f.Ctx, msg)
}

func hasEvent(events sdk.Events, eventType string) bool {
	for _, e := range events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

// TestPoolLifecycle initializes a pool with a 30 bps fee, deposits, withdraws
// half and swaps X for Y.
func TestPoolLifecycle(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	authority := keepertest.NewKey(t)
	pool := f.NewPool(t, 1111, 30, &authority)

	require.Equal(t, types.VaultLedger{}, f.Ledger(t, pool))
	cfg, found, err := f.Keeper.GetPoolConfig(f.Ctx, pool.Config)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint16(30), cfg.Fee)
	require.False(t, cfg.Locked)
	require.Equal(t, &authority, cfg.Authority)

	user := keepertest.NewKey(t)
	f.Fund(t, user, pool.MintX, 2_000_000_000)
	f.Fund(t, user, pool.MintY, 2_000_000_000)

	// deposit
	depRes, err := deposit(t, f, user, pool, 1_000_000, 1_000_000_000, 1_000_000_000)
	require.NoError(t, err)
	require.Equal(t, types.DepositQuote{AmountX: 1_000_000_000, AmountY: 1_000_000_000, Lp: 1_000_000}, depRes.Quote)
	require.Equal(t, uint64(1_000_000), f.Balance(t, user, pool.MintLp))
	require.Equal(t, types.VaultLedger{ReserveX: 1_000_000_000, ReserveY: 1_000_000_000, LpSupply: 1_000_000}, f.Ledger(t, pool))
	require.Equal(t, uint64(1_000_000_000), f.Balance(t, user, pool.MintX))
	require.Equal(t, uint64(1_000_000_000), f.Balance(t, user, pool.MintY))
	f.RequireInvariants(t)

	// withdraw half
	beforeX, beforeY := f.Balance(t, user, pool.MintX), f.Balance(t, user, pool.MintY)
	beforeLedger := f.Ledger(t, pool)
	wdRes, err := withdraw(t, f, user, pool, 500_000, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(500_000), wdRes.Quote.Lp)
	require.Equal(t, uint64(500_000), f.Balance(t, user, pool.MintLp))
	afterLedger := f.Ledger(t, pool)
	require.Less(t, afterLedger.ReserveX, beforeLedger.ReserveX)
	require.Less(t, afterLedger.ReserveY, beforeLedger.ReserveY)
	require.Equal(t, uint64(500_000), afterLedger.LpSupply)
	require.Greater(t, f.Balance(t, user, pool.MintX), beforeX)
	require.Greater(t, f.Balance(t, user, pool.MintY), beforeY)
	f.RequireInvariants(t)

	// swap X for Y
	beforeX, beforeY = f.Balance(t, user, pool.MintX), f.Balance(t, user, pool.MintY)
	beforeLedger = f.Ledger(t, pool)
	swapRes, err := swap(t, f, user, pool, true, 100_000_000, 1)
	require.NoError(t, err)
	require.Equal(t, types.SwapQuote{AmountIn: 100_000_000, EffectiveIn: 99_700_000, Fee: 300_000, AmountOut: 83_124_895}, swapRes.Quote)
	require.Less(t, f.Balance(t, user, pool.MintX), beforeX)
	require.Greater(t, f.Balance(t, user, pool.MintY), beforeY)
	afterLedger = f.Ledger(t, pool)
	require.False(t, afterLedger.K().LT(beforeLedger.K()))
	require.Equal(t, types.VaultLedger{ReserveX: 600_000_000, ReserveY: 416_875_105, LpSupply: 500_000}, afterLedger)
	f.RequireInvariants(t)

	events := f.Ctx.EventManager().Events()
	for _, eventType := range []string{types.EventTypeInitialize, types.EventTypeDeposit, types.EventTypeWithdraw, types.EventTypeSwap} {
		require.True(t, hasEvent(events, eventType), eventType)
	}

	require.Equal(t, float64(1), testutil.ToFloat64(f.Metrics.InstructionsTotal.WithLabelValues(types.TypeMsgSwap, "success")))
	require.Equal(t, float64(1), testutil.ToFloat64(f.Metrics.PoolsInitialized))
	require.Equal(t, float64(416_875_105), testutil.ToFloat64(f.Metrics.PoolReserves.WithLabelValues(pool.Config.String(), "y")))
}

func TestMetricsHeldUntilFlushed(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	pool := f.NewPool(t, 5, 30, nil)
	user := keepertest.NewKey(t)
	f.Fund(t, user, pool.MintX, 10_000)
	f.Fund(t, user, pool.MintY, 10_000)

	ctx, pending := keeper.WithPendingMetrics(f.Ctx)
	msg, err := types.NewMsgDeposit(user, pool, 1_000, 5_000, 6_000)
	require.NoError(t, err)
	_, err = f.MsgServer.Deposit(ctx, msg)
	require.NoError(t, err)

	// state is written, metrics wait for the commit
	require.Equal(t, types.VaultLedger{ReserveX: 5_000, ReserveY: 6_000, LpSupply: 1_000}, f.Ledger(t, pool))
	require.Positive(t, pending.Len())
	require.Zero(t, testutil.ToFloat64(f.Metrics.LpMinted.WithLabelValues(pool.Config.String())))
	require.Zero(t, testutil.ToFloat64(f.Metrics.InstructionsTotal.WithLabelValues(types.TypeMsgDeposit, "success")))
	require.Zero(t, testutil.ToFloat64(f.Metrics.PoolReserves.WithLabelValues(pool.Config.String(), "x")))

	// rejections are counted at once and hold nothing
	held := pending.Len()
	rejected, err := types.NewMsgDeposit(user, pool, 1_000, 1, 1)
	require.NoError(t, err)
	_, err = f.MsgServer.Deposit(ctx, rejected)
	require.ErrorIs(t, err, types.ErrSlippageExceeded)
	require.Equal(t, held, pending.Len())
	require.Equal(t, float64(1), testutil.ToFloat64(f.Metrics.InstructionsTotal.WithLabelValues(types.TypeMsgDeposit, "rejected")))

	pending.Flush()
	require.Zero(t, pending.Len())
	require.Equal(t, float64(1_000), testutil.ToFloat64(f.Metrics.LpMinted.WithLabelValues(pool.Config.String())))
	require.Equal(t, float64(1), testutil.ToFloat64(f.Metrics.InstructionsTotal.WithLabelValues(types.TypeMsgDeposit, "success")))
	require.Equal(t, float64(5_000), testutil.ToFloat64(f.Metrics.PoolReserves.WithLabelValues(pool.Config.String(), "x")))
}

func TestSwapYForX(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	pool := f.NewPool(t, 1, 0, nil)

	lp := keepertest.NewKey(t)
	f.Fund(t, lp, pool.MintX, 1_000_000)
	f.Fund(t, lp, pool.MintY, 2_000_000)
	_, err := deposit(t, f, lp, pool, 1_000, 1_000_000, 2_000_000)
	require.NoError(t, err)

	// the trader has no X account yet; the swap creates it
	trader := keepertest.NewKey(t)
	f.Fund(t, trader, pool.MintY, 10_000)
	res, err := swap(t, f, trader, pool, false, 10_000, 4_950)
	require.NoError(t, err)
	require.Equal(t, uint64(4_975), res.Quote.AmountOut)
	require.Equal(t, uint64(4_975), f.Balance(t, trader, pool.MintX))
	require.Zero(t, f.Balance(t, trader, pool.MintY))
	require.Equal(t, types.VaultLedger{ReserveX: 995_025, ReserveY: 2_010_000, LpSupply: 1_000}, f.Ledger(t, pool))
	f.RequireInvariants(t)
}

func TestSubsequentDepositRoundsUp(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	pool := f.NewPool(t, 1, 30, nil)

	first := keepertest.NewKey(t)
	f.Fund(t, first, pool.MintX, 1_001)
	f.Fund(t, first, pool.MintY, 2_003)
	_, err := deposit(t, f, first, pool, 1_000, 1_001, 2_003)
	require.NoError(t, err)

	second := keepertest.NewKey(t)
	f.Fund(t, second, pool.MintX, 1_000)
	f.Fund(t, second, pool.MintY, 1_000)

	// requires ceil(300.3) and ceil(600.9)
	_, err = deposit(t, f, second, pool, 300, 300, 1_000)
	require.ErrorIs(t, err, types.ErrSlippageExceeded)

	res, err := deposit(t, f, second, pool, 300, 301, 601)
	require.NoError(t, err)
	require.Equal(t, types.DepositQuote{AmountX: 301, AmountY: 601, Lp: 300}, res.Quote)
	require.Equal(t, uint64(699), f.Balance(t, second, pool.MintX))
	require.Equal(t, uint64(399), f.Balance(t, second, pool.MintY))

	// withdrawing straight away never returns more than was paid in
	wd, err := withdraw(t, f, second, pool, 300, 0, 0)
	require.NoError(t, err)
	require.LessOrEqual(t, wd.Quote.AmountX, uint64(301))
	require.LessOrEqual(t, wd.Quote.AmountY, uint64(601))
	f.RequireInvariants(t)
}

func TestWithdrawAllEmptiesPool(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	pool := f.NewPool(t, 1, 30, nil)

	user := keepertest.NewKey(t)
	f.Fund(t, user, pool.MintX, 5_000)
	f.Fund(t, user, pool.MintY, 7_000)
	_, err := deposit(t, f, user, pool, 100, 5_000, 7_000)
	require.NoError(t, err)

	_, err = withdraw(t, f, user, pool, 100, 5_000, 7_000)
	require.NoError(t, err)
	require.True(t, f.Ledger(t, pool).IsEmpty())
	require.Equal(t, uint64(5_000), f.Balance(t, user, pool.MintX))
	require.Equal(t, uint64(7_000), f.Balance(t, user, pool.MintY))
	require.Zero(t, f.Balance(t, user, pool.MintLp))
	f.RequireInvariants(t)

	// an emptied pool takes a fresh first deposit at a new price
	_, err = deposit(t, f, user, pool, 10, 1_000, 3_000)
	require.NoError(t, err)
	require.Equal(t, types.VaultLedger{ReserveX: 1_000, ReserveY: 3_000, LpSupply: 10}, f.Ledger(t, pool))
}

func TestInitializeErrors(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	mintX, mintY := f.NewMint(t, 6), f.NewMint(t, 9)
	initializer := keepertest.NewKey(t)
	programID := f.Keeper.ProgramID()

	msg, err := types.NewMsgInitialize(programID, initializer, 5, 30, nil, mintX, mintY)
	require.NoError(t, err)
	_, err = f.MsgServer.Initialize(f.Ctx, msg)
	require.NoError(t, err)

	t.Run("same seed twice", func(t *testing.T) {
		_, err := f.MsgServer.Initialize(f.Ctx, msg)
		require.ErrorIs(t, err, types.ErrAlreadyInitialized)
	})

	t.Run("same seed other mints", func(t *testing.T) {
		other, err := types.NewMsgInitialize(programID, initializer, 5, 30, nil, f.NewMint(t, 6), f.NewMint(t, 6))
		require.NoError(t, err)
		_, err = f.MsgServer.Initialize(f.Ctx, other)
		require.ErrorIs(t, err, types.ErrAlreadyInitialized)
	})

	t.Run("fee out of range", func(t *testing.T) {
		bad, err := types.NewMsgInitialize(programID, initializer, 6, 10_001, nil, mintX, mintY)
		require.NoError(t, err)
		_, err = f.MsgServer.Initialize(f.Ctx, bad)
		require.ErrorIs(t, err, types.ErrInvalidFee)
	})

	t.Run("identical assets", func(t *testing.T) {
		bad, err := types.NewMsgInitialize(programID, initializer, 6, 30, nil, mintX, mintX)
		require.NoError(t, err)
		_, err = f.MsgServer.Initialize(f.Ctx, bad)
		require.ErrorIs(t, err, types.ErrInvalidAssetPair)
	})

	t.Run("unknown mint", func(t *testing.T) {
		bad, err := types.NewMsgInitialize(programID, initializer, 6, 30, nil, mintX, keepertest.NewKey(t))
		require.NoError(t, err)
		_, err = f.MsgServer.Initialize(f.Ctx, bad)
		require.ErrorIs(t, err, types.ErrInvalidAccount)
	})

	t.Run("config not derived from seed", func(t *testing.T) {
		bad, err := types.NewMsgInitialize(programID, initializer, 6, 30, nil, mintX, mintY)
		require.NoError(t, err)
		bad.Pool.Config = keepertest.NewKey(t)
		_, err = f.MsgServer.Initialize(f.Ctx, bad)
		require.ErrorIs(t, err, types.ErrInvalidAccount)
	})

	t.Run("rejections leave no pool behind", func(t *testing.T) {
		addrs, err := types.DerivePoolAddresses(programID, 6, mintX, mintY)
		require.NoError(t, err)
		require.False(t, f.Keeper.HasPool(f.Ctx, addrs.Config))
		_, found, err := f.TokenKeeper.GetMint(f.Ctx, addrs.MintLp)
		require.NoError(t, err)
		require.False(t, found)
	})

	require.Equal(t, float64(6), testutil.ToFloat64(f.Metrics.InstructionsTotal.WithLabelValues(types.TypeMsgInitialize, "rejected")))
}

func TestDepositErrors(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	pool := f.NewPool(t, 1, 30, nil)

	user := keepertest.NewKey(t)
	f.Fund(t, user, pool.MintX, 1_000)
	f.Fund(t, user, pool.MintY, 1_000)

	t.Run("insufficient funds on first deposit", func(t *testing.T) {
		_, err := deposit(t, f, user, pool, 10, 1_001, 1_000)
		require.ErrorIs(t, err, types.ErrInsufficientFunds)
	})

	t.Run("missing y account", func(t *testing.T) {
		poor := keepertest.NewKey(t)
		f.Fund(t, poor, pool.MintX, 1_000)
		_, err := deposit(t, f, poor, pool, 10, 100, 100)
		require.ErrorIs(t, err, types.ErrInsufficientFunds)
	})

	t.Run("zero lp", func(t *testing.T) {
		_, err := deposit(t, f, user, pool, 0, 100, 100)
		require.ErrorIs(t, err, types.ErrInsufficientLiquidity)
	})

	t.Run("wrong vault", func(t *testing.T) {
		bad := pool
		bad.VaultX = bad.VaultY
		_, err := deposit(t, f, user, bad, 10, 100, 100)
		require.ErrorIs(t, err, types.ErrInvalidAccount)
	})

	t.Run("user account of someone else", func(t *testing.T) {
		msg, err := types.NewMsgDeposit(user, pool, 10, 100, 100)
		require.NoError(t, err)
		other, err := types.DeriveUserAccounts(keepertest.NewKey(t), pool.MintX, pool.MintY, pool.MintLp)
		require.NoError(t, err)
		msg.User.UserX = other.UserX
		_, err = f.MsgServer.Deposit(f.Ctx, msg)
		require.ErrorIs(t, err, types.ErrInvalidAccount)
	})

	t.Run("unknown pool", func(t *testing.T) {
		bad := pool
		bad.Config = keepertest.NewKey(t)
		_, err := deposit(t, f, user, bad, 10, 100, 100)
		require.ErrorIs(t, err, types.ErrPoolNotFound)
	})

	require.True(t, f.Ledger(t, pool).IsEmpty())
	require.Equal(t, uint64(1_000), f.Balance(t, user, pool.MintX))
	require.Equal(t, uint64(1_000), f.Balance(t, user, pool.MintY))
}

func TestWithdrawErrors(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	pool := f.NewPool(t, 1, 30, nil)

	user := keepertest.NewKey(t)
	f.Fund(t, user, pool.MintX, 1_000)
	f.Fund(t, user, pool.MintY, 1_000)
	_, err := deposit(t, f, user, pool, 100, 1_000, 1_000)
	require.NoError(t, err)

	_, err = withdraw(t, f, user, pool, 101, 0, 0)
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)

	_, err = withdraw(t, f, user, pool, 50, 501, 0)
	require.ErrorIs(t, err, types.ErrSlippageExceeded)

	_, err = withdraw(t, f, user, pool, 50, 0, 501)
	require.ErrorIs(t, err, types.ErrSlippageExceeded)

	// holds no lp tokens
	stranger := keepertest.NewKey(t)
	_, err = withdraw(t, f, stranger, pool, 1, 0, 0)
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	require.Equal(t, types.VaultLedger{ReserveX: 1_000, ReserveY: 1_000, LpSupply: 100}, f.Ledger(t, pool))
	require.Equal(t, uint64(100), f.Balance(t, user, pool.MintLp))
}

func TestSwapErrors(t *testing.T) {
	f := keepertest.AmmKeeper(t)
	pool := f.NewPool(t, 1, 30, nil)

	trader := keepertest.NewKey(t)
	f.Fund(t, trader, pool.MintX, 1_000)

	t.Run("empty pool", func(t *testing.T) {
		_, err := swap(t, f, trader, pool, true, 100, 0)
		require.ErrorIs(t, err, types.ErrInsufficientLiquidity)
	})

	lp := keepertest.NewKey(t)
	f.Fund(t, lp, pool.MintX, 1_000)
	f.Fund(t, lp, pool.MintY, 1_000)
	_, err := deposit(t, f, lp, pool, 1_000, 1_000, 1_000)
	require.NoError(t, err)

	t.Run("output below min", func(t *testing.T) {
		_, err := swap(t, f, trader, pool, true, 100, 91)
		require.ErrorIs(t, err, types.ErrSlippageExceeded)
	})

	t.Run("more than held", func(t *testing.T) {
		_, err := swap(t, f, trader, pool, true, 1_001, 0)
		require.ErrorIs(t, err, types.ErrInsufficientFunds)
	})

	t.Run("no input account", func(t *testing.T) {
		_, err := swap(t, f, trader, pool, false, 100, 0)
		require.ErrorIs(t, err, types.ErrInsufficientFunds)
	})

	t.Run("dust", func(t *testing.T) {
		_, err := swap(t, f, trader, pool, true, 1, 0)
		require.ErrorIs(t, err, types.ErrInsufficientLiquidity)
	})

	require.Equal(t, uint64(1_000), f.Balance(t, trader, pool.MintX))
	require.Zero(t, f.Balance(t, trader, pool.MintY))
	require.Equal(t, types.VaultLedger{ReserveX: 1_000, ReserveY: 1_000, LpSupply: 1_000}, f.Ledger(t, pool))

	res, err := swap(t, f, trader, pool, true, 100, 90)
	require.NoError(t, err)
	require.Equal(t, uint64(90), res.Quote.AmountOut)
	f.RequireInvariants(t)
}

// failingLpMint lets transfers through but refuses to mint, so a deposit
// fails after both assets have already moved inside the instruction.
type failingLpMint struct {
	types.TokenKeeper
}

func (failingLpMint) MintTo(_ context.Context, _, _, _ solana.PublicKey, _ uint64) error {
	return errors.New("mint disabled")
}

func TestFailedInstructionLeavesNoPartialState(t *testing.T) {
	f := keepertest.AmmKeeperWith(t, func(tk types.TokenKeeper) types.TokenKeeper {
		return failingLpMint{TokenKeeper: tk}
	})
	pool := f.NewPool(t, 1, 30, nil)

	user := keepertest.NewKey(t)
	f.Fund(t, user, pool.MintX, 1_000)
	f.Fund(t, user, pool.MintY, 1_000)

	_, err := deposit(t, f, user, pool, 100, 500, 500)
	require.ErrorContains(t, err, "mint disabled")

	require.Equal(t, uint64(1_000), f.Balance(t, user, pool.MintX))
	require.Equal(t, uint64(1_000), f.Balance(t, user, pool.MintY))
	require.Zero(t, f.Balance(t, pool.Config, pool.MintX))
	require.Zero(t, f.Balance(t, pool.Config, pool.MintY))
	require.True(t, f.Ledger(t, pool).IsEmpty())

	lpAccount, err := f.TokenKeeper.AssociatedAddress(user, pool.MintLp)
	require.NoError(t, err)
	_, found, err := f.TokenKeeper.GetAccount(f.Ctx, lpAccount)
	require.NoError(t, err)
	require.False(t, found)

	require.False(t, hasEvent(f.Ctx.EventManager().Events(), types.EventTypeDeposit))
	f.RequireInvariants(t)
}
