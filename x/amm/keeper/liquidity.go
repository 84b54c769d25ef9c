package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// Deposit mints msg.Amount LP tokens to the depositor in exchange for the
// pro-rata share of both reserves, bounded by msg.MaxX and msg.MaxY.
func (k Keeper) Deposit(ctx context.Context, msg *types.MsgDeposit) (types.DepositQuote, error) {
	if err := msg.ValidateBasic(); err != nil {
		return types.DepositQuote{}, err
	}

	pool, err := k.loadPool(ctx, msg.Pool)
	if err != nil {
		return types.DepositQuote{}, err
	}
	if err := verifyUserAccounts(msg.Depositor, pool, msg.User); err != nil {
		return types.DepositQuote{}, err
	}
	if pool.config.Locked {
		return types.DepositQuote{}, types.ErrPoolLocked.Wrapf("pool %s", pool.addrs.Config)
	}

	quote, next, err := types.PlanDeposit(pool.ledger, msg.Amount, msg.MaxX, msg.MaxY)
	if err != nil {
		return types.DepositQuote{}, err
	}

	if err := k.requireBalance(ctx, "x", msg.User.UserX, quote.AmountX); err != nil {
		return types.DepositQuote{}, err
	}
	if err := k.requireBalance(ctx, "y", msg.User.UserY, quote.AmountY); err != nil {
		return types.DepositQuote{}, err
	}

	// writes
	if err := k.tokenKeeper.Transfer(ctx, msg.User.UserX, pool.addrs.VaultX, msg.Depositor, quote.AmountX); err != nil {
		return types.DepositQuote{}, err
	}
	if err := k.tokenKeeper.Transfer(ctx, msg.User.UserY, pool.addrs.VaultY, msg.Depositor, quote.AmountY); err != nil {
		return types.DepositQuote{}, err
	}
	if _, err := k.tokenKeeper.GetOrCreateAccount(ctx, msg.Depositor, pool.addrs.MintLp); err != nil {
		return types.DepositQuote{}, err
	}
	if err := k.tokenKeeper.MintTo(ctx, pool.addrs.MintLp, msg.User.UserLp, pool.addrs.Config, quote.Lp); err != nil {
		return types.DepositQuote{}, err
	}
	if err := k.SetVaultLedger(ctx, pool.addrs.Config, next); err != nil {
		return types.DepositQuote{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeyPool, pool.addrs.Config.String()),
			sdk.NewAttribute(types.AttributeKeySigner, msg.Depositor.String()),
			sdk.NewAttribute(types.AttributeKeyAmountX, strconv.FormatUint(quote.AmountX, 10)),
			sdk.NewAttribute(types.AttributeKeyAmountY, strconv.FormatUint(quote.AmountY, 10)),
			sdk.NewAttribute(types.AttributeKeyLp, strconv.FormatUint(quote.Lp, 10)),
		),
	)

	addr := pool.addrs.Config.String()
	k.record(ctx, func(m *AMMMetrics) {
		m.LiquidityAdded.WithLabelValues(addr, "x").Add(float64(quote.AmountX))
		m.LiquidityAdded.WithLabelValues(addr, "y").Add(float64(quote.AmountY))
		m.LpMinted.WithLabelValues(addr).Add(float64(quote.Lp))
	})
	k.observeLedger(ctx, pool.addrs.Config, next)

	k.Logger(ctx).Info("liquidity added",
		"pool", pool.addrs.Config.String(),
		"depositor", msg.Depositor.String(),
		"amount_x", quote.AmountX,
		"amount_y", quote.AmountY,
		"lp", quote.Lp,
	)

	return quote, nil
}

// Withdraw burns msg.Amount LP tokens and releases the pro-rata share of both
// reserves, which must be at least msg.MinX and msg.MinY.
func (k Keeper) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (types.WithdrawQuote, error) {
	if err := msg.ValidateBasic(); err != nil {
		return types.WithdrawQuote{}, err
	}

	pool, err := k.loadPool(ctx, msg.Pool)
	if err != nil {
		return types.WithdrawQuote{}, err
	}
	if err := verifyUserAccounts(msg.Withdrawer, pool, msg.User); err != nil {
		return types.WithdrawQuote{}, err
	}
	if pool.config.Locked {
		return types.WithdrawQuote{}, types.ErrPoolLocked.Wrapf("pool %s", pool.addrs.Config)
	}

	quote, err := types.QuoteWithdrawal(pool.ledger, msg.Amount, msg.MinX, msg.MinY)
	if err != nil {
		return types.WithdrawQuote{}, err
	}
	next, err := pool.ledger.ApplyWithdrawal(quote)
	if err != nil {
		return types.WithdrawQuote{}, err
	}

	if err := k.requireBalance(ctx, "lp", msg.User.UserLp, quote.Lp); err != nil {
		return types.WithdrawQuote{}, err
	}

	// writes
	if err := k.tokenKeeper.Burn(ctx, msg.User.UserLp, msg.Withdrawer, quote.Lp); err != nil {
		return types.WithdrawQuote{}, err
	}
	if err := k.payOut(ctx, msg.Withdrawer, pool.config.MintX, pool.addrs.VaultX, msg.User.UserX, pool.addrs.Config, quote.AmountX); err != nil {
		return types.WithdrawQuote{}, err
	}
	if err := k.payOut(ctx, msg.Withdrawer, pool.config.MintY, pool.addrs.VaultY, msg.User.UserY, pool.addrs.Config, quote.AmountY); err != nil {
		return types.WithdrawQuote{}, err
	}
	if err := k.SetVaultLedger(ctx, pool.addrs.Config, next); err != nil {
		return types.WithdrawQuote{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyPool, pool.addrs.Config.String()),
			sdk.NewAttribute(types.AttributeKeySigner, msg.Withdrawer.String()),
			sdk.NewAttribute(types.AttributeKeyAmountX, strconv.FormatUint(quote.AmountX, 10)),
			sdk.NewAttribute(types.AttributeKeyAmountY, strconv.FormatUint(quote.AmountY, 10)),
			sdk.NewAttribute(types.AttributeKeyLp, strconv.FormatUint(quote.Lp, 10)),
		),
	)

	addr := pool.addrs.Config.String()
	k.record(ctx, func(m *AMMMetrics) {
		m.LiquidityRemoved.WithLabelValues(addr, "x").Add(float64(quote.AmountX))
		m.LiquidityRemoved.WithLabelValues(addr, "y").Add(float64(quote.AmountY))
		m.LpBurned.WithLabelValues(addr).Add(float64(quote.Lp))
	})
	k.observeLedger(ctx, pool.addrs.Config, next)

	k.Logger(ctx).Info("liquidity removed",
		"pool", pool.addrs.Config.String(),
		"withdrawer", msg.Withdrawer.String(),
		"amount_x", quote.AmountX,
		"amount_y", quote.AmountY,
		"lp", quote.Lp,
	)

	return quote, nil
}

// requireBalance fails with ErrInsufficientFunds unless account holds at least amount.
func (k Keeper) requireBalance(ctx context.Context, asset string, account solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}
	balance, err := k.balanceOf(ctx, account)
	if err != nil {
		return err
	}
	if balance < amount {
		return types.ErrInsufficientFunds.Wrapf("%s account %s has %d, need %d", asset, account, balance, amount)
	}
	return nil
}

// payOut moves amount from a vault to the owner's associated account for
// mint, creating the account if needed.
func (k Keeper) payOut(ctx context.Context, owner, mint, vault, dest, config solana.PublicKey, amount uint64) error {
	if _, err := k.tokenKeeper.GetOrCreateAccount(ctx, owner, mint); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	return k.tokenKeeper.Transfer(ctx, vault, dest, config, amount)
}
