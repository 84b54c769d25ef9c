package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// Swap trades msg.Amount of one asset for the other. X is sold for Y when
// msg.IsX is set. The fee stays in the input reserve.
func (k Keeper) Swap(ctx context.Context, msg *types.MsgSwap) (types.SwapQuote, error) {
	if err := msg.ValidateBasic(); err != nil {
		return types.SwapQuote{}, err
	}

	pool, err := k.loadPool(ctx, msg.Pool)
	if err != nil {
		return types.SwapQuote{}, err
	}
	if err := verifyUserAccounts(msg.Trader, pool, msg.User); err != nil {
		return types.SwapQuote{}, err
	}
	if pool.config.Locked {
		return types.SwapQuote{}, types.ErrPoolLocked.Wrapf("pool %s", pool.addrs.Config)
	}

	reserveIn, reserveOut := pool.ledger.Reserves(msg.IsX)
	quote, err := types.QuoteSwap(reserveIn, reserveOut, msg.Amount, pool.config.Fee, msg.Min)
	if err != nil {
		return types.SwapQuote{}, err
	}
	next, err := pool.ledger.ApplySwap(msg.IsX, quote)
	if err != nil {
		return types.SwapQuote{}, err
	}

	userIn, userOut := msg.User.UserX, msg.User.UserY
	vaultIn, vaultOut := pool.addrs.VaultX, pool.addrs.VaultY
	mintIn, mintOut := pool.config.MintX, pool.config.MintY
	if !msg.IsX {
		userIn, userOut = userOut, userIn
		vaultIn, vaultOut = vaultOut, vaultIn
		mintIn, mintOut = mintOut, mintIn
	}

	if err := k.requireBalance(ctx, "input", userIn, quote.AmountIn); err != nil {
		return types.SwapQuote{}, err
	}

	// writes
	if err := k.tokenKeeper.Transfer(ctx, userIn, vaultIn, msg.Trader, quote.AmountIn); err != nil {
		return types.SwapQuote{}, err
	}
	if err := k.payOut(ctx, msg.Trader, mintOut, vaultOut, userOut, pool.addrs.Config, quote.AmountOut); err != nil {
		return types.SwapQuote{}, err
	}
	if err := k.SetVaultLedger(ctx, pool.addrs.Config, next); err != nil {
		return types.SwapQuote{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwap,
			sdk.NewAttribute(types.AttributeKeyPool, pool.addrs.Config.String()),
			sdk.NewAttribute(types.AttributeKeySigner, msg.Trader.String()),
			sdk.NewAttribute(types.AttributeKeyIsX, strconv.FormatBool(msg.IsX)),
			sdk.NewAttribute(types.AttributeKeyAmountIn, strconv.FormatUint(quote.AmountIn, 10)),
			sdk.NewAttribute(types.AttributeKeyAmountOut, strconv.FormatUint(quote.AmountOut, 10)),
			sdk.NewAttribute(types.AttributeKeyFee, strconv.FormatUint(quote.Fee, 10)),
		),
	)

	addr := pool.addrs.Config.String()
	k.record(ctx, func(m *AMMMetrics) {
		m.SwapVolume.WithLabelValues(addr, mintIn.String()).Add(float64(quote.AmountIn))
		m.SwapFees.WithLabelValues(addr, mintIn.String()).Add(float64(quote.Fee))
		m.SwapOutput.WithLabelValues(addr, mintOut.String()).Add(float64(quote.AmountOut))
	})
	k.observeLedger(ctx, pool.addrs.Config, next)

	k.Logger(ctx).Info("swap executed",
		"pool", pool.addrs.Config.String(),
		"trader", msg.Trader.String(),
		"is_x", msg.IsX,
		"amount_in", quote.AmountIn,
		"amount_out", quote.AmountOut,
		"fee", quote.Fee,
	)

	return quote, nil
}
