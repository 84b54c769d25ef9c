package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// IsLocked reports whether the pool at config rejects liquidity and swap
// instructions.
func (k Keeper) IsLocked(ctx context.Context, config solana.PublicKey) (bool, error) {
	cfg, found, err := k.GetPoolConfig(ctx, config)
	if err != nil {
		return false, err
	}
	if !found {
		return false, types.ErrPoolNotFound.Wrapf("no pool at %s", config)
	}
	return cfg.Locked, nil
}

// SetLocked sets the lock flag of a pool. Only the pool authority may call
// it; a pool created without an authority can never be locked or unlocked.
// Setting the current value again is a no-op and reports changed=false.
func (k Keeper) SetLocked(ctx context.Context, msg *types.MsgSetLocked) (changed bool, err error) {
	if err := msg.ValidateBasic(); err != nil {
		return false, err
	}

	cfg, found, err := k.GetPoolConfig(ctx, msg.Config)
	if err != nil {
		return false, err
	}
	if !found {
		return false, types.ErrPoolNotFound.Wrapf("no pool at %s", msg.Config)
	}
	if cfg.Authority == nil {
		return false, types.ErrUnauthorized.Wrapf("pool %s has no authority", msg.Config)
	}
	if !cfg.Authority.Equals(msg.Authority) {
		return false, types.ErrUnauthorized.Wrapf("%s is not the authority of pool %s", msg.Authority, msg.Config)
	}

	if cfg.Locked == msg.Locked {
		return false, nil
	}

	cfg.Locked = msg.Locked
	if err := k.SetPoolConfig(ctx, msg.Config, cfg); err != nil {
		return false, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetLocked,
			sdk.NewAttribute(types.AttributeKeyPool, msg.Config.String()),
			sdk.NewAttribute(types.AttributeKeySigner, msg.Authority.String()),
			sdk.NewAttribute(types.AttributeKeyLocked, strconv.FormatBool(msg.Locked)),
		),
	)

	if msg.Locked {
		k.Logger(ctx).Info("pool locked", "pool", msg.Config.String(), "height", sdkCtx.BlockHeight())
	} else {
		k.Logger(ctx).Info("pool unlocked", "pool", msg.Config.String(), "height", sdkCtx.BlockHeight())
	}
	return true, nil
}
