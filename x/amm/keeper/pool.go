package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// InitializePool creates the config, LP mint, vaults and an empty ledger of a
// new pool. Every check runs before the first write.
func (k Keeper) InitializePool(ctx context.Context, msg *types.MsgInitialize) (types.PoolAddresses, error) {
	if err := msg.ValidateBasic(); err != nil {
		return types.PoolAddresses{}, err
	}

	addrs, err := types.DerivePoolAddresses(k.programID, msg.Seed, msg.Pool.MintX, msg.Pool.MintY)
	if err != nil {
		return types.PoolAddresses{}, err
	}
	if err := expectAccount("config", addrs.Config, msg.Pool.Config); err != nil {
		return types.PoolAddresses{}, err
	}
	if err := expectAccount("lp mint", addrs.MintLp, msg.Pool.MintLp); err != nil {
		return types.PoolAddresses{}, err
	}
	if err := expectAccount("vault x", addrs.VaultX, msg.Pool.VaultX); err != nil {
		return types.PoolAddresses{}, err
	}
	if err := expectAccount("vault y", addrs.VaultY, msg.Pool.VaultY); err != nil {
		return types.PoolAddresses{}, err
	}

	if k.HasPool(ctx, addrs.Config) {
		return types.PoolAddresses{}, types.ErrAlreadyInitialized.Wrapf("pool %s (seed %d)", addrs.Config, msg.Seed)
	}
	if err := k.requireMint(ctx, "mint x", msg.Pool.MintX); err != nil {
		return types.PoolAddresses{}, err
	}
	if err := k.requireMint(ctx, "mint y", msg.Pool.MintY); err != nil {
		return types.PoolAddresses{}, err
	}
	if _, found, err := k.tokenKeeper.GetMint(ctx, addrs.MintLp); err != nil {
		return types.PoolAddresses{}, err
	} else if found {
		return types.PoolAddresses{}, types.ErrAlreadyInitialized.Wrapf("lp mint %s already exists", addrs.MintLp)
	}
	for _, vault := range []struct {
		name string
		addr solana.PublicKey
	}{
		{"vault x", addrs.VaultX},
		{"vault y", addrs.VaultY},
	} {
		if _, found, err := k.tokenKeeper.GetAccount(ctx, vault.addr); err != nil {
			return types.PoolAddresses{}, err
		} else if found {
			return types.PoolAddresses{}, types.ErrAlreadyInitialized.Wrapf("%s %s already exists", vault.name, vault.addr)
		}
	}

	cfg := types.PoolConfig{
		Seed:       msg.Seed,
		Authority:  msg.Authority,
		MintX:      msg.Pool.MintX,
		MintY:      msg.Pool.MintY,
		Fee:        msg.Fee,
		Locked:     false,
		ConfigBump: addrs.ConfigBump,
		LpBump:     addrs.LpBump,
	}
	if err := cfg.Validate(); err != nil {
		return types.PoolAddresses{}, err
	}

	// writes
	config := addrs.Config
	if err := k.tokenKeeper.CreateMint(ctx, addrs.MintLp, &config, types.LpDecimals); err != nil {
		return types.PoolAddresses{}, err
	}
	if _, err := k.tokenKeeper.GetOrCreateAccount(ctx, addrs.Config, cfg.MintX); err != nil {
		return types.PoolAddresses{}, err
	}
	if _, err := k.tokenKeeper.GetOrCreateAccount(ctx, addrs.Config, cfg.MintY); err != nil {
		return types.PoolAddresses{}, err
	}
	if err := k.SetPoolConfig(ctx, addrs.Config, cfg); err != nil {
		return types.PoolAddresses{}, err
	}
	if err := k.SetVaultLedger(ctx, addrs.Config, types.VaultLedger{}); err != nil {
		return types.PoolAddresses{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeInitialize,
			sdk.NewAttribute(types.AttributeKeyPool, addrs.Config.String()),
			sdk.NewAttribute(types.AttributeKeySigner, msg.Initializer.String()),
			sdk.NewAttribute(types.AttributeKeySeed, strconv.FormatUint(msg.Seed, 10)),
			sdk.NewAttribute(types.AttributeKeyFee, strconv.FormatUint(uint64(msg.Fee), 10)),
			sdk.NewAttribute(types.AttributeKeyMintX, cfg.MintX.String()),
			sdk.NewAttribute(types.AttributeKeyMintY, cfg.MintY.String()),
			sdk.NewAttribute(types.AttributeKeyMintLp, addrs.MintLp.String()),
		),
	)

	k.record(ctx, func(m *AMMMetrics) { m.PoolsInitialized.Inc() })
	k.observeLedger(ctx, addrs.Config, types.VaultLedger{})

	k.Logger(ctx).Info("pool initialized",
		"pool", addrs.Config.String(),
		"seed", msg.Seed,
		"fee", msg.Fee,
		"mint_x", cfg.MintX.String(),
		"mint_y", cfg.MintY.String(),
	)

	return addrs, nil
}

func (k Keeper) requireMint(ctx context.Context, name string, mint solana.PublicKey) error {
	_, found, err := k.tokenKeeper.GetMint(ctx, mint)
	if err != nil {
		return err
	}
	if !found {
		return types.ErrInvalidAccount.Wrapf("%s %s does not exist", name, mint)
	}
	return nil
}
