package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// GetPoolConfig retrieves the config stored at a pool address
func (k Keeper) GetPoolConfig(ctx context.Context, config solana.PublicKey) (types.PoolConfig, bool, error) {
	bz := k.getStore(ctx).Get(types.ConfigKey(config))
	if bz == nil {
		return types.PoolConfig{}, false, nil
	}
	cfg, err := types.UnmarshalPoolConfig(bz)
	if err != nil {
		return types.PoolConfig{}, false, err
	}
	return cfg, true, nil
}

// SetPoolConfig stores the config of a pool
func (k Keeper) SetPoolConfig(ctx context.Context, config solana.PublicKey, cfg types.PoolConfig) error {
	bz, err := cfg.Marshal()
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.ConfigKey(config), bz)
	return nil
}

// HasPool reports whether any state exists at a pool address
func (k Keeper) HasPool(ctx context.Context, config solana.PublicKey) bool {
	store := k.getStore(ctx)
	return store.Has(types.ConfigKey(config)) || store.Has(types.LedgerKey(config))
}

// GetVaultLedger retrieves the ledger of a pool
func (k Keeper) GetVaultLedger(ctx context.Context, config solana.PublicKey) (types.VaultLedger, error) {
	bz := k.getStore(ctx).Get(types.LedgerKey(config))
	if bz == nil {
		return types.VaultLedger{}, types.ErrPoolNotFound.Wrapf("no ledger at %s", config)
	}
	return types.UnmarshalVaultLedger(bz)
}

// SetVaultLedger stores the ledger of a pool
func (k Keeper) SetVaultLedger(ctx context.Context, config solana.PublicKey, ledger types.VaultLedger) error {
	if err := ledger.Validate(); err != nil {
		return err
	}
	bz, err := ledger.Marshal()
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.LedgerKey(config), bz)
	return nil
}

// GetPool returns the full state of the pool at config
func (k Keeper) GetPool(ctx context.Context, config solana.PublicKey) (types.PoolState, error) {
	cfg, found, err := k.GetPoolConfig(ctx, config)
	if err != nil {
		return types.PoolState{}, err
	}
	if !found {
		return types.PoolState{}, types.ErrPoolNotFound.Wrapf("no pool at %s", config)
	}
	ledger, err := k.GetVaultLedger(ctx, config)
	if err != nil {
		return types.PoolState{}, err
	}
	return types.PoolState{Address: config, Config: cfg, Ledger: ledger}, nil
}

// IteratePools calls cb for every pool until cb returns true
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.PoolState) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ConfigKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		config := solana.PublicKeyFromBytes(iterator.Key()[len(types.ConfigKeyPrefix):])
		cfg, err := types.UnmarshalPoolConfig(iterator.Value())
		if err != nil {
			return err
		}
		ledger, err := k.GetVaultLedger(ctx, config)
		if err != nil {
			return err
		}
		if cb(types.PoolState{Address: config, Config: cfg, Ledger: ledger}) {
			break
		}
	}
	return nil
}

// GetAllPools returns every pool
func (k Keeper) GetAllPools(ctx context.Context) ([]types.PoolState, error) {
	pools := []types.PoolState{}
	err := k.IteratePools(ctx, func(pool types.PoolState) bool {
		pools = append(pools, pool)
		return false
	})
	return pools, err
}

// GetStoredProgramID returns the program identity recorded at genesis
func (k Keeper) GetStoredProgramID(ctx context.Context) (solana.PublicKey, bool) {
	bz := k.getStore(ctx).Get(types.ProgramIDKey)
	if len(bz) != solana.PublicKeyLength {
		return solana.PublicKey{}, false
	}
	return solana.PublicKeyFromBytes(bz), true
}

func (k Keeper) setProgramID(ctx context.Context) {
	k.getStore(ctx).Set(types.ProgramIDKey, k.programID.Bytes())
}
