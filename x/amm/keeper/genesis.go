package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// InitGenesis initializes the amm module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}
	k.setProgramID(ctx)

	for _, pool := range genState.Pools {
		addrs, err := pool.Config.Addresses(k.programID)
		if err != nil {
			return fmt.Errorf("pool %s: %w", pool.Address, err)
		}
		if !addrs.Config.Equals(pool.Address) {
			return fmt.Errorf("pool %s: seed %d derives %s: %w", pool.Address, pool.Config.Seed, addrs.Config, types.ErrInvalidAccount)
		}

		if err := k.SetPoolConfig(ctx, pool.Address, pool.Config); err != nil {
			return fmt.Errorf("failed to set config of pool %s: %w", pool.Address, err)
		}
		if err := k.SetVaultLedger(ctx, pool.Address, pool.Ledger); err != nil {
			return fmt.Errorf("failed to set ledger of pool %s: %w", pool.Address, err)
		}
		k.observeLedger(ctx, pool.Address, pool.Ledger)
	}

	return nil
}

// ExportGenesis returns the amm module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export pools: %w", err)
	}
	return &types.GenesisState{Pools: pools}, nil
}
