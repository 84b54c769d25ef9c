package keeper

import (
	"context"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/cpamm/x/token/types"
)

// InitGenesis initializes the token module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}
	k.getStore(ctx).Set(types.SchemaVersionKey, sdk.Uint64ToBigEndian(types.SchemaVersion))
	for _, m := range genState.Mints {
		if err := k.setMint(ctx, m); err != nil {
			return fmt.Errorf("failed to set mint %s: %w", m.Address, err)
		}
	}
	for _, a := range genState.Accounts {
		if err := k.setAccount(ctx, a); err != nil {
			return fmt.Errorf("failed to set account %s: %w", a.Address, err)
		}
	}
	return nil
}

// GetSchemaVersion returns the layout version written at genesis, or zero
// before genesis.
func (k Keeper) GetSchemaVersion(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.SchemaVersionKey)
	if len(bz) != 8 {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

// ExportGenesis returns the token module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	gs := types.DefaultGenesis()
	store := k.getStore(ctx)

	mintIter := storetypes.KVStorePrefixIterator(store, types.MintKeyPrefix)
	defer mintIter.Close()
	for ; mintIter.Valid(); mintIter.Next() {
		m, err := types.UnmarshalMint(mintIter.Value())
		if err != nil {
			return nil, fmt.Errorf("failed to export mint: %w", err)
		}
		gs.Mints = append(gs.Mints, m)
	}

	accIter := storetypes.KVStorePrefixIterator(store, types.AccountKeyPrefix)
	defer accIter.Close()
	for ; accIter.Valid(); accIter.Next() {
		a, err := types.UnmarshalAccount(accIter.Value())
		if err != nil {
			return nil, fmt.Errorf("failed to export account: %w", err)
		}
		gs.Accounts = append(gs.Accounts, a)
	}

	return gs, nil
}
