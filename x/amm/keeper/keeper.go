package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// Keeper of the amm store
type Keeper struct {
	storeKey    storetypes.StoreKey
	tokenKeeper types.TokenKeeper
	programID   solana.PublicKey
	metrics     *AMMMetrics
}

// NewKeeper creates a new amm Keeper instance. metrics may be nil.
func NewKeeper(
	key storetypes.StoreKey,
	tokenKeeper types.TokenKeeper,
	programID solana.PublicKey,
	metrics *AMMMetrics,
) Keeper {
	if programID.IsZero() {
		programID = types.DefaultProgramID
	}
	return Keeper{
		storeKey:    key,
		tokenKeeper: tokenKeeper,
		programID:   programID,
		metrics:     metrics,
	}
}

// ProgramID returns the identity pool addresses are derived under.
func (k Keeper) ProgramID() solana.PublicKey {
	return k.programID
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// getStore returns the KVStore for the amm module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}
