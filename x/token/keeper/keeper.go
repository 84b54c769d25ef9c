package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/token/types"
)

// Keeper of the token store
type Keeper struct {
	storeKey storetypes.StoreKey
}

// NewKeeper creates a new token Keeper instance
func NewKeeper(key storetypes.StoreKey) Keeper {
	return Keeper{storeKey: key}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// getStore returns the KVStore for the token module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// GetMint retrieves a mint by address
func (k Keeper) GetMint(ctx context.Context, mint solana.PublicKey) (types.Mint, bool, error) {
	bz := k.getStore(ctx).Get(types.MintKey(mint))
	if bz == nil {
		return types.Mint{}, false, nil
	}
	m, err := types.UnmarshalMint(bz)
	if err != nil {
		return types.Mint{}, false, err
	}
	return m, true, nil
}

func (k Keeper) setMint(ctx context.Context, m types.Mint) error {
	bz, err := m.Marshal()
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.MintKey(m.Address), bz)
	return nil
}

// GetAccount retrieves a token account by address
func (k Keeper) GetAccount(ctx context.Context, account solana.PublicKey) (types.Account, bool, error) {
	bz := k.getStore(ctx).Get(types.AccountKey(account))
	if bz == nil {
		return types.Account{}, false, nil
	}
	a, err := types.UnmarshalAccount(bz)
	if err != nil {
		return types.Account{}, false, err
	}
	return a, true, nil
}

func (k Keeper) setAccount(ctx context.Context, a types.Account) error {
	bz, err := a.Marshal()
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.AccountKey(a.Address), bz)
	return nil
}

// Balance returns the amount held by a token account, zero if it does not exist.
func (k Keeper) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	a, found, err := k.GetAccount(ctx, account)
	if err != nil || !found {
		return 0, err
	}
	return a.Amount, nil
}

func (k Keeper) mustGetAccount(ctx context.Context, account solana.PublicKey) (types.Account, error) {
	a, found, err := k.GetAccount(ctx, account)
	if err != nil {
		return types.Account{}, err
	}
	if !found {
		return types.Account{}, types.ErrAccountNotFound.Wrapf("account %s", account)
	}
	return a, nil
}

func (k Keeper) mustGetMint(ctx context.Context, mint solana.PublicKey) (types.Mint, error) {
	m, found, err := k.GetMint(ctx, mint)
	if err != nil {
		return types.Mint{}, err
	}
	if !found {
		return types.Mint{}, types.ErrMintNotFound.Wrapf("mint %s", mint)
	}
	return m, nil
}
