package keeper

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// loadedPool is a pool whose referenced accounts have been checked against
// their derivations.
type loadedPool struct {
	addrs  types.PoolAddresses
	config types.PoolConfig
	ledger types.VaultLedger
}

// loadPool reads the config at accounts.Config and verifies every other
// referenced account against the addresses derived from it.
func (k Keeper) loadPool(ctx context.Context, accounts types.PoolAccounts) (loadedPool, error) {
	cfg, found, err := k.GetPoolConfig(ctx, accounts.Config)
	if err != nil {
		return loadedPool{}, err
	}
	if !found {
		return loadedPool{}, types.ErrPoolNotFound.Wrapf("no pool at %s", accounts.Config)
	}

	addrs, err := cfg.Addresses(k.programID)
	if err != nil {
		return loadedPool{}, err
	}
	if err := expectAccount("config", addrs.Config, accounts.Config); err != nil {
		return loadedPool{}, err
	}
	if err := expectAccount("mint x", cfg.MintX, accounts.MintX); err != nil {
		return loadedPool{}, err
	}
	if err := expectAccount("mint y", cfg.MintY, accounts.MintY); err != nil {
		return loadedPool{}, err
	}
	if err := expectAccount("lp mint", addrs.MintLp, accounts.MintLp); err != nil {
		return loadedPool{}, err
	}
	if err := expectAccount("vault x", addrs.VaultX, accounts.VaultX); err != nil {
		return loadedPool{}, err
	}
	if err := expectAccount("vault y", addrs.VaultY, accounts.VaultY); err != nil {
		return loadedPool{}, err
	}

	ledger, err := k.GetVaultLedger(ctx, accounts.Config)
	if err != nil {
		return loadedPool{}, err
	}
	if err := ledger.Validate(); err != nil {
		return loadedPool{}, err
	}

	return loadedPool{addrs: addrs, config: cfg, ledger: ledger}, nil
}

// verifyUserAccounts checks that user holds the associated token accounts of
// owner for the pool's mints.
func verifyUserAccounts(owner solana.PublicKey, pool loadedPool, user types.UserAccounts) error {
	expected, err := types.DeriveUserAccounts(owner, pool.config.MintX, pool.config.MintY, pool.addrs.MintLp)
	if err != nil {
		return err
	}
	if err := expectAccount("user x", expected.UserX, user.UserX); err != nil {
		return err
	}
	if err := expectAccount("user y", expected.UserY, user.UserY); err != nil {
		return err
	}
	return expectAccount("user lp", expected.UserLp, user.UserLp)
}

// balanceOf returns the balance of an existing token account, zero when the
// account does not exist yet.
func (k Keeper) balanceOf(ctx context.Context, account solana.PublicKey) (uint64, error) {
	acc, found, err := k.tokenKeeper.GetAccount(ctx, account)
	if err != nil || !found {
		return 0, err
	}
	return acc.Amount, nil
}

func expectAccount(name string, expected, actual solana.PublicKey) error {
	if !expected.Equals(actual) {
		return types.ErrInvalidAccount.Wrapf("%s: expected %s, got %s", name, expected, actual)
	}
	return nil
}
