package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/shared/pda"
	"github.com/paw-chain/cpamm/x/token/types"
)

// CreateMint registers a new mint with zero supply. A nil authority creates a
// fixed-supply mint.
func (k Keeper) CreateMint(ctx context.Context, mint solana.PublicKey, authority *solana.PublicKey, decimals uint8) error {
	if mint.IsZero() {
		return types.ErrMintNotFound.Wrap("mint address cannot be empty")
	}
	_, found, err := k.GetMint(ctx, mint)
	if err != nil {
		return err
	}
	if found {
		return types.ErrMintExists.Wrapf("mint %s", mint)
	}

	if err := k.setMint(ctx, types.Mint{
		Address:       mint,
		MintAuthority: authority,
		Decimals:      decimals,
	}); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreateMint,
			sdk.NewAttribute(types.AttributeKeyMint, mint.String()),
			sdk.NewAttribute("decimals", strconv.Itoa(int(decimals))),
		),
	)
	return nil
}

// AssociatedAddress returns the associated token account address of owner for mint.
func (k Keeper) AssociatedAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, err := pda.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return addr.Key, nil
}

// GetOrCreateAccount returns the associated token account of owner for mint,
// creating an empty one if it does not exist yet.
func (k Keeper) GetOrCreateAccount(ctx context.Context, owner, mint solana.PublicKey) (types.Account, error) {
	if _, err := k.mustGetMint(ctx, mint); err != nil {
		return types.Account{}, err
	}

	addr, err := k.AssociatedAddress(owner, mint)
	if err != nil {
		return types.Account{}, err
	}

	existing, found, err := k.GetAccount(ctx, addr)
	if err != nil {
		return types.Account{}, err
	}
	if found {
		if !existing.Owner.Equals(owner) || !existing.Mint.Equals(mint) {
			return types.Account{}, types.ErrOwnerMismatch.Wrapf("account %s is not the associated account of %s", addr, owner)
		}
		return existing, nil
	}

	account := types.Account{Address: addr, Mint: mint, Owner: owner}
	if err := k.setAccount(ctx, account); err != nil {
		return types.Account{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreateAccount,
			sdk.NewAttribute(types.AttributeKeyAccount, addr.String()),
			sdk.NewAttribute(types.AttributeKeyMint, mint.String()),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
		),
	)
	return account, nil
}

// MintTo issues new tokens of mint into the destination account. authority
// must be the mint authority.
func (k Keeper) MintTo(ctx context.Context, mint, dest, authority solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return types.ErrInvalidAmount.Wrap("mint amount must be positive")
	}
	m, err := k.mustGetMint(ctx, mint)
	if err != nil {
		return err
	}
	if m.MintAuthority == nil {
		return types.ErrFixedSupply.Wrapf("mint %s", mint)
	}
	if !m.MintAuthority.Equals(authority) {
		return types.ErrOwnerMismatch.Wrapf("%s is not the mint authority of %s", authority, mint)
	}
	account, err := k.mustGetAccount(ctx, dest)
	if err != nil {
		return err
	}
	if !account.Mint.Equals(mint) {
		return types.ErrMintMismatch.Wrapf("account %s holds %s, not %s", dest, account.Mint, mint)
	}

	supply, err := addUint64(m.Supply, amount)
	if err != nil {
		return err
	}
	balance, err := addUint64(account.Amount, amount)
	if err != nil {
		return err
	}

	m.Supply = supply
	account.Amount = balance
	if err := k.setMint(ctx, m); err != nil {
		return err
	}
	if err := k.setAccount(ctx, account); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMintTo,
			sdk.NewAttribute(types.AttributeKeyMint, mint.String()),
			sdk.NewAttribute(types.AttributeKeyTo, dest.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
		),
	)
	return nil
}

// Transfer moves amount between two accounts of the same mint. authority
// must own the source account.
func (k Keeper) Transfer(ctx context.Context, from, to, authority solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return types.ErrInvalidAmount.Wrap("transfer amount must be positive")
	}
	if from.Equals(to) {
		return types.ErrInvalidAmount.Wrap("source and destination are the same account")
	}
	src, err := k.mustGetAccount(ctx, from)
	if err != nil {
		return err
	}
	dst, err := k.mustGetAccount(ctx, to)
	if err != nil {
		return err
	}
	if !src.Owner.Equals(authority) {
		return types.ErrOwnerMismatch.Wrapf("%s does not own %s", authority, from)
	}
	if !src.Mint.Equals(dst.Mint) {
		return types.ErrMintMismatch.Wrapf("%s holds %s, %s holds %s", from, src.Mint, to, dst.Mint)
	}
	if src.Amount < amount {
		return types.ErrInsufficientFunds.Wrapf("account %s has %d, need %d", from, src.Amount, amount)
	}
	credited, err := addUint64(dst.Amount, amount)
	if err != nil {
		return err
	}

	src.Amount -= amount
	dst.Amount = credited
	if err := k.setAccount(ctx, src); err != nil {
		return err
	}
	if err := k.setAccount(ctx, dst); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
		),
	)
	return nil
}

// Burn destroys amount from an account and reduces the mint supply. authority
// must own the account.
func (k Keeper) Burn(ctx context.Context, account, authority solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return types.ErrInvalidAmount.Wrap("burn amount must be positive")
	}
	a, err := k.mustGetAccount(ctx, account)
	if err != nil {
		return err
	}
	if !a.Owner.Equals(authority) {
		return types.ErrOwnerMismatch.Wrapf("%s does not own %s", authority, account)
	}
	if a.Amount < amount {
		return types.ErrInsufficientFunds.Wrapf("account %s has %d, need %d", account, a.Amount, amount)
	}
	m, err := k.mustGetMint(ctx, a.Mint)
	if err != nil {
		return err
	}
	if m.Supply < amount {
		return types.ErrOverflow.Wrapf("burn of %d exceeds supply %d of %s", amount, m.Supply, m.Address)
	}

	a.Amount -= amount
	m.Supply -= amount
	if err := k.setAccount(ctx, a); err != nil {
		return err
	}
	if err := k.setMint(ctx, m); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBurn,
			sdk.NewAttribute(types.AttributeKeyAccount, account.String()),
			sdk.NewAttribute(types.AttributeKeyMint, a.Mint.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
		),
	)
	return nil
}

func addUint64(a, b uint64) (uint64, error) {
	if a > (1<<64-1)-b {
		return 0, types.ErrOverflow.Wrapf("%d + %d overflows uint64", a, b)
	}
	return a + b, nil
}
