package types

import (
	"context"

	"github.com/gagliardetto/solana-go"

	tokentypes "github.com/paw-chain/cpamm/x/token/types"
)

// TokenKeeper is the asset-transfer service the AMM moves balances through.
// The pool config address acts as the authority over the vaults and the LP mint.
type TokenKeeper interface {
	GetMint(ctx context.Context, mint solana.PublicKey) (tokentypes.Mint, bool, error)
	CreateMint(ctx context.Context, mint solana.PublicKey, authority *solana.PublicKey, decimals uint8) error

	GetAccount(ctx context.Context, account solana.PublicKey) (tokentypes.Account, bool, error)
	GetOrCreateAccount(ctx context.Context, owner, mint solana.PublicKey) (tokentypes.Account, error)

	MintTo(ctx context.Context, mint, dest, authority solana.PublicKey, amount uint64) error
	Transfer(ctx context.Context, from, to, authority solana.PublicKey, amount uint64) error
	Burn(ctx context.Context, account, authority solana.PublicKey, amount uint64) error
}
