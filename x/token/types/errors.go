package types

import (
	"cosmossdk.io/errors"
)

// Token module sentinel errors
var (
	ErrMintNotFound      = errors.Register(ModuleName, 1, "mint not found")
	ErrMintExists        = errors.Register(ModuleName, 2, "mint already exists")
	ErrAccountNotFound   = errors.Register(ModuleName, 3, "token account not found")
	ErrInsufficientFunds = errors.Register(ModuleName, 4, "insufficient funds")
	ErrOwnerMismatch     = errors.Register(ModuleName, 5, "account owner does not match authority")
	ErrMintMismatch      = errors.Register(ModuleName, 6, "token accounts belong to different mints")
	ErrOverflow          = errors.Register(ModuleName, 7, "amount overflow")
	ErrInvalidAmount     = errors.Register(ModuleName, 8, "invalid amount")
	ErrFixedSupply       = errors.Register(ModuleName, 9, "mint has no mint authority")
)
