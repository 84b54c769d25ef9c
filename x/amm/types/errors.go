package types

import (
	"cosmossdk.io/errors"
)

// AMM module sentinel errors
var (
	ErrInvalidFee            = errors.Register(ModuleName, 1, "fee must be between 0 and 10000 basis points")
	ErrInvalidAssetPair      = errors.Register(ModuleName, 2, "invalid asset pair")
	ErrAlreadyInitialized    = errors.Register(ModuleName, 3, "pool already initialized")
	ErrPoolLocked            = errors.Register(ModuleName, 4, "pool is locked")
	ErrUnauthorized          = errors.Register(ModuleName, 5, "unauthorized")
	ErrSlippageExceeded      = errors.Register(ModuleName, 6, "slippage exceeded")
	ErrInsufficientLiquidity = errors.Register(ModuleName, 7, "insufficient liquidity")
	ErrInsufficientFunds     = errors.Register(ModuleName, 8, "insufficient funds")
	ErrArithmeticOverflow    = errors.Register(ModuleName, 9, "arithmetic overflow")
	ErrDerivationExhausted   = errors.Register(ModuleName, 10, "address derivation exhausted")
	ErrPoolNotFound          = errors.Register(ModuleName, 11, "pool not found")
	ErrInvalidAccount        = errors.Register(ModuleName, 12, "account does not match expected derivation")
	ErrInvalidPoolState      = errors.Register(ModuleName, 13, "invalid pool state")
)
