package types

// Event types for the AMM module
const (
	EventTypeInitialize = "amm_initialize"
	EventTypeDeposit    = "amm_deposit"
	EventTypeWithdraw   = "amm_withdraw"
	EventTypeSwap       = "amm_swap"
	EventTypeSetLocked  = "amm_set_locked"

	AttributeKeyPool      = "pool"
	AttributeKeySigner    = "signer"
	AttributeKeySeed      = "seed"
	AttributeKeyFee       = "fee"
	AttributeKeyMintX     = "mint_x"
	AttributeKeyMintY     = "mint_y"
	AttributeKeyMintLp    = "mint_lp"
	AttributeKeyAmountX   = "amount_x"
	AttributeKeyAmountY   = "amount_y"
	AttributeKeyLp        = "lp"
	AttributeKeyIsX       = "is_x"
	AttributeKeyAmountIn  = "amount_in"
	AttributeKeyAmountOut = "amount_out"
	AttributeKeyLocked    = "locked"
)
