package types

// Event types for the token module
const (
	EventTypeCreateMint    = "create_mint"
	EventTypeCreateAccount = "create_token_account"
	EventTypeMintTo        = "mint_to"
	EventTypeTransfer      = "transfer"
	EventTypeBurn          = "burn"

	AttributeKeyMint      = "mint"
	AttributeKeyAccount   = "account"
	AttributeKeyOwner     = "owner"
	AttributeKeyFrom      = "from"
	AttributeKeyTo        = "to"
	AttributeKeyAmount    = "amount"
	AttributeKeyAuthority = "authority"
)
