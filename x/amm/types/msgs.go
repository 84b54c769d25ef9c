package types

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Instruction names, used for routing, events and metrics labels.
const (
	TypeMsgInitialize = "initialize"
	TypeMsgDeposit    = "deposit"
	TypeMsgWithdraw   = "withdraw"
	TypeMsgSwap       = "swap"
	TypeMsgSetLocked  = "set_locked"
)

// PoolAccounts are the pool records an instruction references. Each one is
// checked against its derivation before any state is read.
type PoolAccounts struct {
	Config solana.PublicKey `json:"config"`
	MintX  solana.PublicKey `json:"mint_x"`
	MintY  solana.PublicKey `json:"mint_y"`
	MintLp solana.PublicKey `json:"mint_lp"`
	VaultX solana.PublicKey `json:"vault_x"`
	VaultY solana.PublicKey `json:"vault_y"`
}

// NewPoolAccounts fills PoolAccounts from derived addresses.
func NewPoolAccounts(addrs PoolAddresses, mintX, mintY solana.PublicKey) PoolAccounts {
	return PoolAccounts{
		Config: addrs.Config,
		MintX:  mintX,
		MintY:  mintY,
		MintLp: addrs.MintLp,
		VaultX: addrs.VaultX,
		VaultY: addrs.VaultY,
	}
}

// UserAccounts are the signer's token accounts for the two assets and the LP claim.
type UserAccounts struct {
	UserX  solana.PublicKey `json:"user_x"`
	UserY  solana.PublicKey `json:"user_y"`
	UserLp solana.PublicKey `json:"user_lp"`
}

// MsgInitialize creates a pool.
type MsgInitialize struct {
	Initializer solana.PublicKey  `json:"initializer"`
	Seed        uint64            `json:"seed"`
	Fee         uint16            `json:"fee"`
	Authority   *solana.PublicKey `json:"authority,omitempty"`
	Pool        PoolAccounts      `json:"pool"`
}

// NewMsgInitialize creates a new MsgInitialize instance with derived accounts.
func NewMsgInitialize(programID, initializer solana.PublicKey, seed uint64, fee uint16, authority *solana.PublicKey, mintX, mintY solana.PublicKey) (*MsgInitialize, error) {
	addrs, err := DerivePoolAddresses(programID, seed, mintX, mintY)
	if err != nil {
		return nil, err
	}
	return &MsgInitialize{
		Initializer: initializer,
		Seed:        seed,
		Fee:         fee,
		Authority:   authority,
		Pool:        NewPoolAccounts(addrs, mintX, mintY),
	}, nil
}

// Type returns the instruction name
func (msg MsgInitialize) Type() string { return TypeMsgInitialize }

// GetSigners returns the required signer
func (msg MsgInitialize) GetSigners() []solana.PublicKey {
	return []solana.PublicKey{msg.Initializer}
}

// ValidateBasic performs stateless checks
func (msg MsgInitialize) ValidateBasic() error {
	if msg.Initializer.IsZero() {
		return ErrUnauthorized.Wrap("initializer is required")
	}
	if msg.Fee > MaxFeeBps {
		return ErrInvalidFee.Wrapf("fee %d > %d", msg.Fee, MaxFeeBps)
	}
	if msg.Pool.MintX.IsZero() || msg.Pool.MintY.IsZero() {
		return ErrInvalidAssetPair.Wrap("mints cannot be empty")
	}
	if msg.Pool.MintX.Equals(msg.Pool.MintY) {
		return ErrInvalidAssetPair.Wrapf("mint x and mint y are both %s", msg.Pool.MintX)
	}
	if msg.Authority != nil && msg.Authority.IsZero() {
		return ErrUnauthorized.Wrap("authority cannot be the zero key; omit it for an immutable pool")
	}
	return nil
}

// MsgDeposit mints Amount LP tokens in exchange for at most MaxX and MaxY.
type MsgDeposit struct {
	Depositor solana.PublicKey `json:"depositor"`
	Pool      PoolAccounts     `json:"pool"`
	User      UserAccounts     `json:"user"`
	Amount    uint64           `json:"amount"`
	MaxX      uint64           `json:"max_x"`
	MaxY      uint64           `json:"max_y"`
}

// NewMsgDeposit creates a new MsgDeposit instance using the depositor's
// associated token accounts.
func NewMsgDeposit(depositor solana.PublicKey, pool PoolAccounts, amount, maxX, maxY uint64) (*MsgDeposit, error) {
	user, err := DeriveUserAccounts(depositor, pool.MintX, pool.MintY, pool.MintLp)
	if err != nil {
		return nil, err
	}
	return &MsgDeposit{Depositor: depositor, Pool: pool, User: user, Amount: amount, MaxX: maxX, MaxY: maxY}, nil
}

// Type returns the instruction name
func (msg MsgDeposit) Type() string { return TypeMsgDeposit }

// GetSigners returns the required signer
func (msg MsgDeposit) GetSigners() []solana.PublicKey {
	return []solana.PublicKey{msg.Depositor}
}

// ValidateBasic performs stateless checks
func (msg MsgDeposit) ValidateBasic() error {
	if msg.Depositor.IsZero() {
		return ErrUnauthorized.Wrap("depositor is required")
	}
	return ValidateRange("lp amount", msg.Amount)
}

// MsgWithdraw burns Amount LP tokens for at least MinX and MinY.
type MsgWithdraw struct {
	Withdrawer solana.PublicKey `json:"withdrawer"`
	Pool       PoolAccounts     `json:"pool"`
	User       UserAccounts     `json:"user"`
	Amount     uint64           `json:"amount"`
	MinX       uint64           `json:"min_x"`
	MinY       uint64           `json:"min_y"`
}

// NewMsgWithdraw creates a new MsgWithdraw instance using the withdrawer's
// associated token accounts.
func NewMsgWithdraw(withdrawer solana.PublicKey, pool PoolAccounts, amount, minX, minY uint64) (*MsgWithdraw, error) {
	user, err := DeriveUserAccounts(withdrawer, pool.MintX, pool.MintY, pool.MintLp)
	if err != nil {
		return nil, err
	}
	return &MsgWithdraw{Withdrawer: withdrawer, Pool: pool, User: user, Amount: amount, MinX: minX, MinY: minY}, nil
}

// Type returns the instruction name
func (msg MsgWithdraw) Type() string { return TypeMsgWithdraw }

// GetSigners returns the required signer
func (msg MsgWithdraw) GetSigners() []solana.PublicKey {
	return []solana.PublicKey{msg.Withdrawer}
}

// ValidateBasic performs stateless checks
func (msg MsgWithdraw) ValidateBasic() error {
	if msg.Withdrawer.IsZero() {
		return ErrUnauthorized.Wrap("withdrawer is required")
	}
	return ValidateRange("lp amount", msg.Amount)
}

// MsgSwap trades Amount of X for Y when IsX is set, Y for X otherwise, and
// requires at least Min out.
type MsgSwap struct {
	Trader solana.PublicKey `json:"trader"`
	Pool   PoolAccounts     `json:"pool"`
	User   UserAccounts     `json:"user"`
	IsX    bool             `json:"is_x"`
	Amount uint64           `json:"amount"`
	Min    uint64           `json:"min"`
}

// NewMsgSwap creates a new MsgSwap instance using the trader's associated
// token accounts.
func NewMsgSwap(trader solana.PublicKey, pool PoolAccounts, isX bool, amount, min uint64) (*MsgSwap, error) {
	user, err := DeriveUserAccounts(trader, pool.MintX, pool.MintY, pool.MintLp)
	if err != nil {
		return nil, err
	}
	return &MsgSwap{Trader: trader, Pool: pool, User: user, IsX: isX, Amount: amount, Min: min}, nil
}

// Type returns the instruction name
func (msg MsgSwap) Type() string { return TypeMsgSwap }

// GetSigners returns the required signer
func (msg MsgSwap) GetSigners() []solana.PublicKey {
	return []solana.PublicKey{msg.Trader}
}

// ValidateBasic performs stateless checks
func (msg MsgSwap) ValidateBasic() error {
	if msg.Trader.IsZero() {
		return ErrUnauthorized.Wrap("trader is required")
	}
	return ValidateRange("swap amount", msg.Amount)
}

// MsgSetLocked locks or unlocks a pool. Only the pool authority may sign it.
type MsgSetLocked struct {
	Authority solana.PublicKey `json:"authority"`
	Config    solana.PublicKey `json:"config"`
	Locked    bool             `json:"locked"`
}

// Type returns the instruction name
func (msg MsgSetLocked) Type() string { return TypeMsgSetLocked }

// GetSigners returns the required signer
func (msg MsgSetLocked) GetSigners() []solana.PublicKey {
	return []solana.PublicKey{msg.Authority}
}

// ValidateBasic performs stateless checks
func (msg MsgSetLocked) ValidateBasic() error {
	if msg.Authority.IsZero() {
		return ErrUnauthorized.Wrap("authority is required")
	}
	if msg.Config.IsZero() {
		return ErrInvalidAccount.Wrap("config is required")
	}
	return nil
}

// MsgInitializeResponse returns the addresses of the new pool.
type MsgInitializeResponse struct {
	Addresses PoolAddresses `json:"addresses"`
}

// MsgDepositResponse returns what the deposit moved.
type MsgDepositResponse struct {
	Quote DepositQuote `json:"quote"`
}

// MsgWithdrawResponse returns what the withdrawal moved.
type MsgWithdrawResponse struct {
	Quote WithdrawQuote `json:"quote"`
}

// MsgSwapResponse returns what the swap moved.
type MsgSwapResponse struct {
	Quote SwapQuote `json:"quote"`
}

// MsgSetLockedResponse reports the lock state after the instruction and
// whether it changed.
type MsgSetLockedResponse struct {
	Locked  bool `json:"locked"`
	Changed bool `json:"changed"`
}

// MsgServer is the instruction surface of the module.
type MsgServer interface {
	Initialize(context.Context, *MsgInitialize) (*MsgInitializeResponse, error)
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	Swap(context.Context, *MsgSwap) (*MsgSwapResponse, error)
	SetLocked(context.Context, *MsgSetLocked) (*MsgSetLockedResponse, error)
}
