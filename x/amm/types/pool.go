package types

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/shared/layout"
	"github.com/paw-chain/cpamm/x/shared/pda"
)

const (
	configRecord = "Config"
	ledgerRecord = "VaultLedger"
)

// PoolConfig is the identity of one pool. It is written once by Initialize;
// only Locked changes afterwards.
type PoolConfig struct {
	Seed       uint64            `json:"seed"`
	Authority  *solana.PublicKey `json:"authority,omitempty" bin:"optional"`
	MintX      solana.PublicKey  `json:"mint_x"`
	MintY      solana.PublicKey  `json:"mint_y"`
	Fee        uint16            `json:"fee"`
	Locked     bool              `json:"locked"`
	ConfigBump uint8             `json:"config_bump"`
	LpBump     uint8             `json:"lp_bump"`
}

// Validate checks the static invariants of a config.
func (c PoolConfig) Validate() error {
	if c.Fee > MaxFeeBps {
		return ErrInvalidFee.Wrapf("fee %d > %d", c.Fee, MaxFeeBps)
	}
	if c.MintX.IsZero() || c.MintY.IsZero() {
		return ErrInvalidAssetPair.Wrap("mints cannot be empty")
	}
	if c.MintX.Equals(c.MintY) {
		return ErrInvalidAssetPair.Wrapf("mint x and mint y are both %s", c.MintX)
	}
	return nil
}

// Addresses recomputes the pool addresses from the stored seeds and bumps.
func (c PoolConfig) Addresses(programID solana.PublicKey) (PoolAddresses, error) {
	config, err := pda.Create([][]byte{[]byte(ConfigSeed), pda.Uint64Seed(c.Seed)}, c.ConfigBump, programID)
	if err != nil {
		return PoolAddresses{}, ErrInvalidAccount.Wrapf("config: %v", err)
	}
	lp, err := pda.Create([][]byte{[]byte(LpSeed), config[:]}, c.LpBump, programID)
	if err != nil {
		return PoolAddresses{}, ErrInvalidAccount.Wrapf("lp mint: %v", err)
	}
	vaultX, err := DeriveVaultAddress(config, c.MintX)
	if err != nil {
		return PoolAddresses{}, err
	}
	vaultY, err := DeriveVaultAddress(config, c.MintY)
	if err != nil {
		return PoolAddresses{}, err
	}
	return PoolAddresses{
		Config:     config,
		ConfigBump: c.ConfigBump,
		MintLp:     lp,
		LpBump:     c.LpBump,
		VaultX:     vaultX,
		VaultY:     vaultY,
	}, nil
}

// Marshal encodes the config record.
func (c PoolConfig) Marshal() ([]byte, error) {
	return layout.Marshal(configRecord, c)
}

// UnmarshalPoolConfig decodes a stored config record.
func UnmarshalPoolConfig(bz []byte) (PoolConfig, error) {
	var c PoolConfig
	if err := layout.Unmarshal(configRecord, bz, &c); err != nil {
		return PoolConfig{}, err
	}
	return c, nil
}

// VaultLedger tracks the custodied reserves and the outstanding LP supply.
type VaultLedger struct {
	ReserveX uint64 `json:"reserve_x"`
	ReserveY uint64 `json:"reserve_y"`
	LpSupply uint64 `json:"lp_supply"`
}

// IsEmpty reports whether the pool holds nothing and has no claims.
func (l VaultLedger) IsEmpty() bool {
	return l.ReserveX == 0 && l.ReserveY == 0 && l.LpSupply == 0
}

// Validate checks that reserves and LP supply are zero together.
func (l VaultLedger) Validate() error {
	if l.IsEmpty() {
		return nil
	}
	if l.ReserveX == 0 || l.ReserveY == 0 || l.LpSupply == 0 {
		return ErrInvalidPoolState.Wrapf("reserves (%d, %d) and lp supply %d must be zero together",
			l.ReserveX, l.ReserveY, l.LpSupply)
	}
	return nil
}

// K returns the constant-product invariant reserveX * reserveY.
func (l VaultLedger) K() math.Int {
	return math.NewIntFromUint64(l.ReserveX).Mul(math.NewIntFromUint64(l.ReserveY))
}

// Reserves returns (reserveIn, reserveOut) for a swap direction.
func (l VaultLedger) Reserves(isX bool) (uint64, uint64) {
	if isX {
		return l.ReserveX, l.ReserveY
	}
	return l.ReserveY, l.ReserveX
}

// ApplyDeposit returns the ledger after a deposit quote lands.
func (l VaultLedger) ApplyDeposit(q DepositQuote) (VaultLedger, error) {
	x, err := checkedAdd(l.ReserveX, q.AmountX)
	if err != nil {
		return VaultLedger{}, err
	}
	y, err := checkedAdd(l.ReserveY, q.AmountY)
	if err != nil {
		return VaultLedger{}, err
	}
	lp, err := checkedAdd(l.LpSupply, q.Lp)
	if err != nil {
		return VaultLedger{}, err
	}
	return VaultLedger{ReserveX: x, ReserveY: y, LpSupply: lp}, nil
}

// ApplyWithdrawal returns the ledger after a withdrawal quote lands.
func (l VaultLedger) ApplyWithdrawal(q WithdrawQuote) (VaultLedger, error) {
	if q.AmountX > l.ReserveX || q.AmountY > l.ReserveY || q.Lp > l.LpSupply {
		return VaultLedger{}, ErrInsufficientLiquidity.Wrapf("withdrawal %+v exceeds ledger %+v", q, l)
	}
	next := VaultLedger{
		ReserveX: l.ReserveX - q.AmountX,
		ReserveY: l.ReserveY - q.AmountY,
		LpSupply: l.LpSupply - q.Lp,
	}
	return next, next.Validate()
}

// ApplySwap returns the ledger after a swap quote lands in direction isX.
func (l VaultLedger) ApplySwap(isX bool, q SwapQuote) (VaultLedger, error) {
	reserveIn, reserveOut := l.Reserves(isX)
	if q.AmountOut >= reserveOut {
		return VaultLedger{}, ErrInsufficientLiquidity.Wrapf("output %d drains reserve %d", q.AmountOut, reserveOut)
	}
	in, err := checkedAdd(reserveIn, q.AmountIn)
	if err != nil {
		return VaultLedger{}, err
	}
	out := reserveOut - q.AmountOut

	next := VaultLedger{LpSupply: l.LpSupply}
	if isX {
		next.ReserveX, next.ReserveY = in, out
	} else {
		next.ReserveX, next.ReserveY = out, in
	}
	if next.K().LT(l.K()) {
		return VaultLedger{}, ErrInvalidPoolState.Wrapf("constant product would decrease from %s to %s", l.K(), next.K())
	}
	return next, nil
}

// Marshal encodes the ledger record.
func (l VaultLedger) Marshal() ([]byte, error) {
	return layout.Marshal(ledgerRecord, l)
}

// UnmarshalVaultLedger decodes a stored ledger record.
func UnmarshalVaultLedger(bz []byte) (VaultLedger, error) {
	var l VaultLedger
	if err := layout.Unmarshal(ledgerRecord, bz, &l); err != nil {
		return VaultLedger{}, err
	}
	return l, nil
}

// String implements fmt.Stringer
func (l VaultLedger) String() string {
	return fmt.Sprintf("reserve_x=%d reserve_y=%d lp_supply=%d", l.ReserveX, l.ReserveY, l.LpSupply)
}

// PoolState is a pool's config and ledger together with its address.
type PoolState struct {
	Address solana.PublicKey `json:"address"`
	Config  PoolConfig       `json:"config"`
	Ledger  VaultLedger      `json:"ledger"`
}
