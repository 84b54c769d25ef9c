package types

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/shared/layout"
)

const (
	mintRecord    = "Mint"
	accountRecord = "TokenAccount"
)

// Mint is a fungible asset definition.
type Mint struct {
	Address       solana.PublicKey  `json:"address"`
	MintAuthority *solana.PublicKey `json:"mint_authority,omitempty" bin:"optional"`
	Decimals      uint8             `json:"decimals"`
	Supply        uint64            `json:"supply"`
}

// Account holds a balance of one mint on behalf of an owner.
type Account struct {
	Address solana.PublicKey `json:"address"`
	Mint    solana.PublicKey `json:"mint"`
	Owner   solana.PublicKey `json:"owner"`
	Amount  uint64           `json:"amount"`
}

// Marshal encodes the mint record.
func (m Mint) Marshal() ([]byte, error) {
	return layout.Marshal(mintRecord, m)
}

// UnmarshalMint decodes a stored mint record.
func UnmarshalMint(bz []byte) (Mint, error) {
	var m Mint
	if err := layout.Unmarshal(mintRecord, bz, &m); err != nil {
		return Mint{}, err
	}
	return m, nil
}

// Marshal encodes the token account record.
func (a Account) Marshal() ([]byte, error) {
	return layout.Marshal(accountRecord, a)
}

// UnmarshalAccount decodes a stored token account record.
func UnmarshalAccount(bz []byte) (Account, error) {
	var a Account
	if err := layout.Unmarshal(accountRecord, bz, &a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// String implements fmt.Stringer
func (a Account) String() string {
	return fmt.Sprintf("%s{mint=%s owner=%s amount=%d}", a.Address, a.Mint, a.Owner, a.Amount)
}
