package types

import (
	"fmt"
)

// GenesisState is the exported set of mints and token accounts.
type GenesisState struct {
	Mints    []Mint    `json:"mints"`
	Accounts []Account `json:"accounts"`
}

// DefaultGenesis returns an empty token genesis.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Mints: []Mint{}, Accounts: []Account{}}
}

// Validate checks that accounts reference known mints and that every mint's
// supply equals the sum of its balances.
func (gs GenesisState) Validate() error {
	supplies := make(map[string]uint64, len(gs.Mints))
	for _, m := range gs.Mints {
		key := m.Address.String()
		if m.Address.IsZero() {
			return fmt.Errorf("mint address cannot be empty")
		}
		if _, dup := supplies[key]; dup {
			return fmt.Errorf("duplicate mint %s", key)
		}
		supplies[key] = 0
	}

	seen := make(map[string]struct{}, len(gs.Accounts))
	for _, a := range gs.Accounts {
		key := a.Address.String()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate account %s", key)
		}
		seen[key] = struct{}{}

		total, ok := supplies[a.Mint.String()]
		if !ok {
			return fmt.Errorf("account %s: %w", key, ErrMintNotFound.Wrapf("mint %s", a.Mint))
		}
		if total > (1<<64-1)-a.Amount {
			return fmt.Errorf("account %s: %w", key, ErrOverflow)
		}
		supplies[a.Mint.String()] = total + a.Amount
	}

	for _, m := range gs.Mints {
		if got := supplies[m.Address.String()]; got != m.Supply {
			return fmt.Errorf("mint %s: supply %d != sum of balances %d", m.Address, m.Supply, got)
		}
	}
	return nil
}
