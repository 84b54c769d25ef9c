package types

import (
	"fmt"
)

// GenesisState is the exported set of pools.
type GenesisState struct {
	Pools []PoolState `json:"pools"`
}

// DefaultGenesis returns a genesis state without pools.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Pools: []PoolState{}}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Pools))
	for i, pool := range gs.Pools {
		key := pool.Address.String()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("pool %d: duplicate address %s", i, key)
		}
		seen[key] = struct{}{}

		if err := pool.Config.Validate(); err != nil {
			return fmt.Errorf("pool %s: %w", key, err)
		}
		if err := pool.Ledger.Validate(); err != nil {
			return fmt.Errorf("pool %s: %w", key, err)
		}
	}
	return nil
}
