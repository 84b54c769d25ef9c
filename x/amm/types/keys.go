package types

import (
	"github.com/gagliardetto/solana-go"
)

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// Derivation seeds
const (
	ConfigSeed = "config"
	LpSeed     = "lp"
)

// LpDecimals is the decimal precision of every pool's LP mint.
const LpDecimals = 6

// DefaultProgramID is the program identity pool addresses are derived under
// unless the host configures another one.
var DefaultProgramID = solana.MustPublicKeyFromBase58("9UVX79e7cYnz1ma3hWRPMnpyRrQqXN6cxkM3Zd2iRWcX")

// Store key prefixes
var (
	ProgramIDKey    = []byte{0x00} // program identity the stored pools were derived under
	ConfigKeyPrefix = []byte{0x01} // prefix for pool configs, keyed by config address
	LedgerKeyPrefix = []byte{0x02} // prefix for vault ledgers, keyed by config address
)

// ConfigKey returns the store key for the pool config at address
func ConfigKey(config solana.PublicKey) []byte {
	return append(append([]byte{}, ConfigKeyPrefix...), config[:]...)
}

// LedgerKey returns the store key for the vault ledger of the pool at address
func LedgerKey(config solana.PublicKey) []byte {
	return append(append([]byte{}, LedgerKeyPrefix...), config[:]...)
}
