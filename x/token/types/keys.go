package types

import (
	"github.com/gagliardetto/solana-go"
)

const (
	// ModuleName defines the module name
	ModuleName = "token"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// SchemaVersion is the layout version of the records in the store
	SchemaVersion uint64 = 1
)

// Store key prefixes
var (
	SchemaVersionKey = []byte{0x00} // layout version written at genesis
	MintKeyPrefix    = []byte{0x01} // prefix for mint records
	AccountKeyPrefix = []byte{0x02} // prefix for token account records
)

// MintKey returns the store key for a mint
func MintKey(mint solana.PublicKey) []byte {
	return append(append([]byte{}, MintKeyPrefix...), mint[:]...)
}

// AccountKey returns the store key for a token account
func AccountKey(account solana.PublicKey) []byte {
	return append(append([]byte{}, AccountKeyPrefix...), account[:]...)
}
