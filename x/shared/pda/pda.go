// Package pda derives program addresses: deterministic, off-curve addresses
// computed from a list of seeds, a one-byte bump salt and an owning program.
//
// The search walks bumps from 255 down to 0 and stops at the first candidate
// that is not a valid ed25519 point. The loop is bounded by the bump space, so
// a derivation either yields an address or fails with ErrDerivationExhausted.
package pda

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

const (
	// MaxBump is the first bump tried by Find.
	MaxBump = 255
)

var (
	// ErrDerivationExhausted is returned when no bump in [0, MaxBump] yields
	// an off-curve address.
	ErrDerivationExhausted = errors.New("no valid bump in derivation search space")

	// ErrInvalidSeeds is returned for seed lists the derivation can never
	// accept (too many seeds or a seed longer than solana.MaxSeedLength).
	ErrInvalidSeeds = errors.New("invalid derivation seeds")
)

// Address is a derived address together with the bump that produced it.
type Address struct {
	Key  solana.PublicKey
	Bump uint8
}

// Find returns the program address for seeds under programID, searching the
// bump space from MaxBump downwards.
func Find(seeds [][]byte, programID solana.PublicKey) (Address, error) {
	if err := validateSeeds(seeds); err != nil {
		return Address{}, err
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := MaxBump; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		key, err := solana.CreateProgramAddress(withBump, programID)
		if err != nil {
			// on-curve candidate, try the next bump
			continue
		}
		return Address{Key: key, Bump: uint8(bump)}, nil
	}

	return Address{}, fmt.Errorf("%w: program %s", ErrDerivationExhausted, programID)
}

// Create recomputes the address for a known bump. It fails if the bump does
// not produce an off-curve address.
func Create(seeds [][]byte, bump uint8, programID solana.PublicKey) (solana.PublicKey, error) {
	if err := validateSeeds(seeds); err != nil {
		return solana.PublicKey{}, err
	}
	withBump := append(append([][]byte{}, seeds...), []byte{bump})
	key, err := solana.CreateProgramAddress(withBump, programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("bump %d: %w", bump, err)
	}
	return key, nil
}

// FindAssociatedTokenAddress derives the associated token account of owner
// for mint, the same address the associated token program assigns.
func FindAssociatedTokenAddress(owner, mint solana.PublicKey) (Address, error) {
	return Find(
		[][]byte{owner[:], solana.TokenProgramID[:], mint[:]},
		solana.SPLAssociatedTokenAccountProgramID,
	)
}

// Uint64Seed encodes v little-endian, the layout clients use for numeric seeds.
func Uint64Seed(v uint64) []byte {
	bz := make([]byte, 8)
	binary.LittleEndian.PutUint64(bz, v)
	return bz
}

func validateSeeds(seeds [][]byte) error {
	// one slot is reserved for the bump
	if len(seeds)+1 > solana.MaxSeeds {
		return fmt.Errorf("%w: %d seeds exceeds %d", ErrInvalidSeeds, len(seeds), solana.MaxSeeds-1)
	}
	for i, seed := range seeds {
		if len(seed) > solana.MaxSeedLength {
			return fmt.Errorf("%w: seed %d is %d bytes, max %d", ErrInvalidSeeds, i, len(seed), solana.MaxSeedLength)
		}
	}
	return nil
}
