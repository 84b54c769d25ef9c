package types

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/paw-chain/cpamm/x/shared/pda"
)

// PoolAddresses are the deterministic addresses of one pool. A client that
// knows the seed and the two mints can compute them without reading state.
type PoolAddresses struct {
	Config     solana.PublicKey `json:"config"`
	ConfigBump uint8            `json:"config_bump"`
	MintLp     solana.PublicKey `json:"mint_lp"`
	LpBump     uint8            `json:"lp_bump"`
	VaultX     solana.PublicKey `json:"vault_x"`
	VaultY     solana.PublicKey `json:"vault_y"`
}

// DeriveConfigAddress derives the config address for seed.
func DeriveConfigAddress(programID solana.PublicKey, seed uint64) (pda.Address, error) {
	addr, err := pda.Find([][]byte{[]byte(ConfigSeed), pda.Uint64Seed(seed)}, programID)
	return addr, wrapDerivation(err, "config")
}

// DeriveLpMintAddress derives the LP mint address of the pool at config.
func DeriveLpMintAddress(programID, config solana.PublicKey) (pda.Address, error) {
	addr, err := pda.Find([][]byte{[]byte(LpSeed), config[:]}, programID)
	return addr, wrapDerivation(err, "lp mint")
}

// DeriveVaultAddress derives the vault holding mint on behalf of the pool at
// config: the associated token account of the config address.
func DeriveVaultAddress(config, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, err := pda.FindAssociatedTokenAddress(config, mint)
	if err != nil {
		return solana.PublicKey{}, wrapDerivation(err, "vault")
	}
	return addr.Key, nil
}

// DerivePoolAddresses computes every address of the pool identified by seed
// and its two mints.
func DerivePoolAddresses(programID solana.PublicKey, seed uint64, mintX, mintY solana.PublicKey) (PoolAddresses, error) {
	config, err := DeriveConfigAddress(programID, seed)
	if err != nil {
		return PoolAddresses{}, err
	}
	lp, err := DeriveLpMintAddress(programID, config.Key)
	if err != nil {
		return PoolAddresses{}, err
	}
	vaultX, err := DeriveVaultAddress(config.Key, mintX)
	if err != nil {
		return PoolAddresses{}, err
	}
	vaultY, err := DeriveVaultAddress(config.Key, mintY)
	if err != nil {
		return PoolAddresses{}, err
	}

	return PoolAddresses{
		Config:     config.Key,
		ConfigBump: config.Bump,
		MintLp:     lp.Key,
		LpBump:     lp.Bump,
		VaultX:     vaultX,
		VaultY:     vaultY,
	}, nil
}

// DeriveUserAccounts returns the associated token accounts owner uses with
// the pool.
func DeriveUserAccounts(owner, mintX, mintY, mintLp solana.PublicKey) (UserAccounts, error) {
	var user UserAccounts
	for _, target := range []struct {
		mint solana.PublicKey
		dst  *solana.PublicKey
	}{
		{mintX, &user.UserX},
		{mintY, &user.UserY},
		{mintLp, &user.UserLp},
	} {
		addr, err := pda.FindAssociatedTokenAddress(owner, target.mint)
		if err != nil {
			return UserAccounts{}, wrapDerivation(err, "user token account")
		}
		*target.dst = addr.Key
	}
	return user, nil
}

func wrapDerivation(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pda.ErrDerivationExhausted) {
		return ErrDerivationExhausted.Wrapf("%s: %v", what, err)
	}
	return ErrInvalidAccount.Wrapf("%s: %v", what, err)
}
