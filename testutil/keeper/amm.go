package keeper

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/cpamm/x/amm/keeper"
	"github.com/paw-chain/cpamm/x/amm/types"
	tokenkeeper "github.com/paw-chain/cpamm/x/token/keeper"
	tokentypes "github.com/paw-chain/cpamm/x/token/types"
)

// AmmFixture bundles an amm keeper with the token keeper it moves balances
// through, both backed by one in-memory multistore.
type AmmFixture struct {
	Keeper      keeper.Keeper
	TokenKeeper tokenkeeper.Keeper
	MsgServer   types.MsgServer
	Metrics     *keeper.AMMMetrics
	Registry    *prometheus.Registry
	Ctx         sdk.Context

	// MintAuthority controls every mint created by NewMint.
	MintAuthority solana.PublicKey
}

// AmmKeeper creates a test fixture for the amm module
func AmmKeeper(t testing.TB) *AmmFixture {
	return AmmKeeperWith(t, nil)
}

// AmmKeeperWith creates a test fixture whose amm keeper reaches the token
// keeper through wrap, which lets tests inject failures.
func AmmKeeperWith(t testing.TB, wrap func(types.TokenKeeper) types.TokenKeeper) *AmmFixture {
	ammKey := storetypes.NewKVStoreKey(types.StoreKey)
	tokenKey := storetypes.NewKVStoreKey(tokentypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(ammKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(tokenKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := prometheus.NewRegistry()
	ammMetrics := keeper.NewAMMMetrics(registry)

	tk := tokenkeeper.NewKeeper(tokenKey)
	var collaborator types.TokenKeeper = tk
	if wrap != nil {
		collaborator = wrap(tk)
	}
	k := keeper.NewKeeper(ammKey, collaborator, types.DefaultProgramID, ammMetrics)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1}, false, log.NewNopLogger())

	require.NoError(t, tk.InitGenesis(ctx, *tokentypes.DefaultGenesis()))
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return &AmmFixture{
		Keeper:        k,
		TokenKeeper:   tk,
		MsgServer:     keeper.NewMsgServerImpl(k),
		Metrics:       ammMetrics,
		Registry:      registry,
		Ctx:           ctx,
		MintAuthority: NewKey(t),
	}
}

// NewKey returns a fresh random public key.
func NewKey(t testing.TB) solana.PublicKey {
	priv, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return priv.PublicKey()
}

// NewMint creates a mint controlled by f.MintAuthority.
func (f *AmmFixture) NewMint(t testing.TB, decimals uint8) solana.PublicKey {
	mint := NewKey(t)
	authority := f.MintAuthority
	require.NoError(t, f.TokenKeeper.CreateMint(f.Ctx, mint, &authority, decimals))
	return mint
}

// Fund mints amount of mint into owner's associated account.
func (f *AmmFixture) Fund(t testing.TB, owner, mint solana.PublicKey, amount uint64) solana.PublicKey {
	acc, err := f.TokenKeeper.GetOrCreateAccount(f.Ctx, owner, mint)
	require.NoError(t, err)
	if amount > 0 {
		require.NoError(t, f.TokenKeeper.MintTo(f.Ctx, mint, acc.Address, f.MintAuthority, amount))
	}
	return acc.Address
}

// Balance returns owner's balance of mint, zero if the account does not exist.
func (f *AmmFixture) Balance(t testing.TB, owner, mint solana.PublicKey) uint64 {
	addr, err := f.TokenKeeper.AssociatedAddress(owner, mint)
	require.NoError(t, err)
	balance, err := f.TokenKeeper.Balance(f.Ctx, addr)
	require.NoError(t, err)
	return balance
}

// NewPool initializes a pool over two fresh mints and returns its accounts.
func (f *AmmFixture) NewPool(t testing.TB, seed uint64, fee uint16, authority *solana.PublicKey) types.PoolAccounts {
	mintX := f.NewMint(t, 6)
	mintY := f.NewMint(t, 6)
	msg, err := types.NewMsgInitialize(f.Keeper.ProgramID(), NewKey(t), seed, fee, authority, mintX, mintY)
	require.NoError(t, err)
	_, err = f.MsgServer.Initialize(f.Ctx, msg)
	require.NoError(t, err)
	return msg.Pool
}

// Ledger returns the stored ledger of pool.
func (f *AmmFixture) Ledger(t testing.TB, pool types.PoolAccounts) types.VaultLedger {
	ledger, err := f.Keeper.GetVaultLedger(f.Ctx, pool.Config)
	require.NoError(t, err)
	return ledger
}

// Invariants runs every amm invariant against the fixture state.
func (f *AmmFixture) Invariants() (string, bool) {
	return keeper.AllInvariants(f.Keeper)(f.Ctx)
}

// RequireInvariants fails the test if any amm invariant is broken.
func (f *AmmFixture) RequireInvariants(t testing.TB) {
	msg, broken := f.Invariants()
	require.False(t, broken, msg)
}
