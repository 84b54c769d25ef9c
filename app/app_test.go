package app_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/paw-chain/cpamm/app"
	ammtypes "github.com/paw-chain/cpamm/x/amm/types"
	tokentypes "github.com/paw-chain/cpamm/x/token/types"
)

type AppTestSuite struct {
	suite.Suite

	db       dbm.DB
	app      *app.App
	registry *prometheus.Registry

	mintAuthority solana.PublicKey
	user          solana.PublicKey
	pool          ammtypes.PoolAccounts
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	s.db = dbm.NewMemDB()
	s.registry = prometheus.NewRegistry()

	var err error
	s.app, err = app.New(log.NewNopLogger(), s.db, app.Options{Registerer: s.registry, CheckInvariants: true})
	s.Require().NoError(err)
	s.Require().NoError(s.app.InitGenesis(app.NewDefaultGenesisState()))

	s.mintAuthority, s.user, s.pool = setupPool(s.T(), s.app, 42)
}

// setupPool creates two mints, funds a user with both and initializes a pool
// with a 30 bps fee that the user controls.
func setupPool(t *testing.T, a *app.App, seed uint64) (mintAuthority, user solana.PublicKey, pool ammtypes.PoolAccounts) {
	t.Helper()
	mintAuthority, user = newKey(t), newKey(t)
	mintX, mintY := newKey(t), newKey(t)

	_, err := a.Execute(func(ctx sdk.Context) error {
		for _, mint := range []solana.PublicKey{mintX, mintY} {
			if err := a.TokenKeeper.CreateMint(ctx, mint, &mintAuthority, 6); err != nil {
				return err
			}
			acc, err := a.TokenKeeper.GetOrCreateAccount(ctx, user, mint)
			if err != nil {
				return err
			}
			if err := a.TokenKeeper.MintTo(ctx, mint, acc.Address, mintAuthority, 1_000_000); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	msg, err := ammtypes.NewMsgInitialize(ammtypes.DefaultProgramID, user, seed, 30, &user, mintX, mintY)
	require.NoError(t, err)
	_, err = a.Execute(func(ctx sdk.Context) error {
		_, err := a.MsgServer().Initialize(ctx, msg)
		return err
	})
	require.NoError(t, err)
	return mintAuthority, user, msg.Pool
}

func newKey(t *testing.T) solana.PublicKey {
	t.Helper()
	priv, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return priv.PublicKey()
}

func (s *AppTestSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

func (s *AppTestSuite) newKey() solana.PublicKey {
	return newKey(s.T())
}

func (s *AppTestSuite) deposit(lp, maxX, maxY uint64) (sdk.Events, error) {
	msg, err := ammtypes.NewMsgDeposit(s.user, s.pool, lp, maxX, maxY)
	s.Require().NoError(err)
	return s.app.Execute(func(ctx sdk.Context) error {
		_, err := s.app.MsgServer().Deposit(ctx, msg)
		return err
	})
}

func (s *AppTestSuite) ledger() ammtypes.VaultLedger {
	var ledger ammtypes.VaultLedger
	s.Require().NoError(s.app.Query(func(ctx sdk.Context) error {
		res, err := s.app.QueryServer().Pool(ctx, &ammtypes.QueryPoolRequest{Config: s.pool.Config})
		if err != nil {
			return err
		}
		ledger = res.Pool.Ledger
		return nil
	}))
	return ledger
}

func (s *AppTestSuite) TestExecuteCommitsEachInstruction() {
	before := s.app.LastHeight()

	events, err := s.deposit(1_000, 10_000, 20_000)
	s.Require().NoError(err)
	s.Require().NotEmpty(events)
	s.Require().Equal(before+1, s.app.LastHeight())
	s.Require().Equal(ammtypes.VaultLedger{ReserveX: 10_000, ReserveY: 20_000, LpSupply: 1_000}, s.ledger())

	series, err := testutil.GatherAndCount(s.registry, "cpamm_amm_instructions_total")
	s.Require().NoError(err)
	s.Require().Equal(2, series) // initialize and deposit, both successful
}

func (s *AppTestSuite) TestFailedInstructionIsNotCommitted() {
	_, err := s.deposit(1_000, 10_000, 20_000)
	s.Require().NoError(err)
	height := s.app.LastHeight()

	_, err = s.deposit(1_000, 1, 1)
	s.Require().ErrorIs(err, ammtypes.ErrSlippageExceeded)
	s.Require().Equal(height, s.app.LastHeight())
	s.Require().Equal(ammtypes.VaultLedger{ReserveX: 10_000, ReserveY: 20_000, LpSupply: 1_000}, s.ledger())
}

func (s *AppTestSuite) TestInvariantViolationIsNotCommitted() {
	_, err := s.deposit(1_000, 10_000, 20_000)
	s.Require().NoError(err)
	height := s.app.LastHeight()

	// tokens minted straight into a vault put it out of step with the ledger
	_, err = s.app.Execute(func(ctx sdk.Context) error {
		return s.app.TokenKeeper.MintTo(ctx, s.pool.MintX, s.pool.VaultX, s.mintAuthority, 1)
	})
	s.Require().True(errors.Is(err, app.ErrInvariantBroken))
	s.Require().Equal(height, s.app.LastHeight())
}

func (s *AppTestSuite) TestInvariantViolationHoldsBackMetrics() {
	_, err := s.deposit(1_000, 10_000, 20_000)
	s.Require().NoError(err)

	msg, err := ammtypes.NewMsgDeposit(s.user, s.pool, 100, 1_000, 2_000)
	s.Require().NoError(err)
	_, err = s.app.Execute(func(ctx sdk.Context) error {
		if _, err := s.app.MsgServer().Deposit(ctx, msg); err != nil {
			return err
		}
		return s.app.TokenKeeper.MintTo(ctx, s.pool.MintX, s.pool.VaultX, s.mintAuthority, 1)
	})
	s.Require().ErrorIs(err, app.ErrInvariantBroken)

	// only the committed deposit shows up
	pool := s.pool.Config.String()
	expected := fmt.Sprintf(`
# HELP cpamm_amm_instructions_total Total number of instructions processed
# TYPE cpamm_amm_instructions_total counter
cpamm_amm_instructions_total{instruction=%q,status="success"} 1
cpamm_amm_instructions_total{instruction=%q,status="success"} 1
# HELP cpamm_amm_lp_minted_total Total LP tokens minted
# TYPE cpamm_amm_lp_minted_total counter
cpamm_amm_lp_minted_total{pool=%q} 1000
# HELP cpamm_amm_lp_supply Current outstanding LP supply
# TYPE cpamm_amm_lp_supply gauge
cpamm_amm_lp_supply{pool=%q} 1000
`, ammtypes.TypeMsgDeposit, ammtypes.TypeMsgInitialize, pool, pool)
	s.Require().NoError(testutil.GatherAndCompare(s.registry, strings.NewReader(expected),
		"cpamm_amm_instructions_total", "cpamm_amm_lp_minted_total", "cpamm_amm_lp_supply"))
}

func (s *AppTestSuite) TestQueryDiscardsWrites() {
	height := s.app.LastHeight()
	s.Require().NoError(s.app.Query(func(ctx sdk.Context) error {
		_, err := s.app.TokenKeeper.GetOrCreateAccount(ctx, s.newKey(), s.pool.MintX)
		return err
	}))
	s.Require().Equal(height, s.app.LastHeight())

	gs, err := s.app.ExportGenesis()
	s.Require().NoError(err)
	var tokens tokentypes.GenesisState
	s.Require().NoError(json.Unmarshal(gs[tokentypes.ModuleName], &tokens))
	s.Require().Len(tokens.Accounts, 4) // the user's two accounts and the two vaults
}

func (s *AppTestSuite) TestReopenKeepsCommittedState() {
	_, err := s.deposit(1_000, 10_000, 20_000)
	s.Require().NoError(err)

	reopened, err := app.New(log.NewNopLogger(), s.db, app.Options{})
	s.Require().NoError(err)
	s.Require().Equal(s.app.LastHeight(), reopened.LastHeight())

	var ledger ammtypes.VaultLedger
	s.Require().NoError(reopened.Query(func(ctx sdk.Context) error {
		var err error
		ledger, err = reopened.AmmKeeper.GetVaultLedger(ctx, s.pool.Config)
		return err
	}))
	s.Require().Equal(s.ledger(), ledger)
}

func TestExecuteRequiresGenesis(t *testing.T) {
	a, err := app.New(log.NewNopLogger(), dbm.NewMemDB(), app.Options{})
	require.NoError(t, err)

	_, err = a.Execute(func(ctx sdk.Context) error {
		return a.TokenKeeper.CreateMint(ctx, newKey(t), nil, 6)
	})
	require.ErrorIs(t, err, app.ErrNotInitialized)
	require.Zero(t, a.LastHeight())

	require.NoError(t, a.InitGenesis(app.NewDefaultGenesisState()))
	require.Equal(t, int64(1), a.LastHeight())
	require.ErrorContains(t, a.InitGenesis(app.NewDefaultGenesisState()), "already imported")
	require.Equal(t, int64(1), a.LastHeight())
}

func TestReopenLevelDB(t *testing.T) {
	dir := t.TempDir()
	open := func(opts app.Options) (*app.App, error) {
		db, err := dbm.NewDB("application", dbm.GoLevelDBBackend, dir)
		require.NoError(t, err)
		a, err := app.New(log.NewNopLogger(), db, opts)
		if err != nil {
			require.NoError(t, db.Close())
		}
		return a, err
	}

	a, err := open(app.Options{CheckInvariants: true})
	require.NoError(t, err)
	require.NoError(t, a.InitGenesis(app.NewDefaultGenesisState()))
	require.NoError(t, a.Close())

	// genesis alone must reopen
	a, err = open(app.Options{CheckInvariants: true})
	require.NoError(t, err)
	require.Equal(t, int64(1), a.LastHeight())

	_, user, pool := setupPool(t, a, 9)
	msg, err := ammtypes.NewMsgDeposit(user, pool, 1_000, 10_000, 20_000)
	require.NoError(t, err)
	_, err = a.Execute(func(ctx sdk.Context) error {
		_, err := a.MsgServer().Deposit(ctx, msg)
		return err
	})
	require.NoError(t, err)
	height := a.LastHeight()
	require.NoError(t, a.Close())

	a, err = open(app.Options{CheckInvariants: true})
	require.NoError(t, err)
	require.Equal(t, height, a.LastHeight())
	var ledger ammtypes.VaultLedger
	require.NoError(t, a.Query(func(ctx sdk.Context) error {
		var err error
		ledger, err = a.AmmKeeper.GetVaultLedger(ctx, pool.Config)
		return err
	}))
	require.Equal(t, ammtypes.VaultLedger{ReserveX: 10_000, ReserveY: 20_000, LpSupply: 1_000}, ledger)
	require.NoError(t, a.Close())

	_, err = open(app.Options{ProgramID: newKey(t)})
	require.ErrorIs(t, err, app.ErrProgramMismatch)
}

func TestGenesisExportImport(t *testing.T) {
	db := dbm.NewMemDB()
	a, err := app.New(log.NewNopLogger(), db, app.Options{CheckInvariants: true})
	require.NoError(t, err)
	require.NoError(t, a.InitGenesis(app.NewDefaultGenesisState()))

	exported, err := a.ExportGenesis()
	require.NoError(t, err)
	require.Contains(t, exported, "token")
	require.Contains(t, exported, "amm")

	b, err := app.New(log.NewNopLogger(), dbm.NewMemDB(), app.Options{})
	require.NoError(t, err)
	require.NoError(t, b.InitGenesis(exported))

	reexported, err := b.ExportGenesis()
	require.NoError(t, err)
	require.JSONEq(t, string(exported["amm"]), string(reexported["amm"]))
	require.JSONEq(t, string(exported["token"]), string(reexported["token"]))
}
