package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"

	ammkeeper "github.com/paw-chain/cpamm/x/amm/keeper"
	ammtypes "github.com/paw-chain/cpamm/x/amm/types"
	tokenkeeper "github.com/paw-chain/cpamm/x/token/keeper"
	tokentypes "github.com/paw-chain/cpamm/x/token/types"
)

const (
	// Name is the name of the application and of its data directory.
	Name = "ammd"
)

// DefaultNodeHome is the default home directory for the application.
var DefaultNodeHome string

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	DefaultNodeHome = filepath.Join(userHomeDir, "."+Name)
}

var (
	// ErrInvariantBroken is returned when an instruction would leave the state
	// in violation of a module invariant. The instruction is not committed.
	ErrInvariantBroken = errors.New("invariant broken")

	// ErrNotInitialized is returned for instructions against a database whose
	// genesis has not been imported.
	ErrNotInitialized = errors.New("genesis not imported")

	// ErrProgramMismatch is returned when a database is opened under another
	// program identity than the one its pools were derived under.
	ErrProgramMismatch = errors.New("program id mismatch")
)

// Options configure a new App.
type Options struct {
	// ProgramID is the identity pool addresses are derived under.
	ProgramID solana.PublicKey
	// Registerer receives the amm metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
	// CheckInvariants runs every module invariant before committing.
	CheckInvariants bool
}

// App hosts the token and amm keepers over a commit multistore. Instructions
// run one at a time; each successful instruction is committed as a new
// version.
type App struct {
	mu sync.Mutex

	logger log.Logger
	db     dbm.DB
	cms    storetypes.CommitMultiStore
	keys   map[string]*storetypes.KVStoreKey

	TokenKeeper tokenkeeper.Keeper
	AmmKeeper   ammkeeper.Keeper

	msgServer       ammtypes.MsgServer
	queryServer     ammtypes.QueryServer
	checkInvariants bool
}

// New creates an App over db and loads its latest committed version.
func New(logger log.Logger, db dbm.DB, opts Options) (*App, error) {
	if opts.ProgramID.IsZero() {
		opts.ProgramID = ammtypes.DefaultProgramID
	}

	keys := storetypes.NewKVStoreKeys(tokentypes.StoreKey, ammtypes.StoreKey)
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load latest version: %w", err)
	}

	app := &App{
		logger:          logger,
		db:              db,
		cms:             cms,
		keys:            keys,
		checkInvariants: opts.CheckInvariants,
	}

	app.TokenKeeper = tokenkeeper.NewKeeper(keys[tokentypes.StoreKey])
	app.AmmKeeper = ammkeeper.NewKeeper(
		keys[ammtypes.StoreKey],
		app.TokenKeeper,
		opts.ProgramID,
		ammkeeper.NewAMMMetrics(opts.Registerer),
	)
	app.msgServer = ammkeeper.NewMsgServerImpl(app.AmmKeeper)
	app.queryServer = ammkeeper.NewQueryServerImpl(app.AmmKeeper)

	if app.LastHeight() > 0 {
		if err := app.Query(app.checkStoredProgram(opts.ProgramID)); err != nil {
			return nil, err
		}
	}

	return app, nil
}

func (app *App) checkStoredProgram(programID solana.PublicKey) func(ctx sdk.Context) error {
	return func(ctx sdk.Context) error {
		stored, found := app.AmmKeeper.GetStoredProgramID(ctx)
		if !found {
			return fmt.Errorf("%w: height %d has no %s program record", ErrNotInitialized, app.LastHeight(), ammtypes.ModuleName)
		}
		if !stored.Equals(programID) {
			return fmt.Errorf("%w: database was initialized under %s, configured %s", ErrProgramMismatch, stored, programID)
		}
		return nil
	}
}

// Logger returns the application logger.
func (app *App) Logger() log.Logger {
	return app.logger
}

// LastHeight returns the version of the last committed instruction.
func (app *App) LastHeight() int64 {
	return app.cms.LastCommitID().Version
}

// MsgServer returns the amm instruction surface. Its methods must be called
// from inside Execute.
func (app *App) MsgServer() ammtypes.MsgServer {
	return app.msgServer
}

// QueryServer returns the amm read-only surface. Its methods must be called
// from inside Query.
func (app *App) QueryServer() ammtypes.QueryServer {
	return app.queryServer
}

// Execute runs fn against a branch of the latest state and commits the branch
// as the next version if fn succeeds. The events emitted by fn are returned.
// Genesis must have been imported first.
func (app *App) Execute(fn func(ctx sdk.Context) error) (sdk.Events, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.LastHeight() == 0 {
		return nil, ErrNotInitialized
	}
	return app.execute(fn)
}

// execute commits fn as the next version. Metrics recorded by fn are applied
// only once the version is committed.
func (app *App) execute(fn func(ctx sdk.Context) error) (sdk.Events, error) {
	height := app.LastHeight() + 1
	branch := app.cms.CacheMultiStore()
	ctx := sdk.NewContext(branch, cmtproto.Header{Height: height, Time: time.Now().UTC()}, false, app.logger)
	ctx, pending := ammkeeper.WithPendingMetrics(ctx)

	if err := fn(ctx); err != nil {
		return nil, err
	}

	if app.checkInvariants {
		if msg, broken := ammkeeper.AllInvariants(app.AmmKeeper)(ctx); broken {
			app.logger.Error("refusing to commit", "height", height, "reason", msg)
			return nil, fmt.Errorf("%w: %s", ErrInvariantBroken, msg)
		}
	}

	branch.Write()
	commitID := app.cms.Commit()
	pending.Flush()
	app.logger.Debug("committed", "height", commitID.Version, "hash", fmt.Sprintf("%X", commitID.Hash))

	return ctx.EventManager().Events(), nil
}

// Query runs fn against a read-only view of the latest committed state.
// Writes made by fn are discarded.
func (app *App) Query(fn func(ctx sdk.Context) error) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	ctx := sdk.NewContext(app.cms.CacheMultiStore(), cmtproto.Header{Height: app.LastHeight()}, false, app.logger)
	return fn(ctx)
}

// Close releases the underlying database.
func (app *App) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.db.Close()
}
