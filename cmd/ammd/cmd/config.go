package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/paw-chain/cpamm/app"
	ammtypes "github.com/paw-chain/cpamm/x/amm/types"
)

const (
	flagHome            = "home"
	flagDBBackend       = "db-backend"
	flagLogLevel        = "log-level"
	flagLogFormat       = "log-format"
	flagProgramID       = "program-id"
	flagCheckInvariants = "check-invariants"

	envPrefix      = "AMMD"
	configFileName = "ammd.toml"

	logFormatPlain = "plain"
	logFormatJSON  = "json"
)

// Config is the resolved configuration of one ammd invocation.
type Config struct {
	Home            string
	DBBackend       dbm.BackendType
	LogLevel        string
	LogFormat       string
	ProgramID       solana.PublicKey
	CheckInvariants bool
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Home:            app.DefaultNodeHome,
		DBBackend:       dbm.GoLevelDBBackend,
		LogLevel:        zerolog.InfoLevel.String(),
		LogFormat:       logFormatPlain,
		ProgramID:       ammtypes.DefaultProgramID,
		CheckInvariants: true,
	}
}

// ConfigPath returns the location of the config file under home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config", configFileName)
}

// newViper returns a viper instance that reads AMMD_* environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault(flagHome, def.Home)
	v.SetDefault(flagDBBackend, string(def.DBBackend))
	v.SetDefault(flagLogLevel, def.LogLevel)
	v.SetDefault(flagLogFormat, def.LogFormat)
	v.SetDefault(flagProgramID, def.ProgramID.String())
	v.SetDefault(flagCheckInvariants, def.CheckInvariants)
	return v
}

// readConfigFile merges <home>/config/ammd.toml into v if it exists.
func readConfigFile(v *viper.Viper) error {
	path := ConfigPath(cast.ToString(v.Get(flagHome)))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	v.SetConfigType("toml")
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

// LoadConfig resolves a Config from v. Flags override environment variables,
// which override the config file.
func LoadConfig(v *viper.Viper) (Config, error) {
	checkInvariants, err := cast.ToBoolE(v.Get(flagCheckInvariants))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", flagCheckInvariants, err)
	}

	rawProgramID := cast.ToString(v.Get(flagProgramID))
	programID, err := solana.PublicKeyFromBase58(rawProgramID)
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s %q: %w", flagProgramID, rawProgramID, err)
	}

	cfg := Config{
		Home:            cast.ToString(v.Get(flagHome)),
		DBBackend:       dbm.BackendType(cast.ToString(v.Get(flagDBBackend))),
		LogLevel:        cast.ToString(v.Get(flagLogLevel)),
		LogFormat:       cast.ToString(v.Get(flagLogFormat)),
		ProgramID:       programID,
		CheckInvariants: checkInvariants,
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown backends, log levels and log formats.
func (c Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("%s cannot be empty", flagHome)
	}
	switch c.DBBackend {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported %s %q", flagDBBackend, c.DBBackend)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid %s: %w", flagLogLevel, err)
	}
	switch c.LogFormat {
	case logFormatPlain, logFormatJSON:
	default:
		return fmt.Errorf("unsupported %s %q", flagLogFormat, c.LogFormat)
	}
	if c.ProgramID.IsZero() {
		return fmt.Errorf("%s cannot be empty", flagProgramID)
	}
	return nil
}

// NewLogger builds the process logger.
func (c Config) NewLogger(out io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := []log.Option{log.LevelOption(level)}
	if c.LogFormat == logFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(out, opts...), nil
}

// WriteConfigFile writes c to <home>/config/ammd.toml.
func (c Config) WriteConfigFile() error {
	path := ConfigPath(c.Home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	v := viper.New()
	v.Set(flagDBBackend, string(c.DBBackend))
	v.Set(flagLogLevel, c.LogLevel)
	v.Set(flagLogFormat, c.LogFormat)
	v.Set(flagProgramID, c.ProgramID.String())
	v.Set(flagCheckInvariants, c.CheckInvariants)
	return v.WriteConfigAs(path)
}

// openApp opens the application database under c.Home.
func (c Config) openApp(logger log.Logger) (*app.App, error) {
	db, err := dbm.NewDB("application", c.DBBackend, filepath.Join(c.Home, "data"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a, err := app.New(logger, db, app.Options{
		ProgramID:       c.ProgramID,
		CheckInvariants: c.CheckInvariants,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}
