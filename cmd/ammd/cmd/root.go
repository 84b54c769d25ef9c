package cmd

import (
	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/cpamm/app"
)

// rootState carries the configuration resolved by the root command to its
// subcommands.
type rootState struct {
	v      *viper.Viper
	cfg    Config
	logger log.Logger
}

// withApp opens the application, runs fn and closes it again.
func (s *rootState) withApp(fn func(a *app.App) error) error {
	a, err := s.cfg.openApp(s.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			s.logger.Error("failed to close database", "err", cerr)
		}
	}()
	return fn(a)
}

// NewRootCmd creates the root command for ammd.
func NewRootCmd() *cobra.Command {
	state := &rootState{v: newViper()}
	def := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   app.Name,
		Short: "Constant-product AMM host",
		Long: `ammd hosts two-asset constant-product pools over a local state database.

Every instruction is executed atomically and committed as a new version.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			if err := state.v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			if err := readConfigFile(state.v); err != nil {
				return err
			}
			cfg, err := LoadConfig(state.v)
			if err != nil {
				return err
			}
			logger, err := cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			state.cfg = cfg
			state.logger = logger
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagHome, def.Home, "directory for config and data")
	flags.String(flagDBBackend, string(def.DBBackend), "state database backend (goleveldb|memdb)")
	flags.String(flagLogLevel, def.LogLevel, "log level (trace|debug|info|warn|error)")
	flags.String(flagLogFormat, def.LogFormat, "log format (plain|json)")
	flags.String(flagProgramID, def.ProgramID.String(), "program id pool addresses are derived under")
	flags.Bool(flagCheckInvariants, def.CheckInvariants, "refuse to commit instructions that break an invariant")

	rootCmd.AddCommand(
		InitCmd(state),
		KeysCmd(),
		TokenCmd(state),
		PoolCmd(state),
		QueryCmd(state),
	)

	return rootCmd
}
