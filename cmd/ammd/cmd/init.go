package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
)

const flagGenesis = "genesis"

// InitCmd writes the config file and imports the genesis state into a fresh
// database.
func InitCmd(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the home directory and import genesis",
		Long: `Write <home>/config/ammd.toml from the current flags and import a genesis
state into a new database. Without --genesis an empty state is imported.

Example:
  $ ammd init --home ~/.ammd
  $ ammd init --genesis exported.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			genesis := app.NewDefaultGenesisState()
			if path, _ := cmd.Flags().GetString(flagGenesis); path != "" {
				bz, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read genesis: %w", err)
				}
				genesis = app.GenesisState{}
				if err := json.Unmarshal(bz, &genesis); err != nil {
					return fmt.Errorf("failed to decode genesis %s: %w", path, err)
				}
			}

			if err := state.cfg.WriteConfigFile(); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			return state.withApp(func(a *app.App) error {
				if h := a.LastHeight(); h != 0 {
					return fmt.Errorf("database under %s is already initialized at height %d", state.cfg.Home, h)
				}
				if err := a.InitGenesis(genesis); err != nil {
					return err
				}
				state.logger.Info("initialized", "home", state.cfg.Home, "height", a.LastHeight())
				return printJSON(cmd, map[string]any{
					"home":       state.cfg.Home,
					"program_id": state.cfg.ProgramID.String(),
					"height":     a.LastHeight(),
				})
			})
		},
	}
	cmd.Flags().String(flagGenesis, "", "genesis JSON file to import")
	return cmd
}

// KeysCmd groups key helpers.
func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Key helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Generate a new random keypair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			priv, err := solana.NewRandomPrivateKey()
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{
				"public_key":  priv.PublicKey().String(),
				"private_key": priv.String(),
			})
		},
	})
	return cmd
}
