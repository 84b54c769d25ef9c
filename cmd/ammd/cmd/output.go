package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const flagSigner = "signer"

// printJSON writes v to the command output as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

// instructionResult is the output of a committed instruction.
type instructionResult struct {
	Height int64      `json:"height"`
	Result any        `json:"result,omitempty"`
	Events sdk.Events `json:"events,omitempty"`
}

func parseKey(name, raw string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return key, nil
}

func parseUint64(name, raw string) (uint64, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func addSignerFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().String(flagSigner, "", usage)
	_ = cmd.MarkFlagRequired(flagSigner)
}

func getSigner(flags *pflag.FlagSet) (solana.PublicKey, error) {
	raw, err := flags.GetString(flagSigner)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return parseKey(flagSigner, raw)
}
