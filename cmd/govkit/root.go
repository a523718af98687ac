package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nounsgovkit/govkit/actions"
	"github.com/nounsgovkit/govkit/chains"
	"github.com/nounsgovkit/govkit/codec"
	"github.com/nounsgovkit/govkit/server"
)

var (
	chainId uint64
	compact bool
)

var rootCmd = &cobra.Command{
	Use:   "govkit",
	Short: "Offline proposal transaction tools",
	Long: `govkit converts between the raw transactions of a governance proposal
(targets, values, signatures, calldatas), readable transactions and actions.

Input is read from the file given as the last argument, or from stdin when it
is omitted or "-". Output is JSON.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Uint64Var(&chainId, "chain-id", chains.Mainnet, "chain the proposal executes on")
	rootCmd.PersistentFlags().BoolVar(&compact, "compact", false, "print JSON on a single line")
}

func newApi() *server.ApiHandler {
	return server.NewApi(actions.NewDefaultParser(chainId, codec.New()), nil, "")
}

// readInput returns the content of the file named by args, or stdin.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func decodeInput(cmd *cobra.Command, args []string, v any) error {
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
