package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/nounsgovkit/govkit/codec"
	"github.com/nounsgovkit/govkit/types"
)

var (
	parseActions bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a raw transaction batch into readable transactions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var batch types.RawTransactions
		if err := decodeInput(cmd, args, &batch); err != nil {
			return err
		}

		api := newApi()
		if parseActions {
			built, err := api.ParseActions(batch)
			if err != nil {
				return err
			}
			return printJSON(cmd, built)
		}

		txs, err := api.Parse(batch)
		if err != nil {
			return err
		}
		return printJSON(cmd, txs)
	},
}

var unparseCmd = &cobra.Command{
	Use:   "unparse [file]",
	Short: "Convert readable transactions back into a raw transaction batch",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var txs []json.RawMessage
		if err := decodeInput(cmd, args, &txs); err != nil {
			return err
		}

		batch, err := newApi().Unparse(txs)
		if err != nil {
			return err
		}
		return printJSON(cmd, batch)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve an action into its transactions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var action json.RawMessage
		if err := decodeInput(cmd, args, &action); err != nil {
			return err
		}

		resolved, err := newApi().ResolveAction(action)
		if err != nil {
			return err
		}
		return printJSON(cmd, resolved)
	},
}

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Build actions out of readable transactions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var txs []json.RawMessage
		if err := decodeInput(cmd, args, &txs); err != nil {
			return err
		}

		built, err := newApi().BuildActions(txs)
		if err != nil {
			return err
		}
		return printJSON(cmd, built)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Print a one line summary of an action",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var action json.RawMessage
		if err := decodeInput(cmd, args, &action); err != nil {
			return err
		}

		summary, err := newApi().ActionSummary(action)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary)
		return nil
	},
}

var selectorCmd = &cobra.Command{
	Use:   "selector <signature>",
	Short: "Print the canonical form and the 4 byte selector of a function signature",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := codec.New()
		signature := strings.Join(args, " ")

		sig, err := c.ParseFunctionSignature(signature)
		if err != nil {
			return err
		}
		selector, err := codec.Selector(c, signature)
		if err != nil {
			return err
		}

		return printJSON(cmd, map[string]string{
			"signature": sig.String(),
			"selector":  hexutil.Encode(selector[:]),
		})
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseActions, "actions", false, "build actions out of the parsed transactions")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(unparseCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(selectorCmd)
}
