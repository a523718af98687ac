package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sisu-network/lib/log"

	"github.com/nounsgovkit/govkit/client"
	"github.com/nounsgovkit/govkit/core"
	"github.com/nounsgovkit/govkit/types"
)

var (
	ErrContractInfoDisabled = errors.New("contract info provider is not configured")
)

type ApiHandler struct {
	parser       *core.Parser
	contractInfo client.ContractInfoProvider
	apiKey       string
}

// NewApi returns the RPC API over parser. contractInfo may be nil, in which case
// GetContractInfo fails.
func NewApi(parser *core.Parser, contractInfo client.ContractInfoProvider, apiKey string) *ApiHandler {
	return &ApiHandler{
		parser:       parser,
		contractInfo: contractInfo,
		apiKey:       apiKey,
	}
}

// Empty function for checking health only.
func (api *ApiHandler) Ping(source string) error {
	return nil
}

func (api *ApiHandler) ChainId() uint64 {
	return api.parser.ChainId()
}

func (api *ApiHandler) Parse(batch types.RawTransactions) ([]types.ReadableTransaction, error) {
	return api.parser.Parse(batch)
}

func (api *ApiHandler) Unparse(txs []json.RawMessage) (types.RawTransactions, error) {
	readable, err := types.DecodeReadables(txs)
	if err != nil {
		return types.RawTransactions{}, err
	}
	return api.parser.Unparse(readable)
}

// ResolvedAction is an action expanded into its transactions, both readable and raw.
type ResolvedAction struct {
	Transactions    []types.ReadableTransaction `json:"transactions"`
	RawTransactions types.RawTransactions       `json:"rawTransactions"`
}

func (api *ApiHandler) ResolveAction(action json.RawMessage) (*ResolvedAction, error) {
	a, err := types.DecodeAction(action)
	if err != nil {
		return nil, err
	}

	txs, err := api.parser.ResolveAction(a)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedAction{
		Transactions:    make([]types.ReadableTransaction, 0, len(txs)),
		RawTransactions: types.NewRawTransactions(),
	}
	for _, tx := range txs {
		resolved.Transactions = append(resolved.Transactions, tx.Parsed)
		resolved.RawTransactions = resolved.RawTransactions.Append(tx.Raw)
	}
	return resolved, nil
}

func (api *ApiHandler) BuildActions(txs []json.RawMessage) ([]types.Action, error) {
	readable, err := types.DecodeReadables(txs)
	if err != nil {
		return nil, err
	}
	return api.parser.BuildActions(readable)
}

// ParseActions parses a raw batch and builds the actions it is made of.
func (api *ApiHandler) ParseActions(batch types.RawTransactions) ([]types.Action, error) {
	readable, err := api.parser.Parse(batch)
	if err != nil {
		return nil, err
	}
	return api.parser.BuildActions(readable)
}

func (api *ApiHandler) ActionSummary(action json.RawMessage) (string, error) {
	a, err := types.DecodeAction(action)
	if err != nil {
		return "", err
	}
	return api.parser.ActionSummary(a)
}

func (api *ApiHandler) GetContractInfo(ctx context.Context, address string) (*types.ContractInfo, error) {
	if api.contractInfo == nil {
		return nil, ErrContractInfoDisabled
	}

	info, err := api.contractInfo.GetContractInfo(ctx, address, api.apiKey)
	if err != nil {
		log.Warnf("Cannot get contract info for %s, err = %v", address, err)
		return nil, err
	}
	return info, nil
}
