package actions

import (
	"fmt"
	"strings"

	"github.com/moznion/go-optional"

	"github.com/nounsgovkit/govkit/chains"
	"github.com/nounsgovkit/govkit/codec"
	"github.com/nounsgovkit/govkit/core"
	"github.com/nounsgovkit/govkit/types"
)

// TransferFromTreasuryActionHandler sends one of the treasury tokens (ENS, USDC, WETH) to a
// receiver.
type TransferFromTreasuryActionHandler struct {
	codec codec.Codec
}

func NewTransferFromTreasuryHandler(c codec.Codec) *TransferFromTreasuryActionHandler {
	return &TransferFromTreasuryActionHandler{codec: c}
}

func (h *TransferFromTreasuryActionHandler) Type() types.ActionType {
	return types.ActionTransferFromTreasury
}

func (h *TransferFromTreasuryActionHandler) TransactionHandlers() []core.TransactionHandler {
	return []core.TransactionHandler{NewTokenTransferHandler(h.codec)}
}

func (h *TransferFromTreasuryActionHandler) Resolve(chainId uint64, action types.Action) ([]types.ReadableTransaction, error) {
	a, err := asAction[types.TransferFromTreasuryAction](action)
	if err != nil {
		return nil, err
	}
	if err := validateAction(a); err != nil {
		return nil, err
	}

	amount, err := codec.ParseUnits(a.Amount, tokenDecimals[a.Currency])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidAction, err)
	}
	contract, err := chains.Resolve(chainId, tokenContracts[a.Currency])
	if err != nil {
		return nil, err
	}

	return []types.ReadableTransaction{
		types.TokenTransferTransaction{
			Token:    a.Currency,
			Target:   contract,
			Receiver: strings.ToLower(a.Receiver),
			Amount:   amount,
		},
	}, nil
}

func (h *TransferFromTreasuryActionHandler) Build(ctx core.BuildContext, txs []types.ReadableTransaction) optional.Option[core.BuildResult] {
	return claimFirst(txs, func(tx types.TokenTransferTransaction) types.Action {
		return types.TransferFromTreasuryAction{
			Currency: tx.Token,
			Receiver: tx.Receiver,
			Amount:   codec.FormatUnits(tx.Amount, tokenDecimals[tx.Token]),
		}
	})
}

func (h *TransferFromTreasuryActionHandler) Summarize(action types.Action) (string, error) {
	a, err := asAction[types.TransferFromTreasuryAction](action)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Transfer %s %s to %s", a.Amount, strings.ToUpper(string(a.Currency)), a.Receiver), nil
}
