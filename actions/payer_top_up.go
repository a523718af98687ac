package actions

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/nounsgovkit/govkit/chains"
	"github.com/nounsgovkit/govkit/codec"
	"github.com/nounsgovkit/govkit/core"
	"github.com/nounsgovkit/govkit/types"
)

type PayerTopUpActionHandler struct{}

func NewPayerTopUpHandler() *PayerTopUpActionHandler {
	return &PayerTopUpActionHandler{}
}

func (h *PayerTopUpActionHandler) Type() types.ActionType {
	return types.ActionPayerTopUp
}

func (h *PayerTopUpActionHandler) TransactionHandlers() []core.TransactionHandler {
	return []core.TransactionHandler{PayerTopUpHandler{}}
}

func (h *PayerTopUpActionHandler) Resolve(chainId uint64, action types.Action) ([]types.ReadableTransaction, error) {
	a, err := asAction[types.PayerTopUpAction](action)
	if err != nil {
		return nil, err
	}
	if err := validateAction(a); err != nil {
		return nil, err
	}

	value, err := codec.ParseEther(a.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidAction, err)
	}
	payer, err := chains.Resolve(chainId, chains.Payer)
	if err != nil {
		return nil, err
	}

	return []types.ReadableTransaction{
		types.PayerTopUpTransaction{Target: payer, Value: value},
	}, nil
}

func (h *PayerTopUpActionHandler) Build(ctx core.BuildContext, txs []types.ReadableTransaction) optional.Option[core.BuildResult] {
	return claimFirst(txs, func(tx types.PayerTopUpTransaction) types.Action {
		return types.PayerTopUpAction{Amount: codec.FormatEther(tx.Value)}
	})
}

func (h *PayerTopUpActionHandler) Summarize(action types.Action) (string, error) {
	a, err := asAction[types.PayerTopUpAction](action)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Top up the payer contract with %s ETH", a.Amount), nil
}
