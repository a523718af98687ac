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

// OneTimePaymentActionHandler pays a target once, in ETH straight from the treasury or in USDC
// through the payer contract.
type OneTimePaymentActionHandler struct {
	codec codec.Codec
}

func NewOneTimePaymentHandler(c codec.Codec) *OneTimePaymentActionHandler {
	return &OneTimePaymentActionHandler{codec: c}
}

func (h *OneTimePaymentActionHandler) Type() types.ActionType {
	return types.ActionOneTimePayment
}

func (h *OneTimePaymentActionHandler) TransactionHandlers() []core.TransactionHandler {
	return []core.TransactionHandler{
		TransferHandler{},
		NewUsdcTransferViaPayerHandler(h.codec),
	}
}

func (h *OneTimePaymentActionHandler) Resolve(chainId uint64, action types.Action) ([]types.ReadableTransaction, error) {
	a, err := asAction[types.OneTimePaymentAction](action)
	if err != nil {
		return nil, err
	}
	if err := validateAction(a); err != nil {
		return nil, err
	}
	target := strings.ToLower(a.Target)

	switch a.Currency {
	case types.CurrencyEth:
		value, err := codec.ParseEther(a.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrInvalidAction, err)
		}
		return []types.ReadableTransaction{
			types.TransferTransaction{Target: target, Value: value},
		}, nil

	case types.CurrencyUsdc:
		amount, err := codec.ParseUnits(a.Amount, UsdcDecimals)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrInvalidAction, err)
		}
		payer, err := chains.Resolve(chainId, chains.Payer)
		if err != nil {
			return nil, err
		}
		return []types.ReadableTransaction{
			types.UsdcTransferViaPayerTransaction{Target: payer, ReceiverAddress: target, UsdcAmount: amount},
		}, nil
	}

	return nil, fmt.Errorf("%w: unsupported currency %q", types.ErrInvalidAction, a.Currency)
}

// Build prefers ETH transfers over USDC ones when the pool holds both.
func (h *OneTimePaymentActionHandler) Build(ctx core.BuildContext, txs []types.ReadableTransaction) optional.Option[core.BuildResult] {
	built := claimFirst(txs, func(tx types.TransferTransaction) types.Action {
		return types.OneTimePaymentAction{
			Currency: types.CurrencyEth,
			Amount:   codec.FormatEther(tx.Value),
			Target:   tx.Target,
		}
	})
	if built.IsSome() {
		return built
	}

	return claimFirst(txs, func(tx types.UsdcTransferViaPayerTransaction) types.Action {
		return types.OneTimePaymentAction{
			Currency: types.CurrencyUsdc,
			Amount:   codec.FormatUnits(tx.UsdcAmount, UsdcDecimals),
			Target:   tx.ReceiverAddress,
		}
	})
}

func (h *OneTimePaymentActionHandler) Summarize(action types.Action) (string, error) {
	a, err := asAction[types.OneTimePaymentAction](action)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Transfer %s %s to %s", a.Amount, strings.ToUpper(string(a.Currency)), a.Target), nil
}
