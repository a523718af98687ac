package actions

import (
	"github.com/moznion/go-optional"

	"github.com/nounsgovkit/govkit/chains"
	"github.com/nounsgovkit/govkit/types"
)

// TransferHandler parses plain native currency transfers.
type TransferHandler struct{}

func (TransferHandler) Type() types.TransactionType {
	return types.TransactionTransfer
}

func (TransferHandler) Parse(chainId uint64, raw types.RawTransaction) optional.Option[types.ReadableTransaction] {
	if !raw.IsPlainTransfer() {
		return none()
	}
	return some(types.TransferTransaction{Target: raw.Target, Value: valueOf(raw.Value)})
}

func (TransferHandler) Unparse(chainId uint64, tx types.ReadableTransaction) (types.RawTransaction, error) {
	t, err := asTransaction[types.TransferTransaction](tx)
	if err != nil {
		return types.RawTransaction{}, err
	}
	return types.NewRawTransaction(t.Target, "", nil, t.Value), nil
}

// PayerTopUpHandler parses native currency sent to the payer contract. It has to be registered
// ahead of TransferHandler, which would otherwise claim the same transactions.
type PayerTopUpHandler struct{}

func (PayerTopUpHandler) Type() types.TransactionType {
	return types.TransactionPayerTopUp
}

func (PayerTopUpHandler) Parse(chainId uint64, raw types.RawTransaction) optional.Option[types.ReadableTransaction] {
	if !chains.Is(chainId, chains.Payer, raw.Target) || !raw.IsPlainTransfer() || !raw.HasValue() {
		return none()
	}
	return some(types.PayerTopUpTransaction{Target: raw.Target, Value: raw.Value})
}

func (PayerTopUpHandler) Unparse(chainId uint64, tx types.ReadableTransaction) (types.RawTransaction, error) {
	t, err := asTransaction[types.PayerTopUpTransaction](tx)
	if err != nil {
		return types.RawTransaction{}, err
	}

	payer, err := chains.Resolve(chainId, chains.Payer)
	if err != nil {
		return types.RawTransaction{}, err
	}
	return types.NewRawTransaction(payer, "", nil, t.Value), nil
}
