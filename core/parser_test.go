package core

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/nounsgovkit/govkit/types"
	"github.com/stretchr/testify/require"
)

const target = "0x65a3870f48b5237f27f674ec42ea1e017e111d63"

type MockTransactionHandler struct {
	TxType      types.TransactionType
	ParseFunc   func(raw types.RawTransaction) optional.Option[types.ReadableTransaction]
	UnparseFunc func(tx types.ReadableTransaction) (types.RawTransaction, error)
}

func (m *MockTransactionHandler) Type() types.TransactionType {
	return m.TxType
}

func (m *MockTransactionHandler) Parse(chainId uint64, raw types.RawTransaction) optional.Option[types.ReadableTransaction] {
	if m.ParseFunc != nil {
		return m.ParseFunc(raw)
	}
	return optional.None[types.ReadableTransaction]()
}

func (m *MockTransactionHandler) Unparse(chainId uint64, tx types.ReadableTransaction) (types.RawTransaction, error) {
	if m.UnparseFunc != nil {
		return m.UnparseFunc(tx)
	}
	return types.RawTransaction{}, errors.New("not implemented")
}

type MockActionHandler struct {
	ActType       types.ActionType
	TxHandlers    []TransactionHandler
	ResolveFunc   func(action types.Action) ([]types.ReadableTransaction, error)
	BuildFunc     func(ctx BuildContext, txs []types.ReadableTransaction) optional.Option[BuildResult]
	SummarizeFunc func(action types.Action) (string, error)
}

func (m *MockActionHandler) Type() types.ActionType {
	return m.ActType
}

func (m *MockActionHandler) TransactionHandlers() []TransactionHandler {
	return m.TxHandlers
}

func (m *MockActionHandler) Resolve(chainId uint64, action types.Action) ([]types.ReadableTransaction, error) {
	return m.ResolveFunc(action)
}

func (m *MockActionHandler) Build(ctx BuildContext, txs []types.ReadableTransaction) optional.Option[BuildResult] {
	if m.BuildFunc != nil {
		return m.BuildFunc(ctx, txs)
	}
	return optional.None[BuildResult]()
}

func (m *MockActionHandler) Summarize(action types.Action) (string, error) {
	return m.SummarizeFunc(action)
}

// transferHandler parses plain transfers only.
func transferHandler() *MockTransactionHandler {
	return &MockTransactionHandler{
		TxType: types.TransactionTransfer,
		ParseFunc: func(raw types.RawTransaction) optional.Option[types.ReadableTransaction] {
			if !raw.IsPlainTransfer() {
				return optional.None[types.ReadableTransaction]()
			}
			return optional.Some[types.ReadableTransaction](types.TransferTransaction{Target: raw.Target, Value: raw.Value})
		},
		UnparseFunc: func(tx types.ReadableTransaction) (types.RawTransaction, error) {
			transfer := tx.(types.TransferTransaction)
			return types.NewRawTransaction(transfer.Target, "", nil, transfer.Value), nil
		},
	}
}

// unparsedHandler accepts anything.
func unparsedHandler() *MockTransactionHandler {
	return &MockTransactionHandler{
		TxType: types.TransactionUnparsedFunctionCall,
		ParseFunc: func(raw types.RawTransaction) optional.Option[types.ReadableTransaction] {
			return optional.Some[types.ReadableTransaction](types.UnparsedFunctionCallTransaction{
				Target:    raw.Target,
				Signature: raw.Signature,
				Calldata:  raw.Calldata,
				Value:     raw.Value,
			})
		},
		UnparseFunc: func(tx types.ReadableTransaction) (types.RawTransaction, error) {
			u := tx.(types.UnparsedFunctionCallTransaction)
			return types.NewRawTransaction(u.Target, u.Signature, u.Calldata, u.Value), nil
		},
	}
}

// claimFirst builds a payer top up action out of the first transaction tagged t.
func claimFirst(t types.TransactionType) func(BuildContext, []types.ReadableTransaction) optional.Option[BuildResult] {
	return func(ctx BuildContext, txs []types.ReadableTransaction) optional.Option[BuildResult] {
		for i, tx := range txs {
			if tx.TransactionType() != t {
				continue
			}
			remaining := append(append([]types.ReadableTransaction{}, txs[:i]...), txs[i+1:]...)
			return optional.Some(BuildResult{
				Action:    types.PayerTopUpAction{Amount: string(t)},
				Remaining: remaining,
			})
		}
		return optional.None[BuildResult]()
	}
}

func batchOf(signatures ...string) types.RawTransactions {
	batch := types.NewRawTransactions()
	for _, sig := range signatures {
		calldata := []byte(nil)
		if sig != "" {
			calldata = []byte{0x01}
		}
		batch = batch.Append(types.NewRawTransaction(target, sig, calldata, big.NewInt(1)))
	}
	return batch
}

func TestParse(t *testing.T) {
	t.Run("first_match_wins", func(t *testing.T) {
		transfers := &MockActionHandler{ActType: types.ActionOneTimePayment, TxHandlers: []TransactionHandler{transferHandler()}}
		fallback := &MockActionHandler{ActType: types.ActionCustomTransaction, TxHandlers: []TransactionHandler{unparsedHandler()}}

		txs, err := NewParser(1, transfers, fallback).Parse(batchOf("", "pause()"))
		require.Nil(t, err)
		require.Len(t, txs, 2)
		require.Equal(t, types.TransactionTransfer, txs[0].TransactionType())
		require.Equal(t, types.TransactionUnparsedFunctionCall, txs[1].TransactionType())

		txs, err = NewParser(1, fallback, transfers).Parse(batchOf("", "pause()"))
		require.Nil(t, err)
		require.Equal(t, types.TransactionUnparsedFunctionCall, txs[0].TransactionType())
	})

	t.Run("no_handler", func(t *testing.T) {
		transfers := &MockActionHandler{ActType: types.ActionOneTimePayment, TxHandlers: []TransactionHandler{transferHandler()}}

		_, err := NewParser(1, transfers).Parse(batchOf("", "pause()"))
		var noHandler *NoTransactionHandlerError
		require.True(t, errors.As(err, &noHandler))
		require.Equal(t, 1, noHandler.Index)
		require.Equal(t, "pause()", noHandler.Signature)
	})

	t.Run("empty_batch", func(t *testing.T) {
		txs, err := NewParser(1).Parse(types.NewRawTransactions())
		require.Nil(t, err)
		require.Empty(t, txs)
	})

	t.Run("length_mismatch", func(t *testing.T) {
		batch := batchOf("", "")
		batch.Values = batch.Values[:1]

		_, err := NewParser(1).Parse(batch)
		require.ErrorIs(t, err, types.ErrBatchLengthMismatch)
	})
}

func TestUnparse(t *testing.T) {
	transfers := &MockActionHandler{ActType: types.ActionOneTimePayment, TxHandlers: []TransactionHandler{transferHandler()}}
	fallback := &MockActionHandler{ActType: types.ActionCustomTransaction, TxHandlers: []TransactionHandler{unparsedHandler()}}
	p := NewParser(1, transfers, fallback)

	t.Run("order_preserved", func(t *testing.T) {
		in := batchOf("pause()", "", "unpause()")
		txs, err := p.Parse(in)
		require.Nil(t, err)

		out, err := p.Unparse(txs)
		require.Nil(t, err)
		require.Equal(t, in, out)
	})

	t.Run("unknown_type", func(t *testing.T) {
		_, err := NewParser(1, transfers).Unparse([]types.ReadableTransaction{types.TokenTransferTransaction{}})
		var unknown *UnknownTransactionTypeError
		require.True(t, errors.As(err, &unknown))
		require.Equal(t, types.TransactionTokenTransfer, unknown.Type)
		require.Contains(t, err.Error(), "token-transfer")
	})
}

func TestResolveAction(t *testing.T) {
	transfers := &MockActionHandler{
		ActType:    types.ActionOneTimePayment,
		TxHandlers: []TransactionHandler{transferHandler()},
		ResolveFunc: func(action types.Action) ([]types.ReadableTransaction, error) {
			return []types.ReadableTransaction{types.TransferTransaction{Target: target, Value: big.NewInt(5)}}, nil
		},
	}
	p := NewParser(1, transfers)

	txs, err := p.ResolveAction(types.OneTimePaymentAction{})
	require.Nil(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, types.TransactionTransfer, txs[0].Parsed.TransactionType())
	require.Equal(t, target, txs[0].Raw.Target)
	require.Equal(t, "5", txs[0].Raw.Value.String())

	_, err = p.ResolveAction(types.PayerTopUpAction{})
	var unknown *UnknownActionTypeError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, types.ActionPayerTopUp, unknown.Type)

	_, err = p.ActionSummary(types.PayerTopUpAction{})
	require.True(t, errors.As(err, &unknown))
}

func TestBuildActions(t *testing.T) {
	transfer := types.TransferTransaction{Target: target, Value: big.NewInt(1)}
	unparsed := types.UnparsedFunctionCallTransaction{Target: target, Signature: "pause()"}

	t.Run("empty", func(t *testing.T) {
		actions, err := NewParser(1).BuildActions(nil)
		require.Nil(t, err)
		require.Empty(t, actions)
	})

	t.Run("registration_order_within_pass", func(t *testing.T) {
		transfers := &MockActionHandler{ActType: types.ActionOneTimePayment, BuildFunc: claimFirst(types.TransactionTransfer)}
		calls := &MockActionHandler{ActType: types.ActionCustomTransaction, BuildFunc: claimFirst(types.TransactionUnparsedFunctionCall)}

		in := []types.ReadableTransaction{unparsed, transfer, unparsed}
		actions, err := NewParser(1, transfers, calls).BuildActions(in)
		require.Nil(t, err)
		require.Equal(t, []types.Action{
			types.PayerTopUpAction{Amount: "transfer"},
			types.PayerTopUpAction{Amount: "unparsed-function-call"},
			types.PayerTopUpAction{Amount: "unparsed-function-call"},
		}, actions)

		// The input is never mutated.
		require.Equal(t, []types.ReadableTransaction{unparsed, transfer, unparsed}, in)
	})

	t.Run("stall", func(t *testing.T) {
		transfers := &MockActionHandler{ActType: types.ActionOneTimePayment, BuildFunc: claimFirst(types.TransactionTransfer)}

		_, err := NewParser(1, transfers).BuildActions([]types.ReadableTransaction{transfer, unparsed})
		var stall *BuildStallError
		require.True(t, errors.As(err, &stall))
		require.Equal(t, []types.ReadableTransaction{unparsed}, stall.Remaining)
		require.Contains(t, err.Error(), "unparsed-function-call")
	})

	t.Run("stall_when_nothing_consumed", func(t *testing.T) {
		noop := &MockActionHandler{
			ActType: types.ActionPayerTopUp,
			BuildFunc: func(ctx BuildContext, txs []types.ReadableTransaction) optional.Option[BuildResult] {
				return optional.Some(BuildResult{Action: types.PayerTopUpAction{}, Remaining: txs})
			},
		}

		_, err := NewParser(1, noop).BuildActions([]types.ReadableTransaction{transfer})
		var stall *BuildStallError
		require.True(t, errors.As(err, &stall))
	})

	t.Run("context_counts_claims_of_the_pass", func(t *testing.T) {
		var seen []int
		record := &MockActionHandler{
			ActType: types.ActionCustomTransaction,
			BuildFunc: func(ctx BuildContext, txs []types.ReadableTransaction) optional.Option[BuildResult] {
				seen = append(seen, ctx.Claimed)
				return claimFirst(types.TransactionUnparsedFunctionCall)(ctx, txs)
			},
		}
		transfers := &MockActionHandler{ActType: types.ActionOneTimePayment, BuildFunc: claimFirst(types.TransactionTransfer)}

		_, err := NewParser(1, transfers, record).BuildActions([]types.ReadableTransaction{transfer, unparsed, unparsed})
		require.Nil(t, err)
		require.Equal(t, []int{1, 0}, seen)
	})

	t.Run("context_unparses_through_parser", func(t *testing.T) {
		var raws []types.RawTransaction
		calls := &MockActionHandler{
			ActType:    types.ActionCustomTransaction,
			TxHandlers: []TransactionHandler{transferHandler()},
			BuildFunc: func(ctx BuildContext, txs []types.ReadableTransaction) optional.Option[BuildResult] {
				raw, err := ctx.Unparser.UnparseTransaction(txs[0])
				require.Nil(t, err)
				raws = append(raws, raw)
				return optional.Some(BuildResult{Action: types.PayerTopUpAction{Amount: fmt.Sprint(ctx.ChainId)}, Remaining: txs[1:]})
			},
		}

		actions, err := NewParser(11155111, calls).BuildActions([]types.ReadableTransaction{transfer, transfer})
		require.Nil(t, err)
		require.Len(t, actions, 2)
		require.Equal(t, types.PayerTopUpAction{Amount: "11155111"}, actions[0])
		require.Len(t, raws, 2)
		require.Equal(t, target, raws[0].Target)
	})
}
