package actions

import (
	"fmt"
	"math/big"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/nounsgovkit/govkit/codec"
	"github.com/nounsgovkit/govkit/core"
	"github.com/nounsgovkit/govkit/types"
)

var validate = validator.New()

// DefaultHandlers returns the built in action handlers in priority order. The custom
// transaction handler claims anything the others leave behind, so it goes last.
func DefaultHandlers(c codec.Codec) []core.ActionHandler {
	return []core.ActionHandler{
		NewPayerTopUpHandler(),
		NewOneTimePaymentHandler(c),
		NewTransferFromTreasuryHandler(c),
		NewCustomTransactionHandler(c),
	}
}

// NewDefaultParser returns a parser for chainId with the DefaultHandlers registry.
func NewDefaultParser(chainId uint64, c codec.Codec) *core.Parser {
	return core.NewParser(chainId, DefaultHandlers(c)...)
}

// asAction accepts both T and *T so callers can hand in either.
func asAction[T types.Action](action types.Action) (T, error) {
	if a, ok := action.(T); ok {
		return a, nil
	}
	if p, ok := any(action).(*T); ok && p != nil {
		return *p, nil
	}

	var zero T
	return zero, fmt.Errorf("%w: expected %s, got %T", types.ErrInvalidAction, zero.ActionType(), action)
}

func asTransaction[T types.ReadableTransaction](tx types.ReadableTransaction) (T, error) {
	if t, ok := tx.(T); ok {
		return t, nil
	}
	if p, ok := any(tx).(*T); ok && p != nil {
		return *p, nil
	}

	var zero T
	return zero, fmt.Errorf("expected %s transaction, got %T", zero.TransactionType(), tx)
}

func validateAction(action any) error {
	if err := validate.Struct(action); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidAction, err)
	}
	return nil
}

// removeAt returns a copy of txs without the i-th element.
func removeAt(txs []types.ReadableTransaction, i int) []types.ReadableTransaction {
	out := make([]types.ReadableTransaction, 0, len(txs)-1)
	out = append(out, txs[:i]...)
	return append(out, txs[i+1:]...)
}

// findFirst returns the index and value of the first transaction of type T in txs.
func findFirst[T types.ReadableTransaction](txs []types.ReadableTransaction) (int, T, bool) {
	for i, tx := range txs {
		if t, err := asTransaction[T](tx); err == nil {
			return i, t, true
		}
	}

	var zero T
	return -1, zero, false
}

// claimFirst builds an action out of the first transaction of type T in the pool.
func claimFirst[T types.ReadableTransaction](txs []types.ReadableTransaction, build func(T) types.Action) optional.Option[core.BuildResult] {
	i, tx, ok := findFirst[T](txs)
	if !ok {
		return optional.None[core.BuildResult]()
	}

	return optional.Some(core.BuildResult{
		Action:    build(tx),
		Remaining: removeAt(txs, i),
	})
}

func some(tx types.ReadableTransaction) optional.Option[types.ReadableTransaction] {
	return optional.Some(tx)
}

func none() optional.Option[types.ReadableTransaction] {
	return optional.None[types.ReadableTransaction]()
}

func valueOf(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
