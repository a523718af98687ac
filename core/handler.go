package core

import (
	"github.com/moznion/go-optional"
	"github.com/nounsgovkit/govkit/types"
)

// TransactionHandler maps one raw transaction shape to one readable transaction variant and
// back. Parse returns None when the raw transaction does not have the handler's shape.
type TransactionHandler interface {
	Type() types.TransactionType
	Parse(chainId uint64, raw types.RawTransaction) optional.Option[types.ReadableTransaction]
	Unparse(chainId uint64, tx types.ReadableTransaction) (types.RawTransaction, error)
}

// BuildResult is an action recognized in a transaction pool together with the transactions
// that were not consumed, in their original order.
type BuildResult struct {
	Action    types.Action
	Remaining []types.ReadableTransaction
}

// Unparser converts a single readable transaction with whatever handler owns its tag.
type Unparser interface {
	UnparseTransaction(tx types.ReadableTransaction) (types.RawTransaction, error)
}

type BuildContext struct {
	ChainId  uint64
	Unparser Unparser
	// Claimed is the number of transactions earlier handlers consumed in the current pass.
	Claimed int
}

// ActionHandler maps one action variant to the ordered readable transactions that realize it.
//
// Resolve must return transactions in the order Build consumes them. Build returns None,
// without touching the input, when it finds nothing of its shape in the pool.
type ActionHandler interface {
	Type() types.ActionType
	TransactionHandlers() []TransactionHandler
	Resolve(chainId uint64, action types.Action) ([]types.ReadableTransaction, error)
	Build(ctx BuildContext, txs []types.ReadableTransaction) optional.Option[BuildResult]
	Summarize(action types.Action) (string, error)
}

// Transaction pairs a readable transaction with its raw projection.
type Transaction struct {
	Parsed types.ReadableTransaction
	Raw    types.RawTransaction
}
