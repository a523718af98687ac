package core

import (
	"github.com/sisu-network/lib/log"

	"github.com/nounsgovkit/govkit/types"
)

// Parser converts between raw transaction batches, readable transactions and actions using an
// ordered registry of action handlers. Registration order is a priority: earlier handlers are
// tried first and shadow later, more general ones.
//
// The registry is fixed at construction, so a Parser is safe for concurrent use.
type Parser struct {
	chainId        uint64
	actionHandlers []ActionHandler
	txHandlers     []TransactionHandler
}

func NewParser(chainId uint64, handlers ...ActionHandler) *Parser {
	txHandlers := make([]TransactionHandler, 0)
	for _, h := range handlers {
		txHandlers = append(txHandlers, h.TransactionHandlers()...)
	}

	return &Parser{
		chainId:        chainId,
		actionHandlers: handlers,
		txHandlers:     txHandlers,
	}
}

func (p *Parser) ChainId() uint64 {
	return p.chainId
}

// Parse decodes every entry of the batch with the first transaction handler that matches it.
func (p *Parser) Parse(batch types.RawTransactions) ([]types.ReadableTransaction, error) {
	n, err := batch.Len()
	if err != nil {
		return nil, err
	}

	txs := make([]types.ReadableTransaction, 0, n)
	for i := 0; i < n; i++ {
		raw, err := batch.At(i)
		if err != nil {
			return nil, err
		}

		tx, err := p.parseOne(i, raw)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func (p *Parser) parseOne(index int, raw types.RawTransaction) (types.ReadableTransaction, error) {
	for _, h := range p.txHandlers {
		parsed := h.Parse(p.chainId, raw)
		if parsed.IsSome() {
			log.Verbosef("transaction %d parsed as %s", index, h.Type())
			return parsed.Unwrap(), nil
		}
	}
	return nil, NewNoTransactionHandlerError(index, raw)
}

// Unparse converts readable transactions back into a batch, preserving order. The handler is
// selected by exact tag.
func (p *Parser) Unparse(txs []types.ReadableTransaction) (types.RawTransactions, error) {
	batch := types.NewRawTransactions()
	for _, tx := range txs {
		raw, err := p.UnparseTransaction(tx)
		if err != nil {
			return types.RawTransactions{}, err
		}
		batch = batch.Append(raw)
	}
	return batch, nil
}

func (p *Parser) UnparseTransaction(tx types.ReadableTransaction) (types.RawTransaction, error) {
	h := p.transactionHandler(tx.TransactionType())
	if h == nil {
		err := NewUnknownTransactionTypeError(tx.TransactionType())
		log.Error(err)
		return types.RawTransaction{}, err
	}
	return h.Unparse(p.chainId, tx)
}

// ResolveAction expands an action into its readable transactions, each paired with the raw
// transaction it unparses to.
func (p *Parser) ResolveAction(action types.Action) ([]Transaction, error) {
	h, err := p.actionHandler(action.ActionType())
	if err != nil {
		return nil, err
	}

	resolved, err := h.Resolve(p.chainId, action)
	if err != nil {
		return nil, err
	}

	txs := make([]Transaction, 0, len(resolved))
	for _, tx := range resolved {
		raw, err := p.UnparseTransaction(tx)
		if err != nil {
			return nil, err
		}
		txs = append(txs, Transaction{Parsed: tx, Raw: raw})
	}

	return txs, nil
}

// BuildActions greedily folds a flat transaction list back into actions. Each pass offers the
// shrinking pool to every action handler in registration order. Actions are returned in the
// order they were built.
func (p *Parser) BuildActions(txs []types.ReadableTransaction) ([]types.Action, error) {
	ctx := BuildContext{ChainId: p.chainId, Unparser: p}

	remaining := append([]types.ReadableTransaction(nil), txs...)
	actions := make([]types.Action, 0)
	for len(remaining) > 0 {
		pass := p.buildPass(ctx, remaining)
		if len(pass.remaining) >= len(remaining) {
			err := NewBuildStallError(remaining)
			log.Error(err)
			return nil, err
		}

		actions = append(actions, pass.actions...)
		remaining = pass.remaining
	}

	return actions, nil
}

type buildPass struct {
	actions   []types.Action
	remaining []types.ReadableTransaction
}

func (p *Parser) buildPass(ctx BuildContext, txs []types.ReadableTransaction) buildPass {
	acc := buildPass{remaining: txs}
	for _, h := range p.actionHandlers {
		if len(acc.remaining) == 0 {
			break
		}

		ctx.Claimed = len(txs) - len(acc.remaining)
		built := h.Build(ctx, acc.remaining)
		if built.IsNone() {
			continue
		}

		res := built.Unwrap()
		acc = buildPass{
			actions:   append(acc.actions, res.Action),
			remaining: res.Remaining,
		}
	}
	return acc
}

func (p *Parser) ActionSummary(action types.Action) (string, error) {
	h, err := p.actionHandler(action.ActionType())
	if err != nil {
		return "", err
	}
	return h.Summarize(action)
}

func (p *Parser) actionHandler(t types.ActionType) (ActionHandler, error) {
	for _, h := range p.actionHandlers {
		if h.Type() == t {
			return h, nil
		}
	}

	err := NewUnknownActionTypeError(t)
	log.Error(err)
	return nil, err
}

func (p *Parser) transactionHandler(t types.TransactionType) TransactionHandler {
	for _, h := range p.txHandlers {
		if h.Type() == t {
			return h
		}
	}
	return nil
}
