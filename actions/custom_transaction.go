package actions

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/sisu-network/lib/log"

	"github.com/nounsgovkit/govkit/codec"
	"github.com/nounsgovkit/govkit/core"
	"github.com/nounsgovkit/govkit/types"
)

// CustomTransactionActionHandler is the catch-all action. It makes any single call and builds
// out of whatever transaction is at the head of the pool.
type CustomTransactionActionHandler struct {
	codec codec.Codec
}

func NewCustomTransactionHandler(c codec.Codec) *CustomTransactionActionHandler {
	return &CustomTransactionActionHandler{codec: c}
}

func (h *CustomTransactionActionHandler) Type() types.ActionType {
	return types.ActionCustomTransaction
}

func (h *CustomTransactionActionHandler) TransactionHandlers() []core.TransactionHandler {
	return []core.TransactionHandler{
		NewFunctionCallHandler(h.codec),
		NewPayableFunctionCallHandler(h.codec),
		NewUnparsedFunctionCallHandler(h.codec),
		NewUnparsedPayableFunctionCallHandler(h.codec),
	}
}

func (h *CustomTransactionActionHandler) Resolve(chainId uint64, action types.Action) ([]types.ReadableTransaction, error) {
	a, err := asAction[types.CustomTransactionAction](action)
	if err != nil {
		return nil, err
	}
	if err := validateAction(a); err != nil {
		return nil, err
	}

	target := strings.ToLower(a.ContractCallTarget)
	value := valueOf(a.ContractCallValue)
	if value.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value %s", types.ErrInvalidAction, value)
	}
	payable := value.Sign() > 0

	if strings.TrimSpace(a.ContractCallSignature) == "" || len(a.ContractCallCalldata) > 0 {
		if payable {
			return []types.ReadableTransaction{types.UnparsedPayableFunctionCallTransaction{
				Target:    target,
				Signature: a.ContractCallSignature,
				Calldata:  a.ContractCallCalldata,
				Value:     value,
			}}, nil
		}
		return []types.ReadableTransaction{types.UnparsedFunctionCallTransaction{
			Target:    target,
			Signature: a.ContractCallSignature,
			Calldata:  a.ContractCallCalldata,
			Value:     value,
		}}, nil
	}

	sig, err := h.codec.ParseFunctionSignature(a.ContractCallSignature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidAction, err)
	}
	args := a.ContractCallArguments
	if args == nil {
		args = []any{}
	}
	inputs, err := codec.CoerceArguments(sig.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrInvalidAction, sig, err)
	}

	fc := types.FunctionCall{
		FunctionName:       sig.Name,
		FunctionInputTypes: codec.FormatParameterTypes(sig.Inputs),
		FunctionInputs:     inputs,
	}
	if payable {
		return []types.ReadableTransaction{
			types.PayableFunctionCallTransaction{Target: target, Value: value, FunctionCall: fc},
		}, nil
	}
	return []types.ReadableTransaction{
		types.FunctionCallTransaction{Target: target, Value: value, FunctionCall: fc},
	}, nil
}

// Build claims the first call shaped transaction in the pool. Unlike plain head consumption,
// a transaction of another shape is only taken, head first, once no earlier handler made
// progress in the current pass; until then it is left for the handler that claims its shape
// on the next pass.
func (h *CustomTransactionActionHandler) Build(ctx core.BuildContext, txs []types.ReadableTransaction) optional.Option[core.BuildResult] {
	i := firstCall(txs)
	if i < 0 {
		if ctx.Claimed > 0 || len(txs) == 0 {
			return optional.None[core.BuildResult]()
		}
		i = 0
	}

	action, err := h.actionFor(ctx, txs[i])
	if err != nil {
		log.Errorf("cannot build custom transaction from %s: %v", txs[i].TransactionType(), err)
		return optional.None[core.BuildResult]()
	}

	return optional.Some(core.BuildResult{
		Action:    action,
		Remaining: removeAt(txs, i),
	})
}

func firstCall(txs []types.ReadableTransaction) int {
	for i, tx := range txs {
		switch tx.TransactionType() {
		case types.TransactionFunctionCall,
			types.TransactionPayableFunctionCall,
			types.TransactionUnparsedFunctionCall,
			types.TransactionUnparsedPayableFunctionCall:
			return i
		}
	}
	return -1
}

func (h *CustomTransactionActionHandler) actionFor(ctx core.BuildContext, tx types.ReadableTransaction) (types.CustomTransactionAction, error) {
	switch t := tx.(type) {
	case types.FunctionCallTransaction:
		return h.callAction(t.Target, t.Value, t.FunctionCall)
	case types.PayableFunctionCallTransaction:
		return h.callAction(t.Target, t.Value, t.FunctionCall)
	case types.UnparsedFunctionCallTransaction:
		return rawAction(types.NewRawTransaction(t.Target, t.Signature, t.Calldata, t.Value)), nil
	case types.UnparsedPayableFunctionCallTransaction:
		return rawAction(types.NewRawTransaction(t.Target, t.Signature, t.Calldata, t.Value)), nil
	}

	// Shapes owned by other handlers are taken back to the wire and decoded as a plain call.
	raw, err := ctx.Unparser.UnparseTransaction(tx)
	if err != nil {
		return types.CustomTransactionAction{}, err
	}
	if strings.TrimSpace(raw.Signature) == "" {
		return rawAction(raw), nil
	}

	call, err := codec.DecodeCall(h.codec, raw.Signature, raw.Calldata)
	if err != nil {
		log.Verbosef("keeping calldata of %s on %s: %v", raw.Signature, raw.Target, err)
		return rawAction(raw), nil
	}

	return types.CustomTransactionAction{
		Target:                raw.Target,
		ContractCallTarget:    raw.Target,
		ContractCallSignature: call.Signature.String(),
		ContractCallValue:     valueOf(raw.Value),
		ContractCallArguments: call.Inputs,
	}, nil
}

func (h *CustomTransactionActionHandler) callAction(target string, value *big.Int, fc types.FunctionCall) (types.CustomTransactionAction, error) {
	inputTypes, err := h.codec.ParseParameterTypes(fc.FunctionInputTypes)
	if err != nil {
		return types.CustomTransactionAction{}, err
	}
	sig := codec.FunctionSignature{Name: fc.FunctionName, Inputs: inputTypes}

	return types.CustomTransactionAction{
		Target:                target,
		ContractCallTarget:    target,
		ContractCallSignature: sig.String(),
		ContractCallValue:     valueOf(value),
		ContractCallArguments: fc.FunctionInputs,
	}, nil
}

func rawAction(raw types.RawTransaction) types.CustomTransactionAction {
	return types.CustomTransactionAction{
		Target:                raw.Target,
		ContractCallTarget:    raw.Target,
		ContractCallSignature: raw.Signature,
		ContractCallValue:     valueOf(raw.Value),
		ContractCallArguments: []any{},
		ContractCallCalldata:  raw.Calldata,
	}
}

func (h *CustomTransactionActionHandler) Summarize(action types.Action) (string, error) {
	a, err := asAction[types.CustomTransactionAction](action)
	if err != nil {
		return "", err
	}

	value := valueOf(a.ContractCallValue)
	if value.Sign() > 0 {
		return fmt.Sprintf("%s ETH payable function call to contract %s", codec.FormatEther(value), a.ContractCallTarget), nil
	}
	return fmt.Sprintf("Function call to contract %s", a.ContractCallTarget), nil
}
