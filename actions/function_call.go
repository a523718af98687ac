package actions

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/moznion/go-optional"

	"github.com/nounsgovkit/govkit/codec"
	"github.com/nounsgovkit/govkit/types"
)

// FunctionCallHandler parses any call whose calldata decodes against its signature. The
// payable variant takes the calls that carry value.
type FunctionCallHandler struct {
	codec   codec.Codec
	payable bool
}

func NewFunctionCallHandler(c codec.Codec) *FunctionCallHandler {
	return &FunctionCallHandler{codec: c}
}

func NewPayableFunctionCallHandler(c codec.Codec) *FunctionCallHandler {
	return &FunctionCallHandler{codec: c, payable: true}
}

func (h *FunctionCallHandler) Type() types.TransactionType {
	if h.payable {
		return types.TransactionPayableFunctionCall
	}
	return types.TransactionFunctionCall
}

func (h *FunctionCallHandler) Parse(chainId uint64, raw types.RawTransaction) optional.Option[types.ReadableTransaction] {
	if strings.TrimSpace(raw.Signature) == "" || raw.HasValue() != h.payable {
		return none()
	}

	call, err := codec.DecodeCall(h.codec, raw.Signature, raw.Calldata)
	if err != nil {
		return none()
	}

	fc := types.FunctionCall{
		FunctionName:       call.Signature.Name,
		FunctionInputTypes: call.InputTypes(),
		FunctionInputs:     call.Inputs,
	}
	if h.payable {
		return some(types.PayableFunctionCallTransaction{Target: raw.Target, Value: raw.Value, FunctionCall: fc})
	}
	return some(types.FunctionCallTransaction{Target: raw.Target, Value: valueOf(raw.Value), FunctionCall: fc})
}

func (h *FunctionCallHandler) Unparse(chainId uint64, tx types.ReadableTransaction) (types.RawTransaction, error) {
	var (
		target string
		value  *big.Int
		fc     types.FunctionCall
	)
	if h.payable {
		t, err := asTransaction[types.PayableFunctionCallTransaction](tx)
		if err != nil {
			return types.RawTransaction{}, err
		}
		target, value, fc = t.Target, valueOf(t.Value), t.FunctionCall
	} else {
		t, err := asTransaction[types.FunctionCallTransaction](tx)
		if err != nil {
			return types.RawTransaction{}, err
		}
		target, value, fc = t.Target, valueOf(t.Value), t.FunctionCall
	}

	signature, calldata, err := encodeFunctionCall(h.codec, fc)
	if err != nil {
		return types.RawTransaction{}, err
	}
	return types.NewRawTransaction(target, signature, calldata, value), nil
}

// encodeFunctionCall returns the canonical signature and the encoded inputs of fc.
func encodeFunctionCall(c codec.Codec, fc types.FunctionCall) (string, []byte, error) {
	if fc.FunctionName == "" {
		return "", nil, fmt.Errorf("missing function name")
	}

	inputTypes, err := c.ParseParameterTypes(fc.FunctionInputTypes)
	if err != nil {
		return "", nil, err
	}
	sig := codec.FunctionSignature{Name: fc.FunctionName, Inputs: inputTypes}

	if len(inputTypes) == 0 {
		if len(fc.FunctionInputs) != 0 {
			return "", nil, fmt.Errorf("%s takes no arguments, got %d", sig, len(fc.FunctionInputs))
		}
		return sig.String(), nil, nil
	}

	calldata, err := c.EncodeParameters(inputTypes, fc.FunctionInputs)
	if err != nil {
		return "", nil, fmt.Errorf("cannot encode arguments for %s: %w", sig, err)
	}
	return sig.String(), calldata, nil
}

// UnparsedFunctionCallHandler accepts any raw transaction and keeps it verbatim. It is the
// catch-all that makes parsing total.
type UnparsedFunctionCallHandler struct {
	codec   codec.Codec
	payable bool
}

func NewUnparsedFunctionCallHandler(c codec.Codec) *UnparsedFunctionCallHandler {
	return &UnparsedFunctionCallHandler{codec: c}
}

func NewUnparsedPayableFunctionCallHandler(c codec.Codec) *UnparsedFunctionCallHandler {
	return &UnparsedFunctionCallHandler{codec: c, payable: true}
}

func (h *UnparsedFunctionCallHandler) Type() types.TransactionType {
	if h.payable {
		return types.TransactionUnparsedPayableFunctionCall
	}
	return types.TransactionUnparsedFunctionCall
}

func (h *UnparsedFunctionCallHandler) Parse(chainId uint64, raw types.RawTransaction) optional.Option[types.ReadableTransaction] {
	if raw.HasValue() != h.payable {
		return none()
	}

	reason := h.decodeError(raw)
	if h.payable {
		return some(types.UnparsedPayableFunctionCallTransaction{
			Target:    raw.Target,
			Signature: raw.Signature,
			Calldata:  raw.Calldata,
			Value:     raw.Value,
			Error:     reason,
		})
	}
	return some(types.UnparsedFunctionCallTransaction{
		Target:    raw.Target,
		Signature: raw.Signature,
		Calldata:  raw.Calldata,
		Value:     valueOf(raw.Value),
		Error:     reason,
	})
}

func (h *UnparsedFunctionCallHandler) decodeError(raw types.RawTransaction) string {
	if strings.TrimSpace(raw.Signature) == "" {
		if len(raw.Calldata) > 0 {
			return "missing signature"
		}
		return ""
	}

	if _, err := codec.DecodeCall(h.codec, raw.Signature, raw.Calldata); err != nil {
		return err.Error()
	}
	return ""
}

func (h *UnparsedFunctionCallHandler) Unparse(chainId uint64, tx types.ReadableTransaction) (types.RawTransaction, error) {
	if h.payable {
		t, err := asTransaction[types.UnparsedPayableFunctionCallTransaction](tx)
		if err != nil {
			return types.RawTransaction{}, err
		}
		return types.NewRawTransaction(t.Target, t.Signature, t.Calldata, t.Value), nil
	}

	t, err := asTransaction[types.UnparsedFunctionCallTransaction](tx)
	if err != nil {
		return types.RawTransaction{}, err
	}
	return types.NewRawTransaction(t.Target, t.Signature, t.Calldata, t.Value), nil
}
