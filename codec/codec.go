package codec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// FunctionSignature is a parsed function signature.
type FunctionSignature struct {
	Name   string
	Inputs []abi.Type
}

// String returns the canonical signature, e.g. transfer(address,uint256).
func (s FunctionSignature) String() string {
	return fmt.Sprintf("%s(%s)", s.Name, strings.Join(FormatParameterTypes(s.Inputs), ","))
}

// Codec is the ABI encoding capability the handlers rely on.
type Codec interface {
	ParseFunctionSignature(text string) (FunctionSignature, error)
	ParseParameterTypes(types []string) ([]abi.Type, error)
	FormatParameterType(t abi.Type) string
	DecodeParameters(types []abi.Type, data []byte) ([]any, error)
	EncodeParameters(types []abi.Type, values []any) ([]byte, error)
}

// ABI implements Codec on top of go-ethereum's accounts/abi package.
type ABI struct{}

func New() Codec {
	return ABI{}
}

func (ABI) ParseFunctionSignature(text string) (FunctionSignature, error) {
	canonical, err := canonicalizeSignature(text)
	if err != nil {
		return FunctionSignature{}, err
	}

	selector, err := abi.ParseSelector(canonical)
	if err != nil {
		return FunctionSignature{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	inputs := make([]abi.Type, 0, len(selector.Inputs))
	for _, arg := range selector.Inputs {
		t, err := abi.NewType(arg.Type, arg.InternalType, arg.Components)
		if err != nil {
			return FunctionSignature{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		inputs = append(inputs, t)
	}

	return FunctionSignature{Name: selector.Name, Inputs: inputs}, nil
}

func (c ABI) ParseParameterTypes(types []string) ([]abi.Type, error) {
	if len(types) == 0 {
		return []abi.Type{}, nil
	}
	sig, err := c.ParseFunctionSignature("f(" + strings.Join(types, ",") + ")")
	if err != nil {
		return nil, err
	}
	return sig.Inputs, nil
}

func (ABI) FormatParameterType(t abi.Type) string {
	return t.String()
}

// DecodeParameters unpacks data against types. Byte values come back as hexutil.Bytes and
// lists or tuples holding them as []any, so that every decoded value survives a JSON round
// trip through EncodeParameters.
func (ABI) DecodeParameters(types []abi.Type, data []byte) ([]any, error) {
	values, err := arguments(types).Unpack(data)
	if err != nil {
		return nil, err
	}
	for i := range values {
		values[i] = wireValue(types[i], values[i])
	}
	return values, nil
}

func (ABI) EncodeParameters(types []abi.Type, values []any) ([]byte, error) {
	coerced, err := CoerceArguments(types, values)
	if err != nil {
		return nil, err
	}
	return arguments(types).Pack(coerced...)
}

func arguments(types []abi.Type) abi.Arguments {
	args := make(abi.Arguments, 0, len(types))
	for _, t := range types {
		args = append(args, abi.Argument{Type: t})
	}
	return args
}

func FormatParameterTypes(types []abi.Type) []string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return names
}

// DecodedCall is the result of decoding calldata against a signature.
type DecodedCall struct {
	Signature FunctionSignature
	Inputs    []any
}

// InputTypes returns the canonical type strings of the call inputs.
func (d DecodedCall) InputTypes() []string {
	return FormatParameterTypes(d.Signature.Inputs)
}

// DecodeCall parses signature and decodes calldata against its parameter types.
func DecodeCall(c Codec, signature string, calldata []byte) (DecodedCall, error) {
	sig, err := c.ParseFunctionSignature(signature)
	if err != nil {
		return DecodedCall{}, err
	}
	if len(sig.Inputs) == 0 {
		if len(calldata) != 0 {
			return DecodedCall{}, fmt.Errorf("%s takes no arguments but calldata is %d bytes", sig, len(calldata))
		}
		return DecodedCall{Signature: sig, Inputs: []any{}}, nil
	}

	inputs, err := c.DecodeParameters(sig.Inputs, calldata)
	if err != nil {
		return DecodedCall{}, fmt.Errorf("cannot decode calldata for %s: %w", sig, err)
	}

	// Trailing or non canonical bytes would not survive re-encoding.
	encoded, err := c.EncodeParameters(sig.Inputs, inputs)
	if err != nil {
		return DecodedCall{}, fmt.Errorf("cannot re-encode calldata for %s: %w", sig, err)
	}
	if !bytes.Equal(encoded, calldata) {
		return DecodedCall{}, fmt.Errorf("calldata for %s is not canonically encoded", sig)
	}

	return DecodedCall{Signature: sig, Inputs: inputs}, nil
}
