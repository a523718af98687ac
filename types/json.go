package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownType = errors.New("unknown type tag")
)

type typeTag struct {
	Type string `json:"type"`
}

// marshalTagged encodes v as a JSON object with a leading "type" discriminant.
func marshalTagged(tag string, v any) ([]byte, error) {
	bz, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head := fmt.Sprintf(`{"type":%q`, tag)
	if string(bz) == "{}" {
		return []byte(head + "}"), nil
	}
	return append([]byte(head+","), bz[1:]...), nil
}

func readTag(data []byte) (string, error) {
	var tag typeTag
	if err := json.Unmarshal(data, &tag); err != nil {
		return "", err
	}
	if tag.Type == "" {
		return "", fmt.Errorf("%w: missing type", ErrUnknownType)
	}
	return tag.Type, nil
}

// decodeInto keeps untyped numbers as json.Number so that uint256 arguments survive.
func decodeInto[T any](data []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	err := dec.Decode(&v)
	return v, err
}

func (tx TransferTransaction) MarshalJSON() ([]byte, error) {
	type plain TransferTransaction
	return marshalTagged(string(tx.TransactionType()), plain(tx))
}

func (tx PayerTopUpTransaction) MarshalJSON() ([]byte, error) {
	type plain PayerTopUpTransaction
	return marshalTagged(string(tx.TransactionType()), plain(tx))
}

func (tx UsdcTransferViaPayerTransaction) MarshalJSON() ([]byte, error) {
	type plain UsdcTransferViaPayerTransaction
	return marshalTagged(string(tx.TransactionType()), plain(tx))
}

func (tx TokenTransferTransaction) MarshalJSON() ([]byte, error) {
	type plain TokenTransferTransaction
	return marshalTagged(string(tx.TransactionType()), plain(tx))
}

func (tx FunctionCallTransaction) MarshalJSON() ([]byte, error) {
	type plain FunctionCallTransaction
	return marshalTagged(string(tx.TransactionType()), plain(tx))
}

func (tx PayableFunctionCallTransaction) MarshalJSON() ([]byte, error) {
	type plain PayableFunctionCallTransaction
	return marshalTagged(string(tx.TransactionType()), plain(tx))
}

func (tx UnparsedFunctionCallTransaction) MarshalJSON() ([]byte, error) {
	type plain UnparsedFunctionCallTransaction
	return marshalTagged(string(tx.TransactionType()), plain(tx))
}

func (tx UnparsedPayableFunctionCallTransaction) MarshalJSON() ([]byte, error) {
	type plain UnparsedPayableFunctionCallTransaction
	return marshalTagged(string(tx.TransactionType()), plain(tx))
}

// DecodeReadable decodes one tagged readable transaction.
func DecodeReadable(data []byte) (ReadableTransaction, error) {
	tag, err := readTag(data)
	if err != nil {
		return nil, err
	}

	switch TransactionType(tag) {
	case TransactionTransfer:
		return decodeInto[TransferTransaction](data)
	case TransactionPayerTopUp:
		return decodeInto[PayerTopUpTransaction](data)
	case TransactionUsdcTransferViaPayer:
		return decodeInto[UsdcTransferViaPayerTransaction](data)
	case TransactionTokenTransfer:
		return decodeInto[TokenTransferTransaction](data)
	case TransactionFunctionCall:
		return decodeInto[FunctionCallTransaction](data)
	case TransactionPayableFunctionCall:
		return decodeInto[PayableFunctionCallTransaction](data)
	case TransactionUnparsedFunctionCall:
		return decodeInto[UnparsedFunctionCallTransaction](data)
	case TransactionUnparsedPayableFunctionCall:
		return decodeInto[UnparsedPayableFunctionCallTransaction](data)
	}

	return nil, fmt.Errorf("%w: transaction %q", ErrUnknownType, tag)
}

func DecodeReadables(items []json.RawMessage) ([]ReadableTransaction, error) {
	txs := make([]ReadableTransaction, 0, len(items))
	for i, item := range items {
		tx, err := DecodeReadable(item)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (a PayerTopUpAction) MarshalJSON() ([]byte, error) {
	type plain PayerTopUpAction
	return marshalTagged(string(a.ActionType()), plain(a))
}

func (a OneTimePaymentAction) MarshalJSON() ([]byte, error) {
	type plain OneTimePaymentAction
	return marshalTagged(string(a.ActionType()), plain(a))
}

func (a TransferFromTreasuryAction) MarshalJSON() ([]byte, error) {
	type plain TransferFromTreasuryAction
	return marshalTagged(string(a.ActionType()), plain(a))
}

func (a CustomTransactionAction) MarshalJSON() ([]byte, error) {
	type plain CustomTransactionAction
	return marshalTagged(string(a.ActionType()), plain(a))
}

// DecodeAction decodes one tagged action.
func DecodeAction(data []byte) (Action, error) {
	tag, err := readTag(data)
	if err != nil {
		return nil, err
	}

	switch ActionType(tag) {
	case ActionPayerTopUp:
		return decodeInto[PayerTopUpAction](data)
	case ActionOneTimePayment:
		return decodeInto[OneTimePaymentAction](data)
	case ActionTransferFromTreasury:
		return decodeInto[TransferFromTreasuryAction](data)
	case ActionCustomTransaction:
		return decodeInto[CustomTransactionAction](data)
	}

	return nil, fmt.Errorf("%w: action %q", ErrUnknownType, tag)
}
