package types

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrBatchLengthMismatch = errors.New("raw transaction batch columns have different lengths")
)

// RawTransaction is the on-chain representation of one call. Calldata holds the ABI encoded
// arguments without the 4 byte selector.
type RawTransaction struct {
	Target    string
	Signature string
	Calldata  hexutil.Bytes
	Value     *big.Int
}

func NewRawTransaction(target, signature string, calldata []byte, value *big.Int) RawTransaction {
	if value == nil {
		value = new(big.Int)
	}
	return RawTransaction{
		Target:    strings.ToLower(target),
		Signature: signature,
		Calldata:  calldata,
		Value:     value,
	}
}

// IsPlainTransfer reports whether the transaction only moves native currency.
func (tx RawTransaction) IsPlainTransfer() bool {
	return strings.TrimSpace(tx.Signature) == "" && len(tx.Calldata) == 0
}

func (tx RawTransaction) HasValue() bool {
	return tx.Value != nil && tx.Value.Sign() > 0
}

// RawTransactions is the column oriented wire format of a batch. Index i across the four
// columns describes transaction i.
type RawTransactions struct {
	Targets    []string `json:"targets"`
	Values     []string `json:"values"`
	Signatures []string `json:"signatures"`
	Calldatas  []string `json:"calldatas"`
}

func NewRawTransactions() RawTransactions {
	return RawTransactions{
		Targets:    make([]string, 0),
		Values:     make([]string, 0),
		Signatures: make([]string, 0),
		Calldatas:  make([]string, 0),
	}
}

func (b RawTransactions) Len() (int, error) {
	n := len(b.Targets)
	if len(b.Values) != n || len(b.Signatures) != n || len(b.Calldatas) != n {
		return 0, fmt.Errorf("%w: targets=%d values=%d signatures=%d calldatas=%d",
			ErrBatchLengthMismatch, n, len(b.Values), len(b.Signatures), len(b.Calldatas))
	}
	return n, nil
}

// At decodes the i-th column entry. The target is lower cased so that it can be used as a
// comparison key.
func (b RawTransactions) At(i int) (RawTransaction, error) {
	target := b.Targets[i]
	if !common.IsHexAddress(target) {
		return RawTransaction{}, fmt.Errorf("transaction %d: invalid target %q", i, target)
	}

	value := new(big.Int)
	if raw := strings.TrimSpace(b.Values[i]); raw != "" {
		if _, ok := value.SetString(raw, 10); !ok || value.Sign() < 0 {
			return RawTransaction{}, fmt.Errorf("transaction %d: invalid value %q", i, b.Values[i])
		}
	}

	var calldata []byte
	if raw := strings.TrimSpace(b.Calldatas[i]); raw != "" && raw != "0x" {
		bz, err := hexutil.Decode(raw)
		if err != nil {
			return RawTransaction{}, fmt.Errorf("transaction %d: invalid calldata: %w", i, err)
		}
		calldata = bz
	}

	return NewRawTransaction(target, b.Signatures[i], calldata, value), nil
}

// Append returns a batch with tx added as the last entry.
func (b RawTransactions) Append(tx RawTransaction) RawTransactions {
	value := "0"
	if tx.Value != nil {
		value = tx.Value.String()
	}
	calldata := "0x"
	if len(tx.Calldata) > 0 {
		calldata = hexutil.Encode(tx.Calldata)
	}

	b.Targets = append(b.Targets, tx.Target)
	b.Values = append(b.Values, value)
	b.Signatures = append(b.Signatures, tx.Signature)
	b.Calldatas = append(b.Calldatas, calldata)
	return b
}
