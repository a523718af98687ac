package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

type TransactionType string

const (
	TransactionTransfer                    TransactionType = "transfer"
	TransactionPayerTopUp                  TransactionType = "payer-top-up"
	TransactionUsdcTransferViaPayer        TransactionType = "usdc-transfer-via-payer"
	TransactionTokenTransfer               TransactionType = "token-transfer"
	TransactionFunctionCall                TransactionType = "function-call"
	TransactionPayableFunctionCall         TransactionType = "payable-function-call"
	TransactionUnparsedFunctionCall        TransactionType = "unparsed-function-call"
	TransactionUnparsedPayableFunctionCall TransactionType = "unparsed-payable-function-call"
)

// ReadableTransaction is a typed reconstruction of a raw transaction.
type ReadableTransaction interface {
	TransactionType() TransactionType
}

// FunctionCall carries the decoded call a readable transaction was parsed from. Input types
// are canonical ABI type strings ("address", "uint256[]", "(address,uint256)").
type FunctionCall struct {
	FunctionName       string   `json:"functionName,omitempty"`
	FunctionInputTypes []string `json:"functionInputTypes,omitempty"`
	FunctionInputs     []any    `json:"functionInputs,omitempty"`
}

type TransferTransaction struct {
	Target string   `json:"target"`
	Value  *big.Int `json:"value"`
}

func (TransferTransaction) TransactionType() TransactionType { return TransactionTransfer }

// PayerTopUpTransaction sends native currency to the payer contract of the chain.
type PayerTopUpTransaction struct {
	Target string   `json:"target"`
	Value  *big.Int `json:"value"`
}

func (PayerTopUpTransaction) TransactionType() TransactionType { return TransactionPayerTopUp }

type UsdcTransferViaPayerTransaction struct {
	Target          string   `json:"target"`
	ReceiverAddress string   `json:"receiverAddress"`
	UsdcAmount      *big.Int `json:"usdcAmount"`
	FunctionCall
}

func (UsdcTransferViaPayerTransaction) TransactionType() TransactionType {
	return TransactionUsdcTransferViaPayer
}

// TokenTransferTransaction is an ERC20 transfer of a known token out of the caller.
type TokenTransferTransaction struct {
	Token    Currency `json:"token"`
	Target   string   `json:"target"`
	Receiver string   `json:"receiver"`
	Amount   *big.Int `json:"amount"`
	FunctionCall
}

func (TokenTransferTransaction) TransactionType() TransactionType { return TransactionTokenTransfer }

type FunctionCallTransaction struct {
	Target string   `json:"target"`
	Value  *big.Int `json:"value"`
	FunctionCall
}

func (FunctionCallTransaction) TransactionType() TransactionType { return TransactionFunctionCall }

type PayableFunctionCallTransaction struct {
	Target string   `json:"target"`
	Value  *big.Int `json:"value"`
	FunctionCall
}

func (PayableFunctionCallTransaction) TransactionType() TransactionType {
	return TransactionPayableFunctionCall
}

// UnparsedFunctionCallTransaction keeps a call that no other shape understood. Error records
// why decoding failed, if it did.
type UnparsedFunctionCallTransaction struct {
	Target    string        `json:"target"`
	Signature string        `json:"signature"`
	Calldata  hexutil.Bytes `json:"calldata"`
	Value     *big.Int      `json:"value"`
	Error     string        `json:"error,omitempty"`
}

func (UnparsedFunctionCallTransaction) TransactionType() TransactionType {
	return TransactionUnparsedFunctionCall
}

type UnparsedPayableFunctionCallTransaction struct {
	Target    string        `json:"target"`
	Signature string        `json:"signature"`
	Calldata  hexutil.Bytes `json:"calldata"`
	Value     *big.Int      `json:"value"`
	Error     string        `json:"error,omitempty"`
}

func (UnparsedPayableFunctionCallTransaction) TransactionType() TransactionType {
	return TransactionUnparsedPayableFunctionCall
}
