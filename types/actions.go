package types

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrInvalidAction = errors.New("invalid action")
)

type ActionType string

const (
	ActionPayerTopUp           ActionType = "payer-top-up"
	ActionOneTimePayment       ActionType = "one-time-payment"
	ActionTransferFromTreasury ActionType = "transfer-from-treasury"
	ActionCustomTransaction    ActionType = "custom-transaction"
)

type Currency string

const (
	CurrencyEth  Currency = "eth"
	CurrencyUsdc Currency = "usdc"
	CurrencyWeth Currency = "weth"
	CurrencyEns  Currency = "ens"
)

// Action is a user facing intent that resolves to one or more readable transactions.
type Action interface {
	ActionType() ActionType
}

// PayerTopUpAction funds the payer contract with native currency.
type PayerTopUpAction struct {
	Amount string `json:"amount" validate:"required,numeric"`
}

func (PayerTopUpAction) ActionType() ActionType { return ActionPayerTopUp }

type OneTimePaymentAction struct {
	Currency Currency `json:"currency" validate:"required,oneof=eth usdc"`
	Amount   string   `json:"amount" validate:"required,numeric"`
	Target   string   `json:"target" validate:"required,eth_addr"`
}

func (OneTimePaymentAction) ActionType() ActionType { return ActionOneTimePayment }

type TransferFromTreasuryAction struct {
	Currency Currency `json:"currency" validate:"required,oneof=ens usdc weth"`
	Receiver string   `json:"receiver" validate:"required,eth_addr"`
	Amount   string   `json:"amount" validate:"required,numeric"`
}

func (TransferFromTreasuryAction) ActionType() ActionType { return ActionTransferFromTreasury }

// CustomTransactionAction drives one manually specified call. ContractCallCalldata is only
// set when the call could not be decoded against its signature, in which case it replaces
// ContractCallArguments.
type CustomTransactionAction struct {
	Target                string        `json:"target" validate:"required,eth_addr"`
	ContractCallTarget    string        `json:"contractCallTarget" validate:"required,eth_addr"`
	ContractCallSignature string        `json:"contractCallSignature"`
	ContractCallValue     *big.Int      `json:"contractCallValue"`
	ContractCallArguments []any         `json:"contractCallArguments"`
	ContractCallCalldata  hexutil.Bytes `json:"contractCallCalldata,omitempty"`
}

func (CustomTransactionAction) ActionType() ActionType { return ActionCustomTransaction }
