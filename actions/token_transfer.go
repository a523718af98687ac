package actions

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/moznion/go-optional"
	"github.com/sisu-network/lib/log"

	"github.com/nounsgovkit/govkit/chains"
	"github.com/nounsgovkit/govkit/codec"
	"github.com/nounsgovkit/govkit/types"
)

const (
	SendOrRegisterDebtSignature = "sendOrRegisterDebt(address,uint256)"
	TransferSignature           = "transfer(address,uint256)"

	UsdcDecimals = 6
)

var (
	tokenContracts = map[types.Currency]chains.ContractName{
		types.CurrencyEns:  chains.Ens,
		types.CurrencyUsdc: chains.Usdc,
		types.CurrencyWeth: chains.Weth,
	}

	tokenDecimals = map[types.Currency]int{
		types.CurrencyEns:  18,
		types.CurrencyUsdc: UsdcDecimals,
		types.CurrencyWeth: 18,
	}
)

// decodeAddressAmount decodes an (address,uint256) call made with signature.
func decodeAddressAmount(c codec.Codec, raw types.RawTransaction, signature string) (string, *big.Int, types.FunctionCall, bool) {
	if codec.NormalizeSignature(raw.Signature) != codec.NormalizeSignature(signature) || raw.HasValue() {
		return "", nil, types.FunctionCall{}, false
	}

	call, err := codec.DecodeCall(c, raw.Signature, raw.Calldata)
	if err != nil {
		log.Verbosef("cannot decode %s on %s: %v", signature, raw.Target, err)
		return "", nil, types.FunctionCall{}, false
	}

	receiver, ok := call.Inputs[0].(common.Address)
	if !ok {
		return "", nil, types.FunctionCall{}, false
	}
	amount, ok := call.Inputs[1].(*big.Int)
	if !ok {
		return "", nil, types.FunctionCall{}, false
	}

	fc := types.FunctionCall{
		FunctionName:       call.Signature.Name,
		FunctionInputTypes: call.InputTypes(),
		FunctionInputs:     call.Inputs,
	}
	return strings.ToLower(receiver.Hex()), amount, fc, true
}

func encodeAddressAmount(c codec.Codec, receiver string, amount *big.Int) ([]byte, error) {
	if !common.IsHexAddress(receiver) {
		return nil, fmt.Errorf("invalid receiver %q", receiver)
	}
	if amount == nil {
		return nil, fmt.Errorf("missing amount")
	}

	inputs, err := c.ParseParameterTypes([]string{"address", "uint256"})
	if err != nil {
		return nil, err
	}
	return c.EncodeParameters(inputs, []any{common.HexToAddress(receiver), amount})
}

// UsdcTransferViaPayerHandler parses USDC payments routed through the payer contract.
type UsdcTransferViaPayerHandler struct {
	codec codec.Codec
}

func NewUsdcTransferViaPayerHandler(c codec.Codec) *UsdcTransferViaPayerHandler {
	return &UsdcTransferViaPayerHandler{codec: c}
}

func (h *UsdcTransferViaPayerHandler) Type() types.TransactionType {
	return types.TransactionUsdcTransferViaPayer
}

func (h *UsdcTransferViaPayerHandler) Parse(chainId uint64, raw types.RawTransaction) optional.Option[types.ReadableTransaction] {
	if !chains.Is(chainId, chains.Payer, raw.Target) {
		return none()
	}

	receiver, amount, fc, ok := decodeAddressAmount(h.codec, raw, SendOrRegisterDebtSignature)
	if !ok {
		return none()
	}

	return some(types.UsdcTransferViaPayerTransaction{
		Target:          raw.Target,
		ReceiverAddress: receiver,
		UsdcAmount:      amount,
		FunctionCall:    fc,
	})
}

func (h *UsdcTransferViaPayerHandler) Unparse(chainId uint64, tx types.ReadableTransaction) (types.RawTransaction, error) {
	t, err := asTransaction[types.UsdcTransferViaPayerTransaction](tx)
	if err != nil {
		return types.RawTransaction{}, err
	}

	payer, err := chains.Resolve(chainId, chains.Payer)
	if err != nil {
		return types.RawTransaction{}, err
	}

	calldata, err := encodeAddressAmount(h.codec, t.ReceiverAddress, t.UsdcAmount)
	if err != nil {
		return types.RawTransaction{}, err
	}

	return types.NewRawTransaction(payer, SendOrRegisterDebtSignature, calldata, nil), nil
}

// TokenTransferHandler parses ERC20 transfers of the tokens held by the treasury.
type TokenTransferHandler struct {
	codec codec.Codec
}

func NewTokenTransferHandler(c codec.Codec) *TokenTransferHandler {
	return &TokenTransferHandler{codec: c}
}

func (h *TokenTransferHandler) Type() types.TransactionType {
	return types.TransactionTokenTransfer
}

func (h *TokenTransferHandler) Parse(chainId uint64, raw types.RawTransaction) optional.Option[types.ReadableTransaction] {
	token, ok := tokenAt(chainId, raw.Target)
	if !ok {
		return none()
	}

	receiver, amount, fc, ok := decodeAddressAmount(h.codec, raw, TransferSignature)
	if !ok {
		return none()
	}

	return some(types.TokenTransferTransaction{
		Token:        token,
		Target:       raw.Target,
		Receiver:     receiver,
		Amount:       amount,
		FunctionCall: fc,
	})
}

func (h *TokenTransferHandler) Unparse(chainId uint64, tx types.ReadableTransaction) (types.RawTransaction, error) {
	t, err := asTransaction[types.TokenTransferTransaction](tx)
	if err != nil {
		return types.RawTransaction{}, err
	}

	contract, ok := tokenContracts[t.Token]
	if !ok {
		return types.RawTransaction{}, fmt.Errorf("unsupported token %q", t.Token)
	}
	target, err := chains.Resolve(chainId, contract)
	if err != nil {
		return types.RawTransaction{}, err
	}

	calldata, err := encodeAddressAmount(h.codec, t.Receiver, t.Amount)
	if err != nil {
		return types.RawTransaction{}, err
	}

	return types.NewRawTransaction(target, TransferSignature, calldata, nil), nil
}

// tokenAt returns the treasury token deployed at address on chainId.
func tokenAt(chainId uint64, address string) (types.Currency, bool) {
	for token, contract := range tokenContracts {
		if chains.Is(chainId, contract, address) {
			return token, true
		}
	}
	return "", false
}
