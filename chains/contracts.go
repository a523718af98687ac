package chains

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Mainnet uint64 = 1
	Sepolia uint64 = 11155111
)

type ContractName string

const (
	Payer ContractName = "payer"
	Usdc  ContractName = "usdc"
	Weth  ContractName = "weth"
	Ens   ContractName = "ens"
)

var (
	ErrContractNotFound = errors.New("contract not found")
)

// Well known contract addresses per chain, lower case.
var contracts = map[uint64]map[ContractName]string{
	Mainnet: {
		Payer: "0xd97bcd9f47cee35c0a9ec1dc40c1269afc9e8e1d",
		Usdc:  "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		Weth:  "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		Ens:   "0xc18360217d8f7ab5e7c516566761ea12ce7f9d72",
	},
	Sepolia: {
		Usdc: "0x1c7d4b196cb0c7b01d743fbc6116a902379c7238",
		Weth: "0xfff9976782d46cc05630d1f6ebab18b2324d6b14",
	},
}

// Lookup returns the address of a well known contract on chainId.
func Lookup(chainId uint64, name ContractName) (string, bool) {
	addr, ok := contracts[chainId][name]
	return addr, ok
}

// Resolve is Lookup for callers that treat a missing contract as a configuration error.
func Resolve(chainId uint64, name ContractName) (string, error) {
	addr, ok := Lookup(chainId, name)
	if !ok {
		return "", fmt.Errorf("%w: %s on chain %d", ErrContractNotFound, name, chainId)
	}
	return addr, nil
}

// Is reports whether address is the well known contract name on chainId.
func Is(chainId uint64, name ContractName, address string) bool {
	addr, ok := Lookup(chainId, name)
	return ok && strings.EqualFold(addr, address)
}
