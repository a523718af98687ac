package types

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ContractInfo is the verified metadata of a contract as reported by a block explorer.
type ContractInfo struct {
	Name                  string          `json:"name"`
	Abi                   json.RawMessage `json:"abi"`
	IsProxy               bool            `json:"isProxy"`
	ImplementationAddress string          `json:"implementationAddress,omitempty"`
	ImplementationAbi     json.RawMessage `json:"implementationAbi,omitempty"`
}

// FunctionSignatures lists the canonical signatures of the state changing functions of the
// contract, following the implementation ABI for proxies. They can be used as the signature
// of a custom transaction.
func (c *ContractInfo) FunctionSignatures() ([]string, error) {
	raw := c.Abi
	if c.IsProxy && len(c.ImplementationAbi) > 0 {
		raw = c.ImplementationAbi
	}

	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	sigs := make([]string, 0, len(parsed.Methods))
	for _, method := range parsed.Methods {
		if method.IsConstant() {
			continue
		}
		sigs = append(sigs, method.Sig)
	}
	sort.Strings(sigs)

	return sigs, nil
}
