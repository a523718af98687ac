package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/groupcache/lru"
	"github.com/sisu-network/lib/log"

	"github.com/nounsgovkit/govkit/types"
)

const (
	DefaultEtherscanUrl = "https://api.etherscan.io/api"
	DefaultCacheSize    = 256

	CodeContractAddressRequired   = "contract-address-required"
	CodeSourceCodeNotVerified     = "source-code-not-verified"
	CodeImplementationAbiNotFound = "implementation-abi-not-found"

	unverifiedAbi = "Contract source code not verified"
)

var (
	ErrEtherscanRequest = errors.New("etherscan request failed")
)

// ContractInfoError is returned when a contract exists but its metadata cannot be used.
type ContractInfoError struct {
	Code    string
	Address string
}

func NewContractInfoError(code, address string) error {
	return &ContractInfoError{Code: code, Address: address}
}

func (e *ContractInfoError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Address)
}

// ContractInfoProvider fetches verified contract metadata by address.
type ContractInfoProvider interface {
	GetContractInfo(ctx context.Context, address string, apiKey string) (*types.ContractInfo, error)
}

type EtherscanClient struct {
	url        string
	httpClient *http.Client

	lock  *sync.Mutex
	cache *lru.Cache
}

func NewEtherscanClient(etherscanUrl string, cacheSize int) ContractInfoProvider {
	if etherscanUrl == "" {
		etherscanUrl = DefaultEtherscanUrl
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	return &EtherscanClient{
		url:        etherscanUrl,
		httpClient: &http.Client{},
		lock:       &sync.Mutex{},
		cache:      lru.New(cacheSize),
	}
}

type etherscanResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type sourceCode struct {
	SourceCode     string `json:"SourceCode"`
	ABI            string `json:"ABI"`
	ContractName   string `json:"ContractName"`
	Proxy          string `json:"Proxy"`
	Implementation string `json:"Implementation"`
}

// GetContractInfo returns the verified metadata of address. For proxies the implementation
// ABI is fetched as well. Successful lookups are cached per address.
func (c *EtherscanClient) GetContractInfo(ctx context.Context, address string, apiKey string) (*types.ContractInfo, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid address %q", address)
	}
	address = strings.ToLower(address)

	if info, ok := c.cached(address); ok {
		return info, nil
	}

	var results []sourceCode
	if err := c.get(ctx, apiKey, "getsourcecode", address, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no source code result for %s", ErrEtherscanRequest, address)
	}

	source := results[0]
	if source.SourceCode == "" {
		return nil, NewContractInfoError(CodeContractAddressRequired, address)
	}
	if source.ABI == unverifiedAbi {
		return nil, NewContractInfoError(CodeSourceCodeNotVerified, address)
	}
	if !json.Valid([]byte(source.ABI)) {
		return nil, fmt.Errorf("%w: invalid abi for %s", ErrEtherscanRequest, address)
	}

	info := &types.ContractInfo{
		Name:    source.ContractName,
		Abi:     json.RawMessage(source.ABI),
		IsProxy: source.Proxy == "1",
	}

	if info.IsProxy {
		info.ImplementationAddress = strings.ToLower(source.Implementation)

		var implementationAbi string
		if err := c.get(ctx, apiKey, "getabi", info.ImplementationAddress, &implementationAbi); err != nil {
			log.Warnf("cannot fetch implementation abi of %s at %s, err = %v", address, info.ImplementationAddress, err)
			return nil, NewContractInfoError(CodeImplementationAbiNotFound, info.ImplementationAddress)
		}
		if !json.Valid([]byte(implementationAbi)) {
			return nil, NewContractInfoError(CodeImplementationAbiNotFound, info.ImplementationAddress)
		}
		info.ImplementationAbi = json.RawMessage(implementationAbi)
	}

	c.lock.Lock()
	c.cache.Add(address, info)
	c.lock.Unlock()

	return info, nil
}

func (c *EtherscanClient) cached(address string) (*types.ContractInfo, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if v, ok := c.cache.Get(address); ok {
		return v.(*types.ContractInfo), true
	}
	return nil, false
}

func (c *EtherscanClient) get(ctx context.Context, apiKey, action, address string, result any) error {
	query := url.Values{}
	query.Set("module", "contract")
	query.Set("action", action)
	query.Set("address", address)
	query.Set("apikey", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}

	log.Verbosef("Etherscan %s for %s", action, address)
	response, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEtherscanRequest, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("%w: http status %d", ErrEtherscanRequest, response.StatusCode)
	}

	var body etherscanResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: failed to deserialize response: %v", ErrEtherscanRequest, err)
	}
	if body.Status != "1" {
		return fmt.Errorf("%w: %s %s", ErrEtherscanRequest, body.Message, string(body.Result))
	}

	if err := json.Unmarshal(body.Result, result); err != nil {
		return fmt.Errorf("%w: failed to deserialize result: %v", ErrEtherscanRequest, err)
	}
	return nil
}
