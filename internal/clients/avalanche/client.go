package avalanche

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client is a minimal Avalanche C-Chain JSON-RPC client. It covers the read
// operations the portfolio manager needs: gas price, native balances, and
// static contract calls for protocol position reads.
type Client struct {
	rpcURL string
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a new Avalanche RPC client
func NewClient(rpcURL string, log zerolog.Logger) *Client {
	return &Client{
		rpcURL: rpcURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "avalanche").Logger(),
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// call performs a single JSON-RPC call and returns the hex-encoded result.
func (c *Client) call(ctx context.Context, method string, params ...interface{}) (string, error) {
	if params == nil {
		params = []interface{}{}
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal RPC request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create RPC request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("RPC call %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("RPC call %s returned status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return "", fmt.Errorf("failed to decode RPC response: %w", err)
	}

	if rpcResp.Error != nil {
		return "", fmt.Errorf("RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	return rpcResp.Result, nil
}

// GasPriceWei returns the current network gas price in wei.
func (c *Client) GasPriceWei(ctx context.Context) (*big.Int, error) {
	result, err := c.call(ctx, "eth_gasPrice")
	if err != nil {
		return nil, err
	}
	return parseHexBig(result)
}

// NativeBalanceWei returns the AVAX balance of an address in wei.
func (c *Client) NativeBalanceWei(ctx context.Context, address string) (*big.Int, error) {
	result, err := c.call(ctx, "eth_getBalance", address, "latest")
	if err != nil {
		return nil, err
	}
	return parseHexBig(result)
}

// ContractRead performs an eth_call against a contract with pre-encoded
// calldata and returns the raw hex result. Callers own the ABI encoding;
// the handful of reads we do (balanceOf, supplyRatePerBlock) are simple
// enough that a full ABI dependency is not warranted.
func (c *Client) ContractRead(ctx context.Context, contract, calldata string) (string, error) {
	callObj := map[string]string{
		"to":   contract,
		"data": calldata,
	}
	return c.call(ctx, "eth_call", callObj, "latest")
}

// ContractReadUint is a ContractRead variant for methods returning a single
// uint256.
func (c *Client) ContractReadUint(ctx context.Context, contract, calldata string) (*big.Int, error) {
	result, err := c.ContractRead(ctx, contract, calldata)
	if err != nil {
		return nil, err
	}
	return parseHexBig(result)
}

// parseHexBig decodes a 0x-prefixed hex quantity.
func parseHexBig(hex string) (*big.Int, error) {
	trimmed := strings.TrimPrefix(hex, "0x")
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", hex)
	}
	return value, nil
}

// WeiToAvax converts a wei amount to AVAX (18 decimals).
func WeiToAvax(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f := new(big.Float).SetInt(wei)
	f.Quo(f, big.NewFloat(1e18))
	avax, _ := f.Float64()
	return avax
}
