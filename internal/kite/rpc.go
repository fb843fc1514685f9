package kite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	accountFactory = "0x948f52524Bdf595b439e7ca78620A8f843612df3"
	deploySelector = "0x8cb84e18"
	deploySalt     = "4b6f5b36bb7706150b17e2eecb6e602b1b90b94a4bf355df57466626a5cb897b"
)

// rpcCall posts a JSON-RPC request and returns the raw result field.
func (c *Client) rpcCall(ctx context.Context, url, method string, params []any, id int, op string) (json.RawMessage, error) {
	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	}
	env, err := c.post(ctx, url, payload, nil, op)
	if err != nil {
		return nil, err
	}
	return env.Result, nil
}

// SmartAccount asks the on-chain factory which smart account belongs to
// eoa. The calldata is the factory selector, the EOA left-padded to a
// 32-byte word and a fixed deployment salt; the address is the last 20
// bytes of the returned word.
func (c *Client) SmartAccount(ctx context.Context, eoa string) (string, error) {
	calldata := deploySelector +
		strings.Repeat("0", 24) +
		strings.TrimPrefix(strings.ToLower(eoa), "0x") +
		deploySalt
	params := []any{
		map[string]string{"data": calldata, "to": accountFactory},
		"latest",
	}
	raw, err := c.rpcCall(ctx, c.cfg.ChainRPCURL, "eth_call", params, 2, "smart account lookup")
	if err != nil {
		return "", err
	}
	var result string
	if err := json.Unmarshal(raw, &result); err != nil || result == "" || result == "0x" {
		return "", fmt.Errorf("smart account lookup: empty result")
	}
	if len(result) < 40 {
		return "", fmt.Errorf("smart account lookup: short result %q", result)
	}
	return "0x" + result[len(result)-40:], nil
}

// LatestTxHashes collects every transaction hash in the fallback chain's
// newest block.
func (c *Client) LatestTxHashes(ctx context.Context) ([]string, error) {
	raw, err := c.rpcCall(ctx, c.cfg.FallbackRPCURL, "eth_getBlockByNumber", []any{"latest", true}, 1, "latest block")
	if err != nil {
		return nil, err
	}
	var block struct {
		Transactions []struct {
			Hash string `json:"hash"`
		} `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, fmt.Errorf("latest block: %w", err)
	}
	hashes := make([]string, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		if tx.Hash != "" {
			hashes = append(hashes, tx.Hash)
		}
	}
	return hashes, nil
}
