package intel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ChainReport is the on-chain view of a wallet address.
type ChainReport struct {
	BalanceWei string `json:"balanceWei"`
	TxCount    uint64 `json:"txCount"`
	IsContract bool   `json:"isContract"`
}

// Chain reads account state from an Ethereum JSON-RPC endpoint.
type Chain struct {
	client *ethclient.Client
	log    *slog.Logger
}

// NewChain dials the endpoint. An empty URL returns a disabled client, not
// an error, so deployments without chain access still start.
func NewChain(rpcURL string, log *slog.Logger) (*Chain, error) {
	if rpcURL == "" {
		return &Chain{log: log}, nil
	}
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial eth rpc: %w", err)
	}
	return &Chain{client: client, log: log}, nil
}

// Enabled reports whether an endpoint was configured.
func (c *Chain) Enabled() bool { return c.client != nil }

// Account fetches balance, nonce, and code presence for an address at the
// latest block.
func (c *Chain) Account(ctx context.Context, address string) (ChainReport, error) {
	if c.client == nil {
		return ChainReport{}, fmt.Errorf("chain lookup: no rpc endpoint configured")
	}
	addr := common.HexToAddress(address)
	balance, err := c.client.BalanceAt(ctx, addr, nil)
	if err != nil {
		return ChainReport{}, fmt.Errorf("chain lookup: %w", err)
	}
	nonce, err := c.client.NonceAt(ctx, addr, nil)
	if err != nil {
		return ChainReport{}, fmt.Errorf("chain lookup: %w", err)
	}
	code, err := c.client.CodeAt(ctx, addr, nil)
	if err != nil {
		return ChainReport{}, fmt.Errorf("chain lookup: %w", err)
	}
	return ChainReport{
		BalanceWei: balance.String(),
		TxCount:    nonce,
		IsContract: len(code) > 0,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Chain) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
