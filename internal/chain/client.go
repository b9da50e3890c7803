package chain

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client reads block heights from an RPC node.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	retry     backoff
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		retry:     backoff{attempts: 3, base: 200 * time.Millisecond},
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// Now returns the latest block number.
func (c *Client) Now(ctx context.Context) (uint64, error) {
	var height uint64
	err := c.retry.do(ctx, func(ctx context.Context) error {
		n, err := c.ethClient.BlockNumber(ctx)
		if err != nil {
			return err
		}
		height = n
		return nil
	})
	return height, err
}
