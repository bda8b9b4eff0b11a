package evm

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
)

const (
	// DefaultReceiptPollInterval is the interval between receipt lookups while waiting for inclusion.
	DefaultReceiptPollInterval = 2 * time.Second
)

var (
	_ chain.EventSource = (*Client)(nil)
	_ chain.Reader      = (*Client)(nil)
	_ chain.Transactor  = (*Client)(nil)
)

// Client is the go-ethereum backed implementation of the chain collaborators.
// Create one per process and share it; it's safe for concurrent use.
type Client struct {
	rpc     *rpc.Client
	eth     *ethclient.Client
	chainID *big.Int
	signer  *KeySigner

	pollInterval time.Duration
}

type Option func(*Client)

// WithSigner enables Submit for transactions sent from the signer's account.
func WithSigner(signer *KeySigner) Option {
	return func(c *Client) {
		c.signer = signer
	}
}

// WithReceiptPollInterval overrides DefaultReceiptPollInterval.
func WithReceiptPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// Dial connects to a JSON-RPC endpoint and checks it serves the expected chain.
func Dial(ctx context.Context, url string, expectedChainID *big.Int, opts ...Option) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(chain.MarkTransport(err), "can't dial JSON-RPC endpoint %q", url)
	}

	client := &Client{
		rpc:          rpcClient,
		eth:          ethclient.NewClient(rpcClient),
		pollInterval: DefaultReceiptPollInterval,
	}
	for _, opt := range opts {
		opt(client)
	}

	start := time.Now()
	chainID, err := client.eth.ChainID(ctx)
	if err != nil {
		rpcClient.Close()
		return nil, errors.Wrapf(wrapRPCError(err), "can't get chain id from %q", url)
	}
	if expectedChainID != nil && chainID.Cmp(expectedChainID) != 0 {
		rpcClient.Close()
		return nil, errors.Errorf("endpoint %q serves chain %s, expected %s", url, chainID, expectedChainID)
	}
	client.chainID = chainID

	logger.InfoContext(ctx, "Connected to JSON-RPC endpoint",
		slog.String("chain_id", chainID.String()),
		slog.Duration("latency", time.Since(start)),
	)
	return client, nil
}

// ChainID returns the chain id reported by the endpoint.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Close closes the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// Shutdown closes the connection when the owning injector shuts down.
func (c *Client) Shutdown() error {
	c.Close()
	return nil
}
