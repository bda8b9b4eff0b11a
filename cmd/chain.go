package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/gaze-network/ticket-storefront/core/evm"
	"github.com/gaze-network/ticket-storefront/internal/config"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
)

// loadSigner returns the configured signing key, or nil when none is configured.
func loadSigner(conf config.Config) (*evm.KeySigner, error) {
	if conf.Wallet.PrivateKey != "" {
		signer, err := evm.NewKeySigner(conf.Wallet.PrivateKey)
		return signer, errors.Wrap(err, "invalid wallet.private_key")
	}
	if conf.Wallet.PrivateKeyFile == "" {
		return nil, nil
	}
	if _, err := os.Stat(conf.Wallet.PrivateKeyFile); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	signer, err := evm.LoadKeySigner(conf.Wallet.PrivateKeyFile)
	return signer, errors.WithStack(err)
}

// dialChain connects to the configured endpoint. The returned wallet is disconnected
// when no signing key is configured.
func dialChain(ctx context.Context, conf config.Config) (*evm.Client, chain.Wallet, error) {
	if !conf.Network.IsSupported() {
		return nil, nil, errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
	}
	params := conf.Network.Params()

	signer, err := loadSigner(conf)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	var opts []evm.Option
	wallet := chain.Wallet(chain.StaticWallet{})
	if signer != nil {
		opts = append(opts, evm.WithSigner(signer))
		wallet = signer
		logger.InfoContext(ctx, "Loaded wallet", slogx.Stringer("address", signer.Address()))
	}

	url := conf.RPC.URL
	if url == "" {
		url = params.DefaultRPC
	}
	dialCtx := ctx
	if conf.RPC.Timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, conf.RPC.Timeout)
		defer cancel()
	}
	logger.InfoContext(ctx, "Connecting to JSON-RPC endpoint...", slog.String("network", conf.Network.String()))
	client, err := evm.Dial(dialCtx, url, params.ChainID, opts...)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	return client, wallet, nil
}
