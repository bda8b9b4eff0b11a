// Package salefactory creates ticket sales through the factory contract on behalf of an organizer.
package salefactory

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/gaze-network/ticket-storefront/core/contracts"
	"github.com/gaze-network/ticket-storefront/pkg/decimals"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
)

// Params are the organizer inputs of a new sale. Price is in ether.
type Params struct {
	Name      string
	Symbol    string
	BaseURI   string
	Organizer string
	Price     string
	MaxSupply uint64
	SaleStart time.Time
	SaleEnd   time.Time
}

type Result struct {
	TxHash      common.Hash
	BlockNumber uint64
	Sale        contracts.CreateSaleParams
}

type Factory struct {
	address             common.Address
	transactor          chain.Transactor
	wallet              chain.Wallet
	confirmationTimeout time.Duration
}

func New(address common.Address, transactor chain.Transactor, wallet chain.Wallet, confirmationTimeout time.Duration) *Factory {
	return &Factory{
		address:             address,
		transactor:          transactor,
		wallet:              wallet,
		confirmationTimeout: confirmationTimeout,
	}
}

// CreateSale validates params, simulates `createSale` and submits it. The returned error wraps
// errs.InvalidArgument for invalid params and errs.PreconditionFailed when no wallet is connected.
func (f *Factory) CreateSale(ctx context.Context, params Params) (*Result, error) {
	from, ok := f.wallet.Account()
	if !ok {
		return nil, errors.Wrap(errs.PreconditionFailed, "connect a wallet to create a sale")
	}
	sale, err := buildSale(params, from)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ctx = logger.WithContext(ctx, slogx.String("package", "salefactory"), slogx.String("name", sale.Name))

	call := chain.Call{
		To:     f.address,
		ABI:    contracts.FactoryABI,
		Method: contracts.MethodCreateSale,
		Args:   []any{sale},
	}
	req, err := f.transactor.Simulate(ctx, call, from)
	if err != nil {
		return nil, errors.Wrap(err, "createSale simulation failed")
	}
	hash, err := f.transactor.Submit(context.WithoutCancel(ctx), req)
	if err != nil {
		return nil, errors.Wrap(err, "can't submit createSale")
	}
	logger.InfoContext(ctx, "Submitted createSale", slogx.Stringer("tx_hash", hash))

	wctx := context.WithoutCancel(ctx)
	if f.confirmationTimeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(wctx, f.confirmationTimeout)
		defer cancel()
	}
	receipt, err := f.transactor.WaitForInclusion(wctx, hash)
	if err != nil {
		return &Result{TxHash: hash, Sale: sale}, errors.Wrapf(err, "createSale transaction %s", hash)
	}

	return &Result{
		TxHash:      hash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		Sale:        sale,
	}, nil
}

func buildSale(params Params, signer common.Address) (contracts.CreateSaleParams, error) {
	sale := contracts.CreateSaleParams{
		Name:    strings.TrimSpace(params.Name),
		Symbol:  strings.TrimSpace(params.Symbol),
		BaseURI: strings.TrimSpace(params.BaseURI),
	}
	switch {
	case sale.Name == "":
		return sale, errors.Wrap(errs.InvalidArgument, "name is required")
	case sale.Symbol == "":
		return sale, errors.Wrap(errs.InvalidArgument, "symbol is required")
	case sale.BaseURI == "":
		return sale, errors.Wrap(errs.InvalidArgument, "base URI is required")
	}

	sale.Organizer = signer
	if organizer := strings.TrimSpace(params.Organizer); organizer != "" {
		if !common.IsHexAddress(organizer) {
			return sale, errors.Wrapf(errs.InvalidArgument, "organizer %q is not an address", organizer)
		}
		sale.Organizer = common.HexToAddress(organizer)
	}

	price, err := decimals.ParseEther(strings.TrimSpace(params.Price))
	if err != nil {
		return sale, errors.Wrap(errs.InvalidArgument, err.Error())
	}
	if price.Sign() < 0 {
		return sale, errors.Wrap(errs.InvalidArgument, "price must not be negative")
	}
	if !decimals.FitsUint256(price) {
		return sale, errors.Wrap(errs.InvalidArgument, "price is too large")
	}
	sale.PriceInWei = price

	if params.MaxSupply < 1 {
		return sale, errors.Wrap(errs.InvalidArgument, "max supply must be at least 1")
	}
	sale.MaxSupply = new(big.Int).SetUint64(params.MaxSupply)

	if params.SaleStart.IsZero() || params.SaleEnd.IsZero() {
		return sale, errors.Wrap(errs.InvalidArgument, "sale start and end are required")
	}
	if !params.SaleStart.Before(params.SaleEnd) {
		return sale, errors.Wrap(errs.InvalidArgument, "sale start must be before sale end")
	}
	sale.SaleStart = big.NewInt(params.SaleStart.Unix())
	sale.SaleEnd = big.NewInt(params.SaleEnd.Unix())
	return sale, nil
}
