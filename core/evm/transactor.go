package evm

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
)

// gasLimitBufferPercent pads the estimated gas to absorb state changes between simulation and inclusion.
const gasLimitBufferPercent = 20

func (c *Client) Simulate(ctx context.Context, call chain.Call, from common.Address) (*chain.Request, error) {
	data, err := call.ABI.Pack(call.Method, call.Args...)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "can't pack %s: %v", call.Method, err)
	}

	msg := ethereum.CallMsg{
		From:  from,
		To:    &call.To,
		Data:  data,
		Value: call.Value,
	}
	if _, err := c.eth.CallContract(ctx, msg, nil); err != nil {
		return nil, errors.Wrapf(wrapRPCError(err), "simulate %s on %s", call.Method, call.To)
	}
	gas, err := c.eth.EstimateGas(ctx, msg)
	if err != nil {
		return nil, errors.Wrapf(wrapRPCError(err), "estimate gas of %s on %s", call.Method, call.To)
	}

	return &chain.Request{
		Call: call,
		From: from,
		Data: data,
		Gas:  gas + gas*gasLimitBufferPercent/100,
	}, nil
}

func (c *Client) Submit(ctx context.Context, req *chain.Request) (common.Hash, error) {
	if c.signer == nil {
		return common.Hash{}, errors.Wrap(errs.PreconditionFailed, "no signer configured")
	}
	if req.From != c.signer.Address() {
		return common.Hash{}, errors.Wrapf(errs.InvalidArgument, "request from %s can't be signed by %s", req.From, c.signer.Address())
	}

	data := req.Data
	if data == nil {
		packed, err := req.ABI.Pack(req.Method, req.Args...)
		if err != nil {
			return common.Hash{}, errors.Wrapf(errs.InvalidArgument, "can't pack %s: %v", req.Method, err)
		}
		data = packed
	}

	nonce, err := c.eth.PendingNonceAt(ctx, req.From)
	if err != nil {
		return common.Hash{}, errors.Wrap(wrapRPCError(err), "can't get pending nonce")
	}
	tipCap, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return common.Hash{}, errors.Wrap(wrapRPCError(err), "can't suggest gas tip cap")
	}
	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return common.Hash{}, errors.Wrap(wrapRPCError(err), "can't get latest header")
	}
	feeCap := new(big.Int).Add(tipCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}
	to := req.To
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       req.Gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})
	signed, err := c.signer.SignTx(tx, c.chainID)
	if err != nil {
		return common.Hash{}, errors.WithStack(err)
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, errors.Wrapf(wrapRPCError(err), "can't send %s transaction", req.Method)
	}

	logger.InfoContext(ctx, "Transaction submitted",
		slogx.String("method", req.Method),
		slogx.Stringer("tx_hash", signed.Hash()),
		slogx.Uint64("nonce", nonce),
		slogx.BigInt("value", signed.Value()),
	)
	return signed.Hash(), nil
}

// WaitForInclusion polls for the receipt. The wait is bounded only by ctx.
// A receipt with failed status is returned together with a rejection error.
func (c *Client) WaitForInclusion(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			logger.DebugContext(ctx, "Transaction included",
				slogx.Stringer("tx_hash", hash),
				slog.Uint64("block", receipt.BlockNumber.Uint64()),
			)
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, errors.Wrapf(chain.NewRevertError("transaction reverted on-chain"), "tx %s", hash)
			}
			return receipt, nil
		case errors.Is(err, ethereum.NotFound):
			logger.DebugContext(ctx, "Transaction not yet included", slogx.Stringer("tx_hash", hash))
		default:
			return nil, errors.Wrapf(wrapRPCError(err), "can't get receipt of %s", hash)
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, errors.Wrapf(errs.Timeout, "transaction %s not included yet", hash)
			}
			return nil, errors.WithStack(ctx.Err())
		case <-ticker.C:
		}
	}
}
