package evm

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
)

func (c *Client) Read(ctx context.Context, call chain.Call) ([]any, error) {
	data, err := call.ABI.Pack(call.Method, call.Args...)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "can't pack %s: %v", call.Method, err)
	}
	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &call.To, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrapf(wrapRPCError(err), "can't call %s on %s", call.Method, call.To)
	}
	values, err := call.ABI.Unpack(call.Method, out)
	if err != nil {
		return nil, errors.Wrapf(errs.Inconsistent, "can't unpack %s from %s: %v", call.Method, call.To, err)
	}
	return values, nil
}

type callArgs struct {
	To   string        `json:"to"`
	Data hexutil.Bytes `json:"data"`
}

// ReadBatch sends every call as one JSON-RPC batch of `eth_call`s.
func (c *Client) ReadBatch(ctx context.Context, calls []chain.Call) ([][]any, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	elems := make([]rpc.BatchElem, len(calls))
	results := make([]hexutil.Bytes, len(calls))
	for i, call := range calls {
		data, err := call.ABI.Pack(call.Method, call.Args...)
		if err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "can't pack %s: %v", call.Method, err)
		}
		elems[i] = rpc.BatchElem{
			Method: "eth_call",
			Args:   []any{callArgs{To: call.To.Hex(), Data: data}, "latest"},
			Result: &results[i],
		}
	}

	if err := c.rpc.BatchCallContext(ctx, elems); err != nil {
		return nil, errors.Wrap(wrapRPCError(err), "can't send batch call")
	}

	values := make([][]any, len(calls))
	for i, call := range calls {
		if elems[i].Error != nil {
			return nil, errors.Wrapf(wrapRPCError(elems[i].Error), "batch call %d: %s on %s", i, call.Method, call.To)
		}
		out, err := call.ABI.Unpack(call.Method, results[i])
		if err != nil {
			return nil, errors.Wrapf(errs.Inconsistent, "can't unpack %s from %s: %v", call.Method, call.To, err)
		}
		values[i] = out
	}
	return values, nil
}
