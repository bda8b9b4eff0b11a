package evm

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	head, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, errors.Wrap(wrapRPCError(err), "can't get block number")
	}
	return head, nil
}

func (c *Client) GetLogs(ctx context.Context, address common.Address, event common.Hash, from, to uint64) ([]types.Log, error) {
	logs, err := c.eth.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{address},
		Topics:    [][]common.Hash{{event}},
	})
	if err != nil {
		return nil, errors.Wrapf(wrapRPCError(err), "can't get logs in range [%d, %d]", from, to)
	}
	return logs, nil
}
