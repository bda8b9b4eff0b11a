package datasources

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockRange struct{ from, to uint64 }

type fakeEventSource struct {
	mu     sync.Mutex
	head   uint64
	logs   []types.Log
	failAt uint64
	ranges []blockRange
}

func (f *fakeEventSource) BlockNumber(context.Context) (uint64, error) {
	return f.head, nil
}

func (f *fakeEventSource) GetLogs(_ context.Context, _ common.Address, _ common.Hash, from, to uint64) ([]types.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges = append(f.ranges, blockRange{from, to})
	if f.failAt != 0 && from <= f.failAt && f.failAt <= to {
		return nil, errors.New("connection reset by peer")
	}
	var out []types.Log
	for _, log := range f.logs {
		if log.BlockNumber >= from && log.BlockNumber <= to {
			out = append(out, log)
		}
	}
	return out, nil
}

func eventLog(t *testing.T, block uint64, id int64) types.Log {
	t.Helper()
	data, err := contracts.FactoryABI.Events[contracts.EventCreatedName].Inputs.NonIndexed().Pack(
		common.BigToAddress(big.NewInt(id*10+1)),
		common.BigToAddress(big.NewInt(id*10+2)),
		common.BigToAddress(big.NewInt(id*10+3)),
	)
	require.NoError(t, err)
	return types.Log{
		BlockNumber: block,
		Topics: []common.Hash{
			contracts.EventCreatedTopic,
			common.BytesToHash(common.HexToAddress("0xabc").Bytes()),
			common.BigToHash(big.NewInt(id)),
		},
		Data: data,
	}
}

func TestNewFactoryLogsWindowSize(t *testing.T) {
	_, err := NewFactoryLogs(&fakeEventSource{}, common.Address{}, 0, MaxWindowSize+1)
	assert.ErrorIs(t, err, errs.InvalidArgument)

	ds, err := NewFactoryLogs(&fakeEventSource{}, common.Address{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(DefaultWindowSize), ds.windowSize)
}

func TestFactoryLogsFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("windows_cover_genesis_to_head", func(t *testing.T) {
		source := &fakeEventSource{
			head: 1250,
			logs: []types.Log{eventLog(t, 100, 1), eventLog(t, 1099, 2), eventLog(t, 1100, 3), eventLog(t, 1250, 4)},
		}
		ds, err := NewFactoryLogs(source, common.HexToAddress("0xfac"), 100, 500)
		require.NoError(t, err)

		events, err := ds.Fetch(ctx, -1, -1)
		require.NoError(t, err)

		assert.Equal(t, []blockRange{{100, 599}, {600, 1099}, {1100, 1250}}, source.ranges)
		require.Len(t, events, 4)
		for i, event := range events {
			assert.Equal(t, int64(i+1), event.ID.Int64())
		}
	})
	t.Run("head_before_genesis", func(t *testing.T) {
		source := &fakeEventSource{head: 50}
		ds, err := NewFactoryLogs(source, common.Address{}, 100, 10)
		require.NoError(t, err)

		events, err := ds.Fetch(ctx, -1, -1)
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.Empty(t, source.ranges)
	})
	t.Run("incremental_range", func(t *testing.T) {
		source := &fakeEventSource{head: 300, logs: []types.Log{eventLog(t, 150, 1), eventLog(t, 250, 2)}}
		ds, err := NewFactoryLogs(source, common.Address{}, 100, 1000)
		require.NoError(t, err)

		events, err := ds.Fetch(ctx, 201, -1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, int64(2), events[0].ID.Int64())
		assert.Equal(t, []blockRange{{201, 300}}, source.ranges)
	})
	t.Run("explicit_end_beyond_lagging_head", func(t *testing.T) {
		// the caller read head 500 from another node, this one still reports 400
		source := &fakeEventSource{head: 400, logs: []types.Log{eventLog(t, 450, 1)}}
		ds, err := NewFactoryLogs(source, common.Address{}, 0, 1000)
		require.NoError(t, err)

		events, err := ds.Fetch(ctx, 301, 500)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, int64(1), events[0].ID.Int64())
		assert.Equal(t, []blockRange{{301, 500}}, source.ranges)
	})
	t.Run("window_error_aborts_scan", func(t *testing.T) {
		source := &fakeEventSource{head: 1000, failAt: 450}
		ds, err := NewFactoryLogs(source, common.Address{}, 0, 200)
		require.NoError(t, err)

		_, err = ds.Fetch(ctx, -1, -1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "window [400, 599]")
		assert.Equal(t, []blockRange{{0, 199}, {200, 399}, {400, 599}}, source.ranges)
	})
	t.Run("malformed_log_does_not_abort", func(t *testing.T) {
		malformed := eventLog(t, 10, 1)
		malformed.Topics = malformed.Topics[:1]
		source := &fakeEventSource{head: 20, logs: []types.Log{malformed, eventLog(t, 11, 2)}}
		ds, err := NewFactoryLogs(source, common.Address{}, 0, 1000)
		require.NoError(t, err)

		events, err := ds.Fetch(ctx, -1, -1)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, common.Address{}, events[0].Organizer)
		assert.Equal(t, int64(2), events[1].ID.Int64())
	})
}
