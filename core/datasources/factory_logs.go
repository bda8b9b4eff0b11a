package datasources

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/gaze-network/ticket-storefront/core/contracts"
	"github.com/gaze-network/ticket-storefront/internal/subscription"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
)

const (
	// MaxWindowSize is the largest block range the RPC providers accept for `eth_getLogs`.
	MaxWindowSize = 1000

	// DefaultWindowSize is the block range of one `eth_getLogs` call.
	DefaultWindowSize = MaxWindowSize
)

// Make sure to implement the Datasource interface
var _ Datasource[contracts.EventCreated] = (*FactoryLogsDatasource)(nil)

// FactoryLogsDatasource fetches `EventCreated` logs of the sale factory in fixed-size block windows.
type FactoryLogsDatasource struct {
	source     chain.EventSource
	factory    common.Address
	genesis    uint64
	windowSize uint64
}

// NewFactoryLogs creates a datasource scanning factory logs from genesis.
// windowSize must be in [1, MaxWindowSize]; zero means DefaultWindowSize.
func NewFactoryLogs(source chain.EventSource, factory common.Address, genesis uint64, windowSize uint64) (*FactoryLogsDatasource, error) {
	if windowSize == 0 {
		windowSize = DefaultWindowSize
	}
	if windowSize > MaxWindowSize {
		return nil, errors.Wrapf(errs.InvalidArgument, "window size %d exceeds the maximum range %d", windowSize, MaxWindowSize)
	}
	return &FactoryLogsDatasource{
		source:     source,
		factory:    factory,
		genesis:    genesis,
		windowSize: windowSize,
	}, nil
}

func (d *FactoryLogsDatasource) Name() string {
	return "factory_logs"
}

func (d *FactoryLogsDatasource) Factory() common.Address {
	return d.factory
}

func (d *FactoryLogsDatasource) Genesis() uint64 {
	return d.genesis
}

func (d *FactoryLogsDatasource) LatestBlock(ctx context.Context) (int64, error) {
	head, err := d.source.BlockNumber(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return int64(head), nil
}

// Fetch scans all windows in [from, to] sequentially and concatenates their events.
func (d *FactoryLogsDatasource) Fetch(ctx context.Context, from, to int64) ([]contracts.EventCreated, error) {
	ch := make(chan []contracts.EventCreated)
	subscription, err := d.FetchAsync(ctx, from, to, ch)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer subscription.Unsubscribe()

	events := make([]contracts.EventCreated, 0)
	for {
		select {
		case batch := <-ch:
			events = append(events, batch...)
		case err := <-subscription.Err():
			if err != nil {
				return nil, errors.Wrap(err, "got error while fetch async")
			}
		case <-subscription.Done():
			// error sent right before the producer finished
			select {
			case err := <-subscription.Err():
				if err != nil {
					return nil, errors.Wrap(err, "got error while fetch async")
				}
			default:
			}
			return events, nil
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "context done")
		}
	}
}

// FetchAsync scans windows in the background and sends one batch per non-empty window, in block order.
// The subscription is done once the last window was delivered or an error was sent.
func (d *FactoryLogsDatasource) FetchAsync(ctx context.Context, from, to int64, ch chan<- []contracts.EventCreated) (*subscription.Client[[]contracts.EventCreated], error) {
	start, end, skip, err := d.prepareRange(ctx, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare fetch range")
	}

	sub := subscription.New(ch)
	if skip {
		sub.Close()
		return sub.Client(), nil
	}

	go func() {
		defer sub.Close()

		ctx := logger.WithContext(ctx,
			slog.String("package", "datasources"),
			slog.String("datasource", d.Name()),
		)
		startAt := time.Now()
		windows := 0
		for cursor := start; cursor <= end; cursor += d.windowSize {
			windowEnd := min(cursor+d.windowSize-1, end)

			logs, err := d.source.GetLogs(ctx, d.factory, contracts.EventCreatedTopic, cursor, windowEnd)
			if err != nil {
				if err := sub.SendError(ctx, errors.Wrapf(err, "window [%d, %d]", cursor, windowEnd)); err != nil {
					logger.WarnContext(ctx, "Can't send error to subscription", slogx.Error(err))
				}
				return
			}
			windows++

			if len(logs) == 0 {
				continue
			}

			events := make([]contracts.EventCreated, 0, len(logs))
			for _, log := range logs {
				event := contracts.DecodeEventCreated(log)
				if len(event.Missing) > 0 {
					logger.WarnContext(ctx, "Malformed EventCreated log, using zero values for missing fields",
						slogx.String("event", "malformed_log"),
						slogx.Stringer("tx_hash", log.TxHash),
						slogx.Uint64("block", log.BlockNumber),
						slogx.Any("missing", event.Missing),
					)
				}
				events = append(events, event)
			}

			if err := sub.Send(ctx, events); err != nil {
				logger.DebugContext(ctx, "Stopped sending windows", slogx.Error(err))
				return
			}
		}

		logger.DebugContext(ctx, "Scanned factory logs",
			slogx.Uint64("from", start),
			slogx.Uint64("to", end),
			slogx.Int("windows", windows),
			slogx.Duration("duration", time.Since(startAt)),
		)
	}()

	return sub.Client(), nil
}

func (d *FactoryLogsDatasource) prepareRange(ctx context.Context, fromHeight, toHeight int64) (start, end uint64, skip bool, err error) {
	// set start to genesis block height
	if fromHeight < int64(d.genesis) {
		fromHeight = int64(d.genesis)
	}

	// an explicit end is the caller's head reading and is used as is,
	// a second reading from a lagging node could be lower
	if toHeight < 0 {
		toHeight, err = d.LatestBlock(ctx)
		if err != nil {
			return 0, 0, false, errors.Wrap(err, "failed to get latest block")
		}
	}

	// if start is greater than end, skip this round
	if fromHeight > toHeight {
		return 0, 0, true, nil
	}

	return uint64(fromHeight), uint64(toHeight), false, nil
}
