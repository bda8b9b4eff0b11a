package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/core/contracts"
	"github.com/gaze-network/ticket-storefront/modules/discovery/entity"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
)

// ListCreationRecords returns all sale creation records, most recent id first.
func (u *Usecase) ListCreationRecords(ctx context.Context) ([]entity.SaleCreationRecord, error) {
	records, err := u.records.GetOrLoad(ctx, u.recordsKey(), u.scan)
	if err != nil {
		return nil, errors.Wrap(err, "can't list sale creation records")
	}
	return records, nil
}

// scan reads the factory logs emitted since the previous scan and merges them into the known records.
func (u *Usecase) scan(ctx context.Context) ([]entity.SaleCreationRecord, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	head, err := u.logsDg.LatestBlock(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't get chain head")
	}

	from := int64(-1)
	if u.lastHead >= 0 {
		from = u.lastHead + 1
	}

	start := time.Now()
	var events []contracts.EventCreated
	// a node behind the previous scan has nothing new
	if from <= head {
		events, err = u.logsDg.Fetch(ctx, from, head)
		if err != nil {
			return nil, errors.Wrapf(err, "can't scan factory logs up to block %d", head)
		}
	}

	added := 0
	for _, event := range events {
		key := logKey{txHash: event.TxHash.Hex(), logIndex: event.LogIndex}
		if _, ok := u.seen[key]; ok {
			continue
		}
		u.seen[key] = struct{}{}
		u.scanned = append(u.scanned, entity.SaleCreationRecord{
			ID:                  event.ID,
			Organizer:           event.Organizer,
			TicketContract:      event.EventTicket,
			SaleContract:        event.TicketSale,
			MarketplaceContract: event.TicketMarketplace,
			BlockNumber:         event.BlockNumber,
			TxHash:              event.TxHash,
			LogIndex:            event.LogIndex,
		})
		added++
	}
	u.lastHead = max(u.lastHead, head)

	slices.SortStableFunc(u.scanned, func(a, b entity.SaleCreationRecord) int {
		return b.ID.Cmp(a.ID)
	})

	logger.DebugContext(ctx, "Scanned sale creation records",
		slogx.Int64("from", from),
		slogx.Int64("head", head),
		slogx.Int("added", added),
		slogx.Int("total", len(u.scanned)),
		slogx.Duration("duration", time.Since(start)),
	)

	return slices.Clone(u.scanned), nil
}
