package usecase

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/modules/discovery/entity"
)

// GetDiscoverableSale resolves one sale by ticket contract and id and hydrates only that sale.
// It returns errs.NotFound if no creation record matches.
func (u *Usecase) GetDiscoverableSale(ctx context.Context, ticketContract common.Address, id *big.Int) (*entity.DiscoverableSale, error) {
	records, err := u.ListCreationRecords(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for _, record := range records {
		if !record.Matches(ticketContract, id) {
			continue
		}
		sale, err := u.hydrate(ctx, record)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return &sale, nil
	}
	return nil, errors.Wrapf(errs.NotFound, "sale %s of ticket %s", id, ticketContract)
}

// Invalidate drops the cached listings. The next read rescans new blocks and re-reads every sale state.
func (u *Usecase) Invalidate(ctx context.Context) error {
	if err := u.sales.Invalidate(ctx, u.salesKey()); err != nil {
		return errors.WithStack(err)
	}
	if err := u.records.Invalidate(ctx, u.recordsKey()); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
