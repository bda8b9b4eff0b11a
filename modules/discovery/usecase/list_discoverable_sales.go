package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/modules/discovery/entity"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
)

// ListDiscoverableSales returns all sales hydrated with their live state, in creation record order.
func (u *Usecase) ListDiscoverableSales(ctx context.Context) (Listing, error) {
	listing, err := u.sales.GetOrLoad(ctx, u.salesKey(), u.hydrateAll)
	if err != nil {
		return Listing{}, errors.Wrap(err, "can't list discoverable sales")
	}
	return listing, nil
}

func (u *Usecase) hydrateAll(ctx context.Context) (Listing, error) {
	records, err := u.ListCreationRecords(ctx)
	if err != nil {
		return Listing{}, errors.WithStack(err)
	}
	if u.opts.PartialHydration {
		return u.hydrateEach(ctx, records), nil
	}

	states, err := u.stateDg.GetSaleStates(ctx, records)
	if err != nil {
		return Listing{}, errors.Wrap(err, "can't hydrate sales")
	}

	sales := make([]entity.DiscoverableSale, 0, len(records))
	for i, record := range records {
		sale, err := newSale(ctx, record, states[i])
		if err != nil {
			return Listing{}, errors.WithStack(err)
		}
		sales = append(sales, sale)
	}
	return Listing{Sales: sales}, nil
}

func (u *Usecase) hydrateEach(ctx context.Context, records []entity.SaleCreationRecord) Listing {
	listing := Listing{
		Sales: make([]entity.DiscoverableSale, 0, len(records)),
	}
	for _, record := range records {
		sale, err := u.hydrate(ctx, record)
		if err != nil {
			logger.WarnContext(ctx, "Dropped sale from listing, hydration failed",
				slogx.String("event", "hydration_failed"),
				slogx.Stringer("id", record.ID),
				slogx.Stringer("ticket", record.TicketContract),
				slogx.Error(err),
			)
			listing.Failures = append(listing.Failures, HydrationFailure{
				Record: record,
				Error:  err.Error(),
			})
			continue
		}
		listing.Sales = append(listing.Sales, sale)
	}
	return listing
}

func (u *Usecase) hydrate(ctx context.Context, record entity.SaleCreationRecord) (entity.DiscoverableSale, error) {
	state, err := u.stateDg.GetSaleState(ctx, record)
	if err != nil {
		return entity.DiscoverableSale{}, errors.Wrap(err, "can't hydrate sale")
	}
	return newSale(ctx, record, state)
}

// newSale combines a record with its state, rejecting inconsistent supplies.
func newSale(ctx context.Context, record entity.SaleCreationRecord, state entity.SaleState) (entity.DiscoverableSale, error) {
	sale := entity.DiscoverableSale{
		SaleCreationRecord: record,
		SaleState:          state,
	}
	if _, err := sale.Remaining(); err != nil {
		if errors.Is(err, errs.Inconsistent) {
			logger.ErrorContext(ctx, "Sale supply is inconsistent",
				slogx.String("event", "data_inconsistency"),
				slogx.Stringer("id", record.ID),
				slogx.Stringer("ticket", record.TicketContract),
				slogx.Error(err),
			)
		}
		return entity.DiscoverableSale{}, errors.Wrapf(err, "sale %s of ticket %s", record.ID, record.TicketContract)
	}
	return sale, nil
}
