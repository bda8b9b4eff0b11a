// Package contract reads sale state from the ticket and sale contracts.
package contract

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/gaze-network/ticket-storefront/core/contracts"
	"github.com/gaze-network/ticket-storefront/modules/discovery/datagateway"
	"github.com/gaze-network/ticket-storefront/modules/discovery/entity"
)

var _ datagateway.SaleStateDataGateway = (*Repository)(nil)

type Repository struct {
	reader chain.Reader
}

func NewRepository(reader chain.Reader) *Repository {
	return &Repository{
		reader: reader,
	}
}

// callsPerSale is the number of reads needed to hydrate one sale.
const callsPerSale = 9

func saleCalls(record entity.SaleCreationRecord) []chain.Call {
	ticket := func(method string) chain.Call {
		return chain.Call{To: record.TicketContract, ABI: contracts.TicketABI, Method: method}
	}
	sale := func(method string) chain.Call {
		return chain.Call{To: record.SaleContract, ABI: contracts.SaleABI, Method: method}
	}
	// order must match decodeSaleState
	return []chain.Call{
		ticket(contracts.MethodName),
		ticket(contracts.MethodSymbol),
		ticket(contracts.MethodBaseURI),
		ticket(contracts.MethodTotalSupply),
		sale(contracts.MethodEventOrganizer),
		sale(contracts.MethodSaleStart),
		sale(contracts.MethodSaleEnd),
		sale(contracts.MethodTicketPriceWei),
		sale(contracts.MethodTicketMaxSupply),
	}
}

func (r *Repository) GetSaleStates(ctx context.Context, records []entity.SaleCreationRecord) ([]entity.SaleState, error) {
	if len(records) == 0 {
		return []entity.SaleState{}, nil
	}
	calls := make([]chain.Call, 0, len(records)*callsPerSale)
	for _, record := range records {
		calls = append(calls, saleCalls(record)...)
	}

	results, err := r.reader.ReadBatch(ctx, calls)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read state of %d sales", len(records))
	}
	if len(results) != len(calls) {
		return nil, errors.Wrapf(errs.InternalError, "expected %d results, got %d", len(calls), len(results))
	}

	states := make([]entity.SaleState, 0, len(records))
	for i, record := range records {
		state, err := decodeSaleState(results[i*callsPerSale : (i+1)*callsPerSale])
		if err != nil {
			return nil, errors.Wrapf(err, "sale %s of ticket %s", record.ID, record.TicketContract)
		}
		states = append(states, state)
	}
	return states, nil
}

func (r *Repository) GetSaleState(ctx context.Context, record entity.SaleCreationRecord) (entity.SaleState, error) {
	states, err := r.GetSaleStates(ctx, []entity.SaleCreationRecord{record})
	if err != nil {
		return entity.SaleState{}, errors.WithStack(err)
	}
	return states[0], nil
}

func decodeSaleState(results [][]any) (state entity.SaleState, err error) {
	var start, end *big.Int
	decoders := []func(any) error{
		as(&state.Name),
		as(&state.Symbol),
		as(&state.MetadataURI),
		as(&state.MintedSupply),
		as(&state.EventOrganizer),
		as(&start),
		as(&end),
		as(&state.UnitPrice),
		as(&state.MaxSupply),
	}
	for i, decode := range decoders {
		if len(results[i]) == 0 {
			return entity.SaleState{}, errors.Wrapf(errs.InternalError, "empty result at %d", i)
		}
		if err := decode(results[i][0]); err != nil {
			return entity.SaleState{}, errors.Wrapf(err, "result %d", i)
		}
	}
	state.Window = entity.NewSaleWindow(start, end)
	return state, nil
}

func as[T any](dst *T) func(any) error {
	return func(v any) error {
		value, ok := v.(T)
		if !ok {
			return errors.Wrapf(errs.InternalError, "unexpected result type %T, want %T", v, *dst)
		}
		*dst = value
		return nil
	}
}
