package datagateway

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/ticket-storefront/core/contracts"
	"github.com/gaze-network/ticket-storefront/modules/discovery/entity"
)

// FactoryLogsDataGateway streams `EventCreated` logs of one sale factory.
type FactoryLogsDataGateway interface {
	Factory() common.Address
	Genesis() uint64
	LatestBlock(ctx context.Context) (int64, error)

	// Fetch returns the logs of blocks [from, to]. -1 means genesis (from) or head (to).
	Fetch(ctx context.Context, from, to int64) ([]contracts.EventCreated, error)
}

// SaleStateDataGateway reads the live state of sales.
type SaleStateDataGateway interface {
	// GetSaleStates reads the states of all records in one round trip. It fails as a whole.
	GetSaleStates(ctx context.Context, records []entity.SaleCreationRecord) ([]entity.SaleState, error)

	GetSaleState(ctx context.Context, record entity.SaleCreationRecord) (entity.SaleState, error)
}
