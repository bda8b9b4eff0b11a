package datasources

import (
	"context"

	"github.com/gaze-network/ticket-storefront/internal/subscription"
)

// Datasource is an interface for block-ranged data sources.
//
//   - from: block height to start fetching, if -1, it will start from the source's genesis block
//   - to: block height to stop fetching, if -1, it will fetch until the latest block.
//     Any other value is a fixed upper bound, the head is not read again.
type Datasource[T any] interface {
	Name() string
	Fetch(ctx context.Context, from, to int64) ([]T, error)
	FetchAsync(ctx context.Context, from, to int64, ch chan<- []T) (*subscription.Client[[]T], error)
	LatestBlock(ctx context.Context) (int64, error)
}
