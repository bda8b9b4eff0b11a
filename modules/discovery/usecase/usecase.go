package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/gaze-network/ticket-storefront/modules/discovery/datagateway"
	"github.com/gaze-network/ticket-storefront/modules/discovery/entity"
	"github.com/gaze-network/ticket-storefront/pkg/ttlcache"
)

// Listing is the hydrated view of all sales. Failures is only populated with partial hydration.
type Listing struct {
	Sales    []entity.DiscoverableSale `json:"sales"`
	Failures []HydrationFailure        `json:"failures,omitempty"`
}

// HydrationFailure is a sale dropped from a listing because its state couldn't be read.
type HydrationFailure struct {
	Record entity.SaleCreationRecord `json:"record"`
	Error  string                    `json:"error"`
}

type Options struct {
	// PartialHydration hydrates sales one by one and drops the failing ones.
	// By default a single failure fails the whole listing.
	PartialHydration bool
}

type Usecase struct {
	logsDg  datagateway.FactoryLogsDataGateway
	stateDg datagateway.SaleStateDataGateway
	records *ttlcache.Cache[[]entity.SaleCreationRecord]
	sales   *ttlcache.Cache[Listing]
	opts    Options

	// scan state, records are append-only so later scans only read new blocks
	mu       sync.Mutex
	scanned  []entity.SaleCreationRecord
	seen     map[logKey]struct{}
	lastHead int64
}

type logKey struct {
	txHash   string
	logIndex uint
}

func New(
	logsDg datagateway.FactoryLogsDataGateway,
	stateDg datagateway.SaleStateDataGateway,
	recordsStore ttlcache.Store[[]entity.SaleCreationRecord],
	salesStore ttlcache.Store[Listing],
	ttl time.Duration,
	opts Options,
) *Usecase {
	return &Usecase{
		logsDg:   logsDg,
		stateDg:  stateDg,
		records:  ttlcache.New(recordsStore, ttl),
		sales:    ttlcache.New(salesStore, ttl),
		opts:     opts,
		seen:     make(map[logKey]struct{}),
		lastHead: -1,
	}
}

func (u *Usecase) cacheKey(kind string) string {
	return fmt.Sprintf("%s:%s:%d", kind, u.logsDg.Factory().Hex(), u.logsDg.Genesis())
}

func (u *Usecase) recordsKey() string {
	return u.cacheKey("factory-events-raw")
}

func (u *Usecase) salesKey() string {
	return u.cacheKey("factory-events-hydrated")
}
