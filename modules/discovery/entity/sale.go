package entity

import (
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
)

// SaleCreationRecord is the immutable fact of one `EventCreated` factory log.
type SaleCreationRecord struct {
	ID                  *big.Int       `json:"id"`
	Organizer           common.Address `json:"organizer"`
	TicketContract      common.Address `json:"ticketContract"`
	SaleContract        common.Address `json:"saleContract"`
	MarketplaceContract common.Address `json:"marketplaceContract"`

	BlockNumber uint64      `json:"blockNumber"`
	TxHash      common.Hash `json:"txHash"`
	LogIndex    uint        `json:"logIndex"`
}

// Matches reports whether the record is the sale identified by (ticketContract, id).
func (r SaleCreationRecord) Matches(ticketContract common.Address, id *big.Int) bool {
	return r.TicketContract == ticketContract && r.ID != nil && id != nil && r.ID.Cmp(id) == 0
}

type SaleWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewSaleWindow converts the uint256 unix timestamps of a sale contract.
func NewSaleWindow(start, end *big.Int) SaleWindow {
	return SaleWindow{Start: UnixTime(start), End: UnixTime(end)}
}

// maxUnix is 9999-12-31T23:59:59Z, used for timestamps beyond any meaningful sale window.
const maxUnix = 253402300799

// UnixTime converts a uint256 unix timestamp. Values past year 9999, e.g. type(uint64).max
// for an open-ended sale, are clamped to maxUnix.
func UnixTime(v *big.Int) time.Time {
	switch {
	case v == nil || v.Sign() <= 0:
		return time.Unix(0, 0)
	case !v.IsInt64() || v.Int64() > maxUnix:
		return time.Unix(maxUnix, 0)
	default:
		return time.Unix(v.Int64(), 0)
	}
}

// SaleState is the live contract state of a sale.
type SaleState struct {
	EventOrganizer common.Address `json:"eventOrganizer"`
	Name           string         `json:"name"`
	Symbol         string         `json:"symbol"`
	MetadataURI    string         `json:"metadataUri"`
	Window         SaleWindow     `json:"saleWindow"`
	UnitPrice      *big.Int       `json:"unitPrice"`
	MaxSupply      *big.Int       `json:"maxSupply"`
	MintedSupply   *big.Int       `json:"mintedSupply"`
}

// DiscoverableSale is a creation record hydrated with its live state.
type DiscoverableSale struct {
	SaleCreationRecord
	SaleState
}

// Remaining returns MaxSupply - MintedSupply. A negative result is a data inconsistency.
func (s DiscoverableSale) Remaining() (*big.Int, error) {
	return Remaining(s.MaxSupply, s.MintedSupply)
}

// Remaining returns maxSupply - mintedSupply, or errs.Inconsistent if minted exceeds max.
func Remaining(maxSupply, mintedSupply *big.Int) (*big.Int, error) {
	if maxSupply == nil || mintedSupply == nil {
		return nil, errors.Wrap(errs.Inconsistent, "supply is unknown")
	}
	remaining := new(big.Int).Sub(maxSupply, mintedSupply)
	if remaining.Sign() < 0 {
		return nil, errors.Wrapf(errs.Inconsistent, "minted supply %s exceeds max supply %s", mintedSupply, maxSupply)
	}
	return remaining, nil
}
