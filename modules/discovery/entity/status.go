package entity

import (
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common/errs"
)

type SaleStatus string

const (
	SaleStatusUpcoming SaleStatus = "upcoming"
	SaleStatusLive     SaleStatus = "live"
	SaleStatusEnded    SaleStatus = "ended"
	SaleStatusSoldOut  SaleStatus = "sold_out"
)

func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusUpcoming, SaleStatusLive, SaleStatusEnded, SaleStatusSoldOut:
		return true
	}
	return false
}

func (s SaleStatus) String() string {
	return string(s)
}

func ParseSaleStatus(s string) (SaleStatus, error) {
	status := SaleStatus(s)
	if !status.IsValid() {
		return "", errors.Wrapf(errs.InvalidArgument, "unknown sale status %q", s)
	}
	return status, nil
}

// StatusAt derives the status of a sale. First match wins: sold out, upcoming, ended, live.
func StatusAt(window SaleWindow, remaining *big.Int, now time.Time) SaleStatus {
	switch {
	case remaining.Sign() <= 0:
		return SaleStatusSoldOut
	case now.Before(window.Start):
		return SaleStatusUpcoming
	case now.After(window.End):
		return SaleStatusEnded
	default:
		return SaleStatusLive
	}
}

// ComputeStatus derives the status of sale at now. It fails only if the sale is inconsistent.
func ComputeStatus(sale DiscoverableSale, now time.Time) (SaleStatus, error) {
	remaining, err := sale.Remaining()
	if err != nil {
		return "", errors.WithStack(err)
	}
	return StatusAt(sale.Window, remaining, now), nil
}
