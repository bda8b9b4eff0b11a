package entity

import (
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleAt(start, end int64, maxSupply, minted int64) DiscoverableSale {
	return DiscoverableSale{
		SaleState: SaleState{
			Window:       SaleWindow{Start: time.Unix(start, 0), End: time.Unix(end, 0)},
			MaxSupply:    big.NewInt(maxSupply),
			MintedSupply: big.NewInt(minted),
		},
	}
}

func TestComputeStatus(t *testing.T) {
	testcases := []struct {
		now, start, end int64
		maxSupply       int64
		minted          int64
		expected        SaleStatus
	}{
		{now: 100, start: 0, end: 200, maxSupply: 10, minted: 10, expected: SaleStatusSoldOut},
		{now: 50, start: 100, end: 200, maxSupply: 10, minted: 10, expected: SaleStatusSoldOut},
		{now: 250, start: 100, end: 200, maxSupply: 10, minted: 10, expected: SaleStatusSoldOut},
		{now: 50, start: 100, end: 200, maxSupply: 10, minted: 5, expected: SaleStatusUpcoming},
		{now: 150, start: 100, end: 200, maxSupply: 10, minted: 5, expected: SaleStatusLive},
		{now: 250, start: 100, end: 200, maxSupply: 10, minted: 5, expected: SaleStatusEnded},
		{now: 100, start: 100, end: 200, maxSupply: 10, minted: 5, expected: SaleStatusLive},
		{now: 200, start: 100, end: 200, maxSupply: 10, minted: 5, expected: SaleStatusLive},
	}
	for _, tc := range testcases {
		t.Run(fmt.Sprintf("now_%d_start_%d_end_%d_remaining_%d", tc.now, tc.start, tc.end, tc.maxSupply-tc.minted), func(t *testing.T) {
			status, err := ComputeStatus(saleAt(tc.start, tc.end, tc.maxSupply, tc.minted), time.Unix(tc.now, 0))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, status)
		})
	}

	t.Run("negative_remaining", func(t *testing.T) {
		_, err := ComputeStatus(saleAt(0, 200, 5, 6), time.Unix(100, 0))
		assert.ErrorIs(t, err, errs.Inconsistent)
	})
}

func TestRemaining(t *testing.T) {
	remaining, err := saleAt(0, 0, 100, 37).Remaining()
	require.NoError(t, err)
	assert.Equal(t, int64(63), remaining.Int64())

	_, err = Remaining(nil, big.NewInt(1))
	assert.ErrorIs(t, err, errs.Inconsistent)
}

func TestParseSaleStatus(t *testing.T) {
	status, err := ParseSaleStatus("sold_out")
	require.NoError(t, err)
	assert.Equal(t, SaleStatusSoldOut, status)

	_, err = ParseSaleStatus("soldout")
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestNewSaleWindow(t *testing.T) {
	uint64Max := new(big.Int).SetUint64(^uint64(0))
	testCases := []struct {
		name     string
		value    *big.Int
		expected time.Time
	}{
		{name: "regular", value: big.NewInt(1_700_000_000), expected: time.Unix(1_700_000_000, 0)},
		{name: "zero", value: big.NewInt(0), expected: time.Unix(0, 0)},
		{name: "nil", value: nil, expected: time.Unix(0, 0)},
		{name: "year_9999", value: big.NewInt(253402300799), expected: time.Unix(253402300799, 0)},
		{name: "past_year_9999", value: big.NewInt(253402300800), expected: time.Unix(253402300799, 0)},
		{name: "uint64_max", value: uint64Max, expected: time.Unix(253402300799, 0)},
		{name: "two_pow_64", value: new(big.Int).Lsh(big.NewInt(1), 64), expected: time.Unix(253402300799, 0)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.expected.Equal(UnixTime(tc.value)), "got %s", UnixTime(tc.value))
		})
	}

	window := NewSaleWindow(big.NewInt(100), new(big.Int).Lsh(big.NewInt(1), 64))
	assert.Equal(t, SaleStatusLive, StatusAt(window, big.NewInt(1), time.Unix(150, 0)))
}
