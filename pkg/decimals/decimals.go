// Package decimals converts on-chain integer amounts (wei) to and from human-readable decimals.
package decimals

import (
	"math"
	"math/big"
	"reflect"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/pkg/logger"
	"github.com/gaze-network/ticket-storefront/pkg/logger/slogx"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

const (
	DefaultDivPrecision = 36

	// EtherDecimals is the number of decimals of ether and WETH.
	EtherDecimals = 18
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// ToDecimal convert any integer type to decimal.Decimal (safety floating point)
func ToDecimal[T constraints.Integer](ivalue any, decimals T) decimal.Decimal {
	value := new(big.Int)
	switch v := ivalue.(type) {
	case string:
		value.SetString(v, 10)
	case *big.Int:
		if v != nil {
			value = v
		}
	case int64:
		value = big.NewInt(v)
	case int, int8, int16, int32:
		value.SetInt64(reflect.ValueOf(v).Int())
	case uint64:
		value.SetUint64(v)
	case uint, uint8, uint16, uint32:
		value.SetUint64(reflect.ValueOf(v).Uint())
	case uint256.Int:
		value = v.ToBig()
	case *uint256.Int:
		value = v.ToBig()
	}

	switch {
	case int64(decimals) > math.MaxInt32:
		logger.Panic("ToDecimal: decimals is too big, should be equal less than 2^31-1", slogx.Any("decimals", decimals))
	case int64(decimals) < math.MinInt32+1:
		logger.Panic("ToDecimal: decimals is too small, should be greater than -2^31", slogx.Any("decimals", decimals))
	}

	return decimal.NewFromBigInt(value, -int32(decimals))
}

// ToBigInt convert a decimal amount to its integer representation with the given decimals.
// Digits beyond the precision are truncated.
func ToBigInt(iamount any, decimals uint16) *big.Int {
	amount := decimal.Zero
	switch v := iamount.(type) {
	case string:
		amount, _ = decimal.NewFromString(v)
	case float64:
		amount = decimal.NewFromFloat(v)
	case int64:
		amount = decimal.NewFromInt(v)
	case int:
		amount = decimal.NewFromInt(int64(v))
	case decimal.Decimal:
		amount = v
	case *decimal.Decimal:
		amount = *v
	}
	return amount.Shift(int32(decimals)).BigInt()
}

// FormatEther formats a wei amount as ether, without trailing zeros.
func FormatEther(wei *big.Int) string {
	return ToDecimal(wei, EtherDecimals).String()
}

// ParseEther parses an ether amount into wei.
func ParseEther(s string) (*big.Int, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ether amount %q", s)
	}
	return ToBigInt(amount, EtherDecimals), nil
}

// FitsUint256 reports whether v is a valid uint256 value.
func FitsUint256(v *big.Int) bool {
	if v == nil || v.Sign() < 0 {
		return false
	}
	_, overflow := uint256.FromBig(v)
	return !overflow
}
