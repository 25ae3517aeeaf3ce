package raffle

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Amount is an unsigned 128-bit quantity in the smallest currency unit.
type Amount = decimal.Decimal

var (
	MaxAmount      = decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)), 0)
	MinTicketPrice = decimal.NewFromInt(1_000_000_000)

	hundred = decimal.NewFromInt(100)
)

// ValidAmount reports whether a is an integer in [0, 2^128-1].
func ValidAmount(a Amount) bool {
	return a.IsInteger() && !a.IsNegative() && a.LessThanOrEqual(MaxAmount)
}

func ParseAmount(value string) (Amount, error) {
	a, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", value, err)
	}
	if !ValidAmount(a) {
		return decimal.Zero, fmt.Errorf("amount %q out of range", value)
	}
	return a, nil
}

func AmountFromUint64(value uint64) Amount {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(value), 0)
}
