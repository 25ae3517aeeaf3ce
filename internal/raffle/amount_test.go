package raffle

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidAmount(t *testing.T) {
	assert.True(t, ValidAmount(decimal.Zero))
	assert.True(t, ValidAmount(MinTicketPrice))
	assert.True(t, ValidAmount(MaxAmount))

	assert.False(t, ValidAmount(MaxAmount.Add(decimal.NewFromInt(1))))
	assert.False(t, ValidAmount(decimal.NewFromInt(-1)))
	assert.False(t, ValidAmount(decimal.RequireFromString("1.5")))
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("340282366920938463463374607431768211455")
	require.NoError(t, err)
	assert.True(t, amount.Equal(MaxAmount))

	amount, err = ParseAmount("1000000000")
	require.NoError(t, err)
	assert.True(t, amount.Equal(MinTicketPrice))

	for _, value := range []string{"", "abc", "-5", "0.1", "340282366920938463463374607431768211456"} {
		_, err := ParseAmount(value)
		assert.Error(t, err, value)
	}
}

func TestAmountFromUint64(t *testing.T) {
	assert.Equal(t, "18446744073709551615", AmountFromUint64(^uint64(0)).String())
	assert.True(t, AmountFromUint64(0).IsZero())
}
