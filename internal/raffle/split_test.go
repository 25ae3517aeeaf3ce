package raffle

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSplitPayment(t *testing.T) {
	tests := []struct {
		name      string
		payment   int64
		fee       uint8
		stake     uint8
		wantFee   int64
		wantStake int64
		wantOrg   int64
	}{
		{"typical", 1_000_000_000, 5, 10, 50_000_000, 100_000_000, 850_000_000},
		{"no fee no stake", 1_000_000_000, 0, 0, 0, 0, 1_000_000_000},
		{"maximum combined", 1_000_000_000, 20, 50, 200_000_000, 500_000_000, 300_000_000},
		{"remainder goes to organizer", 1_000_000_007, 5, 10, 50_000_000, 100_000_000, 850_000_007},
		{"tiny payment floors to zero", 19, 5, 5, 0, 0, 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := decimal.NewFromInt(tt.payment)
			split := SplitPayment(payment, tt.fee, tt.stake)

			assert.True(t, split.Fee.Equal(decimal.NewFromInt(tt.wantFee)), "fee %s", split.Fee)
			assert.True(t, split.Stake.Equal(decimal.NewFromInt(tt.wantStake)), "stake %s", split.Stake)
			assert.True(t, split.Organizer.Equal(decimal.NewFromInt(tt.wantOrg)), "organizer %s", split.Organizer)
			assert.True(t, split.Fee.Add(split.Stake).Add(split.Organizer).Equal(payment))
		})
	}
}

func TestSplitPaymentNearMaxAmount(t *testing.T) {
	split := SplitPayment(MaxAmount, MaxFeePercent, MaxStakePercent)

	assert.True(t, split.Fee.IsInteger())
	assert.True(t, split.Stake.IsInteger())
	assert.True(t, split.Fee.Add(split.Stake).Add(split.Organizer).Equal(MaxAmount))
	assert.True(t, ValidAmount(split.Organizer))
}
