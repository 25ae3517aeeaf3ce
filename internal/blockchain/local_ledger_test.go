package blockchain

import (
	"context"
	"testing"

	"rafflehub/internal/raffle"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLedgerTransfer(t *testing.T) {
	ledger := NewLocalLedger()
	ctx := context.Background()

	err := ledger.Transfer(ctx,
		raffle.Transfer{To: "fees", Amount: decimal.NewFromInt(50)},
		raffle.Transfer{To: "organizer", Amount: decimal.NewFromInt(850)},
	)
	require.NoError(t, err)
	require.NoError(t, ledger.Transfer(ctx, raffle.Transfer{To: "fees", Amount: decimal.NewFromInt(50)}))

	assert.True(t, ledger.Balance("fees").Equal(decimal.NewFromInt(100)))
	assert.True(t, ledger.Balance("organizer").Equal(decimal.NewFromInt(850)))
	assert.True(t, ledger.Balance("nobody").IsZero())
}

func TestLocalLedgerBatchIsAllOrNothing(t *testing.T) {
	ledger := NewLocalLedger()
	ctx := context.Background()

	ledger.Freeze("organizer")
	err := ledger.Transfer(ctx,
		raffle.Transfer{To: "fees", Amount: decimal.NewFromInt(50)},
		raffle.Transfer{To: "organizer", Amount: decimal.NewFromInt(850)},
	)
	assert.ErrorIs(t, err, ErrAccountFrozen)
	assert.True(t, ledger.Balance("fees").IsZero())

	ledger.Unfreeze("organizer")
	err = ledger.Transfer(ctx,
		raffle.Transfer{To: "fees", Amount: decimal.NewFromInt(50)},
		raffle.Transfer{To: "organizer", Amount: decimal.NewFromInt(850)},
	)
	require.NoError(t, err)
	assert.True(t, ledger.Balance("organizer").Equal(decimal.NewFromInt(850)))
}

func TestLocalLedgerRejectsInvalidTransfers(t *testing.T) {
	ledger := NewLocalLedger()
	ctx := context.Background()

	invalid := []raffle.Transfer{
		{To: "", Amount: decimal.NewFromInt(1)},
		{To: "alice", Amount: decimal.Zero},
		{To: "alice", Amount: decimal.NewFromInt(-1)},
		{To: "alice", Amount: decimal.RequireFromString("0.5")},
		{To: "alice", Amount: raffle.MaxAmount.Add(decimal.NewFromInt(1))},
	}
	for _, transfer := range invalid {
		assert.ErrorIs(t, ledger.Transfer(ctx, transfer), ErrInvalidTransfer, transfer.Amount.String())
	}
	assert.True(t, ledger.Balance("alice").IsZero())
}
