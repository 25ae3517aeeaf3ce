package tracker

import (
	"encoding/hex"
	"testing"

	"rafflehub/internal/raffle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tonapi-go"
	"github.com/tonkeeper/tongo/boc"
	"github.com/tonkeeper/tongo/tlb"
	"github.com/tonkeeper/tongo/ton"
)

const (
	escrowRaw = "0:584ee61b2dff0837116d0fcb5078d93964bcbe9c05fd6a141b1bfca5d6a43e18"
	payerRaw  = "0:0000000000000000000000000000000000000000000000000000000000000001"
)

func TestParseTicketComment(t *testing.T) {
	tests := []struct {
		comment string
		id      uint32
		ok      bool
	}{
		{"raffle:0", 0, true},
		{"raffle:12", 12, true},
		{"  RAFFLE: 7 ", 7, true},
		{"raffle:4294967295", 4294967295, true},
		{"raffle:4294967296", 0, false},
		{"raffle:-1", 0, false},
		{"raffle:", 0, false},
		{"raffle", 0, false},
		{"thanks for the fish", 0, false},
	}

	for _, tt := range tests {
		id, ok := parseTicketComment(tt.comment)
		assert.Equal(t, tt.ok, ok, tt.comment)
		assert.Equal(t, tt.id, id, tt.comment)
	}
}

func textCommentBody(t *testing.T, text string) string {
	t.Helper()

	cell := boc.NewCell()
	require.NoError(t, cell.WriteUint(0, 32))
	require.NoError(t, tlb.Marshal(cell, tlb.Text(text)))
	bocBytes, err := cell.ToBoc()
	require.NoError(t, err)
	return hex.EncodeToString(bocBytes)
}

func paymentTrace(t *testing.T, lt int64, comment string, value int64) tonapi.Trace {
	t.Helper()

	return tonapi.Trace{
		Transaction: tonapi.Transaction{
			Hash:    "hash-" + comment,
			Lt:      lt,
			Success: true,
			InMsg: tonapi.NewOptMessage(tonapi.Message{
				Source:      tonapi.NewOptAccountAddress(tonapi.AccountAddress{Address: payerRaw}),
				Destination: tonapi.NewOptAccountAddress(tonapi.AccountAddress{Address: escrowRaw}),
				OpCode:      tonapi.NewOptString(TextCommentOpCode),
				RawBody:     tonapi.NewOptString(textCommentBody(t, comment)),
				Value:       value,
			}),
		},
	}
}

func TestProcessTicketPaymentTrace(t *testing.T) {
	escrow := ton.MustParseAccountID(escrowRaw)

	trace := paymentTrace(t, 100, "raffle:3", 1_000_000_000)
	payment, ok := processTicketPaymentTrace(&trace, escrow)
	require.True(t, ok)
	assert.Equal(t, uint32(3), payment.RaffleID)
	assert.Equal(t, raffle.AccountID(payerRaw), payment.Payer)
	assert.Equal(t, int64(100), payment.TransactionLt)
	assert.Equal(t, "1000000000", payment.Amount.String())

	failed := paymentTrace(t, 101, "raffle:3", 1_000_000_000)
	failed.Transaction.Success = false
	_, ok = processTicketPaymentTrace(&failed, escrow)
	assert.False(t, ok)

	unrelated := paymentTrace(t, 102, "hello", 1_000_000_000)
	_, ok = processTicketPaymentTrace(&unrelated, escrow)
	assert.False(t, ok)

	outgoing := paymentTrace(t, 103, "raffle:3", 1_000_000_000)
	outgoing.Transaction.InMsg.Value.Destination = tonapi.NewOptAccountAddress(tonapi.AccountAddress{Address: payerRaw})
	_, ok = processTicketPaymentTrace(&outgoing, escrow)
	assert.False(t, ok)

	external := paymentTrace(t, 104, "raffle:3", 1_000_000_000)
	external.Transaction.InMsg = tonapi.OptMessage{}
	_, ok = processTicketPaymentTrace(&external, escrow)
	assert.False(t, ok)
}

func TestWalkTraces(t *testing.T) {
	root := paymentTrace(t, 300, "raffle:1", 1)
	root.Children = []tonapi.Trace{
		paymentTrace(t, 200, "raffle:2", 1),
		paymentTrace(t, 250, "raffle:3", 1),
	}

	var visited []int64
	lowest := walkTraces(&root, func(trace *tonapi.Trace) {
		visited = append(visited, trace.Transaction.Lt)
	})

	assert.Equal(t, int64(200), lowest)
	assert.Equal(t, []int64{300, 200, 250}, visited)
}
