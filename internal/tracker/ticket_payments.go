package tracker

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"rafflehub/internal/blockchain"
	"rafflehub/internal/logger"
	"rafflehub/internal/raffle"

	"github.com/tonkeeper/tonapi-go"
	"github.com/tonkeeper/tongo/ton"
	"go.uber.org/zap"
)

type ticketPayment struct {
	TransactionHash string
	TransactionLt   int64
	RaffleID        uint32
	Payer           raffle.AccountID
	Amount          raffle.Amount
}

func (t *Tracker) collectTicketPayments(lastProcessedLt int64) ([]ticketPayment, error) {
	escrowAccountID, err := ton.ParseAccountID(t.escrowAddress)
	if err != nil {
		logger.Error("ticket payments: escrow address is invalid", zap.Error(err))
		return nil, err
	}

	var payments = make([]ticketPayment, 0)
	var beforeLt int64 = 0

	for {
		logger.Debug("ticket payments: collect traces... iteration", zap.Int64("current beforeLt", beforeLt))
		accountTracesResult, err := infinityRateLimitRetry(t.ctx,
			func() (*tonapi.TraceIDs, error) {
				return t.client.GetAccountTraces(t.ctx, tonapi.GetAccountTracesParams{
					AccountID: escrowAccountID.ToRaw(),
					Limit:     tonapi.NewOptInt(GlobalLimitWindowSize),
					BeforeLt: tonapi.OptInt64{
						Value: beforeLt,
						Set:   beforeLt > 0,
					},
				})
			},
		)
		if err != nil {
			logger.Error("ticket payments: collect traces... failed", zap.Error(err))
			return nil, err
		}

		reached := false
		for _, traceID := range accountTracesResult.GetTraces() {
			trace, err := infinityRateLimitRetry(t.ctx,
				func() (*tonapi.Trace, error) {
					return t.client.GetTrace(t.ctx, tonapi.GetTraceParams{TraceID: traceID.GetID()})
				},
			)
			if err != nil {
				logger.Error("ticket payments: collect trace details... failed", zap.String("trace id", traceID.GetID()), zap.Error(err))
				return nil, err
			}

			if trace.Transaction.Lt <= lastProcessedLt {
				logger.Debug("ticket payments: last processed transaction reached")
				reached = true
				break
			}

			beforeLt = walkTraces(trace, func(inner *tonapi.Trace) {
				payment, ok := processTicketPaymentTrace(inner, escrowAccountID)
				if ok && payment.TransactionLt > lastProcessedLt {
					logger.Debug("ticket payments: append payment", zap.String("transaction hash", payment.TransactionHash), zap.Uint32("raffle id", payment.RaffleID))
					payments = append(payments, payment)
				}
			})
		}

		if reached || len(accountTracesResult.GetTraces()) < GlobalLimitWindowSize {
			logger.Debug("ticket payments: exit condition reached, finalize traces results...")
			break
		}
	}

	// tickets are sold in the order the chain accepted the payments
	slices.SortFunc(payments, func(a, b ticketPayment) int {
		return cmp.Compare(a.TransactionLt, b.TransactionLt)
	})
	return payments, nil
}

// walkTraces visits every transaction of a trace tree and returns the
// smallest logical time seen.
func walkTraces(trace *tonapi.Trace, callback func(*tonapi.Trace)) int64 {
	if trace == nil {
		return math.MaxInt64
	}

	callback(trace)

	transactionLt := trace.Transaction.Lt
	for i := range trace.Children {
		transactionLt = min(transactionLt, walkTraces(&trace.Children[i], callback))
	}

	return transactionLt
}

func processTicketPaymentTrace(trace *tonapi.Trace, escrowAccountID ton.AccountID) (ticketPayment, bool) {
	message, ok := trace.Transaction.GetInMsg().Get()
	if !ok {
		return ticketPayment{}, false
	}

	if !trace.Transaction.Success {
		logger.Debug("ticket payments: ignore unsuccessful incoming messages... skip")
		return ticketPayment{}, false
	}

	destination, ok := message.Destination.Get()
	if !ok {
		return ticketPayment{}, false
	}
	destinationAccountID, err := ton.ParseAccountID(destination.Address)
	if err != nil || destinationAccountID.ToRaw() != escrowAccountID.ToRaw() {
		return ticketPayment{}, false
	}

	if !message.OpCode.IsSet() || message.OpCode.Value != TextCommentOpCode {
		logger.Debug("ticket payments: not a text comment... skip")
		return ticketPayment{}, false
	}

	source, ok := message.Source.Get()
	if !ok {
		logger.Debug("ticket payments: cannot get message source address... skip")
		return ticketPayment{}, false
	}
	payer, err := blockchain.NormalizeAccount(source.Address)
	if err != nil {
		logger.Debug("ticket payments: invalid source address... skip")
		return ticketPayment{}, false
	}

	rawBody, ok := message.RawBody.Get()
	if !ok {
		return ticketPayment{}, false
	}
	comment, err := blockchain.DecodeTextComment(rawBody)
	if err != nil {
		logger.Debug("ticket payments: failed to decode comment... skip", zap.Error(err))
		return ticketPayment{}, false
	}

	raffleID, ok := parseTicketComment(comment)
	if !ok {
		logger.Debug("ticket payments: comment is not a ticket order... skip", zap.String("comment", comment))
		return ticketPayment{}, false
	}

	if message.Value < 0 {
		return ticketPayment{}, false
	}

	return ticketPayment{
		TransactionHash: trace.Transaction.Hash,
		TransactionLt:   trace.Transaction.Lt,
		RaffleID:        raffleID,
		Payer:           payer,
		Amount:          raffle.AmountFromUint64(uint64(message.Value)),
	}, true
}

func parseTicketComment(comment string) (uint32, bool) {
	comment = strings.TrimSpace(comment)
	if len(comment) < len(TicketCommentPrefix) || !strings.EqualFold(comment[:len(TicketCommentPrefix)], TicketCommentPrefix) {
		return 0, false
	}

	raffleID, err := strconv.ParseUint(strings.TrimSpace(comment[len(TicketCommentPrefix):]), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(raffleID), true
}
