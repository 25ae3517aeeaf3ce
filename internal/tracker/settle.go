package tracker

import (
	"errors"

	"rafflehub/internal/logger"
	"rafflehub/internal/raffle"
	"rafflehub/internal/storage"

	"go.uber.org/zap"
)

// settle buys one ticket per unseen payment and journals the outcome. A
// payment rejected by the raffle rules is journaled with the error kind. A
// failed payout or any other failure stops the round before the payment is
// journaled, so it is retried next round.
func (t *Tracker) settle(payments []ticketPayment) error {
	for _, payment := range payments {
		processed, err := t.journal.IsPaymentProcessed(t.ctx, payment.TransactionHash)
		if err != nil {
			return err
		}
		if processed {
			logger.Debug("settle: payment already processed... skip", zap.String("transaction hash", payment.TransactionHash))
			continue
		}

		outcome := storage.PaymentAccepted
		ticketNumber, err := t.seller.BuyTicket(t.ctx, raffle.Call{Caller: payment.Payer, Value: payment.Amount}, payment.RaffleID)
		switch {
		case err == nil:
			logger.Info("settle: ticket bought",
				zap.Uint32("raffle id", payment.RaffleID),
				zap.Stringer("payer", payment.Payer),
				zap.Uint32("ticket number", ticketNumber))
		case errors.Is(err, raffle.ErrTransferFailed):
			// nothing was sold and only the tracker can resubmit
			logger.Warn("settle: payout failed, retrying next round",
				zap.Uint32("raffle id", payment.RaffleID),
				zap.String("transaction hash", payment.TransactionHash))
			return err
		case raffle.IsDomainError(err):
			outcome = raffle.Kind(err)
			logger.Warn("settle: payment rejected",
				zap.Uint32("raffle id", payment.RaffleID),
				zap.Stringer("payer", payment.Payer),
				zap.Stringer("amount", payment.Amount),
				zap.String("reason", outcome))
		default:
			logger.Error("settle: cannot buy ticket, exiting...", zap.Error(err))
			return err
		}

		err = t.journal.SaveProcessedPayment(t.ctx, &storage.ProcessedPayment{
			TransactionHash: payment.TransactionHash,
			TransactionLt:   payment.TransactionLt,
			RaffleID:        payment.RaffleID,
			Payer:           payment.Payer.String(),
			Amount:          payment.Amount,
			Outcome:         outcome,
		})
		if err != nil {
			logger.Error("settle: cannot journal payment, exiting...", zap.Error(err))
			return err
		}
	}

	return nil
}
