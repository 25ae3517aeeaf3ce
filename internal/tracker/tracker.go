package tracker

import (
	"context"
	"errors"
	"time"

	"rafflehub/internal/logger"
	"rafflehub/internal/raffle"
	"rafflehub/internal/storage"

	"github.com/tonkeeper/tonapi-go"
	"go.uber.org/zap"
)

type TicketSeller interface {
	BuyTicket(ctx context.Context, call raffle.Call, raffleID uint32) (uint32, error)
}

type PaymentJournal interface {
	IsPaymentProcessed(ctx context.Context, transactionHash string) (bool, error)
	SaveProcessedPayment(ctx context.Context, payment *storage.ProcessedPayment) error
	GetLastProcessedPaymentLt(ctx context.Context) (int64, error)
}

// Tracker watches the escrow wallet for ticket payments and buys the
// tickets they pay for.
type Tracker struct {
	ctx           context.Context
	journal       PaymentJournal
	seller        TicketSeller
	client        *tonapi.Client
	escrowAddress string
}

type Func[T any] func() (T, error)

func infinityRateLimitRetry[T any](
	ctx context.Context,
	fn Func[T],
) (T, error) {
	for {
		result, err := fn()
		if err != nil {
			var e *tonapi.ErrorStatusCode
			if errors.As(err, &e) && e.StatusCode == 429 {
				select {
				case <-ctx.Done():
					return result, ctx.Err()
				case <-time.After(500 * time.Millisecond):
				}
				continue
			}
		}

		return result, err
	}
}

func NewTonapiClient(token string) (*tonapi.Client, error) {
	logger.Debug("tracker initialization: tonapi client...", zap.Bool("token provided", token != ""))
	return tonapi.NewClient(tonapi.TonApiURL, tonapi.WithToken(token))
}

func NewTracker(ctx context.Context, client *tonapi.Client, journal PaymentJournal, seller TicketSeller, escrowAddress string) *Tracker {
	return &Tracker{
		ctx:           ctx,
		journal:       journal,
		seller:        seller,
		client:        client,
		escrowAddress: escrowAddress,
	}
}

// Run performs one round: collect payments newer than the journal and
// settle them in chain order.
func (t *Tracker) Run() error {
	lastProcessedLt, err := t.journal.GetLastProcessedPaymentLt(t.ctx)
	if err != nil {
		return err
	}

	logger.Debug("tracker: gathering ticket payments", zap.Int64("last processed lt", lastProcessedLt))
	payments, err := t.collectTicketPayments(lastProcessedLt)
	if err != nil {
		return err
	}

	logger.Debug("tracker: settling ticket payments", zap.Int("payments", len(payments)))
	return t.settle(payments)
}

// Start repeats Run every interval until the context is cancelled. A failed
// round is logged and retried on the next tick.
func (t *Tracker) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := t.Run(); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("tracker: round failed", zap.Error(err))
		}

		select {
		case <-t.ctx.Done():
			t.Finalize()
			return
		case <-ticker.C:
		}
	}
}

func (t *Tracker) Finalize() {
	logger.Info("tracker stopped")
}
