package storage

import (
	"context"

	"rafflehub/internal/raffle"
)

type Storage interface {
	raffle.Registry

	// processed payments
	IsPaymentProcessed(ctx context.Context, transactionHash string) (bool, error)
	SaveProcessedPayment(ctx context.Context, payment *ProcessedPayment) error
	GetLastProcessedPaymentLt(ctx context.Context) (int64, error)

	Close() error
}
