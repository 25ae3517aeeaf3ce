package blockchain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rafflehub/internal/logger"
	"rafflehub/internal/raffle"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrAccountFrozen   = errors.New("account is frozen")
	ErrInvalidTransfer = errors.New("invalid transfer")
)

// LocalLedger keeps payout balances in process. A batch is checked as a
// whole before any balance moves.
type LocalLedger struct {
	mu       sync.Mutex
	balances map[raffle.AccountID]raffle.Amount
	frozen   map[raffle.AccountID]bool
}

func NewLocalLedger() *LocalLedger {
	return &LocalLedger{
		balances: make(map[raffle.AccountID]raffle.Amount),
		frozen:   make(map[raffle.AccountID]bool),
	}
}

func (l *LocalLedger) Transfer(_ context.Context, transfers ...raffle.Transfer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, transfer := range transfers {
		if transfer.To == "" || !raffle.ValidAmount(transfer.Amount) || !transfer.Amount.IsPositive() {
			return fmt.Errorf("%w: %s to %q", ErrInvalidTransfer, transfer.Amount, transfer.To)
		}
		if l.frozen[transfer.To] {
			return fmt.Errorf("%w: %s", ErrAccountFrozen, transfer.To)
		}
	}

	for _, transfer := range transfers {
		l.balances[transfer.To] = l.balance(transfer.To).Add(transfer.Amount)
		logger.Debug("local ledger: credited", zap.Stringer("account", transfer.To), zap.Stringer("amount", transfer.Amount))
	}
	return nil
}

func (l *LocalLedger) Balance(account raffle.AccountID) raffle.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance(account)
}

func (l *LocalLedger) balance(account raffle.AccountID) raffle.Amount {
	if balance, ok := l.balances[account]; ok {
		return balance
	}
	return decimal.Zero
}

// Freeze makes every batch paying account fail until Unfreeze.
func (l *LocalLedger) Freeze(account raffle.AccountID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frozen[account] = true
}

func (l *LocalLedger) Unfreeze(account raffle.AccountID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.frozen, account)
}
