package tracker

import (
	"fmt"

	"rafflehub/internal/logger"

	"github.com/tonkeeper/tonapi-go"
	"github.com/tonkeeper/tongo/ton"
	"go.uber.org/zap"
)

func (t *Tracker) VerifyEscrowAccount() error {
	logger.Debug("verify escrow account: verifying escrow address...")

	escrowAccountID, err := ton.ParseAccountID(t.escrowAddress)
	if err != nil {
		logger.Error("verify escrow account: failed to parse escrow address", zap.String("escrow address", t.escrowAddress), zap.Error(err))
		return err
	}

	escrowAccount, err := infinityRateLimitRetry(t.ctx,
		func() (*tonapi.Account, error) {
			return t.client.GetAccount(t.ctx, tonapi.GetAccountParams{
				AccountID: escrowAccountID.ToRaw(),
			})
		})
	if err != nil {
		logger.Error("verify escrow account: failed to get escrow account state", zap.Error(err))
		return err
	}

	if escrowAccount.GetStatus() != tonapi.AccountStatusActive {
		return fmt.Errorf("verify escrow account: escrow account %s is %s", t.escrowAddress, escrowAccount.GetStatus())
	}

	logger.Debug("verify escrow account: escrow account info", zap.Int64("balance", escrowAccount.GetBalance()))
	logger.Debug("verify escrow account: done")
	return nil
}
