package blockchain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rafflehub/internal/logger"
	"rafflehub/internal/raffle"

	"github.com/tonkeeper/tongo/liteapi"
	"github.com/tonkeeper/tongo/tlb"
	"github.com/tonkeeper/tongo/ton"
	"github.com/tonkeeper/tongo/wallet"
	"go.uber.org/zap"
)

var WalletMap = map[string]int{
	"V1R1":         0,
	"V1R2":         1,
	"V1R3":         2,
	"V2R1":         3,
	"V2R2":         4,
	"V3R1":         5,
	"V3R2":         6,
	"V3R2Lockup":   7,
	"V4R1":         8,
	"V4R2":         9,
	"V5Beta":       10,
	"V5R1":         11,
	"HighLoadV1R1": 12,
	"HighLoadV1R2": 13,
	"HighLoadV2":   14,
	"HighLoadV2R1": 15,
	"HighLoadV2R2": 16,
}

var ErrAmountOutOfRange = errors.New("amount does not fit into grams")

// OpenWallet connects to mainnet lite servers and derives the escrow wallet
// from its mnemonic.
func OpenWallet(mnemonic string, version string) (*wallet.Wallet, *liteapi.Client, error) {
	versionIndex, ok := WalletMap[version]
	if !ok {
		return nil, nil, fmt.Errorf("unknown wallet version %q", version)
	}

	logger.Debug("wallet initialization: lite client...")
	clientLite, err := liteapi.NewClientWithDefaultMainnet()
	if err != nil {
		return nil, nil, err
	}

	pk, err := wallet.SeedToPrivateKey(mnemonic)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("wallet initialization: wallet info", zap.String("version", version), zap.Int("version index", versionIndex))
	escrowWallet, err := wallet.New(pk, wallet.Version(versionIndex), clientLite)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("wallet initialization: done", zap.String("address", escrowWallet.GetAddress().ToHuman(true, false)))
	return &escrowWallet, clientLite, nil
}

// WalletLedger pays out of the escrow wallet. All transfers of a batch go
// into one external message, so the wallet sends all of them or none.
type WalletLedger struct {
	wallet  *wallet.Wallet
	timeout time.Duration
}

func NewWalletLedger(w *wallet.Wallet, timeout time.Duration) *WalletLedger {
	return &WalletLedger{
		wallet:  w,
		timeout: timeout,
	}
}

func (l *WalletLedger) Transfer(ctx context.Context, transfers ...raffle.Transfer) error {
	messages := make([]wallet.Sendable, 0, len(transfers))
	for _, transfer := range transfers {
		accountID, err := ton.ParseAccountID(transfer.To.String())
		if err != nil {
			return fmt.Errorf("transfer destination %q: %w", transfer.To, err)
		}

		grams, err := ToGrams(transfer.Amount)
		if err != nil {
			return err
		}

		messages = append(messages, wallet.Message{
			Amount:  grams,
			Address: accountID,
			Bounce:  false,
			Mode:    wallet.DefaultMessageMode,
		})
	}

	logger.Debug("wallet ledger: sending transfers...", zap.Int("messages", len(messages)))
	_, err := l.wallet.SendV2(ctx, l.timeout, messages...)
	if err != nil {
		return err
	}

	logger.Debug("wallet ledger: sending transfers... done")
	return nil
}

func ToGrams(amount raffle.Amount) (tlb.Grams, error) {
	if !raffle.ValidAmount(amount) {
		return 0, ErrAmountOutOfRange
	}

	value := amount.BigInt()
	if !value.IsUint64() {
		return 0, ErrAmountOutOfRange
	}
	return tlb.Grams(value.Uint64()), nil
}
