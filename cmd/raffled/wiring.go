package main

import (
	"context"

	"rafflehub/internal/blockchain"
	"rafflehub/internal/config"
	"rafflehub/internal/handlers"
	"rafflehub/internal/logger"
	"rafflehub/internal/raffle"
	"rafflehub/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// application is everything a command needs once the environment is parsed.
type application struct {
	cfg      *config.Config
	store    *storage.SqliteStorage
	ledger   raffle.Ledger
	random   raffle.BlockHashSource
	identity handlers.IdentityResolver
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	files, _ := cmd.Flags().GetStringSlice("env-file")
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openApplication(cmd *cobra.Command) (*application, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSqliteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	app := &application{cfg: cfg, store: store}
	switch cfg.Ledger {
	case config.LedgerTon:
		escrowWallet, client, err := blockchain.OpenWallet(cfg.WalletMnemonic, cfg.WalletVersion)
		if err != nil {
			store.Close()
			return nil, err
		}
		app.ledger = blockchain.NewWalletLedger(escrowWallet, cfg.TransferTimeout)
		app.random = blockchain.NewLiteBlockHashSource(client)
		app.identity = blockchain.NormalizeAccount
	default:
		logger.Warn("local ledger selected, payouts stay in process")
		app.ledger = blockchain.NewLocalLedger()
		app.random = blockchain.NewLocalBlockHashSource(raffle.SystemClock{})
		app.identity = handlers.PlainIdentity
	}

	return app, nil
}

// newEngine builds the engine and makes sure the platform record exists.
func (a *application) newEngine(ctx context.Context, notifier raffle.Notifier) (*raffle.Engine, error) {
	engine := raffle.NewEngine(a.store, a.ledger, a.random, raffle.SystemClock{}, notifier)

	authority, err := a.identity(a.cfg.PlatformAuthority)
	if err != nil {
		return nil, err
	}
	feeAccount, err := a.identity(a.cfg.PlatformFeeAccount)
	if err != nil {
		return nil, err
	}

	if err := engine.Initialize(ctx, authority, feeAccount); err != nil {
		return nil, err
	}
	return engine, nil
}

func (a *application) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("closing database", zap.Error(err))
	}
	logger.Sync()
}
