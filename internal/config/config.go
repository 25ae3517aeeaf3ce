package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"rafflehub/internal/logger"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	LedgerLocal = "local"
	LedgerTon   = "ton"
)

type Config struct {
	DatabasePath       string        `env:"RAFFLE_DATABASE_PATH" envDefault:"persistent.db"`
	HTTPAddress        string        `env:"RAFFLE_HTTP_ADDRESS" envDefault:":8080"`
	PlatformAuthority  string        `env:"RAFFLE_PLATFORM_AUTHORITY,required"`
	PlatformFeeAccount string        `env:"RAFFLE_PLATFORM_FEE_ACCOUNT,required"`
	Ledger             string        `env:"RAFFLE_LEDGER" envDefault:"local"`
	WalletMnemonic     string        `env:"WALLET_MNEMONIC"`
	WalletVersion      string        `env:"WALLET_VERSION" envDefault:"V4R2"`
	TransferTimeout    time.Duration `env:"RAFFLE_TRANSFER_TIMEOUT" envDefault:"60s"`
	TonapiToken        string        `env:"TONAPI_TOKEN"`
	EscrowAddress      string        `env:"RAFFLE_ESCROW_ADDRESS"`
	TrackerInterval    time.Duration `env:"RAFFLE_TRACKER_INTERVAL" envDefault:"30s"`

	Log logger.Configuration `envPrefix:"LOG_"`
}

// Load reads .env files when present and then parses the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Ledger {
	case LedgerLocal:
	case LedgerTon:
		if c.WalletMnemonic == "" {
			return errors.New("config: WALLET_MNEMONIC is required for the ton ledger")
		}
	default:
		return fmt.Errorf("config: unknown ledger %q", c.Ledger)
	}

	if c.EscrowAddress != "" && c.Ledger != LedgerTon {
		return errors.New("config: RAFFLE_ESCROW_ADDRESS requires the ton ledger")
	}
	return nil
}

func (c *Config) TrackerEnabled() bool {
	return c.EscrowAddress != ""
}
