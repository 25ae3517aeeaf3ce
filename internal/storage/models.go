package storage

import (
	"github.com/shopspring/decimal"
)

const platformRecordID uint8 = 1

type PlatformRecord struct {
	ID            uint8  `gorm:"primaryKey;autoIncrement:false"`
	Authority     string `gorm:"not null"`
	FeeAccount    string `gorm:"not null"`
	RaffleCounter uint32 `gorm:"not null;default:0"`
}

type RaffleRecord struct {
	ID           uint32          `gorm:"primaryKey;autoIncrement:false"`
	Organizer    string          `gorm:"not null;index"`
	Title        string          `gorm:"not null"`
	MaxTickets   uint32          `gorm:"not null"`
	TicketPrice  decimal.Decimal `gorm:"type:text;not null"`
	FeePercent   uint8           `gorm:"not null"`
	StakePercent uint8           `gorm:"not null"`
	TicketsSold  uint32          `gorm:"not null;default:0"`
	Winner       *string
	IsClosed     bool            `gorm:"not null;default:false"`
	TotalStake   decimal.Decimal `gorm:"type:text;not null"`
	CreatedAt    uint64          `gorm:"not null;autoCreateTime:false"`
}

// ParticipantRecord is both the participant list (ordered by Position) and
// the participation index (primary key).
type ParticipantRecord struct {
	RaffleID uint32 `gorm:"primaryKey;autoIncrement:false;uniqueIndex:idx_raffle_position"`
	Account  string `gorm:"primaryKey"`
	Position uint32 `gorm:"not null;uniqueIndex:idx_raffle_position"`
}

type PaymentOutcome = string

const (
	PaymentAccepted PaymentOutcome = "accepted"
)

type ProcessedPayment struct {
	TransactionHash string          `gorm:"primaryKey"`
	TransactionLt   int64           `gorm:"not null;index"`
	RaffleID        uint32          `gorm:"not null"`
	Payer           string          `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:text;not null"`
	Outcome         PaymentOutcome  `gorm:"not null"`
}
