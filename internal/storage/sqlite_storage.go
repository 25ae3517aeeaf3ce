package storage

import (
	"context"

	"rafflehub/internal/logger"
	"rafflehub/internal/raffle"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

var log = logger.Scope("storage")

type SqliteStorage struct {
	db *gorm.DB
}

func NewSqliteStorage(path string) (*SqliteStorage, error) {

	log.Debug("initializing database...", zap.String("path", path))
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get database handle")
	}
	// one connection serializes every transaction; it also keeps a
	// ":memory:" database alive for the lifetime of the storage
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&PlatformRecord{},
		&RaffleRecord{},
		&ParticipantRecord{},
		&ProcessedPayment{},
	)
	if err != nil {
		return nil, errors.Wrap(err, "migrate database")
	}

	log.Debug("initializing database... done")
	return &SqliteStorage{
		db: db,
	}, nil
}

func (s *SqliteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SqliteStorage) Atomically(ctx context.Context, fn func(tx raffle.RegistryTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&sqliteTx{db: tx})
	})
}

func (s *SqliteStorage) IsPaymentProcessed(ctx context.Context, transactionHash string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&ProcessedPayment{}).
		Where("transaction_hash = ?", transactionHash).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "count processed payments")
	}
	return count > 0, nil
}

func (s *SqliteStorage) SaveProcessedPayment(ctx context.Context, payment *ProcessedPayment) error {
	log.Debug("saving processed payment...", zap.String("transaction hash", payment.TransactionHash), zap.String("outcome", payment.Outcome))

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"outcome"}),
	}).Create(payment).Error
	if err != nil {
		return errors.Wrap(err, "save processed payment")
	}

	log.Debug("saving processed payment... done")
	return nil
}

func (s *SqliteStorage) GetLastProcessedPaymentLt(ctx context.Context) (int64, error) {
	var transactionLt int64
	err := s.db.WithContext(ctx).Raw(`
		select coalesce(max(transaction_lt), 0) as transaction_lt
		from processed_payments
	`).Scan(&transactionLt).Error
	if err != nil {
		return 0, errors.Wrap(err, "get last processed payment lt")
	}
	return transactionLt, nil
}

type sqliteTx struct {
	db *gorm.DB
}

func (t *sqliteTx) Platform() (*raffle.Platform, error) {
	var record PlatformRecord
	err := t.db.Where("id = ?", platformRecordID).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load platform")
	}

	return &raffle.Platform{
		Authority:     raffle.AccountID(record.Authority),
		FeeAccount:    raffle.AccountID(record.FeeAccount),
		RaffleCounter: record.RaffleCounter,
	}, nil
}

func (t *sqliteTx) SavePlatform(platform raffle.Platform) error {
	record := &PlatformRecord{
		ID:            platformRecordID,
		Authority:     platform.Authority.String(),
		FeeAccount:    platform.FeeAccount.String(),
		RaffleCounter: platform.RaffleCounter,
	}

	err := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"authority", "fee_account", "raffle_counter"}),
	}).Create(record).Error
	if err != nil {
		return errors.Wrap(err, "save platform")
	}
	return nil
}

func (t *sqliteTx) InsertRaffle(info raffle.Info) (uint32, error) {
	platform, err := t.Platform()
	if err != nil {
		return 0, err
	}
	if platform == nil {
		return 0, raffle.ErrPlatformNotInitialized
	}

	raffleID := platform.RaffleCounter
	record := toRaffleRecord(raffleID, info)
	if err := t.db.Create(record).Error; err != nil {
		return 0, errors.Wrapf(err, "insert raffle %d", raffleID)
	}

	err = t.db.Model(&PlatformRecord{}).
		Where("id = ?", platformRecordID).
		Update("raffle_counter", raffleID+1).Error
	if err != nil {
		return 0, errors.Wrap(err, "advance raffle counter")
	}

	return raffleID, nil
}

func (t *sqliteTx) Raffle(raffleID uint32) (*raffle.Info, error) {
	var record RaffleRecord
	err := t.db.Where("id = ?", raffleID).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load raffle %d", raffleID)
	}

	info := fromRaffleRecord(&record)
	return &info, nil
}

// UpdateRaffle writes the mutable columns only; the rest of a raffle never
// changes after creation.
func (t *sqliteTx) UpdateRaffle(raffleID uint32, info raffle.Info) error {
	result := t.db.Model(&RaffleRecord{}).
		Where("id = ?", raffleID).
		Updates(map[string]any{
			"tickets_sold": info.TicketsSold,
			"winner":       winnerColumn(info.Winner),
			"is_closed":    info.IsClosed,
			"total_stake":  info.TotalStake,
		})
	if result.Error != nil {
		return errors.Wrapf(result.Error, "update raffle %d", raffleID)
	}
	if result.RowsAffected == 0 {
		return errors.Errorf("update raffle %d: no such raffle", raffleID)
	}
	return nil
}

func (t *sqliteTx) AppendParticipant(raffleID uint32, account raffle.AccountID, position uint32) error {
	err := t.db.Create(&ParticipantRecord{
		RaffleID: raffleID,
		Account:  account.String(),
		Position: position,
	}).Error
	if err != nil {
		return errors.Wrapf(err, "append participant to raffle %d", raffleID)
	}
	return nil
}

func (t *sqliteTx) Participants(raffleID uint32) ([]raffle.AccountID, error) {
	var records []*ParticipantRecord
	err := t.db.Where("raffle_id = ?", raffleID).Order("position asc").Find(&records).Error
	if err != nil {
		return nil, errors.Wrapf(err, "load participants of raffle %d", raffleID)
	}

	participants := make([]raffle.AccountID, len(records))
	for i, record := range records {
		participants[i] = raffle.AccountID(record.Account)
	}
	return participants, nil
}

func (t *sqliteTx) HasParticipated(raffleID uint32, account raffle.AccountID) (bool, error) {
	var count int64
	err := t.db.Model(&ParticipantRecord{}).
		Where("raffle_id = ? and account = ?", raffleID, account.String()).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrapf(err, "check participation in raffle %d", raffleID)
	}
	return count > 0, nil
}

func toRaffleRecord(raffleID uint32, info raffle.Info) *RaffleRecord {
	return &RaffleRecord{
		ID:           raffleID,
		Organizer:    info.Organizer.String(),
		Title:        info.Title,
		MaxTickets:   info.MaxTickets,
		TicketPrice:  info.TicketPrice,
		FeePercent:   info.FeePercent,
		StakePercent: info.StakePercent,
		TicketsSold:  info.TicketsSold,
		Winner:       winnerColumn(info.Winner),
		IsClosed:     info.IsClosed,
		TotalStake:   info.TotalStake,
		CreatedAt:    info.CreatedAt,
	}
}

func winnerColumn(winner *raffle.AccountID) *string {
	if winner == nil {
		return nil
	}
	w := winner.String()
	return &w
}

func fromRaffleRecord(record *RaffleRecord) raffle.Info {
	var winner *raffle.AccountID
	if record.Winner != nil {
		w := raffle.AccountID(*record.Winner)
		winner = &w
	}

	return raffle.Info{
		Organizer:    raffle.AccountID(record.Organizer),
		Title:        record.Title,
		MaxTickets:   record.MaxTickets,
		TicketPrice:  record.TicketPrice,
		FeePercent:   record.FeePercent,
		StakePercent: record.StakePercent,
		TicketsSold:  record.TicketsSold,
		Winner:       winner,
		IsClosed:     record.IsClosed,
		TotalStake:   record.TotalStake,
		CreatedAt:    record.CreatedAt,
	}
}
