package raffle

import (
	"context"
	"errors"
	"fmt"
	"math"

	"rafflehub/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrPlatformNotInitialized = errors.New("platform is not initialized")

type Engine struct {
	registry   Registry
	ledger     Ledger
	randomness BlockHashSource
	clock      Clock
	notifier   Notifier
	locks      raffleLocks
}

func NewEngine(registry Registry, ledger Ledger, randomness BlockHashSource, clock Clock, notifier Notifier) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}

	return &Engine{
		registry:   registry,
		ledger:     ledger,
		randomness: randomness,
		clock:      clock,
		notifier:   notifier,
	}
}

// Initialize fixes the platform authority and the initial fee account. It is
// a no-op once the platform exists.
func (e *Engine) Initialize(ctx context.Context, authority AccountID, feeAccount AccountID) error {
	if authority == "" || feeAccount == "" {
		return ErrInvalidParameters
	}

	return e.registry.Atomically(ctx, func(tx RegistryTx) error {
		platform, err := tx.Platform()
		if err != nil {
			return err
		}

		if platform != nil {
			if platform.Authority != authority {
				logger.Warn("initialize: platform authority already established, keeping stored one",
					zap.Stringer("stored authority", platform.Authority),
					zap.Stringer("requested authority", authority))
			}
			return nil
		}

		logger.Info("initialize: establishing platform", zap.Stringer("authority", authority), zap.Stringer("fee account", feeAccount))
		return tx.SavePlatform(Platform{Authority: authority, FeeAccount: feeAccount})
	})
}

func (e *Engine) CreateRaffle(ctx context.Context, caller AccountID, params CreateParams) (uint32, error) {
	if err := validateCreateParams(params); err != nil {
		return 0, err
	}

	info := Info{
		Organizer:    caller,
		Title:        params.Title,
		MaxTickets:   params.MaxTickets,
		TicketPrice:  params.TicketPrice,
		FeePercent:   params.FeePercent,
		StakePercent: params.StakePercent,
		TotalStake:   decimal.Zero,
		CreatedAt:    e.clock.Now(),
	}

	var raffleID uint32
	err := e.registry.Atomically(ctx, func(tx RegistryTx) error {
		platform, err := e.platform(tx)
		if err != nil {
			return err
		}

		if platform.RaffleCounter == math.MaxUint32 {
			logger.Warn("create raffle: raffle sequence exhausted")
			return ErrInvalidParameters
		}

		raffleID, err = tx.InsertRaffle(info)
		return err
	})
	if err != nil {
		return 0, err
	}

	logger.Info("create raffle: raffle created",
		zap.Uint32("raffle id", raffleID),
		zap.Stringer("organizer", caller),
		zap.Uint32("max tickets", params.MaxTickets),
		zap.Stringer("ticket price", params.TicketPrice))

	e.notifier.Notify(RaffleCreated{
		RaffleID:    raffleID,
		Organizer:   caller,
		Title:       params.Title,
		MaxTickets:  params.MaxTickets,
		TicketPrice: params.TicketPrice,
	})

	return raffleID, nil
}

func validateCreateParams(params CreateParams) error {
	switch {
	case params.MaxTickets == 0 || params.MaxTickets > MaxTicketsLimit:
		return ErrInvalidParameters
	case !ValidAmount(params.TicketPrice) || params.TicketPrice.LessThan(MinTicketPrice):
		return ErrInvalidParameters
	case params.FeePercent > MaxFeePercent:
		return ErrInvalidParameters
	case params.StakePercent > MaxStakePercent:
		return ErrInvalidParameters
	case uint16(params.FeePercent)+uint16(params.StakePercent) > uint16(MaxCombinedPercent):
		return ErrInvalidParameters
	}
	return nil
}

// BuyTicket sells one ticket to call.Caller and returns its 1-based number.
func (e *Engine) BuyTicket(ctx context.Context, call Call, raffleID uint32) (uint32, error) {
	unlock := e.locks.lock(raffleID)
	defer unlock()

	var purchased TicketPurchased
	err := e.registry.Atomically(ctx, func(tx RegistryTx) error {
		info, err := tx.Raffle(raffleID)
		if err != nil {
			return err
		}

		if info == nil {
			return ErrRaffleNotFound
		}
		if info.IsClosed {
			return ErrRaffleClosed
		}
		if info.TicketsSold >= info.MaxTickets {
			return ErrNoTicketsAvailable
		}
		if !call.Value.Equal(info.TicketPrice) {
			return ErrInsufficientFunds
		}

		participated, err := tx.HasParticipated(raffleID, call.Caller)
		if err != nil {
			return err
		}
		if participated {
			return ErrAlreadyParticipated
		}

		platform, err := e.platform(tx)
		if err != nil {
			return err
		}

		info.TicketsSold++
		if err := tx.AppendParticipant(raffleID, call.Caller, info.TicketsSold); err != nil {
			return err
		}

		split := SplitPayment(call.Value, info.FeePercent, info.StakePercent)
		totalStake := info.TotalStake.Add(split.Stake)
		if totalStake.GreaterThan(MaxAmount) {
			logger.Warn("buy ticket: total stake overflow", zap.Uint32("raffle id", raffleID))
			return ErrInvalidParameters
		}
		info.TotalStake = totalStake

		if err := tx.UpdateRaffle(raffleID, *info); err != nil {
			return err
		}

		payouts := nonZero(
			Transfer{To: platform.FeeAccount, Amount: split.Fee},
			Transfer{To: info.Organizer, Amount: split.Organizer},
		)
		if err := e.transfer(ctx, payouts); err != nil {
			return err
		}

		purchased = TicketPurchased{
			RaffleID:     raffleID,
			Buyer:        call.Caller,
			TicketNumber: info.TicketsSold,
			AmountPaid:   call.Value,
		}
		return nil
	})
	if err != nil {
		logger.Debug("buy ticket: rejected", zap.Uint32("raffle id", raffleID), zap.Stringer("buyer", call.Caller), zap.Error(err))
		return 0, err
	}

	logger.Info("buy ticket: ticket purchased",
		zap.Uint32("raffle id", raffleID),
		zap.Stringer("buyer", call.Caller),
		zap.Uint32("ticket number", purchased.TicketNumber))

	e.notifier.Notify(purchased)
	return purchased.TicketNumber, nil
}

// CloseRaffle draws the winner and closes the raffle. The draw is seeded by
// a recent block hash; see SelectWinner for its weakness. The hash is
// fetched between two short transactions while the raffle lock is held, so
// the registry is never blocked on the network.
func (e *Engine) CloseRaffle(ctx context.Context, caller AccountID, raffleID uint32) (AccountID, error) {
	unlock := e.locks.lock(raffleID)
	defer unlock()

	err := e.registry.Atomically(ctx, func(tx RegistryTx) error {
		_, err := closable(tx, caller, raffleID)
		return err
	})
	if err != nil {
		logger.Debug("close raffle: rejected", zap.Uint32("raffle id", raffleID), zap.Stringer("caller", caller), zap.Error(err))
		return "", err
	}

	hash, err := e.randomness.RecentBlockHash(ctx)
	if err != nil {
		logger.Warn("close raffle: recent block hash unavailable", zap.Uint32("raffle id", raffleID), zap.Error(err))
		return "", fmt.Errorf("close raffle: recent block hash: %w", err)
	}

	var closed RaffleClosed
	err = e.registry.Atomically(ctx, func(tx RegistryTx) error {
		info, err := closable(tx, caller, raffleID)
		if err != nil {
			return err
		}

		participants, err := tx.Participants(raffleID)
		if err != nil {
			return err
		}

		winner, index := SelectWinner(hash, participants)
		if index < 0 {
			return ErrInvalidParameters
		}

		info.Winner = &winner
		info.IsClosed = true
		if err := tx.UpdateRaffle(raffleID, *info); err != nil {
			return err
		}

		closed = RaffleClosed{
			RaffleID:    raffleID,
			Winner:      winner,
			PrizeAmount: info.TotalStake,
		}
		return nil
	})
	if err != nil {
		logger.Debug("close raffle: rejected", zap.Uint32("raffle id", raffleID), zap.Stringer("caller", caller), zap.Error(err))
		return "", err
	}

	logger.Info("close raffle: winner selected",
		zap.Uint32("raffle id", raffleID),
		zap.Stringer("winner", closed.Winner),
		zap.Stringer("prize amount", closed.PrizeAmount))

	e.notifier.Notify(closed)
	return closed.Winner, nil
}

func closable(tx RegistryTx, caller AccountID, raffleID uint32) (*Info, error) {
	info, err := tx.Raffle(raffleID)
	if err != nil {
		return nil, err
	}

	switch {
	case info == nil:
		return nil, ErrRaffleNotFound
	case info.Organizer != caller:
		return nil, ErrOnlyOrganizer
	case info.IsClosed:
		return nil, ErrRaffleClosed
	case info.TicketsSold == 0:
		return nil, ErrInvalidParameters
	}
	return info, nil
}

// ClaimPrize pays the escrowed stake to the winner. The stake is zeroed
// before the transfer is issued and the zeroing only commits with it.
func (e *Engine) ClaimPrize(ctx context.Context, caller AccountID, raffleID uint32) (Amount, error) {
	unlock := e.locks.lock(raffleID)
	defer unlock()

	var prize Amount
	err := e.registry.Atomically(ctx, func(tx RegistryTx) error {
		info, err := tx.Raffle(raffleID)
		if err != nil {
			return err
		}

		if info == nil {
			return ErrRaffleNotFound
		}
		if !info.IsClosed {
			return ErrInvalidParameters
		}
		if info.Winner == nil || *info.Winner != caller {
			return ErrOnlyWinner
		}
		if !info.TotalStake.IsPositive() {
			return ErrNoPrizeToClaim
		}

		prize = info.TotalStake
		info.TotalStake = decimal.Zero
		if err := tx.UpdateRaffle(raffleID, *info); err != nil {
			return err
		}

		return e.transfer(ctx, []Transfer{{To: caller, Amount: prize}})
	})
	if err != nil {
		logger.Debug("claim prize: rejected", zap.Uint32("raffle id", raffleID), zap.Stringer("caller", caller), zap.Error(err))
		return decimal.Zero, err
	}

	logger.Info("claim prize: prize paid", zap.Uint32("raffle id", raffleID), zap.Stringer("winner", caller), zap.Stringer("prize amount", prize))
	return prize, nil
}

func (e *Engine) UpdatePlatformFeeAccount(ctx context.Context, caller AccountID, feeAccount AccountID) error {
	return e.registry.Atomically(ctx, func(tx RegistryTx) error {
		platform, err := e.platform(tx)
		if err != nil {
			return err
		}

		if caller != platform.Authority {
			return ErrOnlyPlatformAuthority
		}
		if feeAccount == "" {
			return ErrInvalidParameters
		}

		logger.Info("update platform fee account", zap.Stringer("previous", platform.FeeAccount), zap.Stringer("next", feeAccount))
		platform.FeeAccount = feeAccount
		return tx.SavePlatform(*platform)
	})
}

func (e *Engine) RaffleInfo(ctx context.Context, raffleID uint32) (*Info, error) {
	var info *Info
	err := e.registry.Atomically(ctx, func(tx RegistryTx) error {
		var err error
		info, err = tx.Raffle(raffleID)
		return err
	})
	return info, err
}

func (e *Engine) RaffleParticipants(ctx context.Context, raffleID uint32) ([]AccountID, error) {
	participants := make([]AccountID, 0)
	err := e.registry.Atomically(ctx, func(tx RegistryTx) error {
		found, err := tx.Participants(raffleID)
		if err != nil {
			return err
		}
		participants = append(participants, found...)
		return nil
	})
	return participants, err
}

func (e *Engine) RaffleCount(ctx context.Context) (uint32, error) {
	platform, err := e.readPlatform(ctx)
	if err != nil || platform == nil {
		return 0, err
	}
	return platform.RaffleCounter, nil
}

func (e *Engine) HasUserParticipated(ctx context.Context, raffleID uint32, account AccountID) (bool, error) {
	var participated bool
	err := e.registry.Atomically(ctx, func(tx RegistryTx) error {
		var err error
		participated, err = tx.HasParticipated(raffleID, account)
		return err
	})
	return participated, err
}

func (e *Engine) PlatformAuthority(ctx context.Context) (AccountID, error) {
	platform, err := e.readPlatform(ctx)
	if err != nil || platform == nil {
		return "", err
	}
	return platform.Authority, nil
}

func (e *Engine) PlatformFeeAccount(ctx context.Context) (AccountID, error) {
	platform, err := e.readPlatform(ctx)
	if err != nil || platform == nil {
		return "", err
	}
	return platform.FeeAccount, nil
}

func (e *Engine) readPlatform(ctx context.Context) (*Platform, error) {
	var platform *Platform
	err := e.registry.Atomically(ctx, func(tx RegistryTx) error {
		var err error
		platform, err = tx.Platform()
		return err
	})
	return platform, err
}

func (e *Engine) platform(tx RegistryTx) (*Platform, error) {
	platform, err := tx.Platform()
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, ErrPlatformNotInitialized
	}
	return platform, nil
}

// transfer hands the batch to the ledger; the cause of a failure is logged
// and reported as ErrTransferFailed.
func (e *Engine) transfer(ctx context.Context, transfers []Transfer) error {
	if len(transfers) == 0 {
		return nil
	}

	if err := e.ledger.Transfer(ctx, transfers...); err != nil {
		logger.Warn("transfer: ledger rejected batch", zap.Int("transfers", len(transfers)), zap.Error(err))
		return ErrTransferFailed
	}
	return nil
}

func nonZero(transfers ...Transfer) []Transfer {
	result := make([]Transfer, 0, len(transfers))
	for _, transfer := range transfers {
		if transfer.Amount.IsPositive() {
			result = append(result, transfer)
		}
	}
	return result
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
