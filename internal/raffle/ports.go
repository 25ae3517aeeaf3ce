package raffle

import (
	"context"
	"time"
)

// Ledger moves value out of the system. A call either delivers every
// transfer or none of them.
type Ledger interface {
	Transfer(ctx context.Context, transfers ...Transfer) error
}

type BlockHashSource interface {
	RecentBlockHash(ctx context.Context) ([32]byte, error)
}

type Clock interface {
	Now() uint64
}

// Notifier delivers events fire-and-forget; it must not block.
type Notifier interface {
	Notify(event Event)
}

// Registry runs fn inside one transaction. Changes made through tx become
// visible only if fn returns nil; any error discards all of them.
type Registry interface {
	Atomically(ctx context.Context, fn func(tx RegistryTx) error) error
}

type RegistryTx interface {
	Platform() (*Platform, error)
	SavePlatform(platform Platform) error

	// InsertRaffle allocates the next id from the platform sequence and
	// stores info under it.
	InsertRaffle(info Info) (uint32, error)
	Raffle(raffleID uint32) (*Info, error)
	UpdateRaffle(raffleID uint32, info Info) error

	// AppendParticipant records account at the given 1-based position in
	// the raffle's participant list and participation index at once.
	AppendParticipant(raffleID uint32, account AccountID, position uint32) error
	Participants(raffleID uint32) ([]AccountID, error)
	HasParticipated(raffleID uint32, account AccountID) (bool, error)
}

type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().UnixMilli())
}
