package blockchain

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"sync"

	"rafflehub/internal/logger"
	"rafflehub/internal/raffle"

	"github.com/tonkeeper/tongo/liteapi"
	"go.uber.org/zap"
)

// LiteBlockHashSource returns the root hash of the last masterchain block.
type LiteBlockHashSource struct {
	client *liteapi.Client
}

func NewLiteBlockHashSource(client *liteapi.Client) *LiteBlockHashSource {
	return &LiteBlockHashSource{client: client}
}

func (s *LiteBlockHashSource) RecentBlockHash(ctx context.Context) ([32]byte, error) {
	info, err := s.client.GetMasterchainInfo(ctx)
	if err != nil {
		return [32]byte{}, err
	}

	logger.Debug("block hash: last masterchain block", zap.Uint32("seqno", info.Last.Seqno))
	return [32]byte(info.Last.RootHash), nil
}

// LocalBlockHashSource chains sha256 over the clock for runs without a
// network. Like the block hash it stands in for, it is predictable.
type LocalBlockHashSource struct {
	mu    sync.Mutex
	clock raffle.Clock
	last  [32]byte
}

func NewLocalBlockHashSource(clock raffle.Clock) *LocalBlockHashSource {
	return &LocalBlockHashSource{clock: clock}
}

func (s *LocalBlockHashSource) RecentBlockHash(context.Context) ([32]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, 0, len(s.last)+8)
	buf = append(buf, s.last[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, s.clock.Now())
	s.last = sha256.Sum256(buf)
	return s.last, nil
}
