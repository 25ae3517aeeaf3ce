package raffle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func hashWithSeed(seed ...byte) [32]byte {
	var hash [32]byte
	copy(hash[:], seed)
	return hash
}

func TestSeedFromBlockHash(t *testing.T) {
	assert.Equal(t, uint32(0), SeedFromBlockHash([32]byte{}))
	assert.Equal(t, uint32(1), SeedFromBlockHash(hashWithSeed(1)))
	assert.Equal(t, uint32(0x04030201), SeedFromBlockHash(hashWithSeed(1, 2, 3, 4, 0xff)))
}

func TestSelectWinner(t *testing.T) {
	participants := []AccountID{"alice", "bob", "carol"}

	winner, index := SelectWinner(hashWithSeed(4), participants)
	assert.Equal(t, 1, index)
	assert.Equal(t, AccountID("bob"), winner)

	winner, index = SelectWinner(hashWithSeed(0xff, 0xff, 0xff, 0xff), participants)
	assert.Equal(t, int(uint32(0xffffffff)%3), index)
	assert.Equal(t, participants[index], winner)

	winner, index = SelectWinner(hashWithSeed(9), participants[:1])
	assert.Equal(t, 0, index)
	assert.Equal(t, AccountID("alice"), winner)
}

func TestSelectWinnerWithoutParticipants(t *testing.T) {
	winner, index := SelectWinner(hashWithSeed(1), nil)
	assert.Equal(t, -1, index)
	assert.Empty(t, winner)
}
