package raffle

import "encoding/binary"

// SeedFromBlockHash reads the first four bytes of a block hash as a
// little-endian uint32.
func SeedFromBlockHash(hash [32]byte) uint32 {
	return binary.LittleEndian.Uint32(hash[:4])
}

// SelectWinner picks participants[seed mod len(participants)].
//
// The seed comes from a recent block hash, which anyone able to observe or
// influence block production can predict. This is not a fair draw against
// such an adversary.
func SelectWinner(hash [32]byte, participants []AccountID) (AccountID, int) {
	if len(participants) == 0 {
		return "", -1
	}
	index := int(SeedFromBlockHash(hash) % uint32(len(participants)))
	return participants[index], index
}
