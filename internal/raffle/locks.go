package raffle

import "sync"

// raffleLocks hands out one mutex per raffle id. Raffles are never deleted,
// so neither are their mutexes.
type raffleLocks struct {
	mu    sync.Mutex
	locks map[uint32]*sync.Mutex
}

func (l *raffleLocks) lock(raffleID uint32) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[uint32]*sync.Mutex)
	}
	m, ok := l.locks[raffleID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[raffleID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
