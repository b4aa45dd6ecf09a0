package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// roomLocks serializes the conflict-check-then-write section per room.
// Without it two concurrent creates for overlapping intervals can both
// pass the conflict check before either commits. One mutex per room id;
// the map only grows with the number of rooms, so entries are never
// evicted.
type roomLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// lock acquires the mutex for the room and returns its unlock func.
func (l *roomLocks) lock(roomID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
