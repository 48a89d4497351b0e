package services

import "sync"

// entityLocks serializes mutating ledger operations per entity scope.
// Two concurrent postings against overlapping accounts must not
// interleave balance updates, so each entity gets a single writer.
type entityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEntityLocks() *entityLocks {
	return &entityLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *entityLocks) forEntity(entityID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[entityID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[entityID] = lock
	}
	return lock
}
