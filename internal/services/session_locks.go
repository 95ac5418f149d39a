package services

import (
	"sync"

	"github.com/google/uuid"
)

// sessionLocks serializes state-changing operations per session id so a
// submit racing a complete cannot interleave (the store itself does no
// locking). Entries are reference-counted and removed once idle.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*sessionLockEntry
}

type sessionLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{entries: make(map[uuid.UUID]*sessionLockEntry)}
}

func (sl *sessionLocks) Lock(sessionID uuid.UUID) {
	sl.mu.Lock()
	entry, ok := sl.entries[sessionID]
	if !ok {
		entry = &sessionLockEntry{}
		sl.entries[sessionID] = entry
	}
	entry.refs++
	sl.mu.Unlock()
	entry.mu.Lock()
}

func (sl *sessionLocks) Unlock(sessionID uuid.UUID) {
	sl.mu.Lock()
	entry := sl.entries[sessionID]
	entry.refs--
	if entry.refs == 0 {
		delete(sl.entries, sessionID)
	}
	sl.mu.Unlock()
	entry.mu.Unlock()
}
