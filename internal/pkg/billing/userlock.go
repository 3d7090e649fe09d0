package billing

import "sync"

// userLocks serializes subscription mutations per user so a checkout
// finalization and a reconciliation sweep touching the same row cannot race.
type userLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uint]*sync.Mutex)}
}

// sharedUserLocks is process-wide so services built per request still
// serialize against the scheduler's sweep service.
var sharedUserLocks = newUserLocks()

func (ul *userLocks) lock(userID uint) func() {
	ul.mu.Lock()
	m, ok := ul.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		ul.locks[userID] = m
	}
	ul.mu.Unlock()

	m.Lock()
	return m.Unlock
}
