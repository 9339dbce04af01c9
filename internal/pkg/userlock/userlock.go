package userlock

import "sync"

// Locker serializes timer mutations per user. Two concurrent requests for the
// same user (double-click on start, manual stop racing a QR exit) must not both
// observe the same timer state; everything is read-modify-write underneath.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock acquires the mutex for userID, creating it on first use.
func (l *Locker) Lock(userID string) {
	l.mu.Lock()
	e, ok := l.locks[userID]
	if !ok {
		e = &entry{}
		l.locks[userID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for userID and drops it once nobody is waiting.
func (l *Locker) Unlock(userID string) {
	l.mu.Lock()
	e, ok := l.locks[userID]
	if ok {
		e.refs--
		if e.refs == 0 {
			delete(l.locks, userID)
		}
	}
	l.mu.Unlock()

	if ok {
		e.mu.Unlock()
	}
}
