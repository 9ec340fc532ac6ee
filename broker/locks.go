package broker

import "sync"

// accountLocks hands out one mutex per account so trades on the same
// account serialize while different accounts proceed independently.
type accountLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func (l *accountLocks) lock(accountID int64) (unlock func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[int64]*sync.Mutex)
	}
	m, ok := l.m[accountID]
	if !ok {
		m = &sync.Mutex{}
		l.m[accountID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
