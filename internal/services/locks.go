package services

import "sync"

// entityLocks hands out one mutex per key so state-changing operations on the
// same entity serialize while unrelated entities proceed in parallel. The
// engine runs as a single logical scheduler process; cross-instance
// coordination is out of scope here.
type entityLocks struct {
	mus sync.Map
}

func (l *entityLocks) lock(key string) func() {
	v, _ := l.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
