package memory

import "sync"

// SessionLockRegistry serializes turns within one session. Turns across
// different sessions stay fully parallel. Entries are never evicted while a
// lock may be held, so the registry uses a plain sync.Map rather than an
// expiring cache; a mutex is two words and sessions number in the thousands,
// not millions.
type SessionLockRegistry struct {
	locks sync.Map // session key -> *sync.Mutex
}

func NewSessionLockRegistry() *SessionLockRegistry {
	return &SessionLockRegistry{}
}

// Lock acquires the mutex for the session and returns the unlock function.
func (r *SessionLockRegistry) Lock(sessionKey string) func() {
	mu, _ := r.locks.LoadOrStore(sessionKey, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
