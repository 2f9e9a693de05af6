package resync

import (
	"sync"
	"sync/atomic"
)

// Once is similar to sync.Once but can be reset.
// Useful for lazy-loaded singletons that must be recreated between unit tests.
type Once struct {
	done uint32
	m    sync.Mutex
}

// Do calls the function f if and only if Do has not been invoked
// since the creation or the last call to Reset.
func (o *Once) Do(f func()) {
	if atomic.LoadUint32(&o.done) == 1 {
		return
	}
	o.m.Lock()
	defer o.m.Unlock()
	if o.done == 0 {
		defer atomic.StoreUint32(&o.done, 1)
		f()
	}
}

// Reset forgets any previous call to Do.
func (o *Once) Reset() {
	o.m.Lock()
	defer o.m.Unlock()
	atomic.StoreUint32(&o.done, 0)
}
