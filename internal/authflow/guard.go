package authflow

import "sync/atomic"

// Guard is a flight flag: it admits at most one Attempt at a time
type Guard struct {
	inProgress atomic.Bool
}

// DefaultGuard is shared by every Attempt that doesn't specify its own Guard
var DefaultGuard = &Guard{}

// InProgress reports whether an attempt currently holds the guard
func (g *Guard) InProgress() bool {
	return g.inProgress.Load()
}

func (g *Guard) tryAcquire() bool {
	return g.inProgress.CompareAndSwap(false, true)
}

func (g *Guard) release() {
	g.inProgress.Store(false)
}

// InProgress reports whether an attempt currently holds DefaultGuard
func InProgress() bool {
	return DefaultGuard.InProgress()
}
