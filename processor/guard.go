package processor

import (
	"runtime"
	"sync/atomic"
)

// Guard admits at most one analysis cycle at a time. A frame that finds the
// guard busy is dropped, never queued.
type Guard struct {
	busy atomic.Bool

	admitted atomic.Uint64
	dropped  atomic.Uint64
}

// TryAcquire flips the guard from idle to busy. It returns false, and counts
// a drop, when a cycle is already in flight.
func (g *Guard) TryAcquire() bool {
	if g.busy.CompareAndSwap(false, true) {
		g.admitted.Add(1)
		return true
	}

	g.dropped.Add(1)
	return false
}

// Release puts the guard back to idle.
func (g *Guard) Release() {
	g.busy.Store(false)
}

// Admitted is the number of idle to busy transitions.
func (g *Guard) Admitted() uint64 {
	return g.admitted.Load()
}

// Dropped is the number of frames turned away.
func (g *Guard) Dropped() uint64 {
	return g.dropped.Load()
}

// hold waits for the in-flight cycle to finish and keeps the guard busy
// without counting anything.
func (g *Guard) hold() {
	for !g.busy.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}
