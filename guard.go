package semaphore

import "sync/atomic"

// Guard represents one held unit of a semaphore's capacity. It is
// created only by a successful Access or TryAccess and must not be
// copied; hand the pointer around instead.
//
// The usual pattern releases the unit on every exit path of the
// protected section:
//
//	guard, err := sem.Access()
//	if err != nil {
//		return err
//	}
//	defer guard.Release()
type Guard struct {
	_    noCopy
	st   *state
	done atomic.Bool
}

// Release gives the held unit back, waking one blocked acquirer if any.
// Only the first call has an effect; further calls, and calls on a nil
// Guard, are no-ops, so a deferred Release composes with an explicit
// early one.
func (g *Guard) Release() {
	if g == nil || !g.done.CompareAndSwap(false, true) {
		return
	}
	g.st.release()
}

// noCopy may be added to structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
//
// Note that it must not be embedded, due to the Lock and Unlock methods.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
