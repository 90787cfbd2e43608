// Package semaphore provides an atomic counting semaphore that controls
// access to a common resource shared by many goroutines.
//
// Up to a fixed number of holders proceed concurrently while the rest
// wait. A successful acquisition returns a Guard which gives the unit
// back exactly once, typically via defer. The counter is maintained with
// lock-free atomic operations; the internal mutex and condition variable
// are entered only when a caller actually has to block, that is on an
// exhausted Access or during a Shutdown drain.
//
// A Semaphore value is a handle to shared state. Handles may be copied
// with Clone and used concurrently from any goroutine; all of them
// operate on the same counter. Use NewResource to put a concrete value
// behind the semaphore and get it back after shutdown.
package semaphore

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrShutdown is returned by Access and TryAccess once Shutdown has
	// begun on the semaphore. It is terminal: no later call can succeed.
	ErrShutdown = errors.New("semaphore has been shut down")

	// ErrNoCapacity is returned by TryAccess when every unit is held.
	// It is an expected outcome rather than a failure; callers select on
	// it with errors.Is and retry or back off.
	ErrNoCapacity = errors.New("semaphore has no free capacity")
)

// word layout:
//
//	bit 62:    shutdown flag, set once by Shutdown, never cleared
//	bits 0-61: free units, 0..capacity
//
// Both live in one atomic word so that a single CAS path decides
// whether an acquisition succeeds or why it fails: a decrement can
// never slip in past a concurrent Shutdown once the flag is up.
const (
	downBit   = int64(1) << 62
	countMask = downBit - 1
)

// Semaphore is a handle to a counting semaphore. The zero value is not
// usable; construct one with New. Copies of a handle share the counter.
type Semaphore struct {
	st *state
}

type state struct {
	word     atomic.Int64
	capacity int64

	// sleepers counts goroutines parked on cond, blocked acquirers and
	// shutdown drainers alike. Release skips the lock entirely when it
	// reads zero here.
	sleepers atomic.Int64

	mu   sync.Mutex
	cond *sync.Cond
}

// New creates a semaphore that admits up to capacity concurrent holders.
// A capacity of zero is legal: every TryAccess reports ErrNoCapacity and
// every Access blocks until Shutdown fails it.
func New(capacity uint) Semaphore {
	if uint64(capacity) > uint64(countMask) {
		panic("semaphore: capacity out of range")
	}

	st := &state{capacity: int64(capacity)}
	st.word.Store(int64(capacity))
	st.cond = sync.NewCond(&st.mu)

	return Semaphore{st: st}
}

// Clone returns a new handle sharing this semaphore's state. Plain
// assignment of a Semaphore value has the same effect; Clone exists to
// make the hand-off to another goroutine explicit at the call site.
func (s Semaphore) Clone() Semaphore {
	return s
}

// TryAccess attempts to take one unit without blocking.
//
// On success it returns a Guard whose Release gives the unit back. It
// returns ErrNoCapacity when all units are held and ErrShutdown once
// Shutdown has begun.
func (s Semaphore) TryAccess() (*Guard, error) {
	if err := s.st.tryAcquire(); err != nil {
		return nil, err
	}
	return &Guard{st: s.st}, nil
}

// Access takes one unit, blocking while the semaphore is exhausted.
//
// The only error is ErrShutdown: a blocked Access is woken and failed by
// a concurrent Shutdown instead of waiting forever. A wakeup does not
// reserve a unit, so after each one the acquisition is retried and any
// other caller may win the race; no wakeup order is guaranteed.
func (s Semaphore) Access() (*Guard, error) {
	for {
		switch err := s.st.tryAcquire(); {
		case err == nil:
			return &Guard{st: s.st}, nil
		case errors.Is(err, ErrShutdown):
			return nil, err
		}

		if err := s.st.park(); err != nil {
			return nil, err
		}
	}
}

// Shutdown permanently stops the semaphore and blocks until every
// outstanding Guard has been released. Blocked Access calls are woken
// and fail with ErrShutdown; subsequent acquisitions fail the same way.
// Calling Shutdown again is safe and returns once the first drain is
// complete.
func (s Semaphore) Shutdown() {
	s.st.shutdown()
}

// Count returns a snapshot of the number of free units. The value may be
// stale by the time it is observed; it is a diagnostic, not a basis for
// control decisions.
func (s Semaphore) Count() int {
	return int(s.st.word.Load() & countMask)
}

// Capacity returns the fixed limit the semaphore was constructed with.
func (s Semaphore) Capacity() int {
	return int(s.st.capacity)
}

// tryAcquire is the lock-free fast path: a CAS retry loop that either
// takes one free unit or reports why it cannot.
func (s *state) tryAcquire() error {
	for {
		w := s.word.Load()
		if w&downBit != 0 {
			return ErrShutdown
		}
		if w == 0 {
			return ErrNoCapacity
		}
		if s.word.CompareAndSwap(w, w-1) {
			return nil
		}
	}
}

// release returns one unit and wakes a sleeper if anyone is parked. The
// release that brings the count back to capacity while shutdown is
// pending wakes every drainer instead of a single waiter.
func (s *state) release() {
	w := s.word.Add(1)
	if s.sleepers.Load() == 0 {
		return
	}

	s.mu.Lock()
	if w&downBit != 0 && w&countMask == s.capacity {
		s.cond.Broadcast()
	} else {
		s.cond.Signal()
	}
	s.mu.Unlock()
}

// park blocks the caller until a unit may be free or shutdown begins.
// The free-unit check runs again after the sleeper is registered, so a
// release that missed the registration is still observed and the wakeup
// cannot be lost.
func (s *state) park() error {
	s.mu.Lock()
	s.sleepers.Add(1)

	var w int64
	for {
		w = s.word.Load()
		if w&downBit != 0 || w&countMask > 0 {
			break
		}
		s.cond.Wait()
	}

	s.sleepers.Add(-1)
	s.mu.Unlock()

	if w&downBit != 0 {
		return ErrShutdown
	}
	return nil
}

func (s *state) shutdown() {
	s.word.Or(downBit)
	drained := downBit | s.capacity

	s.mu.Lock()
	// Flush parked acquirers; they observe the flag and fail.
	s.cond.Broadcast()

	s.sleepers.Add(1)
	for s.word.Load() != drained {
		s.cond.Wait()
	}
	s.sleepers.Add(-1)
	s.mu.Unlock()
}
