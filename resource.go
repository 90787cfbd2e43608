package semaphore

import "sync"

// Resource couples a semaphore with the value it protects. Acquisitions
// hand the value out through a ResourceGuard, and Shutdown hands it back
// to exactly one caller once every guard has been released, so the owner
// of the drained value knows no holder can still see it.
type Resource[T any] struct {
	sem Semaphore

	// mu orders acquisitions against the extraction in Shutdown: an
	// acquisition that slips in under the read lock is counted before
	// the drain starts waiting.
	mu    sync.RWMutex
	value T
	taken bool
}

// NewResource creates a semaphore of the given capacity around value.
func NewResource[T any](capacity uint, value T) *Resource[T] {
	return &Resource[T]{
		sem:   New(capacity),
		value: value,
	}
}

// TryAccess attempts to take one unit without blocking, returning a
// guard that carries the protected value. It returns ErrNoCapacity when
// all units are held and ErrShutdown once Shutdown has begun.
func (r *Resource[T]) TryAccess() (*ResourceGuard[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.taken {
		return nil, ErrShutdown
	}

	guard, err := r.sem.TryAccess()
	if err != nil {
		return nil, err
	}

	return &ResourceGuard[T]{guard: guard, value: r.value}, nil
}

// Access takes one unit, blocking while the semaphore is exhausted, and
// returns a guard that carries the protected value. The only error is
// ErrShutdown.
func (r *Resource[T]) Access() (*ResourceGuard[T], error) {
	r.mu.RLock()
	if r.taken {
		r.mu.RUnlock()
		return nil, ErrShutdown
	}
	value := r.value
	r.mu.RUnlock()

	// Not held across the park: a blocked acquirer must not keep
	// Shutdown from taking the write lock.
	guard, err := r.sem.Access()
	if err != nil {
		return nil, err
	}

	return &ResourceGuard[T]{guard: guard, value: value}, nil
}

// Shutdown permanently stops the semaphore and blocks until every
// outstanding guard has been released, then reports the protected
// value. Exactly one caller, the first to begin shutting down, receives
// the value and true; all others receive the zero value and false.
func (r *Resource[T]) Shutdown() (T, bool) {
	r.mu.Lock()
	first := !r.taken
	r.taken = true

	var value, zero T
	if first {
		value = r.value
		r.value = zero
	}
	r.mu.Unlock()

	r.sem.Shutdown()

	if !first {
		return zero, false
	}
	return value, true
}

// Count returns a snapshot of the number of free units; see
// Semaphore.Count for the staleness caveat.
func (r *Resource[T]) Count() int {
	return r.sem.Count()
}

// Capacity returns the fixed limit the resource was constructed with.
func (r *Resource[T]) Capacity() int {
	return r.sem.Capacity()
}

// ResourceGuard represents one held unit of a Resource's capacity and
// carries the protected value. It is created only by a successful Access
// or TryAccess and must not be copied.
type ResourceGuard[T any] struct {
	_     noCopy
	guard *Guard
	value T
}

// Value returns the protected value the guard was granted access to.
func (g *ResourceGuard[T]) Value() T {
	return g.value
}

// Release gives the held unit back. Only the first call has an effect;
// further calls, and calls on a nil guard, are no-ops.
func (g *ResourceGuard[T]) Release() {
	if g == nil {
		return
	}
	g.guard.Release()
}
