package semaphore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceAccessCarriesValue(t *testing.T) {
	res := NewResource(2, "shared pool")

	first, err := res.TryAccess()
	require.NoError(t, err)
	assert.Equal(t, "shared pool", first.Value())

	second, err := res.Access()
	require.NoError(t, err)
	assert.Equal(t, "shared pool", second.Value())

	assert.Equal(t, 0, res.Count())
	assert.Equal(t, 2, res.Capacity())

	first.Release()
	second.Release()
	assert.Equal(t, 2, res.Count())
}

func TestResourceTryAccessWhenFull(t *testing.T) {
	res := NewResource(1, "shared pool")

	held, err := res.TryAccess()
	require.NoError(t, err)

	_, err = res.TryAccess()
	assert.ErrorIs(t, err, ErrNoCapacity)

	held.Release()

	guard, err := res.TryAccess()
	require.NoError(t, err)
	guard.Release()
}

func TestResourceAccessAfterShutdown(t *testing.T) {
	res := NewResource(4, "shared pool")

	value, ok := res.Shutdown()
	require.True(t, ok)
	assert.Equal(t, "shared pool", value)

	_, err := res.TryAccess()
	assert.ErrorIs(t, err, ErrShutdown)

	_, err = res.Access()
	assert.ErrorIs(t, err, ErrShutdown)
}

func TestResourceShutdownExtractsOnce(t *testing.T) {
	res := NewResource(1, "shared pool")

	value, ok := res.Shutdown()
	require.True(t, ok)
	assert.Equal(t, "shared pool", value)

	value, ok = res.Shutdown()
	assert.False(t, ok)
	assert.Zero(t, value)
}

func TestResourceConcurrentShutdownCallers(t *testing.T) {
	res := NewResource(2, "shared pool")

	type outcome struct {
		value string
		ok    bool
	}

	const callers = 3
	results := make(chan outcome, callers)
	for i := 0; i < callers; i++ {
		go func() {
			value, ok := res.Shutdown()
			results <- outcome{value: value, ok: ok}
		}()
	}

	extracted := 0
	for i := 0; i < callers; i++ {
		select {
		case r := <-results:
			if r.ok {
				extracted++
				assert.Equal(t, "shared pool", r.value)
			} else {
				assert.Zero(t, r.value)
			}
		case <-time.After(time.Second):
			t.Fatal("Shutdown caller did not return")
		}
	}

	assert.Equal(t, 1, extracted, "exactly one caller extracts the value")
}

func TestResourceShutdownWaitsForGuard(t *testing.T) {
	res := NewResource(1, 42)

	guard, err := res.TryAccess()
	require.NoError(t, err)
	assert.Equal(t, 42, guard.Value())

	extracted := make(chan int, 1)
	go func() {
		value, ok := res.Shutdown()
		if !ok {
			value = -1
		}
		extracted <- value
	}()

	// Acquisitions fail as soon as the drain has begun, while the
	// outstanding guard still pins the shutdown caller.
	require.Eventually(t, func() bool {
		_, err := res.TryAccess()
		return errors.Is(err, ErrShutdown)
	}, time.Second, 5*time.Millisecond)

	select {
	case <-extracted:
		t.Fatal("Shutdown returned with a guard outstanding")
	case <-time.After(50 * time.Millisecond):
	}

	guard.Release()

	select {
	case value := <-extracted:
		assert.Equal(t, 42, value)
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return after the last release")
	}
}

func TestResourceAccessParkedDuringShutdown(t *testing.T) {
	res := NewResource(1, "shared pool")

	held, err := res.TryAccess()
	require.NoError(t, err)

	accessErr := make(chan error, 1)
	go func() {
		guard, err := res.Access()
		if err == nil {
			guard.Release()
		}
		accessErr <- err
	}()

	// Give the acquirer a moment to park on the exhausted semaphore.
	time.Sleep(50 * time.Millisecond)

	extracted := make(chan string, 1)
	go func() {
		value, ok := res.Shutdown()
		if !ok {
			value = ""
		}
		extracted <- value
	}()

	// The parked acquirer is flushed out as soon as the drain begins,
	// even though the outstanding guard still pins the shutdown caller.
	select {
	case err := <-accessErr:
		assert.ErrorIs(t, err, ErrShutdown)
	case <-time.After(time.Second):
		t.Fatal("parked Access did not return after Shutdown began")
	}

	select {
	case <-extracted:
		t.Fatal("Shutdown returned with a guard outstanding")
	case <-time.After(50 * time.Millisecond):
	}

	held.Release()

	select {
	case value := <-extracted:
		assert.Equal(t, "shared pool", value)
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return after the last release")
	}
}

func TestResourceGuardNilRelease(t *testing.T) {
	var guard *ResourceGuard[string]
	guard.Release()
}
