package storage

import (
	"fmt"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	initialSize := 10
	store := NewMemoryStore(initialSize)

	t.Run("Set and Get", func(t *testing.T) {
		key := "testKey"
		value := "testValue"

		store.Set(key, value)
		got := store.Get(key)

		if got != value {
			t.Errorf("Get() = %v, want %v", got, value)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		key := "nonExistentKey"
		got := store.Get(key)

		if got != "" {
			t.Errorf("Get() for non-existent key = %v, want empty string", got)
		}
	})

	t.Run("Delete key", func(t *testing.T) {
		key := "keyToDelete"
		value := "valueToDelete"

		store.Set(key, value)
		store.Del(key)
		got := store.Get(key)

		if got != "" {
			t.Errorf("Get() after Del() = %v, want empty string", got)
		}
	})

	t.Run("Overwrite value", func(t *testing.T) {
		key := "sameKey"
		value1 := "firstValue"
		value2 := "secondValue"

		store.Set(key, value1)
		store.Set(key, value2)
		got := store.Get(key)

		if got != value2 {
			t.Errorf("Get() after overwrite = %v, want %v", got, value2)
		}
	})
}

func TestMemoryStoreLen(t *testing.T) {
	store := NewMemoryStore(0)

	if got := store.Len(); got != 0 {
		t.Errorf("Len() of empty store = %v, want 0", got)
	}

	store.Set("a", "1")
	store.Set("b", "2")
	store.Set("a", "3")

	if got := store.Len(); got != 2 {
		t.Errorf("Len() = %v, want 2", got)
	}

	store.Del("a")
	store.Del("missing")

	if got := store.Len(); got != 1 {
		t.Errorf("Len() after Del() = %v, want 1", got)
	}
}

func TestConcurrency(t *testing.T) {
	store := NewMemoryStore(0)

	t.Run("Concurrent access", func(t *testing.T) {
		const goroutines = 100
		const iterations = 100
		done := make(chan bool)
		errors := make(chan error, goroutines)

		for i := 0; i < goroutines; i++ {
			go func(id int) {
				for j := 0; j < iterations; j++ {
					key := fmt.Sprintf("key_%d", id)
					value := fmt.Sprintf("value_%d_%d", id, j)

					// Set value
					store.Set(key, value)

					// Get and verify value
					got := store.Get(key)
					if got != value {
						errors <- fmt.Errorf("goroutine %d: expected value %s, got %s", id, value, got)
						return
					}

					// Delete value
					store.Del(key)

					// Verify deletion
					got = store.Get(key)
					if got != "" {
						errors <- fmt.Errorf("goroutine %d: expected empty value after deletion, got %s", id, got)
						return
					}
				}
				done <- true
			}(i)
		}

		// Wait for all goroutines to complete
		for i := 0; i < goroutines; i++ {
			select {
			case err := <-errors:
				t.Fatalf("Concurrency test failed: %v", err)
			case <-done:
				// Goroutine completed successfully
			}
		}

		if got := store.Len(); got != 0 {
			t.Errorf("Len() after concurrent churn = %v, want 0", got)
		}
	})
}
