package keylock

import (
	"sync"
	"testing"
)

func TestLockSerializesSameKey(t *testing.T) {
	locks := New()

	const goroutines = 50
	const iterations = 100

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				unlock := locks.Lock("user:u1")
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*iterations {
		t.Fatalf("counter = %d, want %d", counter, goroutines*iterations)
	}
}

func TestLockKeysAreIndependent(t *testing.T) {
	locks := New()

	unlockA := locks.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("b")
		unlockB()
		close(done)
	}()

	// Holding "a" must not block "b".
	<-done
}

func TestLockReleasesForNextWaiter(t *testing.T) {
	locks := New()

	unlock := locks.Lock("a")
	acquired := make(chan struct{})
	go func() {
		u := locks.Lock("a")
		u()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock acquired while the first was held")
	default:
	}

	unlock()
	<-acquired
}
