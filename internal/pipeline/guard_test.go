package pipeline

import (
	"sync"
	"testing"
)

func TestGuardSingleAcquire(t *testing.T) {
	var g guard

	if !g.TryAcquire() {
		t.Fatal("first TryAcquire() = false, want true")
	}
	if g.TryAcquire() {
		t.Error("second TryAcquire() = true, want false while held")
	}

	g.Release()

	if !g.TryAcquire() {
		t.Error("TryAcquire() after Release() = false, want true")
	}
}

func TestGuardConcurrentAcquire(t *testing.T) {
	var g guard
	const goroutines = 16

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire() {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("concurrent winners = %d, want exactly 1", winners)
	}
}
