package services

import (
	"sync"
	"testing"
	"time"
)

func TestKeyLock_SerialisesSameKey(t *testing.T) {
	k := newKeyLock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(pairKey("USR-1", "course-1"))
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("expected at most one holder at a time, saw %d", maxSeen)
	}
	if k.size() != 0 {
		t.Fatalf("expected lock entries to be released, %d left", k.size())
	}
}

func TestKeyLock_IndependentKeys(t *testing.T) {
	k := newKeyLock()
	unlockA := k.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := k.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key should not block")
	}
}

func TestPairKey_NoCollisions(t *testing.T) {
	if pairKey("ab", "c") == pairKey("a", "bc") {
		t.Fatal("pair keys must not collide across the separator")
	}
}

func TestPassed(t *testing.T) {
	tests := []struct {
		score, total int
		threshold    float64
		want         bool
	}{
		{1, 1, 0.7, true},
		{0, 1, 0.7, false},
		{7, 10, 0.7, true},
		{6, 10, 0.7, false},
		{10, 10, 1, true},
		{9, 10, 1, false},
		{0, 0, 0.7, false},
	}
	for _, tt := range tests {
		if got := Passed(tt.score, tt.total, tt.threshold); got != tt.want {
			t.Errorf("Passed(%d, %d, %v) = %v, want %v", tt.score, tt.total, tt.threshold, got, tt.want)
		}
	}
}
