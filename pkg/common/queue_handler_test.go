package common

import (
	"sync"
	"testing"
)

func TestQueueHandlerFlush(t *testing.T) {
	var mu sync.Mutex
	got := []int{}
	batches := 0
	q := NewQueueHandler(func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, items...)
		batches++
	}, 2)
	defer q.Close()

	q.Add(1, 2, 3)
	q.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 {
		t.Fatalf("expected 3 items processed, got %d", len(got))
	}
	if batches != 2 {
		t.Errorf("expected 2 batches of chunk size 2, got %d", batches)
	}
	if got[0] != 1 || got[2] != 3 {
		t.Errorf("expected order preserved, got %v", got)
	}
}
