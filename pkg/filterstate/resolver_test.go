package filterstate

import (
	"context"
	"sync/atomic"
	"testing"
)

type countingSource struct {
	calls atomic.Int32
	gate  chan struct{}
	subs  map[string][]string
}

func (c *countingSource) SubCategories(ctx context.Context, category string) ([]string, error) {
	c.calls.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	return c.subs[category], nil
}

func TestResolveEmptyCategoryIsSynchronous(t *testing.T) {
	src := &countingSource{}
	r := NewResolver(src)

	var got []string
	r.Resolve(context.Background(), "", func(options []string, seq uint64) {
		got = options
	})

	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil option set, got %v", got)
	}
	if n := src.calls.Load(); n != 0 {
		t.Errorf("expected no source calls for empty category, got %d", n)
	}
}

func TestResolveDiscardsSupersededLookup(t *testing.T) {
	src := &countingSource{
		gate: make(chan struct{}),
		subs: map[string][]string{"Laptops": {"Ultrabooks"}},
	}
	r := NewResolver(src)

	applied := make(chan []string, 2)
	r.Resolve(context.Background(), "Laptops", func(options []string, seq uint64) {
		applied <- options
	})
	r.Invalidate()
	close(src.gate)

	r.Resolve(context.Background(), "Laptops", func(options []string, seq uint64) {
		applied <- options
	})

	got := <-applied
	if len(got) != 1 || got[0] != "Ultrabooks" {
		t.Errorf("expected latest lookup to apply, got %v", got)
	}
	select {
	case extra := <-applied:
		t.Errorf("superseded lookup applied anyway: %v", extra)
	default:
	}
}
