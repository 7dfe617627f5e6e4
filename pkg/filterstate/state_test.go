package filterstate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matst80/slask-catalog/pkg/types"
)

type mapSource struct {
	subs  map[string][]string
	calls atomic.Int32
	err   error
}

func (m *mapSource) SubCategories(_ context.Context, category string) ([]string, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.subs[category], nil
}

func laptopSource() *mapSource {
	return &mapSource{subs: map[string][]string{
		"Laptops": {"Ultrabooks", "Gaming"},
		"Phones":  {"Android", "iOS"},
	}}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSetCategoryLoadsOptions(t *testing.T) {
	s := NewState(laptopSource())
	s.SetCategory(context.Background(), "Laptops")
	waitFor(t, func() bool { return len(s.Snapshot().SubCategories) == 2 })
	snap := s.Snapshot()
	if snap.SubCategories[0] != "Ultrabooks" || snap.SubCategories[1] != "Gaming" {
		t.Errorf("expected order preserved, got %v", snap.SubCategories)
	}
}

func TestSetCategoryResetsSubCategory(t *testing.T) {
	s := NewState(laptopSource())
	s.SetCategory(context.Background(), "Laptops")
	waitFor(t, func() bool { return len(s.Snapshot().SubCategories) == 2 })
	if !s.SetSubCategory("Gaming") {
		t.Fatal("expected valid subcategory to be accepted")
	}
	s.SetCategory(context.Background(), "Phones")
	if snap := s.Snapshot(); snap.SubCategory != "" {
		t.Errorf("expected subcategory reset on category change, got %q", snap.SubCategory)
	}
}

func TestSetCategoryEmptyIsSynchronous(t *testing.T) {
	src := laptopSource()
	s := NewState(src)
	s.SetCategory(context.Background(), "")
	snap := s.Snapshot()
	if snap.SubCategories == nil || len(snap.SubCategories) != 0 {
		t.Errorf("expected empty option set, got %v", snap.SubCategories)
	}
	if src.calls.Load() != 0 {
		t.Errorf("expected no lookup for empty category, got %d", src.calls.Load())
	}
}

func TestSetSubCategoryRejectsUnknown(t *testing.T) {
	s := NewState(laptopSource())
	s.SetCategory(context.Background(), "Laptops")
	waitFor(t, func() bool { return len(s.Snapshot().SubCategories) == 2 })
	if s.SetSubCategory("Android") {
		t.Error("expected subcategory outside the option set to be rejected")
	}
	if snap := s.Snapshot(); snap.SubCategory != "" {
		t.Errorf("expected state unchanged after rejection, got %q", snap.SubCategory)
	}
}

func TestClear(t *testing.T) {
	s := NewState(laptopSource())
	s.SetSearch("macbook")
	s.SetCategory(context.Background(), "Laptops")
	waitFor(t, func() bool { return len(s.Snapshot().SubCategories) == 2 })
	s.SetSubCategory("Ultrabooks")

	s.Clear(context.Background())
	snap := s.Snapshot()
	if snap.Search != "" || snap.Category != "" || snap.SubCategory != "" {
		t.Errorf("expected all fields empty after clear, got %+v", snap)
	}
	if len(snap.SubCategories) != 0 {
		t.Errorf("expected empty option set after clear, got %v", snap.SubCategories)
	}
}

func TestFailingLookupYieldsEmptyOptions(t *testing.T) {
	src := laptopSource()
	src.err = errors.New("lookup unavailable")
	s := NewState(src)
	s.SetCategory(context.Background(), "Laptops")
	waitFor(t, func() bool { return src.calls.Load() > 0 })
	time.Sleep(20 * time.Millisecond)
	snap := s.Snapshot()
	if snap.Category != "Laptops" {
		t.Errorf("expected category kept on lookup failure, got %q", snap.Category)
	}
	if snap.SubCategories == nil || len(snap.SubCategories) != 0 {
		t.Errorf("expected empty options on failure, got %v", snap.SubCategories)
	}
}

func TestSelectCategoryBadge(t *testing.T) {
	s := NewState(laptopSource())
	p := &types.Product{Sku: "1", Category: "Laptops", SubCategory: "Gaming"}
	s.SelectCategory(context.Background(), p)
	snap := s.Snapshot()
	if snap.Category != "Laptops" || snap.SubCategory != "" {
		t.Errorf("expected category set and subcategory reset, got %+v", snap)
	}
}

func TestSelectSubCategoryBadgeSameCategory(t *testing.T) {
	s := NewState(laptopSource())
	s.SetCategory(context.Background(), "Laptops")
	waitFor(t, func() bool { return len(s.Snapshot().SubCategories) == 2 })

	p := &types.Product{Sku: "1", Category: "Laptops", SubCategory: "Gaming"}
	s.SelectSubCategory(context.Background(), p)
	snap := s.Snapshot()
	if snap.Category != "Laptops" || snap.SubCategory != "Gaming" {
		t.Errorf("expected only subcategory to change, got %+v", snap)
	}
}

func TestSelectSubCategoryBadgeSwitchesCategory(t *testing.T) {
	s := NewState(laptopSource())
	p := &types.Product{Sku: "3", Category: "Phones", SubCategory: "Android"}
	s.SelectSubCategory(context.Background(), p)
	waitFor(t, func() bool {
		snap := s.Snapshot()
		return snap.Category == "Phones" && snap.SubCategory == "Android"
	})
}

type blockingSource struct {
	gates map[string]chan []string
}

func (b *blockingSource) SubCategories(_ context.Context, category string) ([]string, error) {
	return <-b.gates[category], nil
}

func TestStaleLookupDiscarded(t *testing.T) {
	src := &blockingSource{gates: map[string]chan []string{
		"Laptops": make(chan []string, 1),
		"Phones":  make(chan []string, 1),
	}}
	s := NewState(src)
	s.SetCategory(context.Background(), "Laptops")
	s.SetCategory(context.Background(), "Phones")

	// Newer lookup completes first, the older one afterwards.
	src.gates["Phones"] <- []string{"Android", "iOS"}
	waitFor(t, func() bool { return len(s.Snapshot().SubCategories) == 2 })
	src.gates["Laptops"] <- []string{"Ultrabooks", "Gaming"}
	time.Sleep(50 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Category != "Phones" {
		t.Fatalf("expected category Phones, got %q", snap.Category)
	}
	if len(snap.SubCategories) != 2 || snap.SubCategories[0] != "Android" {
		t.Errorf("expected stale Laptops options discarded, got %v", snap.SubCategories)
	}
}

func TestStoreEviction(t *testing.T) {
	store := NewStore(laptopSource(), time.Minute)
	defer store.Close()
	store.Get(1)
	store.Get(2)
	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
	store.evictIdle(time.Now().Add(2 * time.Minute))
	if store.Len() != 0 {
		t.Errorf("expected idle sessions evicted, got %d", store.Len())
	}
}

func TestStoreReturnsSameState(t *testing.T) {
	store := NewStore(laptopSource(), time.Minute)
	defer store.Close()
	a := store.Get(7)
	a.SetSearch("macbook")
	b := store.Get(7)
	if b.Snapshot().Search != "macbook" {
		t.Error("expected same state for same session id")
	}
}
