package filterstate

import (
	"context"
	"slices"
	"sync"

	"github.com/matst80/slask-catalog/pkg/types"
)

// State holds one session's filter fields: search text, category and
// subcategory. Empty string always means "no constraint", fields are never
// left unset. The subcategory is either empty or a member of the current
// option set.
type State struct {
	mu          sync.Mutex
	resolver    *Resolver
	search      string
	category    string
	subCategory string
	pendingSub  string
	options     []string
}

// Snapshot is a consistent copy of the filter fields and the current option
// set, safe to hand to encoders.
type Snapshot struct {
	Search        string   `json:"search"`
	Category      string   `json:"category"`
	SubCategory   string   `json:"subCategory"`
	SubCategories []string `json:"subCategories"`
}

func NewState(source CategorySource) *State {
	return &State{
		resolver: NewResolver(source),
		options:  []string{},
	}
}

func (s *State) SetSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = text
}

// SetCategory selects a category and unconditionally resets the subcategory,
// a prior selection cannot be assumed valid for the new option set. The
// resolver refresh happens for every value including empty.
func (s *State) SetCategory(ctx context.Context, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCategoryLocked(ctx, name)
}

func (s *State) setCategoryLocked(ctx context.Context, name string) {
	s.category = name
	s.subCategory = ""
	s.pendingSub = ""
	s.options = []string{}
	if name == "" {
		// No lookup for the empty category, just supersede anything in flight.
		s.resolver.Invalidate()
		return
	}
	s.resolver.Resolve(ctx, name, s.applyOptions)
}

// SetSubCategory selects a subcategory. Values outside the current option
// set are rejected so the state never references a stale option. Empty is
// always accepted.
func (s *State) SetSubCategory(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" && !slices.Contains(s.options, name) {
		return false
	}
	s.subCategory = name
	s.pendingSub = ""
	return true
}

// Clear resets every field to the empty string. Empty string, not an absent
// value: comparisons downstream never special-case "unset".
func (s *State) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = ""
	s.setCategoryLocked(ctx, "")
}

// SelectCategory is the category badge click on a product card.
func (s *State) SelectCategory(ctx context.Context, p *types.Product) {
	s.SetCategory(ctx, p.Category)
}

// SelectSubCategory is the subcategory badge click. When the product belongs
// to the selected category the subcategory is set directly; its value is
// valid by construction since option sets derive from products. Otherwise
// the category switches first and the subcategory is applied once the new
// option set arrives.
func (s *State) SelectSubCategory(ctx context.Context, p *types.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Category == s.category && s.category != "" {
		s.subCategory = p.SubCategory
		s.pendingSub = ""
		return
	}
	s.setCategoryLocked(ctx, p.Category)
	if p.Category != "" {
		s.pendingSub = p.SubCategory
	}
}

func (s *State) applyOptions(options []string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.resolver.IsLatest(seq) {
		return
	}
	s.options = options
	if s.subCategory != "" && !slices.Contains(options, s.subCategory) {
		s.subCategory = ""
	}
	if s.pendingSub != "" {
		if slices.Contains(options, s.pendingSub) {
			s.subCategory = s.pendingSub
		}
		s.pendingSub = ""
	}
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	options := make([]string, len(s.options))
	copy(options, s.options)
	return Snapshot{
		Search:        s.search,
		Category:      s.category,
		SubCategory:   s.subCategory,
		SubCategories: options,
	}
}
