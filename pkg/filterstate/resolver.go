package filterstate

import (
	"context"
	"log"
	"sync/atomic"
)

// CategorySource answers which subcategories are valid for a category. The
// catalog implements it locally, remote lookups can implement it too.
type CategorySource interface {
	SubCategories(ctx context.Context, category string) ([]string, error)
}

// Resolver maps a selected category to its subcategory option set. Every
// lookup carries a sequence number; completions for superseded lookups are
// discarded so a slow response can never overwrite a newer one.
type Resolver struct {
	source CategorySource
	seq    atomic.Uint64
}

func NewResolver(source CategorySource) *Resolver {
	return &Resolver{source: source}
}

// Resolve produces the option set for category. An empty category applies an
// empty set synchronously without hitting the source; anything else issues
// one asynchronous lookup. Failed or empty lookups apply an empty set, they
// never surface as errors.
func (r *Resolver) Resolve(ctx context.Context, category string, apply func(options []string, seq uint64)) {
	seq := r.seq.Add(1)
	if category == "" {
		apply([]string{}, seq)
		return
	}
	go func() {
		options, err := r.source.SubCategories(ctx, category)
		if err != nil {
			log.Printf("subcategory lookup for %q failed: %v", category, err)
			options = nil
		}
		if options == nil {
			options = []string{}
		}
		if !r.IsLatest(seq) {
			return
		}
		apply(options, seq)
	}()
}

// Invalidate supersedes any lookup still in flight without issuing a new one.
func (r *Resolver) Invalidate() {
	r.seq.Add(1)
}

// IsLatest reports whether seq belongs to the most recently issued lookup.
// Callers re-check it under their own lock before applying options.
func (r *Resolver) IsLatest(seq uint64) bool {
	return r.seq.Load() == seq
}
