package catalog

import (
	"context"
	"sync"

	"github.com/matst80/slask-catalog/pkg/search"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	totalProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskcatalog_products_total",
		Help: "The total number of products in the catalog",
	})
)

// ChangeHandler is notified after catalog mutations, outside the catalog
// lock. The rabbit master fan-out implements it; nil disables notification.
type ChangeHandler interface {
	ProductsUpserted(items []*types.Product)
	ProductDeleted(sku string)
}

// Catalog is the in-memory product index. All exported methods are safe for
// concurrent use.
type Catalog struct {
	mu            sync.RWMutex
	items         map[string]*types.Product
	order         []string
	tree          *CategoryTree
	search        *search.TokenIndex
	ChangeHandler ChangeHandler
}

func NewCatalog() *Catalog {
	return &Catalog{
		items:  map[string]*types.Product{},
		order:  []string{},
		tree:   NewCategoryTree(),
		search: search.NewTokenIndex(&search.Tokenizer{MaxTokens: 128}),
	}
}

// Upsert normalizes and indexes the given products. This is the single data
// boundary where image lists get coerced to empty slices.
func (c *Catalog) Upsert(items ...*types.Product) {
	if len(items) == 0 {
		return
	}
	c.mu.Lock()
	for _, item := range items {
		if item.Sku == "" {
			continue
		}
		item.Normalize()
		prev, exists := c.items[item.Sku]
		if exists {
			item.Created = prev.Created
		} else {
			c.order = append(c.order, item.Sku)
		}
		c.items[item.Sku] = item
		// Only live items hold tree and search references, so a soft
		// deleted prev must not be removed again.
		prevLive := exists && !prev.Deleted
		if item.Deleted {
			if prevLive {
				c.tree.Remove(prev.Category, prev.SubCategory)
				c.search.Remove(item.Sku)
			}
			continue
		}
		if !prevLive {
			c.tree.Add(item.Category, item.SubCategory)
		} else if prev.Category != item.Category || prev.SubCategory != item.SubCategory {
			// Add before remove so an unchanged category keeps its
			// first-seen position when the subcategory moves.
			c.tree.Add(item.Category, item.SubCategory)
			c.tree.Remove(prev.Category, prev.SubCategory)
		}
		c.search.Add(item.Sku, item.SearchText()...)
	}
	totalProducts.Set(float64(len(c.items)))
	c.mu.Unlock()
	if c.ChangeHandler != nil {
		c.ChangeHandler.ProductsUpserted(items)
	}
}

// Delete removes a product entirely. Unknown skus are a no-op.
func (c *Catalog) Delete(sku string) {
	c.mu.Lock()
	item, ok := c.items[sku]
	if ok {
		if !item.Deleted {
			c.tree.Remove(item.Category, item.SubCategory)
			c.search.Remove(sku)
		}
		delete(c.items, sku)
		for i, s := range c.order {
			if s == sku {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	totalProducts.Set(float64(len(c.items)))
	c.mu.Unlock()
	if ok && c.ChangeHandler != nil {
		c.ChangeHandler.ProductDeleted(sku)
	}
}

// Get looks a product up by its sku, the only detail-page key.
func (c *Catalog) Get(sku string) (*types.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[sku]
	if !ok || item.Deleted {
		return nil, false
	}
	return item, true
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Categories returns all top level categories in first-seen order.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree.Categories()
}

// SubCategories implements filterstate.CategorySource. An empty category
// never reaches the tree, the resolver short-circuits it, but the guard is
// kept so direct api calls behave the same.
func (c *Catalog) SubCategories(_ context.Context, category string) ([]string, error) {
	if category == "" {
		return []string{}, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree.SubCategories(category), nil
}

// Match applies the three filter fields over the full product set. Empty
// fields impose no constraint. Results keep catalog insertion order.
func (c *Catalog) Match(query, category, subCategory string) []*types.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var searchHits map[string]struct{}
	if query != "" {
		searchHits = c.search.Match(query)
	}

	ret := make([]*types.Product, 0, len(c.order))
	for _, sku := range c.order {
		item := c.items[sku]
		if item.Deleted {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		if subCategory != "" && item.SubCategory != subCategory {
			continue
		}
		if query != "" {
			if _, ok := searchHits[sku]; !ok {
				continue
			}
		}
		ret = append(ret, item)
	}
	return ret
}

// All streams every product, including soft deleted ones, for persistence.
func (c *Catalog) All(apply func(*types.Product)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, sku := range c.order {
		apply(c.items[sku])
	}
}

// Suggest completes the last word of a partially typed query.
func (c *Catalog) Suggest(query string) []search.Suggestion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.search.Suggest(query)
}
