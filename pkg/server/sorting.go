package server

import (
	"sort"

	"github.com/matst80/slask-catalog/pkg/types"
)

// SortProducts orders a copy of the matched items. "created" keeps newest
// first and is the default.
func SortProducts(items []*types.Product, by string) []*types.Product {
	ret := make([]*types.Product, len(items))
	copy(ret, items)
	switch by {
	case "price":
		sort.SliceStable(ret, func(i, j int) bool { return ret[i].Price < ret[j].Price })
	case "price_desc":
		sort.SliceStable(ret, func(i, j int) bool { return ret[i].Price > ret[j].Price })
	case "title":
		sort.SliceStable(ret, func(i, j int) bool { return ret[i].Title < ret[j].Title })
	default:
		sort.SliceStable(ret, func(i, j int) bool { return ret[i].Created > ret[j].Created })
	}
	return ret
}

func Page(items []*types.Product, page, pageSize int) []*types.Product {
	start := page * pageSize
	if start >= len(items) {
		return []*types.Product{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}
