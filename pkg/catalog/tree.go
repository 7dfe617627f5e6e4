package catalog

// CategoryTree keeps the category -> subcategory option sets in first-seen
// order. Counts track how many live products reference each node so options
// disappear when their last product does.
type CategoryTree struct {
	categories []string
	catCounts  map[string]int
	subs       map[string][]string
	subCounts  map[string]map[string]int
}

func NewCategoryTree() *CategoryTree {
	return &CategoryTree{
		categories: []string{},
		catCounts:  map[string]int{},
		subs:       map[string][]string{},
		subCounts:  map[string]map[string]int{},
	}
}

func (t *CategoryTree) Add(category, subCategory string) {
	if category == "" {
		return
	}
	if t.catCounts[category] == 0 {
		t.categories = append(t.categories, category)
	}
	t.catCounts[category]++
	if subCategory == "" {
		return
	}
	counts, ok := t.subCounts[category]
	if !ok {
		counts = map[string]int{}
		t.subCounts[category] = counts
	}
	if counts[subCategory] == 0 {
		t.subs[category] = append(t.subs[category], subCategory)
	}
	counts[subCategory]++
}

func (t *CategoryTree) Remove(category, subCategory string) {
	if category == "" {
		return
	}
	t.catCounts[category]--
	if t.catCounts[category] <= 0 {
		delete(t.catCounts, category)
		t.categories = remove(t.categories, category)
		delete(t.subs, category)
		delete(t.subCounts, category)
		return
	}
	if subCategory == "" {
		return
	}
	if counts, ok := t.subCounts[category]; ok {
		counts[subCategory]--
		if counts[subCategory] <= 0 {
			delete(counts, subCategory)
			t.subs[category] = remove(t.subs[category], subCategory)
		}
	}
}

// Categories returns the top level categories in first-seen order.
func (t *CategoryTree) Categories() []string {
	ret := make([]string, len(t.categories))
	copy(ret, t.categories)
	return ret
}

// SubCategories returns the option set scoped to one category. Unknown or
// empty categories yield an empty, non-nil slice.
func (t *CategoryTree) SubCategories(category string) []string {
	subs, ok := t.subs[category]
	if !ok {
		return []string{}
	}
	ret := make([]string, len(subs))
	copy(ret, subs)
	return ret
}

func remove(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
