package search

type Trie struct {
	Root *Node
}

type Node struct {
	Children map[rune]*Node
	Hits     int
}

func NewTrie() *Trie {
	return &Trie{
		Root: &Node{
			Children: make(map[rune]*Node),
		},
	}
}

func (t *Trie) Insert(word string) {
	node := t.Root
	for _, r := range word {
		if _, ok := node.Children[r]; !ok {
			node.Children[r] = &Node{
				Children: make(map[rune]*Node),
			}
		}
		node = node.Children[r]
	}
	node.Hits++
}

func (t *Trie) Remove(word string) {
	node := t.Root
	for _, r := range word {
		child, ok := node.Children[r]
		if !ok {
			return
		}
		node = child
	}
	if node.Hits > 0 {
		node.Hits--
	}
}

type Suggestion struct {
	Word string `json:"match"`
	Hits int    `json:"hits"`
}

// FindMatches returns every word under prefix together with how many indexed
// products contain it.
func (t *Trie) FindMatches(prefix string) []Suggestion {
	node := t.Root
	for _, r := range prefix {
		if _, ok := node.Children[r]; !ok {
			return nil
		}
		node = node.Children[r]
	}
	return t.findMatches(node, prefix)
}

func (t *Trie) findMatches(node *Node, prefix string) []Suggestion {
	var matches []Suggestion
	if node.Hits > 0 {
		matches = append(matches, Suggestion{Word: prefix, Hits: node.Hits})
	}
	for r, child := range node.Children {
		matches = append(matches, t.findMatches(child, prefix+string(r))...)
	}
	return matches
}
