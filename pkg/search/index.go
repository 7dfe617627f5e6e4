package search

import "strings"

// TokenIndex is an inverted index from normalized tokens to the skus of the
// products containing them. It is not safe for concurrent use, callers guard
// it with the catalog lock.
type TokenIndex struct {
	Tokenizer *Tokenizer
	tokens    map[Token]map[string]struct{}
	documents map[string]TokenList
	trie      *Trie
}

func NewTokenIndex(tokenizer *Tokenizer) *TokenIndex {
	return &TokenIndex{
		Tokenizer: tokenizer,
		tokens:    make(map[Token]map[string]struct{}),
		documents: make(map[string]TokenList),
		trie:      NewTrie(),
	}
}

func (i *TokenIndex) Add(sku string, text ...string) {
	i.Remove(sku)
	tokens := make(TokenList, 0, 8)
	for _, txt := range text {
		for _, token := range i.Tokenizer.Tokenize(txt) {
			tokens.AddToken(token)
		}
	}
	for _, token := range tokens {
		ids, ok := i.tokens[token]
		if !ok {
			ids = make(map[string]struct{})
			i.tokens[token] = ids
		}
		ids[sku] = struct{}{}
		i.trie.Insert(string(token))
	}
	i.documents[sku] = tokens
}

func (i *TokenIndex) Remove(sku string) {
	tokens, ok := i.documents[sku]
	if !ok {
		return
	}
	for _, token := range tokens {
		if ids, ok := i.tokens[token]; ok {
			delete(ids, sku)
			if len(ids) == 0 {
				delete(i.tokens, token)
			}
		}
		i.trie.Remove(string(token))
	}
	delete(i.documents, sku)
}

// Match returns the skus matching every token of the query. Each query token
// matches exact index tokens and, to keep partially typed searches useful,
// index tokens it is a prefix of.
func (i *TokenIndex) Match(query string) map[string]struct{} {
	queryTokens := i.Tokenizer.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}
	var result map[string]struct{}
	for _, qt := range queryTokens {
		matching := make(map[string]struct{})
		for token, ids := range i.tokens {
			if token == qt || strings.HasPrefix(string(token), string(qt)) {
				for sku := range ids {
					matching[sku] = struct{}{}
				}
			}
		}
		if result == nil {
			result = matching
			continue
		}
		for sku := range result {
			if _, ok := matching[sku]; !ok {
				delete(result, sku)
			}
		}
	}
	return result
}

// Suggest returns completions of the last word of a partially typed query.
func (i *TokenIndex) Suggest(query string) []Suggestion {
	tokens := i.Tokenizer.Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}
	return i.trie.FindMatches(string(tokens[len(tokens)-1]))
}
